package event

import (
	"encoding/json"
	"time"
)

// TopicTransferSubmitted 默认主题, 可通过 kafka.topic 覆盖
const TopicTransferSubmitted = "wallet_events_transfer"

// TransferSubmittedEvent 转账广播成功事件
// Key: From, 保证同一发送方的事件有序
type TransferSubmittedEvent struct {
	TxID      string `json:"tx_id"`
	Hash      string `json:"hash"`
	From      string `json:"from"`
	To        string `json:"to"`
	Amount    string `json:"amount"` // 最小单位整数
	Nonce     uint64 `json:"nonce"`
	Scheme    string `json:"scheme"`
	Timestamp int64  `json:"timestamp"`
}

func NewTransferSubmitted(txID, hash, from, to, amount string, nonce uint64, scheme string) TransferSubmittedEvent {
	return TransferSubmittedEvent{
		TxID:      txID,
		Hash:      hash,
		From:      from,
		To:        to,
		Amount:    amount,
		Nonce:     nonce,
		Scheme:    scheme,
		Timestamp: time.Now().Unix(),
	}
}

func (e TransferSubmittedEvent) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
