package txbuilder

import (
	"context"
	"sync/atomic"

	"dot-wallet/pkg/chain"
	"dot-wallet/pkg/errno"

	"go.uber.org/zap"
)

// DeferredSend 一次性广播能力, 持有已签名交易的字节
// 第一次 Send 成功后再次调用返回 ErrAlreadySent; 广播失败会恢复为可发送
type DeferredSend struct {
	client chain.Client
	raw    []byte
	txID   string
	sent   atomic.Bool
	log    *zap.Logger
}

func newDeferredSend(client chain.Client, raw []byte, txID string, log *zap.Logger) *DeferredSend {
	return &DeferredSend{client: client, raw: raw, txID: txID, log: log}
}

func (d *DeferredSend) TxID() string {
	return d.txID
}

// Sent 是否已发送 (或正在发送)
func (d *DeferredSend) Sent() bool {
	return d.sent.Load()
}

// Send 广播交易并返回节点给出的交易哈希
func (d *DeferredSend) Send(ctx context.Context) (string, error) {
	if !d.sent.CompareAndSwap(false, true) {
		return "", errno.ErrAlreadySent
	}

	hash, err := d.client.Broadcast(ctx, d.raw)
	if err != nil {
		d.sent.Store(false)
		return "", ensure(err, errno.ErrBroadcastFailed)
	}
	if hash != d.txID {
		d.log.Warn("broadcast hash differs from local tx id", zap.String("txId", d.txID), zap.String("hash", hash))
	}
	return hash, nil
}
