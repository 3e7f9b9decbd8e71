// Package txbuilder builds, signs and optionally submits native balance
// transfers.
//
// The balance precheck is advisory: it reads balance and fee before signing,
// and nothing stops another transaction from draining the account before the
// broadcast lands. Concurrent transfers from the same sender can also read the
// same nonce; callers that need ordering must serialize per sender.
package txbuilder

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"dot-wallet/pkg/chain"
	"dot-wallet/pkg/errno"
	"dot-wallet/pkg/extrinsic"
	"dot-wallet/pkg/keyring"
	"dot-wallet/pkg/logger"
	"dot-wallet/pkg/ss58"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"
)

// Config 交易编码参数
type Config struct {
	// Format 发送方地址格式, 用于查询 nonce / 余额
	Format       ss58.Format
	PalletIndex  uint8
	CallIndex    uint8
	MetadataHash bool
	Tip          *big.Int
}

// PolkadotConfig Balances(5).transfer_keep_alive(3)
func PolkadotConfig() Config {
	return Config{Format: ss58.FormatPolkadot, PalletIndex: 5, CallIndex: 3}
}

// ConfigForFormat 按网络选择 Balances pallet 序号; 42 按 Westend 处理
// 未知网络返回 false, 需调用方显式指定
func ConfigForFormat(format ss58.Format) (Config, bool) {
	switch format {
	case ss58.FormatPolkadot:
		return PolkadotConfig(), true
	case ss58.FormatKusama, ss58.FormatSubstrate:
		return Config{Format: format, PalletIndex: 4, CallIndex: 3}, true
	}
	return Config{Format: format, CallIndex: 3}, false
}

// Options 默认均为 false: 不检查余额, 不立即广播
type Options struct {
	CheckBalance bool
	Send         bool
}

// InsufficientBalanceError 余额预检失败
type InsufficientBalanceError struct {
	Address string
	Balance *big.Int
	Fee     *big.Int
	Amount  *big.Int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("%s: %s has %s, needs %s + fee %s", errno.ErrInsufficientBalance.Message, e.Address, e.Balance, e.Amount, e.Fee)
}

func (e *InsufficientBalanceError) Unwrap() error {
	return errno.ErrInsufficientBalance
}

// SignedTransfer 签名后的转账
type SignedTransfer struct {
	TxID   string  `json:"txId"`
	TxData *TxData `json:"txData"`
	TxHex  string  `json:"txHex"`
	// Hash 广播返回的哈希, 仅 Send=true 时有值
	Hash string `json:"hash,omitempty"`
	// Deferred 仅 Send=false 时非空
	Deferred *DeferredSend `json:"-"`
}

// TxData 交易的可读形式
type TxData struct {
	From               string `json:"from"`
	To                 string `json:"to"`
	Amount             string `json:"amount"`
	Nonce              uint64 `json:"nonce"`
	Tip                string `json:"tip"`
	Era                string `json:"era"`
	Pallet             uint8  `json:"pallet"`
	Call               uint8  `json:"call"`
	Scheme             string `json:"scheme"`
	Signature          string `json:"signature"`
	SpecVersion        uint32 `json:"specVersion"`
	TransactionVersion uint32 `json:"transactionVersion"`
	GenesisHash        string `json:"genesisHash"`
}

type Builder struct {
	client chain.Client
	cfg    Config
	log    *zap.Logger
}

func New(client chain.Client, cfg Config) *Builder {
	return &Builder{
		client: client,
		cfg:    cfg,
		log:    logger.Named("txbuilder"),
	}
}

// Build 构建并签名一笔转账; amount 为最小单位的十进制整数字符串
func (b *Builder) Build(ctx context.Context, kp keyring.Keypair, to string, amount string, opts Options) (*SignedTransfer, error) {
	// 0. 参数校验
	_, dest, err := ss58.Decode(to)
	if err != nil {
		return nil, err
	}
	value, err := chain.ParsePlanck(amount)
	if err != nil {
		return nil, err
	}
	from, err := kp.Address(b.cfg.Format)
	if err != nil {
		return nil, err
	}

	call, err := extrinsic.TransferCall{
		PalletIndex: b.cfg.PalletIndex,
		CallIndex:   b.cfg.CallIndex,
		Dest:        dest,
		Amount:      value,
	}.Encode()
	if err != nil {
		return nil, err
	}

	// 1. nonce
	nonce, err := b.client.Nonce(ctx, from)
	if err != nil {
		return nil, ensure(err, errno.ErrChainUnavailable)
	}
	extra := extrinsic.Extra{Nonce: nonce, Tip: b.tip(), MetadataHash: b.cfg.MetadataHash}

	// 2. 余额预检 (不签名, 用占位签名估算手续费)
	if opts.CheckBalance {
		if err := b.checkBalance(ctx, kp, from, call, extra, value); err != nil {
			return nil, err
		}
	}

	// 3. 签名
	info, err := b.client.RuntimeInfo(ctx)
	if err != nil {
		return nil, ensure(err, errno.ErrChainUnavailable)
	}
	add := extrinsic.Additional{
		SpecVersion: info.SpecVersion,
		TxVersion:   info.TransactionVersion,
		GenesisHash: info.GenesisHash,
		BlockHash:   info.GenesisHash,
	}
	payload, err := extrinsic.SigningPayload(call, extra, add)
	if err != nil {
		return nil, err
	}
	sig, err := kp.Sign(payload)
	if err != nil {
		return nil, ensure(err, errno.ErrSigningFailed)
	}
	raw, err := extrinsic.EncodeSigned(kp.PublicKey(), extrinsic.Signature{Variant: kp.Scheme().SignatureVariant(), Bytes: sig}, call, extra)
	if err != nil {
		return nil, err
	}

	st := &SignedTransfer{
		TxID:  extrinsic.Hash(raw),
		TxHex: hexutil.Encode(raw),
		TxData: &TxData{
			From:               from,
			To:                 to,
			Amount:             value.String(),
			Nonce:              nonce,
			Tip:                extra.Tip.String(),
			Era:                "immortal",
			Pallet:             b.cfg.PalletIndex,
			Call:               b.cfg.CallIndex,
			Scheme:             string(kp.Scheme()),
			Signature:          hexutil.Encode(sig),
			SpecVersion:        info.SpecVersion,
			TransactionVersion: info.TransactionVersion,
			GenesisHash:        info.GenesisHash.Hex(),
		},
	}
	b.log.Debug("transfer signed", zap.String("txId", st.TxID), zap.String("from", from), zap.Uint64("nonce", nonce))

	// 4. 立即广播 / 5. 返回延迟广播能力
	if !opts.Send {
		st.Deferred = newDeferredSend(b.client, raw, st.TxID, b.log)
		return st, nil
	}
	hash, err := b.client.Broadcast(ctx, raw)
	if err != nil {
		return nil, ensure(err, errno.ErrBroadcastFailed)
	}
	st.Hash = hash
	return st, nil
}

func (b *Builder) checkBalance(ctx context.Context, kp keyring.Keypair, from string, call []byte, extra extrinsic.Extra, amount *big.Int) error {
	skeleton, err := extrinsic.EncodeSkeleton(kp.PublicKey(), kp.Scheme().SignatureVariant(), call, extra)
	if err != nil {
		return err
	}
	fee, err := b.client.EstimateFee(ctx, skeleton)
	if err != nil {
		return ensure(err, errno.ErrChainUnavailable)
	}
	balance, err := b.client.Balance(ctx, from)
	if err != nil {
		return ensure(err, errno.ErrChainUnavailable)
	}

	spendable := new(big.Int).Sub(balance, fee)
	if spendable.Cmp(amount) < 0 {
		return &InsufficientBalanceError{Address: from, Balance: balance, Fee: fee, Amount: amount}
	}
	return nil
}

func (b *Builder) tip() *big.Int {
	if b.cfg.Tip == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(b.cfg.Tip)
}

// ensure 保证错误链上带有对应的 errno
func ensure(err error, kind errno.Errno) error {
	var known errno.Errno
	if errors.As(err, &known) {
		return err
	}
	return fmt.Errorf("%w: %v", kind, err)
}
