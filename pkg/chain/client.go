// Package chain talks to a Substrate node over JSON-RPC.
package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Client 交易构建所需的链上查询与广播能力
type Client interface {
	// Nonce 账户下一个可用 nonce (含交易池中未打包的交易)
	Nonce(ctx context.Context, address string) (uint64, error)
	// Balance 账户 free 余额 (planck)
	Balance(ctx context.Context, address string) (*big.Int, error)
	// EstimateFee 估算交易手续费 (planck), skeleton 为带占位签名的完整交易
	EstimateFee(ctx context.Context, skeleton []byte) (*big.Int, error)
	// Broadcast 提交已签名交易, 返回交易哈希
	Broadcast(ctx context.Context, signed []byte) (string, error)
	// ChainHeight 最新区块高度
	ChainHeight(ctx context.Context) (uint64, error)
	// RuntimeInfo 签名所需的链上参数
	RuntimeInfo(ctx context.Context) (*RuntimeInfo, error)
}

// RuntimeInfo 创世哈希与运行时版本
type RuntimeInfo struct {
	GenesisHash        common.Hash `json:"genesisHash"`
	SpecVersion        uint32      `json:"specVersion"`
	TransactionVersion uint32      `json:"transactionVersion"`
}
