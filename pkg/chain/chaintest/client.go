// Package chaintest provides a func-field fake of chain.Client for tests.
package chaintest

import (
	"context"
	"math/big"
	"sync"

	"dot-wallet/pkg/chain"
	"dot-wallet/pkg/extrinsic"

	"github.com/ethereum/go-ethereum/common"
)

var GenesisHash = common.HexToHash("0x91b171bb158e2d3848fa23a9f1c25182fb8e20313b2c1eb49219da7a70ce90c3")

type Client struct {
	NonceFunc       func(ctx context.Context, address string) (uint64, error)
	BalanceFunc     func(ctx context.Context, address string) (*big.Int, error)
	EstimateFeeFunc func(ctx context.Context, skeleton []byte) (*big.Int, error)
	BroadcastFunc   func(ctx context.Context, signed []byte) (string, error)
	HeightFunc      func(ctx context.Context) (uint64, error)
	RuntimeInfoFunc func(ctx context.Context) (*chain.RuntimeInfo, error)

	mu   sync.Mutex
	sent []string
}

var _ chain.Client = (*Client)(nil)

// Baseline 所有方法成功: nonce 0, 余额 10 DOT, 手续费 0.0154 DOT, 广播返回交易哈希
func Baseline() *Client {
	c := &Client{
		NonceFunc: func(context.Context, string) (uint64, error) {
			return 0, nil
		},
		BalanceFunc: func(context.Context, string) (*big.Int, error) {
			return big.NewInt(100_000_000_000), nil
		},
		EstimateFeeFunc: func(context.Context, []byte) (*big.Int, error) {
			return big.NewInt(154_000_000), nil
		},
		HeightFunc: func(context.Context) (uint64, error) {
			return 21_000_000, nil
		},
		RuntimeInfoFunc: func(context.Context) (*chain.RuntimeInfo, error) {
			return &chain.RuntimeInfo{GenesisHash: GenesisHash, SpecVersion: 1003000, TransactionVersion: 26}, nil
		},
	}
	c.BroadcastFunc = func(_ context.Context, signed []byte) (string, error) {
		return extrinsic.Hash(signed), nil
	}
	return c
}

func (c *Client) Nonce(ctx context.Context, address string) (uint64, error) {
	return c.NonceFunc(ctx, address)
}

func (c *Client) Balance(ctx context.Context, address string) (*big.Int, error) {
	return c.BalanceFunc(ctx, address)
}

func (c *Client) EstimateFee(ctx context.Context, skeleton []byte) (*big.Int, error) {
	return c.EstimateFeeFunc(ctx, skeleton)
}

// Broadcast 记录每次成功广播的交易哈希
func (c *Client) Broadcast(ctx context.Context, signed []byte) (string, error) {
	hash, err := c.BroadcastFunc(ctx, signed)
	if err == nil {
		c.mu.Lock()
		c.sent = append(c.sent, hash)
		c.mu.Unlock()
	}
	return hash, err
}

func (c *Client) ChainHeight(ctx context.Context) (uint64, error) {
	return c.HeightFunc(ctx)
}

func (c *Client) RuntimeInfo(ctx context.Context) (*chain.RuntimeInfo, error) {
	return c.RuntimeInfoFunc(ctx)
}

// Broadcasts 已成功广播的次数
func (c *Client) Broadcasts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent)
}
