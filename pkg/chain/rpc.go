package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"dot-wallet/pkg/cache"
	"dot-wallet/pkg/errno"
	"dot-wallet/pkg/logger"
	"dot-wallet/pkg/monitor"
	"dot-wallet/pkg/scale"
	"dot-wallet/pkg/ss58"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
)

const defaultTimeout = 15 * time.Second

// RPCClient 基于 Substrate JSON-RPC 的 Client 实现
type RPCClient struct {
	rpc      *rpc.Client
	url      string
	timeout  time.Duration
	cache    cache.Cache
	cacheTTL time.Duration
	log      *zap.Logger
}

type Option func(*RPCClient)

// WithTimeout 调用方 context 未设置 deadline 时使用的单次调用超时
func WithTimeout(d time.Duration) Option {
	return func(c *RPCClient) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithCache 缓存 RuntimeInfo, 运行时升级后最多延迟 ttl 生效
func WithCache(store cache.Cache, ttl time.Duration) Option {
	return func(c *RPCClient) {
		c.cache = store
		c.cacheTTL = ttl
	}
}

// Dial 连接节点, 支持 http(s):// 与 ws(s)://
func Dial(ctx context.Context, url string, opts ...Option) (*RPCClient, error) {
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", errno.ErrChainUnavailable, url, err)
	}

	c := &RPCClient{
		rpc:     client,
		url:     url,
		timeout: defaultTimeout,
		log:     logger.Named("chain"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *RPCClient) Close() {
	c.rpc.Close()
}

func (c *RPCClient) Nonce(ctx context.Context, address string) (uint64, error) {
	if _, _, err := ss58.Decode(address); err != nil {
		return 0, err
	}

	var nonce uint64
	if err := c.call(ctx, &nonce, "system_accountNextIndex", address); err != nil {
		return 0, fmt.Errorf("%w: nonce of %s: %v", errno.ErrChainUnavailable, address, err)
	}
	return nonce, nil
}

func (c *RPCClient) Balance(ctx context.Context, address string) (*big.Int, error) {
	_, pub, err := ss58.Decode(address)
	if err != nil {
		return nil, err
	}

	var raw *hexutil.Bytes
	if err := c.call(ctx, &raw, "state_getStorage", hexutil.Encode(SystemAccountKey(pub))); err != nil {
		return nil, fmt.Errorf("%w: balance of %s: %v", errno.ErrChainUnavailable, address, err)
	}
	// 账户不存在
	if raw == nil {
		return new(big.Int), nil
	}

	free, err := DecodeFreeBalance(*raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errno.ErrChainUnavailable, err)
	}
	return free, nil
}

func (c *RPCClient) EstimateFee(ctx context.Context, skeleton []byte) (*big.Int, error) {
	var info struct {
		PartialFee json.RawMessage `json:"partialFee"`
	}
	err := c.call(ctx, &info, "payment_queryInfo", hexutil.Encode(skeleton))
	if err == nil {
		fee, parseErr := parseFee(info.PartialFee)
		if parseErr != nil {
			return nil, fmt.Errorf("%w: %v", errno.ErrChainUnavailable, parseErr)
		}
		return fee, nil
	}

	// 新版本节点移除了 payment_queryInfo, 改走 runtime api
	c.log.Debug("payment_queryInfo failed, falling back to state_call", zap.Error(err))
	arg := append(append([]byte{}, skeleton...), scale.EncodeU32(uint32(len(skeleton)))...)
	var raw hexutil.Bytes
	if callErr := c.call(ctx, &raw, "state_call", "TransactionPaymentApi_query_info", hexutil.Encode(arg)); callErr != nil {
		return nil, fmt.Errorf("%w: fee estimate: %v; %v", errno.ErrChainUnavailable, err, callErr)
	}
	fee, err := decodeDispatchFee(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errno.ErrChainUnavailable, err)
	}
	return fee, nil
}

func (c *RPCClient) Broadcast(ctx context.Context, signed []byte) (string, error) {
	var hash string
	if err := c.call(ctx, &hash, "author_submitExtrinsic", hexutil.Encode(signed)); err != nil {
		return "", fmt.Errorf("%w: %v", errno.ErrBroadcastFailed, err)
	}
	return hash, nil
}

func (c *RPCClient) ChainHeight(ctx context.Context) (uint64, error) {
	var header struct {
		Number string `json:"number"`
	}
	if err := c.call(ctx, &header, "chain_getHeader"); err != nil {
		return 0, fmt.Errorf("%w: header: %v", errno.ErrChainUnavailable, err)
	}
	height, err := strconv.ParseUint(strings.TrimPrefix(header.Number, "0x"), 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: header number %q: %v", errno.ErrChainUnavailable, header.Number, err)
	}
	return height, nil
}

func (c *RPCClient) RuntimeInfo(ctx context.Context) (*RuntimeInfo, error) {
	key := "chain:runtime:" + c.url
	if c.cache != nil {
		var cached RuntimeInfo
		if err := c.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	var info RuntimeInfo
	var genesis common.Hash
	if err := c.call(ctx, &genesis, "chain_getBlockHash", 0); err != nil {
		return nil, fmt.Errorf("%w: genesis hash: %v", errno.ErrChainUnavailable, err)
	}
	info.GenesisHash = genesis

	var version struct {
		SpecVersion        uint32 `json:"specVersion"`
		TransactionVersion uint32 `json:"transactionVersion"`
	}
	if err := c.call(ctx, &version, "state_getRuntimeVersion"); err != nil {
		return nil, fmt.Errorf("%w: runtime version: %v", errno.ErrChainUnavailable, err)
	}
	info.SpecVersion = version.SpecVersion
	info.TransactionVersion = version.TransactionVersion

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, info, c.cacheTTL); err != nil {
			c.log.Warn("cache runtime info failed", zap.Error(err))
		}
	}
	return &info, nil
}

func (c *RPCClient) call(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	err := c.rpc.CallContext(ctx, result, method, args...)
	if monitor.Business != nil {
		monitor.Business.RPCRequestDuration.WithLabelValues(method, monitor.Status(err)).Observe(time.Since(start).Seconds())
	}
	c.log.Debug("rpc call", zap.String("method", method), zap.Duration("took", time.Since(start)), zap.Error(err))
	return err
}

// parseFee partialFee 可能是十进制字符串、0x 十六进制字符串或数字
func parseFee(raw json.RawMessage) (*big.Int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil, fmt.Errorf("missing partialFee")
	}

	s := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
	}
	base := 10
	if strings.HasPrefix(s, "0x") {
		s, base = s[2:], 16
	}
	fee, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, fmt.Errorf("invalid partialFee %s", raw)
	}
	return fee, nil
}
