package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"time"

	"dot-wallet/internal/event"
	"dot-wallet/internal/service/mq"
	"dot-wallet/pkg/chain"
	"dot-wallet/pkg/errno"
	"dot-wallet/pkg/explorer"
	"dot-wallet/pkg/keyring"
	"dot-wallet/pkg/logger"
	"dot-wallet/pkg/monitor"
	"dot-wallet/pkg/multisig"
	"dot-wallet/pkg/ss58"
	"dot-wallet/pkg/txbuilder"
	"dot-wallet/pkg/utils/lock"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	defaultPendingTTL = 10 * time.Minute
	defaultLockTTL    = 30 * time.Second
	publishTimeout    = 5 * time.Second
)

// Explorer 只读的交易历史查询
type Explorer interface {
	ListTransfers(ctx context.Context, opts explorer.ListOptions) ([]explorer.Transfer, error)
	TransferByHash(ctx context.Context, hash string) (*explorer.Transfer, error)
}

type Config struct {
	Format       ss58.Format
	Decimals     int32
	Symbol       string
	Tx           txbuilder.Config
	CheckBalance bool
	PendingTTL   time.Duration
	LockTTL      time.Duration
	Topic        string
}

// Deps 可选依赖为 nil 时对应功能关闭
type Deps struct {
	Root     keyring.Keypair
	Client   chain.Client
	Explorer Explorer
	Locker   lock.Locker
	Producer mq.Producer
}

type Service struct {
	cfg      Config
	root     keyring.Keypair
	client   chain.Client
	builder  *txbuilder.Builder
	explorer Explorer
	locker   lock.Locker
	producer mq.Producer
	pending  *gocache.Cache
	log      *zap.Logger
}

// pendingTransfer 已签名未广播的转账
type pendingTransfer struct {
	deferred *txbuilder.DeferredSend
	data     *txbuilder.TxData
	release  func()
}

func NewService(cfg Config, deps Deps) *Service {
	if cfg.PendingTTL <= 0 {
		cfg.PendingTTL = defaultPendingTTL
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = defaultLockTTL
	}
	if cfg.Topic == "" {
		cfg.Topic = event.TopicTransferSubmitted
	}
	if deps.Producer == nil {
		deps.Producer = mq.NopProducer{}
	}

	s := &Service{
		cfg:      cfg,
		root:     deps.Root,
		client:   deps.Client,
		builder:  txbuilder.New(deps.Client, cfg.Tx),
		explorer: deps.Explorer,
		locker:   deps.Locker,
		producer: deps.Producer,
		pending:  gocache.New(cfg.PendingTTL, cfg.PendingTTL/2),
		log:      logger.Named("wallet"),
	}
	// 过期或发送成功后删除时释放发送方锁
	s.pending.OnEvicted(func(txID string, v interface{}) {
		if p, ok := v.(*pendingTransfer); ok && p.release != nil {
			p.release()
		}
		if monitor.Business != nil {
			monitor.Business.PendingTransfers.Dec()
		}
	})
	return s
}

// Account 派生出的账户
type Account struct {
	Path      string `json:"path"`
	Address   string `json:"address"`
	PublicKey string `json:"publicKey"`
	Scheme    string `json:"scheme"`
	Format    uint16 `json:"format"`
}

// DeriveAccount 从根密钥沿路径派生, path 为空时返回根账户
func (s *Service) DeriveAccount(path string) (*Account, error) {
	kp, err := s.keypair(path)
	if err != nil {
		return nil, err
	}
	addr, err := kp.Address(s.cfg.Format)
	if err != nil {
		return nil, err
	}
	return &Account{
		Path:      path,
		Address:   addr,
		PublicKey: kp.PublicKey().Hex(),
		Scheme:    string(kp.Scheme()),
		Format:    uint16(s.cfg.Format),
	}, nil
}

// AddressInfo 地址校验结果
type AddressInfo struct {
	Address   string `json:"address"`
	Valid     bool   `json:"valid"`
	Format    uint16 `json:"format,omitempty"`
	PublicKey string `json:"publicKey,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// ValidateAddress 非法地址不算错误, 通过 Valid=false 和 Reason 返回
func (s *Service) ValidateAddress(address string, expected *uint16) *AddressInfo {
	info := &AddressInfo{Address: address}
	format, pub, err := ss58.Decode(address)
	if err == nil && expected != nil && format != ss58.Format(*expected) {
		err = fmt.Errorf("%w: address is format %d, expected %d", errno.ErrNetworkMismatch, format, *expected)
	}
	if err != nil {
		info.Reason = err.Error()
		return info
	}
	info.Valid = true
	info.Format = uint16(format)
	info.PublicKey = pub.Hex()
	return info
}

// EncodeAddress 公钥 (hex) 编码为指定网络的地址
func (s *Service) EncodeAddress(publicKey string, format uint16) (string, error) {
	pub, err := ss58.PublicKeyFromHex(publicKey)
	if err != nil {
		return "", err
	}
	return ss58.Encode(ss58.Format(format), pub)
}

// MultisigInfo 多签地址与规范化后的成员
type MultisigInfo struct {
	Address   string   `json:"address"`
	Format    uint16   `json:"format"`
	Threshold uint16   `json:"threshold"`
	Members   []string `json:"members"`
}

// DeriveMultisig format 为 nil 时使用通用格式 42
func (s *Service) DeriveMultisig(members []string, threshold uint16, format *uint16) (*MultisigInfo, error) {
	f := ss58.FormatSubstrate
	if format != nil {
		f = ss58.Format(*format)
	}
	addr, err := multisig.DeriveAddressWithFormat(members, threshold, f)
	if err != nil {
		return nil, err
	}
	if monitor.Business != nil {
		monitor.Business.MultisigDerivedTotal.Inc()
	}

	return &MultisigInfo{Address: addr, Format: uint16(f), Threshold: threshold, Members: sortByKey(members)}, nil
}

func (s *Service) ChainHeight(ctx context.Context) (uint64, error) {
	height, err := s.client.ChainHeight(ctx)
	if err != nil {
		return 0, chainErr(err)
	}
	return height, nil
}

// Balance 余额, Planck 为最小单位
type Balance struct {
	Address string          `json:"address"`
	Planck  string          `json:"planck"`
	Amount  decimal.Decimal `json:"amount"`
	Symbol  string          `json:"symbol"`
}

func (s *Service) Balance(ctx context.Context, address string) (*Balance, error) {
	if _, _, err := ss58.Decode(address); err != nil {
		return nil, err
	}
	free, err := s.client.Balance(ctx, address)
	if err != nil {
		return nil, chainErr(err)
	}
	return &Balance{
		Address: address,
		Planck:  free.String(),
		Amount:  chain.FromPlanck(free, s.cfg.Decimals),
		Symbol:  s.cfg.Symbol,
	}, nil
}

// ToPlanck 把带小数的金额 (如 "1.5" DOT) 转成最小单位整数字符串
func (s *Service) ToPlanck(amount string) (string, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return "", fmt.Errorf("%w: %q", errno.ErrInvalidAmount, amount)
	}
	planck, err := chain.ToPlanck(d, s.cfg.Decimals)
	if err != nil {
		return "", err
	}
	return planck.String(), nil
}

// TransferRequest Amount 为最小单位整数字符串
type TransferRequest struct {
	Path         string
	To           string
	Amount       string
	CheckBalance *bool
	Send         bool
}

// TransferResult Pending=true 时需要调用 SendPending 才会广播
type TransferResult struct {
	*txbuilder.SignedTransfer
	Pending   bool       `json:"pending"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// BuildTransfer 构建并签名转账
// 启用发送方锁时: 立即广播在返回前释放; 延迟广播持有锁直到发送成功或过期
func (s *Service) BuildTransfer(ctx context.Context, req TransferRequest) (*TransferResult, error) {
	// 1. 发送方
	kp, err := s.keypair(req.Path)
	if err != nil {
		return nil, err
	}
	from, err := kp.Address(s.cfg.Tx.Format)
	if err != nil {
		return nil, err
	}

	// 2. 串行化同一发送方, 延迟广播的锁要覆盖整个待发送期
	ttl := s.cfg.LockTTL
	if !req.Send {
		ttl += s.cfg.PendingTTL
	}
	release, err := s.acquire(ctx, from, ttl)
	if err != nil {
		return nil, err
	}

	// 3. 构建
	check := s.cfg.CheckBalance
	if req.CheckBalance != nil {
		check = *req.CheckBalance
	}
	st, err := s.builder.Build(ctx, kp, req.To, req.Amount, txbuilder.Options{CheckBalance: check, Send: req.Send})
	if err != nil {
		release()
		if req.Send && errors.Is(err, errno.ErrBroadcastFailed) {
			s.countBroadcast(err)
		}
		return nil, err
	}
	if monitor.Business != nil {
		monitor.Business.TransferBuiltTotal.WithLabelValues(st.TxData.Scheme).Inc()
	}

	// 4. 立即广播完成
	if req.Send {
		release()
		s.afterBroadcast(st.TxID, st.Hash, st.TxData)
		return &TransferResult{SignedTransfer: st}, nil
	}

	// 5. 保存延迟广播能力
	expires := time.Now().Add(s.cfg.PendingTTL)
	p := &pendingTransfer{deferred: st.Deferred, data: st.TxData, release: release}
	if err := s.pending.Add(st.TxID, p, s.cfg.PendingTTL); err != nil {
		// 完全相同的交易已在等待发送, 沿用已有条目
		release()
		if _, exp, ok := s.pending.GetWithExpiration(st.TxID); ok {
			expires = exp
		}
		s.log.Info("transfer already pending", zap.String("txId", st.TxID), zap.String("from", from))
		return &TransferResult{SignedTransfer: st, Pending: true, ExpiresAt: &expires}, nil
	}
	if monitor.Business != nil {
		monitor.Business.PendingTransfers.Inc()
	}
	s.log.Info("transfer pending", zap.String("txId", st.TxID), zap.String("from", from), zap.Uint64("nonce", st.TxData.Nonce))
	return &TransferResult{SignedTransfer: st, Pending: true, ExpiresAt: &expires}, nil
}

// SendPending 广播之前构建的交易; 同一笔只会成功一次
func (s *Service) SendPending(ctx context.Context, txID string) (string, error) {
	v, ok := s.pending.Get(txID)
	if !ok {
		return "", fmt.Errorf("%w: %s", errno.ErrPendingNotFound, txID)
	}
	p := v.(*pendingTransfer)

	hash, err := p.deferred.Send(ctx)
	if err != nil {
		if !errors.Is(err, errno.ErrAlreadySent) {
			s.countBroadcast(err)
		}
		return "", err
	}
	s.pending.Delete(txID)
	s.afterBroadcast(txID, hash, p.data)
	return hash, nil
}

func (s *Service) ListTransfers(ctx context.Context, opts explorer.ListOptions) ([]explorer.Transfer, error) {
	if s.explorer == nil {
		return nil, fmt.Errorf("%w: not configured", errno.ErrExplorer)
	}
	return s.explorer.ListTransfers(ctx, opts)
}

func (s *Service) TransferByHash(ctx context.Context, hash string) (*explorer.Transfer, error) {
	if s.explorer == nil {
		return nil, fmt.Errorf("%w: not configured", errno.ErrExplorer)
	}
	return s.explorer.TransferByHash(ctx, hash)
}

func (s *Service) keypair(path string) (keyring.Keypair, error) {
	if path == "" {
		return s.root, nil
	}
	return s.root.Derive(path)
}

func (s *Service) acquire(ctx context.Context, from string, ttl time.Duration) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}
	token, ok, err := s.locker.Acquire(ctx, from, ttl)
	if err != nil {
		return nil, fmt.Errorf("%w: sender lock: %v", errno.InternalServerError, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", errno.ErrSenderBusy, from)
	}
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := s.locker.Release(ctx, from, token); err != nil {
			s.log.Warn("release sender lock failed", zap.String("from", from), zap.Error(err))
		}
	}, nil
}

// afterBroadcast 指标与事件, 事件异步发布, 失败只记录日志
func (s *Service) afterBroadcast(txID, hash string, data *txbuilder.TxData) {
	s.countBroadcast(nil)
	if monitor.Business != nil {
		if amount, ok := new(big.Int).SetString(data.Amount, 10); ok {
			whole, _ := chain.FromPlanck(amount, s.cfg.Decimals).Float64()
			monitor.Business.TransferAmountTotal.WithLabelValues(s.cfg.Symbol).Add(whole)
		}
	}
	s.log.Info("transfer broadcast", zap.String("txId", txID), zap.String("hash", hash), zap.String("from", data.From), zap.String("to", data.To))

	evt := event.NewTransferSubmitted(txID, hash, data.From, data.To, data.Amount, data.Nonce, data.Scheme)
	go func() {
		payload, err := evt.Marshal()
		if err != nil {
			s.log.Error("marshal event failed", zap.Error(err))
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := s.producer.Publish(ctx, s.cfg.Topic, evt.From, payload); err != nil {
			s.log.Error("publish event failed", zap.String("txId", txID), zap.Error(err))
		}
	}()
}

func (s *Service) countBroadcast(err error) {
	if monitor.Business != nil {
		monitor.Business.TransferBroadcastTotal.WithLabelValues(monitor.Status(err)).Inc()
	}
}

// sortByKey 按解码后的公钥字节排序, 与多签账户推导的顺序一致
func sortByKey(members []string) []string {
	keys := make(map[string]ss58.PublicKey, len(members))
	for _, m := range members {
		_, pub, _ := ss58.Decode(m)
		keys[m] = pub
	}
	sorted := append([]string(nil), members...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return keys[sorted[i]].Compare(keys[sorted[j]]) < 0
	})
	return sorted
}

// chainErr 节点错误统一归为 ErrChainUnavailable
func chainErr(err error) error {
	var known errno.Errno
	if errors.As(err, &known) {
		return err
	}
	return fmt.Errorf("%w: %v", errno.ErrChainUnavailable, err)
}
