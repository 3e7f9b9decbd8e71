package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"dot-wallet/internal/event"
	"dot-wallet/pkg/chain/chaintest"
	"dot-wallet/pkg/errno"
	"dot-wallet/pkg/explorer"
	"dot-wallet/pkg/keyring"
	"dot-wallet/pkg/monitor"
	"dot-wallet/pkg/ss58"
	"dot-wallet/pkg/txbuilder"
	"dot-wallet/pkg/utils/lock"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	aliceGeneric = "5FA9nQDVg267DEd8m1ZypXLBnvN7SFxYwV7ndqSYGiN9TTpu"
	aliceKey     = "0x88dc3417d5058ec4b4503e0c12ea1a0a89be200fe98922423d4334014fa6b0ee"
)

var bobPolkadot = func() string {
	kp, err := keyring.NewProvider(keyring.Ed25519).FromURI("//Bob")
	if err != nil {
		panic(err)
	}
	addr, err := kp.Address(ss58.FormatPolkadot)
	if err != nil {
		panic(err)
	}
	return addr
}()

type published struct {
	topic   string
	key     string
	payload []byte
}

type recordingProducer struct {
	mu   sync.Mutex
	msgs []published
}

func (p *recordingProducer) Publish(_ context.Context, topic, key string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, published{topic: topic, key: key, payload: payload})
	return nil
}

func (p *recordingProducer) Close() error { return nil }

func (p *recordingProducer) messages() []published {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]published(nil), p.msgs...)
}

type fakeExplorer struct {
	transfers []explorer.Transfer
	err       error
}

func (f *fakeExplorer) ListTransfers(context.Context, explorer.ListOptions) ([]explorer.Transfer, error) {
	return f.transfers, f.err
}

func (f *fakeExplorer) TransferByHash(_ context.Context, hash string) (*explorer.Transfer, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &explorer.Transfer{Hash: hash}, nil
}

type fixture struct {
	svc      *Service
	client   *chaintest.Client
	producer *recordingProducer
}

func newFixture(t *testing.T, deps Deps) *fixture {
	t.Helper()
	return newFixtureWithConfig(t, deps, nil)
}

func newFixtureWithConfig(t *testing.T, deps Deps, tweak func(*Config)) *fixture {
	t.Helper()
	root, err := keyring.NewProvider(keyring.Ed25519).FromURI("")
	require.NoError(t, err)

	client := chaintest.Baseline()
	producer := &recordingProducer{}
	deps.Root = root
	deps.Client = client
	deps.Producer = producer

	cfg := Config{
		Format:   ss58.FormatSubstrate,
		Decimals: 10,
		Symbol:   "DOT",
		Tx:       txbuilder.PolkadotConfig(),
	}
	if tweak != nil {
		tweak(&cfg)
	}
	svc := NewService(cfg, deps)
	return &fixture{svc: svc, client: client, producer: producer}
}

func TestDeriveAccount(t *testing.T) {
	f := newFixture(t, Deps{})

	acc, err := f.svc.DeriveAccount("//Alice")
	require.NoError(t, err)
	assert.Equal(t, aliceGeneric, acc.Address)
	assert.Equal(t, aliceKey, acc.PublicKey)
	assert.Equal(t, "ed25519", acc.Scheme)
	assert.Equal(t, uint16(42), acc.Format)

	_, err = f.svc.DeriveAccount("/soft")
	assert.ErrorIs(t, err, errno.ErrInvalidDerivationPath)
}

func TestValidateAddress(t *testing.T) {
	f := newFixture(t, Deps{})

	info := f.svc.ValidateAddress(aliceGeneric, nil)
	assert.True(t, info.Valid)
	assert.Equal(t, uint16(42), info.Format)
	assert.Equal(t, aliceKey, info.PublicKey)

	polkadot := uint16(0)
	info = f.svc.ValidateAddress(aliceGeneric, &polkadot)
	assert.False(t, info.Valid)
	assert.Contains(t, info.Reason, errno.ErrNetworkMismatch.Message)

	info = f.svc.ValidateAddress("not-an-address", nil)
	assert.False(t, info.Valid)
	assert.NotEmpty(t, info.Reason)
}

func TestEncodeAddress(t *testing.T) {
	f := newFixture(t, Deps{})

	addr, err := f.svc.EncodeAddress(aliceKey, 42)
	require.NoError(t, err)
	assert.Equal(t, aliceGeneric, addr)

	_, err = f.svc.EncodeAddress("0x1234", 42)
	assert.Error(t, err)
	_, err = f.svc.EncodeAddress(aliceKey, 64)
	assert.ErrorIs(t, err, errno.ErrUnsupportedFormat)
}

func TestDeriveMultisig(t *testing.T) {
	f := newFixture(t, Deps{})
	members := []string{"1TMxLj56NtRg3scE7rRo8H9GZJMFXdsJk1GyxCuTRAxTTzU", "15o5762QE4UPrUaYcM83HERK7Wzbmgcsxa93NJjkHGH1unvr"}

	// 文本序与公钥序相反: 0x141a... < 0xd414...
	reversed := []string{members[1], members[0]}
	info, err := f.svc.DeriveMultisig(reversed, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, "5GK2KzG8Eyg76RHVvtKyocRpCwYSZVf78HjZW4cN3Ac8fcVe", info.Address)
	assert.Equal(t, uint16(42), info.Format)
	assert.Equal(t, members, info.Members)
	// 调用方传入的切片不被修改
	assert.Equal(t, "15o5762QE4UPrUaYcM83HERK7Wzbmgcsxa93NJjkHGH1unvr", reversed[0])

	_, err = f.svc.DeriveMultisig(members, 0, nil)
	assert.ErrorIs(t, err, errno.ErrInvalidThreshold)
}

func TestBalance(t *testing.T) {
	f := newFixture(t, Deps{})
	f.client.BalanceFunc = func(context.Context, string) (*big.Int, error) {
		return big.NewInt(12_345_000_000), nil
	}

	b, err := f.svc.Balance(context.Background(), bobPolkadot)
	require.NoError(t, err)
	assert.Equal(t, "12345000000", b.Planck)
	assert.Equal(t, "1.2345", b.Amount.String())
	assert.Equal(t, "DOT", b.Symbol)

	_, err = f.svc.Balance(context.Background(), "bogus")
	assert.ErrorIs(t, err, errno.ErrInvalidAddress)

	f.client.BalanceFunc = func(context.Context, string) (*big.Int, error) { return nil, errors.New("eof") }
	_, err = f.svc.Balance(context.Background(), bobPolkadot)
	assert.ErrorIs(t, err, errno.ErrChainUnavailable)
}

func TestChainHeight(t *testing.T) {
	f := newFixture(t, Deps{})
	h, err := f.svc.ChainHeight(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(21_000_000), h)
}

func TestBuildTransferPendingThenSend(t *testing.T) {
	f := newFixture(t, Deps{})
	ctx := context.Background()

	res, err := f.svc.BuildTransfer(ctx, TransferRequest{Path: "//Alice", To: bobPolkadot, Amount: "1000"})
	require.NoError(t, err)
	assert.True(t, res.Pending)
	require.NotNil(t, res.ExpiresAt)
	assert.Equal(t, 0, f.client.Broadcasts())

	hash, err := f.svc.SendPending(ctx, res.TxID)
	require.NoError(t, err)
	assert.Equal(t, res.TxID, hash)
	assert.Equal(t, 1, f.client.Broadcasts())

	// 发送成功后从待发送列表移除
	_, err = f.svc.SendPending(ctx, res.TxID)
	assert.ErrorIs(t, err, errno.ErrPendingNotFound)

	require.Eventually(t, func() bool { return len(f.producer.messages()) == 1 }, time.Second, 10*time.Millisecond)
	msg := f.producer.messages()[0]
	assert.Equal(t, event.TopicTransferSubmitted, msg.topic)

	var evt event.TransferSubmittedEvent
	require.NoError(t, json.Unmarshal(msg.payload, &evt))
	assert.Equal(t, res.TxID, evt.TxID)
	assert.Equal(t, bobPolkadot, evt.To)
	assert.Equal(t, "1000", evt.Amount)
	assert.Equal(t, evt.From, msg.key)
}

func TestBuildTransferSendImmediately(t *testing.T) {
	f := newFixture(t, Deps{})

	res, err := f.svc.BuildTransfer(context.Background(), TransferRequest{Path: "//Alice", To: bobPolkadot, Amount: "1", Send: true})
	require.NoError(t, err)
	assert.False(t, res.Pending)
	assert.Equal(t, res.TxID, res.Hash)
	assert.Equal(t, 1, f.client.Broadcasts())

	_, err = f.svc.SendPending(context.Background(), res.TxID)
	assert.ErrorIs(t, err, errno.ErrPendingNotFound)
}

func TestBuildTransferBalanceCheckOverride(t *testing.T) {
	f := newFixture(t, Deps{})
	f.client.BalanceFunc = func(context.Context, string) (*big.Int, error) { return big.NewInt(10), nil }

	check := true
	_, err := f.svc.BuildTransfer(context.Background(), TransferRequest{Path: "//Alice", To: bobPolkadot, Amount: "1000", CheckBalance: &check})
	assert.ErrorIs(t, err, errno.ErrInsufficientBalance)

	// 默认不检查
	_, err = f.svc.BuildTransfer(context.Background(), TransferRequest{Path: "//Alice", To: bobPolkadot, Amount: "1000"})
	assert.NoError(t, err)
}

func TestSendPendingRetryAfterFailure(t *testing.T) {
	f := newFixture(t, Deps{})
	ctx := context.Background()

	res, err := f.svc.BuildTransfer(ctx, TransferRequest{Path: "//Alice", To: bobPolkadot, Amount: "1"})
	require.NoError(t, err)

	ok := f.client.BroadcastFunc
	f.client.BroadcastFunc = func(context.Context, []byte) (string, error) { return "", errors.New("pool full") }
	_, err = f.svc.SendPending(ctx, res.TxID)
	assert.ErrorIs(t, err, errno.ErrBroadcastFailed)

	f.client.BroadcastFunc = ok
	hash, err := f.svc.SendPending(ctx, res.TxID)
	require.NoError(t, err)
	assert.Equal(t, res.TxID, hash)
}

func TestSenderLock(t *testing.T) {
	f := newFixture(t, Deps{Locker: lock.NewMemoryLock()})
	ctx := context.Background()

	first, err := f.svc.BuildTransfer(ctx, TransferRequest{Path: "//Alice", To: bobPolkadot, Amount: "1"})
	require.NoError(t, err)

	// 同一发送方的待发送交易持有锁
	_, err = f.svc.BuildTransfer(ctx, TransferRequest{Path: "//Alice", To: bobPolkadot, Amount: "2"})
	assert.ErrorIs(t, err, errno.ErrSenderBusy)

	// 其他发送方不受影响
	_, err = f.svc.BuildTransfer(ctx, TransferRequest{Path: "//Bob", To: bobPolkadot, Amount: "2", Send: true})
	require.NoError(t, err)

	_, err = f.svc.SendPending(ctx, first.TxID)
	require.NoError(t, err)

	_, err = f.svc.BuildTransfer(ctx, TransferRequest{Path: "//Alice", To: bobPolkadot, Amount: "2", Send: true})
	assert.NoError(t, err)
}

func TestSenderLockCoversPendingWindow(t *testing.T) {
	f := newFixtureWithConfig(t, Deps{Locker: lock.NewMemoryLock()}, func(c *Config) {
		c.LockTTL = 50 * time.Millisecond
	})
	ctx := context.Background()

	first, err := f.svc.BuildTransfer(ctx, TransferRequest{Path: "//Alice", To: bobPolkadot, Amount: "1"})
	require.NoError(t, err)

	// 超过 LockTTL 后仍在待发送期内, 不能再取到同一个 nonce
	time.Sleep(100 * time.Millisecond)
	_, err = f.svc.BuildTransfer(ctx, TransferRequest{Path: "//Alice", To: bobPolkadot, Amount: "2"})
	assert.ErrorIs(t, err, errno.ErrSenderBusy)

	_, err = f.svc.SendPending(ctx, first.TxID)
	require.NoError(t, err)

	_, err = f.svc.BuildTransfer(ctx, TransferRequest{Path: "//Alice", To: bobPolkadot, Amount: "2"})
	require.NoError(t, err)
	_, err = f.svc.BuildTransfer(ctx, TransferRequest{Path: "//Alice", To: bobPolkadot, Amount: "3"})
	assert.ErrorIs(t, err, errno.ErrSenderBusy)
}

func TestExpiredPendingDoesNotReleaseNewHolder(t *testing.T) {
	f := newFixtureWithConfig(t, Deps{Locker: lock.NewMemoryLock()}, func(c *Config) {
		c.LockTTL = time.Millisecond
		c.PendingTTL = 200 * time.Millisecond
	})
	// 不在后续用例中触发清理回调
	t.Cleanup(f.svc.pending.Flush)
	ctx := context.Background()

	_, err := f.svc.BuildTransfer(ctx, TransferRequest{Path: "//Alice", To: bobPolkadot, Amount: "1"})
	require.NoError(t, err)

	// 旧的锁与待发送条目都已过期
	time.Sleep(300 * time.Millisecond)
	_, err = f.svc.BuildTransfer(ctx, TransferRequest{Path: "//Alice", To: bobPolkadot, Amount: "2"})
	require.NoError(t, err)

	// 旧条目被清理时释放的是自己的 token
	f.svc.pending.DeleteExpired()
	_, err = f.svc.BuildTransfer(ctx, TransferRequest{Path: "//Alice", To: bobPolkadot, Amount: "3"})
	assert.ErrorIs(t, err, errno.ErrSenderBusy)
}

type countingGauge struct {
	prometheus.Gauge
	mu sync.Mutex
	n  int
}

func (g *countingGauge) Inc() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
}

func (g *countingGauge) Dec() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n--
}

func (g *countingGauge) value() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.n
}

func TestDuplicatePendingKeepsGaugeBalanced(t *testing.T) {
	gauge := &countingGauge{}
	prev := monitor.Business
	monitor.Business = &monitor.BusinessMetrics{
		TransferBuiltTotal:     prometheus.NewCounterVec(prometheus.CounterOpts{Name: "built"}, []string{"scheme"}),
		TransferBroadcastTotal: prometheus.NewCounterVec(prometheus.CounterOpts{Name: "broadcast"}, []string{"status"}),
		TransferAmountTotal:    prometheus.NewCounterVec(prometheus.CounterOpts{Name: "amount"}, []string{"symbol"}),
		PendingTransfers:       gauge,
	}
	t.Cleanup(func() { monitor.Business = prev })

	f := newFixture(t, Deps{})
	ctx := context.Background()
	req := TransferRequest{Path: "//Alice", To: bobPolkadot, Amount: "1"}

	first, err := f.svc.BuildTransfer(ctx, req)
	require.NoError(t, err)
	// 相同 nonce 与参数得到字节相同的交易
	second, err := f.svc.BuildTransfer(ctx, req)
	require.NoError(t, err)
	require.Equal(t, first.TxID, second.TxID)
	assert.True(t, second.Pending)
	assert.WithinDuration(t, *first.ExpiresAt, *second.ExpiresAt, time.Second)
	assert.Equal(t, 1, f.svc.pending.ItemCount())
	assert.Equal(t, 1, gauge.value())

	_, err = f.svc.SendPending(ctx, first.TxID)
	require.NoError(t, err)
	assert.Equal(t, 0, gauge.value())
}

func TestSenderLockReleasedOnBuildError(t *testing.T) {
	f := newFixture(t, Deps{Locker: lock.NewMemoryLock()})
	ctx := context.Background()

	_, err := f.svc.BuildTransfer(ctx, TransferRequest{Path: "//Alice", To: "bogus", Amount: "1"})
	assert.ErrorIs(t, err, errno.ErrInvalidAddress)

	_, err = f.svc.BuildTransfer(ctx, TransferRequest{Path: "//Alice", To: bobPolkadot, Amount: "1", Send: true})
	assert.NoError(t, err)
}

func TestExplorer(t *testing.T) {
	f := newFixture(t, Deps{})
	_, err := f.svc.ListTransfers(context.Background(), explorer.ListOptions{})
	assert.ErrorIs(t, err, errno.ErrExplorer)

	f = newFixture(t, Deps{Explorer: &fakeExplorer{transfers: []explorer.Transfer{{Hash: "0xaa"}}}})
	transfers, err := f.svc.ListTransfers(context.Background(), explorer.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, transfers, 1)

	tr, err := f.svc.TransferByHash(context.Background(), "0xbb")
	require.NoError(t, err)
	assert.Equal(t, "0xbb", tr.Hash)
}
