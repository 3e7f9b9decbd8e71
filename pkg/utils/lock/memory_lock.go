package lock

import (
	"context"
	"sync"
	"time"

	"dot-wallet/pkg/safe_random"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryLock 单实例部署用的进程内实现, 过期由 go-cache 处理
type MemoryLock struct {
	// 保证 Release 的比较与删除不被 Acquire 插入
	mu   sync.Mutex
	held *gocache.Cache
}

func NewMemoryLock() *MemoryLock {
	return &MemoryLock{held: gocache.New(gocache.NoExpiration, time.Minute)}
}

func (l *MemoryLock) Acquire(_ context.Context, key string, ttl time.Duration) (string, bool, error) {
	token, err := safe_random.Hex(16)
	if err != nil {
		return "", false, err
	}
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	// Add 仅在 key 不存在或已过期时成功
	if err := l.held.Add(key, token, ttl); err != nil {
		return "", false, nil
	}
	return token, true, nil
}

func (l *MemoryLock) Release(_ context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.held.Get(key)
	if !ok || v.(string) != token {
		return ErrNotHeld
	}
	l.held.Delete(key)
	return nil
}
