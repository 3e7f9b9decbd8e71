package cache

import (
	"context"
	"errors"
	"time"

	"dot-wallet/pkg/logger"

	"go.uber.org/zap"
)

// backfillTTL L2 命中后回写 L1 的时长
const backfillTTL = time.Minute

// MultiLevelCache L1 内存 + L2 Redis, 多实例部署时共享运行时信息
type MultiLevelCache struct {
	local  Cache
	remote Cache
	log    *zap.Logger
}

func NewMultiLevelCache(local, remote Cache) *MultiLevelCache {
	return &MultiLevelCache{
		local:  local,
		remote: remote,
		log:    logger.Named("cache"),
	}
}

// Set L1 只保留一半 TTL
func (m *MultiLevelCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if err := m.local.Set(ctx, key, value, ttl/2); err != nil {
		m.log.Warn("local cache set failed", zap.String("key", key), zap.Error(err))
	}
	return m.remote.Set(ctx, key, value, ttl)
}

func (m *MultiLevelCache) Get(ctx context.Context, key string, target interface{}) error {
	// 1. L1
	if err := m.local.Get(ctx, key, target); err == nil {
		return nil
	}

	// 2. L2, 命中后回写 L1
	err := m.remote.Get(ctx, key, target)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			m.log.Warn("remote cache get failed", zap.String("key", key), zap.Error(err))
		}
		return ErrMiss
	}
	_ = m.local.Set(ctx, key, target, backfillTTL)
	return nil
}

func (m *MultiLevelCache) Delete(ctx context.Context, key string) error {
	_ = m.local.Delete(ctx, key)
	return m.remote.Delete(ctx, key)
}
