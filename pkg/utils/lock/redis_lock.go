package lock

import (
	"context"
	"errors"
	"time"

	"dot-wallet/pkg/safe_random"

	"github.com/redis/go-redis/v9"
)

// ErrNotHeld 释放时锁已过期或被他人持有
var ErrNotHeld = errors.New("lock not held")

// Locker 发送方粒度的互斥, 覆盖 nonce 读取到广播的整个过程
type Locker interface {
	// Acquire 返回 false 表示锁已被占用; token 标识本次持有, 释放时校验
	Acquire(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	Release(ctx context.Context, key, token string) error
}

// 仅当 value 属于自己时删除
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLock 基于 SET NX 的实现, 每次加锁写入随机 token
type RedisLock struct {
	client *redis.Client
}

func NewRedisLock(client *redis.Client) *RedisLock {
	return &RedisLock{client: client}
}

func (l *RedisLock) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token, err := safe_random.Hex(16)
	if err != nil {
		return "", false, err
	}
	ok, err := l.client.SetNX(ctx, lockKey(key), token, ttl).Result()
	if err != nil || !ok {
		return "", false, err
	}
	return token, true, nil
}

func (l *RedisLock) Release(ctx context.Context, key, token string) error {
	n, err := releaseScript.Run(ctx, l.client, []string{lockKey(key)}, token).Int()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotHeld
	}
	return nil
}

func lockKey(key string) string {
	return "lock:sender:" + key
}
