package mq

import (
	"context"
	"fmt"

	"dot-wallet/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// streamMaxLen Stream 近似保留条数
const streamMaxLen = 100000

// RedisProducer 基于 Redis Stream (XADD) 的 Producer
type RedisProducer struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisProducer(client *redis.Client) *RedisProducer {
	return &RedisProducer{
		client: client,
		log:    logger.Named("mq.redis"),
	}
}

func (p *RedisProducer) Publish(ctx context.Context, topic string, key string, payload []byte) error {
	err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: topic,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]interface{}{
			"key":     key,
			"payload": payload,
		},
	}).Err()
	if err != nil {
		p.log.Error("publish failed", zap.String("stream", topic), zap.Error(err))
		return fmt.Errorf("redis xadd: %w", err)
	}
	return nil
}

// Close 连接由调用方共享, 这里不关闭
func (p *RedisProducer) Close() error {
	return nil
}
