package mq

import "context"

const (
	TypeKafka = "kafka"
	TypeRedis = "redis"
)

// Producer 事件发布
type Producer interface {
	// Publish key 决定分区, 传空字符串则随机分区
	Publish(ctx context.Context, topic string, key string, payload []byte) error
	Close() error
}

// NopProducer 未配置消息队列时使用, 丢弃所有事件
type NopProducer struct{}

func (NopProducer) Publish(context.Context, string, string, []byte) error { return nil }

func (NopProducer) Close() error { return nil }
