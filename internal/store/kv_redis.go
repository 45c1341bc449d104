package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string // prepended to every key
}

type redisKV struct {
	client *redis.Client
	prefix string
}

// OpenRedisKV connects to redis and verifies the connection.
func OpenRedisKV(ctx context.Context, cfg RedisConfig) (KV, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisKV(client, cfg.Prefix), nil
}

// NewRedisKV wraps a connected client.
func NewRedisKV(client *redis.Client, prefix string) KV {
	return &redisKV{client: client, prefix: prefix}
}

func (k *redisKV) Load(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := k.client.Get(ctx, k.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("load %q: %w", key, err)
	}
	return val, true, nil
}

// Save stores value without expiry.
func (k *redisKV) Save(ctx context.Context, key string, value []byte) error {
	if err := k.client.Set(ctx, k.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("save %q: %w", key, err)
	}
	return nil
}

func (k *redisKV) Close() error {
	return k.client.Close()
}
