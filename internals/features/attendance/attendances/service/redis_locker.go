package service

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisLocker: SETNX dengan TTL.
type RedisLocker struct {
	Client *redis.Client
}

// NewRedisLocker mengembalikan nil (tanpa lock) kalau Redis tidak tersedia.
func NewRedisLocker(client *redis.Client) Locker {
	if client == nil {
		return nil
	}
	return &RedisLocker{Client: client}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.Client.SetNX(ctx, key, "1", ttl).Result()
}

func (l *RedisLocker) Release(ctx context.Context, key string) {
	_ = l.Client.Del(ctx, key).Err()
}
