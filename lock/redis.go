package lock

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLocker implements Locker on a shared Redis instance using
// SET NX EX, so concurrent pollers on any replica contend for the
// same key.
type RedisLocker struct {
	client *redis.Client
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

func (l *RedisLocker) Acquire(ctx context.Context, fingerprint string, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, keyPrefix+fingerprint, "1", ttl).Result()
}

func (l *RedisLocker) Release(ctx context.Context, fingerprint string) error {
	return l.client.Del(ctx, keyPrefix+fingerprint).Err()
}

func (l *RedisLocker) Shared() bool { return true }
