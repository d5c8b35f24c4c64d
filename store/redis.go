package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sothun2025/kimhutcoffee-v2/model"
)

// RedisStore keeps orders in redis as JSON under order:<md5> with a TTL,
// visible to every server instance sharing the database.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Save(ctx context.Context, fingerprint string, order *model.Order, ttl time.Duration) error {
	raw, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+fingerprint, raw, ttl).Err(); err != nil {
		return fmt.Errorf("save order: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, fingerprint string) (*model.Order, error) {
	raw, err := s.client.Get(ctx, keyPrefix+fingerprint).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	var order model.Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}
	return &order, nil
}

func (s *RedisStore) Update(ctx context.Context, fingerprint string, ttl time.Duration, mutate func(*model.Order)) (*model.Order, error) {
	order, err := s.Get(ctx, fingerprint)
	if err != nil {
		return nil, err
	}
	mutate(order)
	if err := s.Save(ctx, fingerprint, order, ttl); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *RedisStore) Shared() bool { return true }
