package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/sothun2025/kimhutcoffee-v2/model"
)

// MemoryStore is the fallback backend used when no REDIS_URL is configured.
// Orders are held in this process only, so a second instance cannot see
// them. Expiry is lazy: entries past their deadline are dropped when touched.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	raw      []byte
	deadline time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Save(_ context.Context, fingerprint string, order *model.Order, ttl time.Duration) error {
	// Orders are stored encoded so Get hands out copies, same as redis.
	raw, err := json.Marshal(order)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[keyPrefix+fingerprint] = memoryEntry{
		raw:      raw,
		deadline: time.Now().Add(ttl),
	}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, fingerprint string) (*model.Order, error) {
	s.mu.Lock()
	entry, ok := s.entries[keyPrefix+fingerprint]
	if ok && time.Now().After(entry.deadline) {
		delete(s.entries, keyPrefix+fingerprint)
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		return nil, ErrNotFound
	}

	var order model.Order
	if err := json.Unmarshal(entry.raw, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *MemoryStore) Update(ctx context.Context, fingerprint string, ttl time.Duration, mutate func(*model.Order)) (*model.Order, error) {
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

func (s *MemoryStore) Shared() bool { return false }
