package lock

import (
	"context"
	"sync"
	"time"
)

// LocalLocker is the in process fallback used when Redis is not
// configured. It only serializes pollers inside one process.
type LocalLocker struct {
	mu    sync.Mutex
	taken map[string]time.Time
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{taken: make(map[string]time.Time)}
}

func (l *LocalLocker) Acquire(_ context.Context, fingerprint string, ttl time.Duration) (bool, error) {
	key := keyPrefix + fingerprint

	l.mu.Lock()
	defer l.mu.Unlock()

	if deadline, ok := l.taken[key]; ok && time.Now().Before(deadline) {
		return false, nil
	}
	l.taken[key] = time.Now().Add(ttl)
	return true, nil
}

func (l *LocalLocker) Release(_ context.Context, fingerprint string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.taken, keyPrefix+fingerprint)
	return nil
}

func (l *LocalLocker) Shared() bool { return false }
