// Package lock hands out short lived notification locks keyed by the
// order fingerprint. Acquire is a non blocking test and set: exactly one
// caller wins, everyone else backs off and polls again.
package lock

import (
	"context"
	"time"
)

const keyPrefix = "notify_lock:"

// Locker guards the notify section of payment confirmation.
type Locker interface {
	// Acquire tries to take the lock for the given fingerprint. It never
	// blocks. The lock expires on its own after ttl so a crashed holder
	// cannot wedge the order.
	Acquire(ctx context.Context, fingerprint string, ttl time.Duration) (bool, error)

	// Release drops the lock early. Best effort, expiry still applies.
	Release(ctx context.Context, fingerprint string) error

	// Shared reports whether the lock is visible across processes.
	Shared() bool
}
