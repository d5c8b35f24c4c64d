// Package store persists pending orders keyed by their payment fingerprint.
// Two backends share one contract: redis for multi-instance deployments and
// an in-process map when no redis is configured. Entries live under
// order:<md5> and expire via TTL; nothing ever deletes an order explicitly.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/sothun2025/kimhutcoffee-v2/model"
)

// ErrNotFound is returned when no order exists (or it has expired from the
// store) for a fingerprint.
var ErrNotFound = errors.New("order not found")

const keyPrefix = "order:"

// OrderStore is the pending-order contract shared by both backends.
//
// Save is an idempotent upsert and resets the TTL on every write. Update is
// read-modify-write: the mutator runs on a copy and the result is re-saved
// with a fresh TTL; if the order is absent the mutator never runs and
// ErrNotFound comes back. Update makes no atomicity promise; exclusivity
// during the notify step is the lock's job, not the store's.
type OrderStore interface {
	Save(ctx context.Context, fingerprint string, order *model.Order, ttl time.Duration) error
	Get(ctx context.Context, fingerprint string) (*model.Order, error)
	Update(ctx context.Context, fingerprint string, ttl time.Duration, mutate func(*model.Order)) (*model.Order, error)

	// Shared reports whether entries are visible to other server instances.
	// The in-process backend returns false; callers downgrade their
	// expectations (and log) accordingly rather than failing.
	Shared() bool
}
