package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sothun2025/kimhutcoffee-v2/model"
)

func sampleOrder() *model.Order {
	now := time.Now().UTC()
	return &model.Order{
		Customer: model.Customer{Name: "Dara", Email: "dara@example.com"},
		Items: []model.OrderItem{
			{ID: 1, Name: "Espresso", Price: decimal.RequireFromString("1.75"), Qty: 2, LineTotal: decimal.RequireFromString("3.50")},
		},
		Subtotal:  "3.50",
		Currency:  "USD",
		QRPayload: "000201...",
		CreatedAt: now,
		ExpiresAt: now.Add(60 * time.Second),
	}
}

func TestMemoryStoreSaveGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "abc", sampleOrder(), time.Minute))

	got, err := s.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "Dara", got.Customer.Name)
	assert.Equal(t, "3.50", got.Subtotal)
	assert.False(t, got.Notified)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.False(t, s.Shared())
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "abc", sampleOrder(), time.Minute))

	first, err := s.Get(ctx, "abc")
	require.NoError(t, err)
	first.Notified = true
	first.Items[0].Qty = 99

	second, err := s.Get(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, second.Notified, "mutating a returned order must not touch the stored one")
	assert.Equal(t, 2, second.Items[0].Qty)
}

func TestMemoryStoreTTL(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "abc", sampleOrder(), 10*time.Millisecond))

	time.Sleep(25 * time.Millisecond)

	_, err := s.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreSaveResetsTTL(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "abc", sampleOrder(), 15*time.Millisecond))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, s.Save(ctx, "abc", sampleOrder(), time.Minute))
	time.Sleep(10 * time.Millisecond)

	_, err := s.Get(ctx, "abc")
	assert.NoError(t, err, "second save must have reset the deadline")
}

func TestMemoryStoreUpdate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "abc", sampleOrder(), time.Minute))

	updated, err := s.Update(ctx, "abc", time.Minute, func(o *model.Order) {
		o.Notified = true
	})
	require.NoError(t, err)
	assert.True(t, updated.Notified)

	got, err := s.Get(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, got.Notified)
}

func TestMemoryStoreUpdateMissing(t *testing.T) {
	s := NewMemoryStore()
	called := false

	_, err := s.Update(context.Background(), "nope", time.Minute, func(*model.Order) {
		called = true
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, called, "mutator must not run for a missing order")
}
