package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLockerSingleWinner(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	var won int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := l.Acquire(ctx, "fp", time.Minute)
			assert.NoError(t, err)
			if ok {
				atomic.AddInt32(&won, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), won, "exactly one caller may hold the lock")
}

func TestLocalLockerReleaseReopens(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	ok, err := l.Acquire(ctx, "fp", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = l.Acquire(ctx, "fp", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, l.Release(ctx, "fp"))

	ok, err = l.Acquire(ctx, "fp", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLocalLockerExpiry(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	ok, err := l.Acquire(ctx, "fp", 10*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)

	time.Sleep(25 * time.Millisecond)

	ok, err = l.Acquire(ctx, "fp", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "expired lock must be acquirable again")
}

func TestLocalLockerIndependentKeys(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	ok, err := l.Acquire(ctx, "a", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = l.Acquire(ctx, "b", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "locks for different fingerprints must not interfere")

	assert.False(t, l.Shared())
}

func TestLocalLockerReleaseUnheld(t *testing.T) {
	l := NewLocalLocker()
	assert.NoError(t, l.Release(context.Background(), "never-held"))
}
