package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterDeniesOverCap(t *testing.T) {
	limiter := New(NewMemoryStore(), 10, time.Minute)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		res := limiter.Check(ctx, "203.0.113.7")
		require.Truef(t, res.Allowed, "request %d should be allowed", i+1)
	}
	res := limiter.Check(ctx, "203.0.113.7")
	assert.False(t, res.Allowed)
	assert.Equal(t, 10, res.Limit)
	assert.Equal(t, 0, res.Remaining)
	assert.False(t, res.ResetAt.IsZero())
}

func TestLimiterWindowReset(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	limiter := New(store, 10, time.Minute)
	ctx := context.Background()

	for i := 0; i < 11; i++ {
		limiter.Check(ctx, "key")
	}
	assert.False(t, limiter.Check(ctx, "key").Allowed)

	// First request after the window has elapsed starts a fresh window.
	now = now.Add(time.Minute + time.Second)
	res := limiter.Check(ctx, "key")
	assert.True(t, res.Allowed)
	assert.Equal(t, 9, res.Remaining)
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	limiter := New(NewMemoryStore(), 2, time.Minute)
	ctx := context.Background()

	limiter.Check(ctx, "a")
	limiter.Check(ctx, "a")
	assert.False(t, limiter.Check(ctx, "a").Allowed)
	assert.True(t, limiter.Check(ctx, "b").Allowed)
}

func TestLimiterFallbackKey(t *testing.T) {
	limiter := New(NewMemoryStore(), 1, time.Minute)
	ctx := context.Background()

	assert.True(t, limiter.Check(ctx, "").Allowed)
	// Empty keys share the placeholder identity.
	assert.False(t, limiter.Check(ctx, FallbackKey).Allowed)
}

func TestLimiterRemainingCountsDown(t *testing.T) {
	limiter := New(NewMemoryStore(), 3, time.Minute)
	ctx := context.Background()

	assert.Equal(t, 2, limiter.Check(ctx, "k").Remaining)
	assert.Equal(t, 1, limiter.Check(ctx, "k").Remaining)
	assert.Equal(t, 0, limiter.Check(ctx, "k").Remaining)
}

func TestMemoryStoreSweepsExpiredEntries(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	for _, key := range []string{"a", "b", "c"} {
		_, _, err := store.Incr(context.Background(), key, time.Minute)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, store.Len())

	now = now.Add(2 * time.Minute)
	_, _, err := store.Incr(context.Background(), "d", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}

type failingStore struct{}

func (failingStore) Incr(context.Context, string, time.Duration) (int, time.Time, error) {
	return 0, time.Time{}, errors.New("store down")
}

func TestLimiterFailsOpen(t *testing.T) {
	limiter := New(failingStore{}, 10, time.Minute)
	res := limiter.Check(context.Background(), "k")
	assert.True(t, res.Allowed)
}
