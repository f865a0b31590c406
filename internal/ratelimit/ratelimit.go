// Package ratelimit caps lookup requests per client key to N requests per
// fixed window. It is a coarse defense against accidental hammering, not a
// security control: trivial IP rotation walks straight past it.
package ratelimit

import (
	"context"
	"time"
)

// FallbackKey is used when the client identity cannot be resolved. Reduced
// per-client precision is accepted over failing the request.
const FallbackKey = "unknown"

// Store counts requests per key within a fixed window. Incr returns the
// count including the current request and the moment the window resets.
type Store interface {
	Incr(ctx context.Context, key string, window time.Duration) (count int, resetAt time.Time, err error)
}

type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

type Limiter struct {
	store  Store
	max    int
	window time.Duration
}

func New(store Store, max int, window time.Duration) *Limiter {
	return &Limiter{store: store, max: max, window: window}
}

// Check records one request for key and reports whether it is under the
// cap. Store failures fail open: availability wins over precision.
func (l *Limiter) Check(ctx context.Context, key string) Result {
	if key == "" {
		key = FallbackKey
	}
	count, resetAt, err := l.store.Incr(ctx, key, l.window)
	if err != nil {
		return Result{Allowed: true, Limit: l.max, Remaining: l.max, ResetAt: time.Now().Add(l.window)}
	}
	remaining := l.max - count
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   count <= l.max,
		Limit:     l.max,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
}
