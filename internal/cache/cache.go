package cache

import (
	"context"
	"time"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	// Incr atomically increments an integer counter with no expiry and
	// returns the new value. A missing key counts from zero.
	Incr(ctx context.Context, key string) (int64, error)
}
