package cache

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned by Get for a missing or expired key.
var ErrKeyNotFound = errors.New("key not found")

// Cache defines the counter operations backing the send quota (Redis).
type Cache interface {
	// Incr atomically increments key and, on the first increment, expires it after ttl.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error

	Close() error
}
