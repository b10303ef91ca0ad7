package core

import (
	"context"
	"time"
)

// FetchFunc loads the value for key from the source of truth on a miss.
type FetchFunc[T any] func(ctx context.Context, key string) (T, error)

// Cache[T] is the key-value cache behind user lookups (Cache[models.User])
// and the gauge counts (Cache[int64]). Backends: memory, redis, redis-aside.
//
// Get returns cache.ErrCacheMiss for absent or expired keys and
// cache.ErrCacheUnavailable when the backend cannot be reached. Callers treat
// both as a miss and fall back to the store.
type Cache[T any] interface {
	Get(ctx context.Context, key string) (T, error)
	Set(ctx context.Context, key string, value T, ttl time.Duration) error
	Delete(ctx context.Context, key string) error

	// GetWithFetch returns the cached value or loads it with fetch and
	// stores it for ttl. Fetch errors are returned and never cached.
	GetWithFetch(ctx context.Context, key string, ttl time.Duration, fetch FetchFunc[T]) (T, error)

	Health(ctx context.Context) error
	Close() error
}
