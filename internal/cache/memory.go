package cache

import (
	"context"
	"sync"
	"time"

	"github.com/franra18/ReViews/internal/core"
)

// sweepEvery is the number of writes between expired-entry sweeps
const sweepEvery = 256

var _ core.Cache[struct{}] = (*MemoryCache[struct{}])(nil)

type memoryEntry[T any] struct {
	value     T
	expiresAt time.Time
}

// fetchCall is an in-flight GetWithFetch shared by concurrent callers
type fetchCall[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// MemoryCache is a process-local Cache for single-instance deployments.
// Concurrent GetWithFetch calls for one key share a single fetch.
type MemoryCache[T any] struct {
	mu       sync.Mutex
	entries  map[string]memoryEntry[T]
	inflight map[string]*fetchCall[T]
	writes   int
	closed   bool
	now      func() time.Time
}

// MemoryOption configures a MemoryCache
type MemoryOption func(*memoryConfig)

type memoryConfig struct {
	now func() time.Time
}

// WithClock sets the time source used for expiry
func WithClock(now func() time.Time) MemoryOption {
	return func(c *memoryConfig) {
		if now != nil {
			c.now = now
		}
	}
}

func NewMemoryCache[T any](opts ...MemoryOption) *MemoryCache[T] {
	cfg := memoryConfig{now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &MemoryCache[T]{
		entries:  make(map[string]memoryEntry[T]),
		inflight: make(map[string]*fetchCall[T]),
		now:      cfg.now,
	}
}

func (m *MemoryCache[T]) Get(_ context.Context, key string) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getLocked(key)
}

func (m *MemoryCache[T]) getLocked(key string) (T, error) {
	var zero T
	if m.closed {
		return zero, ErrCacheUnavailable
	}
	entry, ok := m.entries[key]
	if !ok {
		return zero, ErrCacheMiss
	}
	if !m.now().Before(entry.expiresAt) {
		delete(m.entries, key)
		return zero, ErrCacheMiss
	}
	return entry.value, nil
}

func (m *MemoryCache[T]) Set(_ context.Context, key string, value T, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setLocked(key, value, ttl)
}

func (m *MemoryCache[T]) setLocked(key string, value T, ttl time.Duration) error {
	if m.closed {
		return ErrCacheUnavailable
	}
	now := m.now()
	m.entries[key] = memoryEntry[T]{value: value, expiresAt: now.Add(ttl)}

	m.writes++
	if m.writes%sweepEvery == 0 {
		for k, e := range m.entries {
			if !now.Before(e.expiresAt) {
				delete(m.entries, k)
			}
		}
	}
	return nil
}

func (m *MemoryCache[T]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrCacheUnavailable
	}
	delete(m.entries, key)
	return nil
}

// Len returns the number of stored entries, expired ones included
func (m *MemoryCache[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Close drops every entry; later calls fail with ErrCacheUnavailable.
func (m *MemoryCache[T]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]memoryEntry[T])
	m.closed = true
	return nil
}

func (m *MemoryCache[T]) Health(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrCacheUnavailable
	}
	return nil
}

func (m *MemoryCache[T]) GetWithFetch(
	ctx context.Context,
	key string,
	ttl time.Duration,
	fetch core.FetchFunc[T],
) (T, error) {
	m.mu.Lock()
	if value, err := m.getLocked(key); err == nil {
		m.mu.Unlock()
		return value, nil
	}
	if call, ok := m.inflight[key]; ok {
		m.mu.Unlock()
		select {
		case <-call.done:
			return call.value, call.err
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
	call := &fetchCall[T]{done: make(chan struct{})}
	m.inflight[key] = call
	m.mu.Unlock()

	call.value, call.err = fetch(ctx, key)

	m.mu.Lock()
	delete(m.inflight, key)
	if call.err == nil {
		_ = m.setLocked(key, call.value, ttl)
	}
	m.mu.Unlock()
	close(call.done)

	return call.value, call.err
}

// fetchThrough is the cache-aside path for backends without native
// support. Backend errors on Get or Set fall through to fetch.
func fetchThrough[T any](
	ctx context.Context,
	c core.Cache[T],
	key string,
	ttl time.Duration,
	fetch core.FetchFunc[T],
) (T, error) {
	if value, err := c.Get(ctx, key); err == nil {
		return value, nil
	}
	value, err := fetch(ctx, key)
	if err != nil {
		var zero T
		return zero, err
	}
	_ = c.Set(ctx, key, value, ttl)
	return value, nil
}
