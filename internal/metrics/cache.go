package metrics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/franra18/ReViews/internal/core"
)

// metricsStore defines the database counts needed by CacheWrapper
type metricsStore interface {
	CountUsers(ctx context.Context) (int64, error)
	CountReviews(ctx context.Context) (int64, error)
}

// CacheWrapper provides a read-through cache for gauge counts so several
// replicas sharing a Redis cache query the database once per TTL.
type CacheWrapper struct {
	store metricsStore
	cache core.Cache[int64]
}

// NewCacheWrapper creates a new cache wrapper for metrics
func NewCacheWrapper(store metricsStore, cache core.Cache[int64]) *CacheWrapper {
	return &CacheWrapper{
		store: store,
		cache: cache,
	}
}

// GetUsersCount returns the number of accounts
func (m *CacheWrapper) GetUsersCount(ctx context.Context, ttl time.Duration) (int64, error) {
	return m.cache.GetWithFetch(ctx, "count:users", ttl,
		func(ctx context.Context, key string) (int64, error) {
			return m.store.CountUsers(ctx)
		},
	)
}

// GetReviewsCount returns the number of stored reviews
func (m *CacheWrapper) GetReviewsCount(ctx context.Context, ttl time.Duration) (int64, error) {
	return m.cache.GetWithFetch(ctx, "count:reviews", ttl,
		func(ctx context.Context, key string) (int64, error) {
			return m.store.CountReviews(ctx)
		},
	)
}

// Refresh updates the account and review gauges. Query failures are
// counted, leave the previous gauge value in place and are returned joined.
func (m *CacheWrapper) Refresh(ctx context.Context, r Recorder, ttl time.Duration) error {
	var errs []error

	if users, err := m.GetUsersCount(ctx, ttl); err != nil {
		r.RecordDatabaseQueryError("count_users")
		errs = append(errs, fmt.Errorf("count_users: %w", err))
	} else {
		r.SetUsersCount(int(users))
	}

	if reviews, err := m.GetReviewsCount(ctx, ttl); err != nil {
		r.RecordDatabaseQueryError("count_reviews")
		errs = append(errs, fmt.Errorf("count_reviews: %w", err))
	} else {
		r.SetReviewsCount(int(reviews))
	}

	return errors.Join(errs...)
}
