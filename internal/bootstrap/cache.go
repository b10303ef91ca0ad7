package bootstrap

import (
	"context"
	"fmt"
	"log"

	"github.com/franra18/ReViews/internal/cache"
	"github.com/franra18/ReViews/internal/config"
	"github.com/franra18/ReViews/internal/core"
	"github.com/franra18/ReViews/internal/metrics"
	"github.com/franra18/ReViews/internal/models"
)

const (
	metricsCachePrefix = "reviews:metrics:"
	userCachePrefix    = "reviews:users:"
)

// initializeMetrics initializes Prometheus metrics
func initializeMetrics(cfg *config.Config) core.Recorder {
	prometheusMetrics := metrics.Init(cfg.MetricsEnabled)
	if cfg.MetricsEnabled {
		log.Println("Prometheus metrics initialized")
	} else {
		log.Println("Metrics disabled (using noop implementation)")
	}
	return prometheusMetrics
}

// initializeMetricsCache builds the cache behind the gauge counts. It
// shares the backend selected for the user cache.
func initializeMetricsCache(
	ctx context.Context,
	cfg *config.Config,
) (core.Cache[int64], func() error, error) {
	if !cfg.MetricsEnabled || cfg.MetricsGaugeUpdateInterval <= 0 {
		return nil, nil, nil
	}

	c, err := newCache[int64](ctx, cfg, metricsCachePrefix)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize %s metrics cache: %w", cfg.UserCacheType, err)
	}
	log.Printf("Metrics cache: %s", cfg.UserCacheType)
	return c, c.Close, nil
}

// initializeUserCache initializes the user cache (always enabled, defaults to memory)
func initializeUserCache(
	ctx context.Context,
	cfg *config.Config,
) (core.Cache[models.User], func() error, error) {
	c, err := newCache[models.User](ctx, cfg, userCachePrefix)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize %s user cache: %w", cfg.UserCacheType, err)
	}

	switch cfg.UserCacheType {
	case config.UserCacheTypeRedisAside:
		log.Printf("User cache: redis-aside (addr=%s, db=%d, client TTL=%s)",
			cfg.RedisAddr, cfg.RedisDB, cfg.UserCacheClientTTL)
	case config.UserCacheTypeRedis:
		log.Printf("User cache: redis (addr=%s, db=%d)", cfg.RedisAddr, cfg.RedisDB)
	default:
		log.Println("User cache: memory (single instance only)")
	}
	return c, c.Close, nil
}

func newCache[T any](ctx context.Context, cfg *config.Config, prefix string) (core.Cache[T], error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.CacheInitTimeout)
	defer cancel()

	switch cfg.UserCacheType {
	case config.UserCacheTypeRedisAside:
		c, err := cache.NewRueidisAsideCache[T](
			cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB,
			prefix,
			cfg.UserCacheClientTTL,
		)
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.UserCacheTypeRedis:
		c, err := cache.NewRueidisCache[T](
			ctx,
			cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB,
			prefix,
		)
		if err != nil {
			return nil, err
		}
		return c, nil
	default: // memory
		return cache.NewMemoryCache[T](), nil
	}
}
