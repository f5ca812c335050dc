// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"stock_cache/internal/feature/tickers/usecase"
	"stock_cache/internal/platform/cache"
	"stock_cache/internal/platform/config"
	"stock_cache/internal/platform/externalapi/twelvedata"
	infrahttp "stock_cache/internal/platform/http"
	infraredis "stock_cache/internal/platform/redis"
	"stock_cache/internal/shared/ratelimiter"
)

// NewProvider creates the configured external provider, wrapped in the Redis
// response cache when REDIS_ADDR is set and reachable. The returned cleanup
// closes the Redis client and is never nil.
func NewProvider(ctx context.Context, cfg config.Config) (usecase.Provider, func(), error) {
	var p usecase.Provider
	switch cfg.Provider.Name {
	case twelvedata.ProviderName:
		p = newTwelveData(cfg.Provider)
	default:
		return nil, func() {}, fmt.Errorf("unknown provider %q", cfg.Provider.Name)
	}

	rdb := newRedis(ctx, cfg.Redis)
	if rdb == nil {
		return p, func() {}, nil
	}

	ttl := cfg.Redis.TTL
	if ttl <= 0 {
		loc, err := time.LoadLocation(cfg.Redis.RefreshTZ)
		if err != nil {
			slog.Warn("unknown refresh time zone, using UTC", "tz", cfg.Redis.RefreshTZ, "error", err)
			loc = time.UTC
		}
		ttl = cache.TimeUntilNextRefresh(time.Now(), loc, cfg.Redis.RefreshHour)
	}

	cleanup := func() {
		if err := rdb.Close(); err != nil {
			slog.Error("failed to close Redis client", "error", err)
		}
	}
	return cache.NewCachingProvider(rdb, ttl, p, cfg.Redis.Namespace), cleanup, nil
}

func newTwelveData(cfg config.ProviderConfig) *twelvedata.Provider {
	tdCfg := twelvedata.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Timeout:    cfg.Timeout,
		Interval:   cfg.Interval,
		OutputSize: cfg.OutputSize,
	}
	limiter := ratelimiter.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
	return twelvedata.NewProvider(tdCfg, infrahttp.NewHTTPClient(cfg.Timeout), limiter)
}

// newRedis returns nil when Redis is not configured or unreachable; the
// provider then runs without a response cache.
func newRedis(ctx context.Context, cfg config.RedisConfig) *redisv9.Client {
	if cfg.Addr == "" {
		return nil
	}
	rdb, err := infraredis.NewRedisClient(ctx, infraredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err != nil {
		slog.Warn("Redis unavailable. Running without provider cache.", "error", err)
		return nil
	}
	return rdb
}
