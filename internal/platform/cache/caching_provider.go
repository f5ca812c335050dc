// Package cache provides caching implementations for provider interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_cache/internal/feature/tickers/domain/entity"
	"stock_cache/internal/feature/tickers/usecase"
)

// CachingProvider decorates a Provider with a Redis read-through cache of
// the raw OHLCV tables it returns. Several processes sharing one Redis then
// only hit the external API once per TTL for each symbol.
// A nil Redis client disables caching entirely.
type CachingProvider struct {
	inner     usecase.Provider
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.Provider = (*CachingProvider)(nil)

// NewCachingProvider decorates a Provider with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "ohlc".
func NewCachingProvider(rdb *redis.Client, ttl time.Duration, inner usecase.Provider, namespace string) *CachingProvider {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "ohlc"
	}
	return &CachingProvider{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Name returns the wrapped provider's name.
func (c *CachingProvider) Name() string {
	return c.inner.Name()
}

// ImportOHLC returns the cached table when present, otherwise delegates to
// the wrapped provider and caches a non-empty result.
func (c *CachingProvider) ImportOHLC(ctx context.Context, symbol string) (*entity.Table, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.ImportOHLC(ctx, symbol)
	}

	key := c.cacheKey(symbol)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		if t, err := decodeTable(b); err == nil {
			slog.Debug("provider cache hit", "key", key)
			return t, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the provider
	t, err := c.inner.ImportOHLC(ctx, symbol)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort). Empty results are not cached so the
	// next lookup asks the provider again.
	if !t.Empty() {
		if b, err := encodeTable(t); err == nil {
			if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
				slog.Warn("failed to cache provider response", "key", key, "error", err)
			}
		}
	}
	return t, nil
}

// cacheKey generates a cache key for a symbol of the wrapped provider.
func (c *CachingProvider) cacheKey(symbol string) string {
	return fmt.Sprintf("%s:%s:%s", c.namespace, safe(c.inner.Name()), safe(symbol))
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}

// cachedTable is the JSON shape of a table in Redis.
type cachedTable struct {
	Index   []time.Time `json:"index"`
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

func encodeTable(t *entity.Table) ([]byte, error) {
	ct := cachedTable{Index: t.Index, Columns: t.Columns()}
	for _, name := range ct.Columns {
		v, _ := t.Column(name)
		ct.Values = append(ct.Values, v)
	}
	return json.Marshal(ct)
}

func decodeTable(b []byte) (*entity.Table, error) {
	var ct cachedTable
	if err := json.Unmarshal(b, &ct); err != nil {
		return nil, err
	}
	if len(ct.Columns) != len(ct.Values) {
		return nil, fmt.Errorf("cached table has %d columns and %d value sets", len(ct.Columns), len(ct.Values))
	}
	t := entity.NewTable(ct.Index)
	for i, name := range ct.Columns {
		if err := t.SetColumn(name, ct.Values[i]); err != nil {
			return nil, err
		}
	}
	return t, nil
}
