package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"stock_cache/internal/feature/tickers/domain"
	"stock_cache/internal/feature/tickers/domain/entity"
)

// Options configures a TickersData.
type Options struct {
	// Symbols are resolved eagerly by NewTickersData.
	Symbols []string
	// Provider is the external OHLC source.
	Provider Provider
	// Features adds feature columns to base tables.
	Features FeatureTransformer
	// Deriver computes the required derived columns.
	Deriver ColumnDeriver
	// Store holds the raw and with-features tiers.
	Store TierStore
	// RecomputeEveryTime skips reading and writing the with-features tier,
	// so feature columns are rebuilt on every resolution. Useful when the
	// feature parameters are being tuned.
	RecomputeEveryTime bool
	// PreloadConcurrency bounds how many symbols are preloaded at once.
	// Values below 1 mean sequential.
	PreloadConcurrency int
}

// TickersData keeps fully-prepared tables in memory for the lifetime of the
// process and serves them without touching disk or network on repeat lookups.
// Entries are never evicted; Reload is the only way to replace one.
type TickersData struct {
	resolver *Resolver
	loads    singleflight.Group

	mu   sync.RWMutex
	data map[string]*entity.Table
}

// NewTickersData wires the resolution pipeline and preloads opts.Symbols.
// A failure on any preloaded symbol aborts construction.
func NewTickersData(ctx context.Context, opts Options) (*TickersData, error) {
	switch {
	case opts.Provider == nil:
		return nil, fmt.Errorf("provider: %w", domain.ErrNilCollaborator)
	case opts.Features == nil:
		return nil, fmt.Errorf("feature transformer: %w", domain.ErrNilCollaborator)
	case opts.Deriver == nil:
		return nil, fmt.Errorf("column deriver: %w", domain.ErrNilCollaborator)
	case opts.Store == nil:
		return nil, fmt.Errorf("tier store: %w", domain.ErrNilCollaborator)
	}

	fetcher := NewFetcher(opts.Provider, opts.Features, opts.Store, opts.RecomputeEveryTime)
	resolver := NewResolver(opts.Store, opts.Features, fetcher, NewEnforcer(opts.Deriver), opts.RecomputeEveryTime)

	td := &TickersData{
		resolver: resolver,
		data:     make(map[string]*entity.Table, len(opts.Symbols)),
	}
	if err := td.preload(ctx, opts.Symbols, opts.PreloadConcurrency); err != nil {
		return nil, err
	}
	slog.Info("tickers data ready", "preloaded", len(opts.Symbols), "recompute", opts.RecomputeEveryTime)
	return td, nil
}

func (td *TickersData) preload(ctx context.Context, symbols []string, concurrency int) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))
	for _, s := range symbols {
		g.Go(func() error {
			if _, err := td.GetData(gctx, s); err != nil {
				return fmt.Errorf("preload %q: %w", s, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// GetData returns the fully-prepared table for symbol, resolving and caching
// it on the first request. Later calls return the same *entity.Table.
// Concurrent first requests for one symbol share a single resolution, which
// is not cancelled when the caller that started it goes away.
func (td *TickersData) GetData(ctx context.Context, symbol string) (*entity.Table, error) {
	if symbol == "" {
		return nil, domain.ErrEmptySymbol
	}

	td.mu.RLock()
	t, ok := td.data[symbol]
	td.mu.RUnlock()
	if ok {
		return t, nil
	}

	// 共有される読み込みは最初の呼び出し元のキャンセルに引きずられない
	shared := context.WithoutCancel(ctx)
	v, err, _ := td.loads.Do(symbol, func() (interface{}, error) {
		// 待機中に別の呼び出しが格納している場合がある
		td.mu.RLock()
		t, ok := td.data[symbol]
		td.mu.RUnlock()
		if ok {
			return t, nil
		}

		t, err := td.resolver.Resolve(shared, symbol)
		if err != nil {
			return nil, err
		}
		return td.storeIfAbsent(symbol, t), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*entity.Table), nil
}

// Reload bypasses the file tiers, fetches symbol from the provider again and
// overwrites the cached entry. On failure the previous entry, if any, is kept.
// Concurrent reloads of one symbol share a single fetch.
func (td *TickersData) Reload(ctx context.Context, symbol string) (*entity.Table, error) {
	if symbol == "" {
		return nil, domain.ErrEmptySymbol
	}

	shared := context.WithoutCancel(ctx)
	v, err, _ := td.loads.Do(reloadKey(symbol), func() (interface{}, error) {
		t, err := td.resolver.Refetch(shared, symbol)
		if err != nil {
			return nil, err
		}
		td.store(symbol, t)
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*entity.Table), nil
}

// Symbols returns the cached symbols in sorted order.
func (td *TickersData) Symbols() []string {
	td.mu.RLock()
	defer td.mu.RUnlock()

	out := make([]string, 0, len(td.data))
	for s := range td.data {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// storeIfAbsent caches t unless an entry already exists, in which case the
// existing entry wins. A reload finishing while a first load is in flight
// must not be overwritten by the older result.
func (td *TickersData) storeIfAbsent(symbol string, t *entity.Table) *entity.Table {
	td.mu.Lock()
	defer td.mu.Unlock()

	if cur, ok := td.data[symbol]; ok {
		return cur
	}
	td.data[symbol] = t
	return t
}

func (td *TickersData) store(symbol string, t *entity.Table) {
	td.mu.Lock()
	td.data[symbol] = t
	td.mu.Unlock()
}

// GetData のキーと衝突しないよう区別する
func reloadKey(symbol string) string {
	return "reload\x00" + symbol
}
