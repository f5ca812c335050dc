package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"stock_cache/internal/feature/tickers/domain/entity"
)

// Resolver walks the file tiers and the provider to build a fully-prepared table.
// It holds no per-call state; every lookup threads its symbol through explicitly.
type Resolver struct {
	store     TierStore
	features  FeatureTransformer
	fetcher   *Fetcher
	enforcer  *Enforcer
	recompute bool
}

// NewResolver creates a Resolver. In recompute mode the with-features tier is
// neither read nor written.
func NewResolver(store TierStore, features FeatureTransformer, fetcher *Fetcher, enforcer *Enforcer, recompute bool) *Resolver {
	return &Resolver{
		store:     store,
		features:  features,
		fetcher:   fetcher,
		enforcer:  enforcer,
		recompute: recompute,
	}
}

// Resolve returns the fully-prepared table for symbol. The first source that
// succeeds wins:
//
//  1. with-features tier (skipped in recompute mode), trusted as-is
//  2. raw tier, with features recomputed and written back to the with-features tier
//  3. external provider, persisted into both tiers
//
// Whatever the source, the result passes through the Enforcer before it is returned.
func (r *Resolver) Resolve(ctx context.Context, symbol string) (*entity.Table, error) {
	t, err := r.resolveTiers(ctx, symbol)
	if err != nil {
		return nil, err
	}
	out, err := r.enforcer.Ensure(t)
	if err != nil {
		return nil, fmt.Errorf("ensure derived columns for %q: %w", symbol, err)
	}
	return out, nil
}

// Refetch skips both file tiers and pulls symbol from the provider again.
// The fresh data is persisted exactly as on a first fetch (raw tier always,
// with-features tier unless in recompute mode) and passes through the Enforcer.
func (r *Resolver) Refetch(ctx context.Context, symbol string) (*entity.Table, error) {
	t, err := r.fetcher.Fetch(ctx, symbol)
	if err != nil {
		return nil, err
	}
	out, err := r.enforcer.Ensure(t)
	if err != nil {
		return nil, fmt.Errorf("ensure derived columns for %q: %w", symbol, err)
	}
	return out, nil
}

func (r *Resolver) resolveTiers(ctx context.Context, symbol string) (*entity.Table, error) {
	if !r.recompute && r.store.ExistsNonEmpty(symbol, entity.TierWithFeatures) {
		t, err := r.store.Read(symbol, entity.TierWithFeatures)
		if err != nil {
			return nil, fmt.Errorf("read with-features tier for %q: %w", symbol, err)
		}
		slog.Info("served from with-features tier", "symbol", symbol, "rows", t.Len())
		return t, nil
	}

	t, ok, err := r.rebuildFromRaw(symbol)
	if err != nil {
		return nil, err
	}
	if ok {
		return t, nil
	}

	return r.fetcher.Fetch(ctx, symbol)
}

// rebuildFromRaw recomputes features from the raw tier. ok is false when the
// raw tier is absent or empty.
func (r *Resolver) rebuildFromRaw(symbol string) (t *entity.Table, ok bool, err error) {
	if !r.store.ExistsNonEmpty(symbol, entity.TierRaw) {
		return nil, false, nil
	}

	raw, err := r.store.Read(symbol, entity.TierRaw)
	if err != nil {
		return nil, false, fmt.Errorf("read raw tier for %q: %w", symbol, err)
	}
	base, err := raw.Select(entity.BaseColumns...)
	if err != nil {
		return nil, false, fmt.Errorf("raw tier for %q: %w", symbol, err)
	}

	out, err := r.features.AddFeatureCols(base)
	if err != nil {
		return nil, false, fmt.Errorf("add feature columns for %q: %w", symbol, err)
	}

	if !r.recompute {
		if err := r.store.Write(symbol, entity.TierWithFeatures, out); err != nil {
			return nil, false, fmt.Errorf("persist with-features tier for %q: %w", symbol, err)
		}
	}
	slog.Info("rebuilt from raw tier", "symbol", symbol, "rows", out.Len(), "recompute", r.recompute)
	return out, true, nil
}
