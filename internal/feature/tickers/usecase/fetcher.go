package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"stock_cache/internal/feature/tickers/domain"
	"stock_cache/internal/feature/tickers/domain/entity"
)

// Fetcher pulls a symbol from the external provider and persists it into both file tiers.
type Fetcher struct {
	provider  Provider
	features  FeatureTransformer
	store     TierStore
	recompute bool
}

// NewFetcher creates a Fetcher. When recompute is true the with-features tier
// is never written; the raw tier is written regardless.
func NewFetcher(provider Provider, features FeatureTransformer, store TierStore, recompute bool) *Fetcher {
	return &Fetcher{provider: provider, features: features, store: store, recompute: recompute}
}

// Fetch imports the base table for symbol, stores it in the raw tier,
// computes features and, unless in recompute mode, stores the result in the
// with-features tier. It returns the derived-shape table.
func (f *Fetcher) Fetch(ctx context.Context, symbol string) (*entity.Table, error) {
	slog.Info("importing from provider", "provider", f.provider.Name(), "symbol", symbol)

	raw, err := f.provider.ImportOHLC(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("%w: %s failed for symbol %q: %w", domain.ErrProviderFailed, f.provider.Name(), symbol, err)
	}
	if raw.Empty() {
		return nil, fmt.Errorf("%w: %s returned no rows for symbol %q", domain.ErrProviderFailed, f.provider.Name(), symbol)
	}
	base, err := raw.Select(entity.BaseColumns...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s returned a malformed table for symbol %q: %w", domain.ErrProviderFailed, f.provider.Name(), symbol, err)
	}

	if err := f.store.Write(symbol, entity.TierRaw, base); err != nil {
		return nil, fmt.Errorf("persist raw tier for %q: %w", symbol, err)
	}

	out, err := f.features.AddFeatureCols(base.Clone())
	if err != nil {
		return nil, fmt.Errorf("add feature columns for %q: %w", symbol, err)
	}

	if !f.recompute {
		if err := f.store.Write(symbol, entity.TierWithFeatures, out); err != nil {
			return nil, fmt.Errorf("persist with-features tier for %q: %w", symbol, err)
		}
	}
	return out, nil
}
