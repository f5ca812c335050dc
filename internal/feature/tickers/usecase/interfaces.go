// Package usecase implements the tiered resolution of per-symbol OHLC tables:
// in-memory cache, with-features file tier, raw file tier, external provider.
package usecase

import (
	"context"

	"stock_cache/internal/feature/tickers/domain/entity"
)

// Provider fetches base OHLCV tables from an external data source.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type Provider interface {
	// Name identifies the provider in logs and error messages.
	Name() string
	// ImportOHLC returns the full base-shape table for a symbol.
	ImportOHLC(ctx context.Context, symbol string) (*entity.Table, error)
}

// FeatureTransformer adds strategy-specific feature columns to a base table.
// It must keep the base columns and the index intact.
type FeatureTransformer interface {
	AddFeatureCols(t *entity.Table) (*entity.Table, error)
}

// ColumnDeriver computes the required derived columns (true range and its delta)
// from High, Low and Close.
type ColumnDeriver interface {
	AddRequiredDerivedCols(t *entity.Table) (*entity.Table, error)
}

// TierStore reads and writes the on-disk tiers of a symbol.
type TierStore interface {
	// ExistsNonEmpty reports whether the tier file exists and has a non-zero size.
	ExistsNonEmpty(symbol string, tier entity.Tier) bool
	Read(symbol string, tier entity.Tier) (*entity.Table, error)
	Write(symbol string, tier entity.Tier, t *entity.Table) error
}

// SymbolSource lists the symbols to preload when no explicit list is configured.
type SymbolSource interface {
	ListPreloadCodes(ctx context.Context) ([]string, error)
}
