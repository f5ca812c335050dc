package di

import (
	"context"
	"fmt"
	"log/slog"

	"stock_cache/internal/feature/tickers/adapters"
	"stock_cache/internal/feature/tickers/derive"
	"stock_cache/internal/feature/tickers/usecase"
	"stock_cache/internal/platform/config"
	infradb "stock_cache/internal/platform/db"
)

// openWatchlistDB is swapped in tests to observe the connection lifecycle.
var openWatchlistDB = infradb.OpenDB

// NewTickersData builds the tiered cache from configuration and preloads the
// configured symbols (or, when none are configured, the watchlist).
// The returned cleanup releases the provider's resources and the watchlist
// connection, and is never nil.
func NewTickersData(ctx context.Context, cfg config.Config) (*usecase.TickersData, func(), error) {
	provider, cleanup, err := NewProvider(ctx, cfg)
	if err != nil {
		return nil, cleanup, err
	}

	var src usecase.SymbolSource
	if len(cfg.Symbols) == 0 && cfg.Watchlist.DSN != "" {
		db, err := openWatchlistDB(cfg.Watchlist.DSN, cfg.Watchlist.RunMigrations)
		if err != nil {
			return nil, cleanup, err
		}
		closeProvider := cleanup
		cleanup = func() {
			closeProvider()
			if err := infradb.Close(db); err != nil {
				slog.Error("failed to close watchlist db", "error", err)
			}
		}
		src = adapters.NewWatchlistRepository(db)
	}

	symbols, err := usecase.PreloadSymbols(ctx, cfg.Symbols, src)
	if err != nil {
		return nil, cleanup, err
	}
	slog.Info("preloading symbols", "count", len(symbols), "cache_dir", cfg.CacheDir)

	td, err := usecase.NewTickersData(ctx, usecase.Options{
		Symbols:  symbols,
		Provider: provider,
		Features: derive.Indicators{
			SMAPeriods: cfg.Features.SMAPeriods,
			ATRPeriod:  cfg.Features.ATRPeriod,
			Returns:    cfg.Features.Returns,
		},
		Deriver:            derive.NewTrueRange(),
		Store:              adapters.NewXLSXStore(cfg.CacheDir),
		RecomputeEveryTime: cfg.RecomputeEveryTime,
		PreloadConcurrency: cfg.PreloadConcurrency,
	})
	if err != nil {
		return nil, cleanup, fmt.Errorf("build tickers data: %w", err)
	}
	return td, cleanup, nil
}
