// Package db opens the gorm connection used by the watchlist.
package db

import (
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"stock_cache/internal/feature/tickers/domain/entity"
)

// Dialector はDSNの形式からgormのドライバーを選択します。
// postgres:// または postgresql:// で始まる場合はPostgreSQL、それ以外はSQLiteのファイルパスとして扱います。
func Dialector(dsn string) gorm.Dialector {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return postgres.Open(dsn)
	}
	return sqlite.Open(dsn)
}

// OpenDB はwatchlist用のDB接続を開きます。runMigrations が true の場合はテーブルを作成します。
func OpenDB(dsn string, runMigrations bool) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("watchlist dsn is empty")
	}

	db, err := gorm.Open(Dialector(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open watchlist db: %w", err)
	}

	if runMigrations {
		if err := db.AutoMigrate(&entity.WatchedSymbol{}); err != nil {
			if cerr := Close(db); cerr != nil {
				slog.Error("failed to close watchlist db", "error", cerr)
			}
			return nil, fmt.Errorf("migrate watchlist db: %w", err)
		}
		slog.Info("watchlist migrations applied")
	}
	return db, nil
}

// Close はgormが保持する接続プールを閉じます。
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get watchlist sql db: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close watchlist db: %w", err)
	}
	return nil
}
