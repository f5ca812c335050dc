package adapters

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stock_cache/internal/feature/tickers/domain/entity"
	"stock_cache/internal/feature/tickers/usecase"
)

// watchlistGorm はSymbolSourceインターフェースのgorm実装です。
type watchlistGorm struct {
	db *gorm.DB
}

var _ usecase.SymbolSource = (*watchlistGorm)(nil)

// NewWatchlistRepository は指定されたDB接続でwatchlistリポジトリの新しいインスタンスを生成します。
func NewWatchlistRepository(db *gorm.DB) *watchlistGorm {
	return &watchlistGorm{db: db}
}

// ListPreloadCodes はsort_key順にプリロード対象の銘柄コードのみを返します。
func (r *watchlistGorm) ListPreloadCodes(ctx context.Context) ([]string, error) {
	var codes []string
	if err := r.db.WithContext(ctx).
		Model(&entity.WatchedSymbol{}).
		Where("preload = ?", true).
		Order("sort_key ASC").
		Pluck("code", &codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

// List はsort_key順にwatchlistの全銘柄を返します。
func (r *watchlistGorm) List(ctx context.Context) ([]entity.WatchedSymbol, error) {
	var out []entity.WatchedSymbol
	if err := r.db.WithContext(ctx).
		Order("sort_key ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Upsert は銘柄コードをキーにwatchlistへ追加または更新します。
func (r *watchlistGorm) Upsert(ctx context.Context, symbols []entity.WatchedSymbol) error {
	if len(symbols) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "preload", "sort_key", "updated_at"}),
	}).Create(&symbols).Error
}
