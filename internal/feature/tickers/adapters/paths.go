// Package adapters provides the file-tier store and the watchlist repository
// for the tickers feature.
package adapters

import (
	"net/url"
	"path/filepath"

	"stock_cache/internal/feature/tickers/domain/entity"
)

// LocalFilePath returns the spreadsheet path of a symbol's tier under dir,
// e.g. data/single_raw_AAPL.xlsx. Symbols are path-escaped so the mapping
// stays injective even for symbols containing separators.
func LocalFilePath(dir, symbol string, tier entity.Tier) string {
	return filepath.Join(dir, "single_"+string(tier)+"_"+url.PathEscape(symbol)+".xlsx")
}
