package usecase

import (
	"context"
	"fmt"
	"strings"
)

// PreloadSymbols decides which symbols to preload. An explicit list wins;
// otherwise the watchlist is consulted when one is available.
// Blank entries and duplicates are dropped, order is preserved.
func PreloadSymbols(ctx context.Context, explicit []string, src SymbolSource) ([]string, error) {
	codes := explicit
	if len(codes) == 0 && src != nil {
		var err error
		codes, err = src.ListPreloadCodes(ctx)
		if err != nil {
			return nil, fmt.Errorf("list watchlist symbols: %w", err)
		}
	}

	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out, nil
}
