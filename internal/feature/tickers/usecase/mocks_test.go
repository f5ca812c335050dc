package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"stock_cache/internal/feature/tickers/domain/entity"
)

// ohlc は n 本の足を持つOHLCVテーブルを返します。
func ohlc(t *testing.T, n int) *entity.Table {
	t.Helper()

	idx := make([]time.Time, n)
	open := make([]float64, n)
	high := make([]float64, n)
	low := make([]float64, n)
	closes := make([]float64, n)
	vol := make([]float64, n)
	for i := 0; i < n; i++ {
		idx[i] = time.Date(2024, 1, 2+i, 0, 0, 0, 0, time.UTC)
		open[i] = 100 + float64(i)
		high[i] = 105 + float64(i)
		low[i] = 95 + float64(i)
		closes[i] = 101 + float64(i)
		vol[i] = 1000 * float64(i+1)
	}

	tbl := entity.NewTable(idx)
	require.NoError(t, tbl.SetColumn(entity.ColOpen, open))
	require.NoError(t, tbl.SetColumn(entity.ColHigh, high))
	require.NoError(t, tbl.SetColumn(entity.ColLow, low))
	require.NoError(t, tbl.SetColumn(entity.ColClose, closes))
	require.NoError(t, tbl.SetColumn(entity.ColVolume, vol))
	return tbl
}

// mockProvider はProviderインターフェースのモック実装です。
type mockProvider struct {
	ImportFunc func(ctx context.Context, symbol string) (*entity.Table, error)

	mu    sync.Mutex
	calls map[string]int
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) ImportOHLC(ctx context.Context, symbol string) (*entity.Table, error) {
	m.mu.Lock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[symbol]++
	m.mu.Unlock()
	return m.ImportFunc(ctx, symbol)
}

func (m *mockProvider) Calls(symbol string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[symbol]
}

// featFeatures は "feat" 列（終値の2倍）を追加するFeatureTransformerです。
type featFeatures struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *featFeatures) AddFeatureCols(t *entity.Table) (*entity.Table, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	closes, ok := t.Column(entity.ColClose)
	if !ok {
		return nil, entity.ErrMissingColumn
	}
	v := make([]float64, len(closes))
	for i, c := range closes {
		v[i] = c * 2
	}
	if err := t.SetColumn("feat", v); err != nil {
		return nil, err
	}
	return t, nil
}

func (f *featFeatures) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// memStore はTierStoreインターフェースのインメモリ実装です。
// 書き込み時はファイルと同様にコピーを保持し、raw層は基本列のみに制限します。
type memStore struct {
	mu       sync.Mutex
	files    map[string]*entity.Table
	reads    map[string]int
	writes   map[string]int
	writeErr error
	readErr  error
}

func newMemStore() *memStore {
	return &memStore{
		files:  make(map[string]*entity.Table),
		reads:  make(map[string]int),
		writes: make(map[string]int),
	}
}

func key(symbol string, tier entity.Tier) string {
	return fmt.Sprintf("%s/%s", tier, symbol)
}

func (s *memStore) put(symbol string, tier entity.Tier, t *entity.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[key(symbol, tier)] = t.Clone()
}

func (s *memStore) get(symbol string, tier entity.Tier) *entity.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.files[key(symbol, tier)]
}

func (s *memStore) Reads(symbol string, tier entity.Tier) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads[key(symbol, tier)]
}

func (s *memStore) Writes(symbol string, tier entity.Tier) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes[key(symbol, tier)]
}

func (s *memStore) ExistsNonEmpty(symbol string, tier entity.Tier) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.files[key(symbol, tier)]
	return ok && !t.Empty()
}

func (s *memStore) Read(symbol string, tier entity.Tier) (*entity.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads[key(symbol, tier)]++
	if s.readErr != nil {
		return nil, s.readErr
	}
	t, ok := s.files[key(symbol, tier)]
	if !ok {
		return nil, fmt.Errorf("no file for %s", key(symbol, tier))
	}
	return t.Clone(), nil
}

func (s *memStore) Write(symbol string, tier entity.Tier, t *entity.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes[key(symbol, tier)]++
	if s.writeErr != nil {
		return s.writeErr
	}
	if tier == entity.TierRaw {
		base, err := t.Select(entity.BaseColumns...)
		if err != nil {
			return err
		}
		t = base
	}
	s.files[key(symbol, tier)] = t.Clone()
	return nil
}

// deriverFunc は関数をColumnDeriverとして扱うアダプターです。
type deriverFunc func(t *entity.Table) (*entity.Table, error)

func (f deriverFunc) AddRequiredDerivedCols(t *entity.Table) (*entity.Table, error) {
	return f(t)
}
