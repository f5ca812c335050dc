package adapters

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"stock_cache/internal/feature/tickers/domain"
	"stock_cache/internal/feature/tickers/domain/entity"
	"stock_cache/internal/feature/tickers/usecase"
)

const (
	sheetName   = "Sheet1"
	indexHeader = "Date"
)

// indexLayouts are tried in order when parsing the index column.
var indexLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// XLSXStore keeps each tier of each symbol in its own .xlsx workbook.
// Row 1 is the header, column A the date index.
type XLSXStore struct {
	dir string
}

var _ usecase.TierStore = (*XLSXStore)(nil)

// NewXLSXStore creates a store rooted at dir. An empty dir means the working directory.
func NewXLSXStore(dir string) *XLSXStore {
	if dir == "" {
		dir = "."
	}
	return &XLSXStore{dir: dir}
}

// Path returns the file path of a symbol's tier.
func (s *XLSXStore) Path(symbol string, tier entity.Tier) string {
	return LocalFilePath(s.dir, symbol, tier)
}

// ExistsNonEmpty reports whether the tier file exists and is not zero bytes.
func (s *XLSXStore) ExistsNonEmpty(symbol string, tier entity.Tier) bool {
	fi, err := os.Stat(s.Path(symbol, tier))
	return err == nil && fi.Mode().IsRegular() && fi.Size() > 0
}

// Read loads a tier file. The raw tier is restricted to the base OHLCV columns,
// discarding anything else that may have been added to the file by hand.
func (s *XLSXStore) Read(symbol string, tier entity.Tier) (*entity.Table, error) {
	path := s.Path(symbol, tier)
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("failed to close workbook", "path", path, "error", err)
		}
	}()

	rows, err := f.GetRows(f.GetSheetName(0), excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows of %s: %w", path, err)
	}
	t, err := tableFromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if tier == entity.TierRaw {
		if t, err = t.Select(entity.BaseColumns...); err != nil {
			return nil, fmt.Errorf("raw tier %s: %w", path, err)
		}
	}
	slog.Debug("read tier file", "path", path, "rows", t.Len(), "columns", len(t.Columns()))
	return t, nil
}

// Write stores t as the given tier, creating the parent directory first.
// The raw tier only ever receives the base OHLCV columns.
func (s *XLSXStore) Write(symbol string, tier entity.Tier, t *entity.Table) error {
	path := s.Path(symbol, tier)
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return err
	}

	if tier == entity.TierRaw {
		var err error
		if t, err = t.Select(entity.BaseColumns...); err != nil {
			return fmt.Errorf("raw tier %s: %w", path, err)
		}
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("failed to close workbook", "path", path, "error", err)
		}
	}()

	cols := t.Columns()
	header := make([]interface{}, 0, len(cols)+1)
	header = append(header, indexHeader)
	for _, c := range cols {
		header = append(header, c)
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header of %s: %w", path, err)
	}

	values := make([][]float64, len(cols))
	for j, c := range cols {
		values[j], _ = t.Column(c)
	}
	for i, ts := range t.Index {
		row := make([]interface{}, 0, len(cols)+1)
		row = append(row, ts.Format(time.RFC3339))
		for j := range cols {
			v := values[j][i]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				row = append(row, nil)
				continue
			}
			row = append(row, v)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d of %s: %w", i+2, path, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	slog.Info("saved tier file", "path", path, "tier", string(tier), "rows", t.Len())
	return nil
}

// ensureDir creates dir if needed and verifies that it exists afterwards.
func ensureDir(dir string) error {
	abs, err := filepath.Abs(filepath.Clean(dir))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrDirectoryCreate, dir, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrDirectoryCreate, abs, err)
	}
	fi, err := os.Stat(abs)
	if err != nil || !fi.IsDir() {
		return fmt.Errorf("%w: %s", domain.ErrDirectoryCreate, abs)
	}
	return nil
}

func tableFromRows(rows [][]string) (*entity.Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no header row")
	}
	header := rows[0]
	if len(header) == 0 {
		return nil, fmt.Errorf("empty header row")
	}
	cols := header[1:]

	index := make([]time.Time, 0, len(rows)-1)
	values := make([][]float64, len(cols))
	for r, row := range rows[1:] {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		ts, err := parseIndex(row[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", r+2, err)
		}
		index = append(index, ts)
		for j := range cols {
			// GetRows trims trailing empty cells.
			cell := ""
			if j+1 < len(row) {
				cell = strings.TrimSpace(row[j+1])
			}
			v := math.NaN()
			if cell != "" {
				if v, err = strconv.ParseFloat(cell, 64); err != nil {
					return nil, fmt.Errorf("row %d column %q: %w", r+2, cols[j], err)
				}
			}
			values[j] = append(values[j], v)
		}
	}

	t := entity.NewTable(index)
	for j, c := range cols {
		v := values[j]
		if v == nil {
			v = []float64{}
		}
		if err := t.SetColumn(c, v); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func parseIndex(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range indexLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	// Excel serial date, as written by other tools.
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		return excelize.ExcelDateToTime(serial, false)
	}
	return time.Time{}, fmt.Errorf("parse index %q", s)
}
