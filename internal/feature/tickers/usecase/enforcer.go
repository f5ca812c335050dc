package usecase

import (
	"fmt"
	"log/slog"

	"stock_cache/internal/feature/tickers/domain/entity"
)

// Enforcer guarantees that a table carries every required derived column.
type Enforcer struct {
	deriver  ColumnDeriver
	required []string
}

// NewEnforcer creates an Enforcer for entity.RequiredDerivedColumns.
func NewEnforcer(deriver ColumnDeriver) *Enforcer {
	return &Enforcer{deriver: deriver, required: entity.RequiredDerivedColumns}
}

// Ensure returns t unchanged when every required column is present.
// Otherwise it runs the deriver once and merges only the missing columns
// into a copy of t; columns already present are never overwritten.
func (e *Enforcer) Ensure(t *entity.Table) (*entity.Table, error) {
	var missing []string
	for _, col := range e.required {
		if !t.Has(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) == 0 {
		return t, nil
	}

	slog.Debug("deriving missing columns", "columns", missing)
	derived, err := e.deriver.AddRequiredDerivedCols(t.Clone())
	if err != nil {
		return nil, fmt.Errorf("derive %v: %w", missing, err)
	}

	out := t.Clone()
	for _, col := range missing {
		v, ok := derived.Column(col)
		if !ok {
			return nil, fmt.Errorf("deriver did not produce %q: %w", col, entity.ErrMissingColumn)
		}
		if err := out.SetColumn(col, v); err != nil {
			return nil, err
		}
	}
	return out, nil
}
