// Package derive computes derived and feature columns from base OHLCV tables.
package derive

import (
	"fmt"
	"math"

	"stock_cache/internal/feature/tickers/domain/entity"
)

// TrueRange adds the tr and tr_delta columns.
//
//	tr[0]    = High[0] - Low[0]
//	tr[i]    = max(High[i]-Low[i], |High[i]-Close[i-1]|, |Low[i]-Close[i-1]|)
//	tr_delta = tr / Close
type TrueRange struct{}

// NewTrueRange returns the default column deriver.
func NewTrueRange() TrueRange {
	return TrueRange{}
}

// AddRequiredDerivedCols implements usecase.ColumnDeriver. The table is modified in place.
func (TrueRange) AddRequiredDerivedCols(t *entity.Table) (*entity.Table, error) {
	high, low, closes, err := hlc(t)
	if err != nil {
		return nil, err
	}

	n := t.Len()
	tr := make([]float64, n)
	delta := make([]float64, n)
	for i := 0; i < n; i++ {
		r := high[i] - low[i]
		if i > 0 {
			prev := closes[i-1]
			r = math.Max(r, math.Max(math.Abs(high[i]-prev), math.Abs(low[i]-prev)))
		}
		tr[i] = r
		if closes[i] == 0 {
			delta[i] = math.NaN()
		} else {
			delta[i] = r / closes[i]
		}
	}

	if err := t.SetColumn(entity.ColTrueRange, tr); err != nil {
		return nil, err
	}
	if err := t.SetColumn(entity.ColTrueRangeDelta, delta); err != nil {
		return nil, err
	}
	return t, nil
}

func hlc(t *entity.Table) (high, low, closes []float64, err error) {
	var ok bool
	if high, ok = t.Column(entity.ColHigh); !ok {
		return nil, nil, nil, fmt.Errorf("%s: %w", entity.ColHigh, entity.ErrMissingColumn)
	}
	if low, ok = t.Column(entity.ColLow); !ok {
		return nil, nil, nil, fmt.Errorf("%s: %w", entity.ColLow, entity.ErrMissingColumn)
	}
	if closes, ok = t.Column(entity.ColClose); !ok {
		return nil, nil, nil, fmt.Errorf("%s: %w", entity.ColClose, entity.ErrMissingColumn)
	}
	return high, low, closes, nil
}
