package derive

import (
	"fmt"
	"math"

	"stock_cache/internal/feature/tickers/domain/entity"
)

// Indicators is a FeatureTransformer that adds common technical indicators:
// simple moving averages of Close (sma_<n>), average true range (atr_<n>)
// and one-bar log returns (ret_1). Warm-up rows are NaN.
type Indicators struct {
	SMAPeriods []int
	ATRPeriod  int
	Returns    bool
}

// DefaultIndicators returns sma_20, sma_50, atr_14 and ret_1.
func DefaultIndicators() Indicators {
	return Indicators{SMAPeriods: []int{20, 50}, ATRPeriod: 14, Returns: true}
}

// AddFeatureCols implements usecase.FeatureTransformer. The table is modified in place.
func (ind Indicators) AddFeatureCols(t *entity.Table) (*entity.Table, error) {
	closes, ok := t.Column(entity.ColClose)
	if !ok {
		return nil, fmt.Errorf("%s: %w", entity.ColClose, entity.ErrMissingColumn)
	}

	for _, p := range ind.SMAPeriods {
		if p <= 0 {
			return nil, fmt.Errorf("sma period %d must be positive", p)
		}
		if err := t.SetColumn(fmt.Sprintf("sma_%d", p), rollingMean(closes, p)); err != nil {
			return nil, err
		}
	}

	if ind.ATRPeriod > 0 {
		// atr is computed from a scratch copy so tr/tr_delta are not leaked into the table here.
		scratch, err := t.Select(entity.ColHigh, entity.ColLow, entity.ColClose)
		if err != nil {
			return nil, err
		}
		if _, err := NewTrueRange().AddRequiredDerivedCols(scratch); err != nil {
			return nil, err
		}
		tr, _ := scratch.Column(entity.ColTrueRange)
		if err := t.SetColumn(fmt.Sprintf("atr_%d", ind.ATRPeriod), rollingMean(tr, ind.ATRPeriod)); err != nil {
			return nil, err
		}
	}

	if ind.Returns {
		if err := t.SetColumn("ret_1", logReturns(closes)); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func rollingMean(v []float64, period int) []float64 {
	out := make([]float64, len(v))
	var sum float64
	for i := range v {
		sum += v[i]
		if i >= period {
			sum -= v[i-period]
		}
		if i < period-1 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(period)
	}
	return out
}

func logReturns(v []float64) []float64 {
	out := make([]float64, len(v))
	for i := range v {
		if i == 0 || v[i-1] <= 0 || v[i] <= 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = math.Log(v[i] / v[i-1])
	}
	return out
}
