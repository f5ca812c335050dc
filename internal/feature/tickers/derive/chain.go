package derive

import (
	"stock_cache/internal/feature/tickers/domain/entity"
	"stock_cache/internal/feature/tickers/usecase"
)

// Chain applies feature transformers in order.
type Chain []usecase.FeatureTransformer

// AddFeatureCols implements usecase.FeatureTransformer.
func (c Chain) AddFeatureCols(t *entity.Table) (*entity.Table, error) {
	var err error
	for _, ft := range c {
		if t, err = ft.AddFeatureCols(t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

var (
	_ usecase.FeatureTransformer = Chain(nil)
	_ usecase.FeatureTransformer = Indicators{}
	_ usecase.ColumnDeriver      = TrueRange{}
)
