// Package dto defines the HTTP response shapes of the tickers feature.
package dto

// TickerResponse はメモリ上の銘柄データのレスポンスDTOです。
// 欠損値（NaN）は null になります。
type TickerResponse struct {
	Symbol  string   `json:"symbol"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Row は1本のバーです。Values は Columns と同じ順序です。
type Row struct {
	Time   string     `json:"time"`
	Values []*float64 `json:"values"`
}

// SymbolsResponse はキャッシュ済み銘柄一覧のレスポンスDTOです。
type SymbolsResponse struct {
	Symbols []string `json:"symbols"`
}

// ErrorResponse はエラーレスポンスDTOです。
type ErrorResponse struct {
	Error string `json:"error"`
}
