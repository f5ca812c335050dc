// Package handler はtickersフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"stock_cache/internal/feature/tickers/domain"
	"stock_cache/internal/feature/tickers/domain/entity"
	"stock_cache/internal/feature/tickers/transport/http/dto"
)

// TickersUsecase は銘柄データ取得のユースケースインターフェースです。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type TickersUsecase interface {
	GetData(ctx context.Context, symbol string) (*entity.Table, error)
	Reload(ctx context.Context, symbol string) (*entity.Table, error)
	Symbols() []string
}

// TickersHandler は銘柄データのHTTPリクエストを処理します。
type TickersHandler struct {
	uc TickersUsecase
}

// NewTickersHandler は指定されたusecaseでTickersHandlerの新しいインスタンスを生成します。
func NewTickersHandler(uc TickersUsecase) *TickersHandler {
	return &TickersHandler{uc: uc}
}

// List はメモリ上にキャッシュされている銘柄の一覧を返します。
//
// GET /tickers
func (h *TickersHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, dto.SymbolsResponse{Symbols: h.uc.Symbols()})
}

// Get は銘柄コードを受け取り、派生列を含むテーブルをJSONで返します。
// 未キャッシュの銘柄はファイルまたは外部APIから解決されます。
// tail を指定すると末尾の n 行のみを返します。
//
// GET /tickers/:code?tail=100
func (h *TickersHandler) Get(c *gin.Context) {
	t, err := h.uc.GetData(c.Request.Context(), c.Param("code"))
	h.respond(c, t, err)
}

// Reload は銘柄データを外部APIから取り直してメモリ上のエントリを置き換えます。
//
// POST /tickers/:code/reload
func (h *TickersHandler) Reload(c *gin.Context) {
	t, err := h.uc.Reload(c.Request.Context(), c.Param("code"))
	h.respond(c, t, err)
}

func (h *TickersHandler) respond(c *gin.Context, t *entity.Table, err error) {
	if err != nil {
		c.JSON(statusFor(err), dto.ErrorResponse{Error: err.Error()})
		return
	}

	// 不正な tail は無視して全件を返す
	tail, _ := strconv.Atoi(c.Query("tail"))
	c.JSON(http.StatusOK, toResponse(c.Param("code"), t, tail))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmptySymbol):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrProviderFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func toResponse(symbol string, t *entity.Table, tail int) dto.TickerResponse {
	cols := t.Columns()
	values := make([][]float64, len(cols))
	for j, name := range cols {
		values[j], _ = t.Column(name)
	}

	start := 0
	if tail > 0 && tail < t.Len() {
		start = t.Len() - tail
	}

	rows := make([]dto.Row, 0, t.Len()-start)
	for i := start; i < t.Len(); i++ {
		r := dto.Row{
			Time:   t.Index[i].UTC().Format(time.RFC3339),
			Values: make([]*float64, len(cols)),
		}
		for j := range cols {
			v := values[j][i]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			r.Values[j] = &v
		}
		rows = append(rows, r)
	}
	return dto.TickerResponse{Symbol: symbol, Columns: cols, Rows: rows}
}
