package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"stock_cache/internal/feature/tickers/domain/entity"
	tickershandler "stock_cache/internal/feature/tickers/transport/handler"
)

type stubTickers struct{}

func (stubTickers) GetData(ctx context.Context, symbol string) (*entity.Table, error) {
	return entity.NewTable(nil), nil
}

func (stubTickers) Reload(ctx context.Context, symbol string) (*entity.Table, error) {
	return entity.NewTable(nil), nil
}

func (stubTickers) Symbols() []string { return []string{"AAPL"} }

// TestNewRouter_Routes は登録されたルートがそれぞれ応答することを検証します。
func TestNewRouter_Routes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := NewRouter(tickershandler.NewTickersHandler(stubTickers{}), func() int { return 1 }, Options{})

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodHead, "/healthz", http.StatusOK},
		{http.MethodGet, "/tickers", http.StatusOK},
		{http.MethodGet, "/tickers/AAPL", http.StatusOK},
		{http.MethodPost, "/tickers/AAPL/reload", http.StatusOK},
		{http.MethodGet, "/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

// TestNewRouter_CORS は許可されたオリジンにのみCORSヘッダーが付与されることを検証します。
func TestNewRouter_CORS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := NewRouter(tickershandler.NewTickersHandler(stubTickers{}), nil, Options{AllowOrigins: []string{"http://localhost:3000"}})

	tests := []struct {
		name        string
		origin      string
		wantStatus  int
		wantAllowed string
	}{
		{"allowed origin", "http://localhost:3000", http.StatusOK, "http://localhost:3000"},
		{"other origin", "http://evil.example", http.StatusForbidden, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/tickers", nil)
			req.Header.Set("Origin", tt.origin)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantAllowed, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

// TestCorsConfig_Wildcard は "*" が全オリジン許可に変換されることを検証します。
func TestCorsConfig_Wildcard(t *testing.T) {
	cfg := corsConfig([]string{"*"})
	assert.True(t, cfg.AllowAllOrigins)
	assert.Empty(t, cfg.AllowOrigins)
}

// TestNewRouter_ReloadRateLimit はreloadのみがレート制限されることを検証します。
func TestNewRouter_ReloadRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := NewRouter(tickershandler.NewTickersHandler(stubTickers{}), nil, Options{ReloadRPS: 0.001, ReloadBurst: 1})

	serve := func(method, path string) int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
		return w.Code
	}

	assert.Equal(t, http.StatusOK, serve(http.MethodPost, "/tickers/AAPL/reload"))
	assert.Equal(t, http.StatusTooManyRequests, serve(http.MethodPost, "/tickers/AAPL/reload"))
	assert.Equal(t, http.StatusOK, serve(http.MethodGet, "/tickers/AAPL"))
}
