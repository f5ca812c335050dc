// Package router builds the gin engine for the server command.
package router

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	tickershandler "stock_cache/internal/feature/tickers/transport/handler"
	platformhandler "stock_cache/internal/platform/http/handler"
	"stock_cache/internal/platform/http/middleware"
)

// Options tunes the optional middleware.
type Options struct {
	// AllowOrigins enables CORS when non-empty; "*" allows every origin.
	AllowOrigins []string
	// ReloadRPS limits POST /tickers/:code/reload, which always calls the external
	// provider. Zero disables the limit.
	ReloadRPS   float64
	ReloadBurst int
}

// NewRouter registers the health check and the tickers routes.
func NewRouter(tickers *tickershandler.TickersHandler, cachedCount func() int, opts Options) *gin.Engine {
	r := gin.Default()

	// ルート登録より前に適用する必要がある
	if len(opts.AllowOrigins) > 0 {
		r.Use(cors.New(corsConfig(opts.AllowOrigins)))
	}

	// 導通確認用
	health := platformhandler.NewHealth(cachedCount)
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)
	r.OPTIONS("/healthz", health)

	// キャッシュ済み銘柄一覧
	r.GET("/tickers", tickers.List)
	// 銘柄データ（未キャッシュの場合は解決してからキャッシュ）
	r.GET("/tickers/:code", tickers.Get)
	// 明示的な再取得
	r.POST("/tickers/:code/reload", middleware.RateLimit(opts.ReloadRPS, opts.ReloadBurst), tickers.Reload)

	return r
}

func corsConfig(allowOrigins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodHead, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}
	if slices.Contains(allowOrigins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowOrigins
	}
	return cfg
}
