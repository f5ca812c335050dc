// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthResponse は /healthz のレスポンスです。
type HealthResponse struct {
	Status        string `json:"status"`
	CachedTickers int    `json:"cached_tickers"`
}

// NewHealth は /healthz エンドポイントのハンドラーを返します。
// cached はメモリ上にキャッシュされている銘柄数を返す関数で、nil の場合は 0 を返します。
func NewHealth(cached func() int) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 明示的にキャッシュを防止
		c.Header("Cache-Control", "no-store")

		switch c.Request.Method {
		case http.MethodHead:
			c.Status(http.StatusOK)
		case http.MethodOptions:
			c.Status(http.StatusNoContent)
		default:
			n := 0
			if cached != nil {
				n = cached()
			}
			c.JSON(http.StatusOK, HealthResponse{Status: "ok", CachedTickers: n})
		}
	}
}
