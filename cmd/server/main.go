package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"stock_cache/internal/app/di"
	"stock_cache/internal/app/router"
	"stock_cache/internal/feature/tickers/transport/handler"
	"stock_cache/internal/platform/config"
)

func main() {
	// .envを読み込む（存在しなければ環境変数のみ）
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	// 設定された銘柄をプリロードしてからサーバーを起動する
	td, cleanup, err := di.NewTickersData(context.Background(), cfg)
	defer cleanup()
	if err != nil {
		log.Fatal(err)
	}

	tickersH := handler.NewTickersHandler(td)
	r := router.NewRouter(tickersH, func() int { return len(td.Symbols()) }, router.Options{
		AllowOrigins: cfg.CORSAllowOrigins,
		ReloadRPS:    cfg.ReloadRPS,
		ReloadBurst:  cfg.ReloadBurst,
	})

	slog.Info("listening", "addr", cfg.HTTPAddr, "cached", len(td.Symbols()))
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
