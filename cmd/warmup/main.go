// Command warmup resolves every configured symbol once so that both file
// tiers are populated before the server starts.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"stock_cache/internal/app/di"
	"stock_cache/internal/platform/config"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	start := time.Now()
	td, cleanup, err := di.NewTickersData(ctx, cfg)
	defer cleanup()
	if err != nil {
		log.Fatal(err)
	}

	for _, s := range td.Symbols() {
		t, err := td.GetData(ctx, s)
		if err != nil {
			log.Fatal(err)
		}
		slog.Info("ready", "symbol", s, "rows", t.Len(), "columns", len(t.Columns()))
	}
	log.Printf("warmup ok: %d symbols in %s", len(td.Symbols()), time.Since(start).Round(time.Millisecond))
}
