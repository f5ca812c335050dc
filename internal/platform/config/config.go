// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is the environment variable prefix, e.g. TICKERS_CACHE_DIR.
const Prefix = "TICKERS"

var validate = validator.New()

// Config is the complete configuration for the warmup and server commands.
type Config struct {
	CacheDir           string   `envconfig:"CACHE_DIR" default:"data" validate:"required"`
	Symbols            []string `envconfig:"SYMBOLS"`
	RecomputeEveryTime bool     `envconfig:"RECOMPUTE_EVERY_TIME" default:"false"`
	PreloadConcurrency int      `envconfig:"PRELOAD_CONCURRENCY" default:"1" validate:"min=1"`
	HTTPAddr           string   `envconfig:"HTTP_ADDR" default:":8080"`
	CORSAllowOrigins   []string `envconfig:"CORS_ALLOW_ORIGINS"`
	ReloadRPS          float64  `envconfig:"RELOAD_RPS" default:"1" validate:"gte=0"`
	ReloadBurst        int      `envconfig:"RELOAD_BURST" default:"5" validate:"gte=0"`
	LogLevel           string   `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	Features  FeaturesConfig  `envconfig:"FEATURES"`
	Provider  ProviderConfig  `envconfig:"PROVIDER"`
	Redis     RedisConfig     `envconfig:"REDIS"`
	Watchlist WatchlistConfig `envconfig:"WATCHLIST"`
}

// FeaturesConfig controls the default indicator set.
type FeaturesConfig struct {
	SMAPeriods []int `envconfig:"SMA_PERIODS" default:"20,50" validate:"dive,gt=0"`
	ATRPeriod  int   `envconfig:"ATR_PERIOD" default:"14" validate:"gte=0"`
	Returns    bool  `envconfig:"RETURNS" default:"true"`
}

// ProviderConfig selects and configures the external OHLC provider.
type ProviderConfig struct {
	Name       string        `envconfig:"NAME" default:"twelvedata" validate:"required"`
	APIKey     string        `envconfig:"API_KEY"`
	BaseURL    string        `envconfig:"BASE_URL" default:"https://api.twelvedata.com" validate:"omitempty,url"`
	Timeout    time.Duration `envconfig:"TIMEOUT" default:"10s"`
	Interval   string        `envconfig:"INTERVAL" default:"1day"`
	OutputSize int           `envconfig:"OUTPUT_SIZE" default:"5000" validate:"gte=0"`
	RateLimit  int           `envconfig:"RATE_LIMIT" default:"8" validate:"gte=0"`
	RateWindow time.Duration `envconfig:"RATE_WINDOW" default:"1m"`
}

// RedisConfig configures the optional provider response cache.
// An empty Addr disables it.
type RedisConfig struct {
	Addr        string        `envconfig:"ADDR"`
	Password    string        `envconfig:"PASSWORD"`
	DB          int           `envconfig:"DB" default:"0" validate:"gte=0"`
	TTL         time.Duration `envconfig:"TTL"`
	RefreshTZ   string        `envconfig:"REFRESH_TZ" default:"America/New_York"`
	RefreshHour int           `envconfig:"REFRESH_HOUR" default:"18" validate:"min=0,max=23"`
	Namespace   string        `envconfig:"NAMESPACE" default:"ohlc"`
}

// WatchlistConfig configures the optional symbol watchlist database.
// An empty DSN disables it.
type WatchlistConfig struct {
	DSN           string `envconfig:"DSN"`
	RunMigrations bool   `envconfig:"RUN_MIGRATIONS" default:"false"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the value constraints declared in the validate tags.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// SlogLevel maps LogLevel to a slog.Level. Unknown values map to info.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
