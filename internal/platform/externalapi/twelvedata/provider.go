package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"stock_cache/internal/feature/tickers/domain/entity"
	"stock_cache/internal/feature/tickers/usecase"
	"stock_cache/internal/platform/externalapi/twelvedata/dto"
	"stock_cache/internal/shared/ratelimiter"
)

// Provider はTwelve Data外部APIから株価データを取得するusecase.Provider実装です。
type Provider struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.RateLimiterInterface
}

// ProviderがProviderインターフェースを実装していることをコンパイル時に検証します。
var _ usecase.Provider = (*Provider)(nil)

// NewProvider は指定された設定とHTTPクライアントでProviderの新しいインスタンスを生成します。
// limiter が nil の場合はレート制限を行いません。
func NewProvider(cfg Config, client *http.Client, limiter ratelimiter.RateLimiterInterface) *Provider {
	return &Provider{cfg: cfg.withDefaults(), client: client, limiter: limiter}
}

// Name implements usecase.Provider.
func (p *Provider) Name() string {
	return ProviderName
}

// ImportOHLC はTwelve Data APIから時系列株価データを取得し、
// 時系列順（古い順）に並べたOHLCVテーブルとして返します。
func (p *Provider) ImportOHLC(ctx context.Context, symbol string) (*entity.Table, error) {
	if p.limiter != nil {
		p.limiter.WaitIfNeeded()
	}

	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", p.cfg.Interval)
	q.Set("outputsize", strconv.Itoa(p.cfg.OutputSize))
	q.Set("apikey", p.cfg.APIKey)

	u := fmt.Sprintf("%s/time_series?%s", strings.TrimRight(p.cfg.BaseURL, "/"), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	res, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("twelvedata http %d", res.StatusCode)
	}

	var body dto.TimeSeriesResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.Status == "error" {
		return nil, fmt.Errorf("twelvedata: %s", body.Message)
	}

	return toTable(body.Values)
}

type bar struct {
	t                      time.Time
	open, high, low, close float64
	volume                 float64
}

// toTable はAPIのバー配列をテーブルに変換します。APIは新しい順で返すため昇順に並べ替え、
// 重複したタイムスタンプは最初に現れたものを採用します。
func toTable(values []dto.Bar) (*entity.Table, error) {
	bars := make([]bar, 0, len(values))
	seen := make(map[int64]struct{}, len(values))
	for _, v := range values {
		b, err := parseBar(v)
		if err != nil {
			return nil, err
		}
		key := b.t.UnixNano()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		bars = append(bars, b)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].t.Before(bars[j].t) })

	n := len(bars)
	index := make([]time.Time, n)
	o, h, l, c, vol := make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n)
	for i, b := range bars {
		index[i] = b.t
		o[i], h[i], l[i], c[i], vol[i] = b.open, b.high, b.low, b.close, b.volume
	}

	t := entity.NewTable(index)
	for _, col := range []struct {
		name string
		v    []float64
	}{
		{entity.ColOpen, o},
		{entity.ColHigh, h},
		{entity.ColLow, l},
		{entity.ColClose, c},
		{entity.ColVolume, vol},
	} {
		if err := t.SetColumn(col.name, col.v); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func parseBar(v dto.Bar) (bar, error) {
	var (
		b   bar
		err error
	)
	// タイムスタンプをパース
	b.t, err = time.Parse("2006-01-02 15:04:05", v.Datetime)
	if err != nil {
		b.t, err = time.Parse("2006-01-02", v.Datetime)
		if err != nil {
			return bar{}, fmt.Errorf("parse time %q: %w", v.Datetime, err)
		}
	}
	if b.open, err = strconv.ParseFloat(v.Open, 64); err != nil {
		return bar{}, fmt.Errorf("parse open %q: %w", v.Open, err)
	}
	if b.high, err = strconv.ParseFloat(v.High, 64); err != nil {
		return bar{}, fmt.Errorf("parse high %q: %w", v.High, err)
	}
	if b.low, err = strconv.ParseFloat(v.Low, 64); err != nil {
		return bar{}, fmt.Errorf("parse low %q: %w", v.Low, err)
	}
	if b.close, err = strconv.ParseFloat(v.Close, 64); err != nil {
		return bar{}, fmt.Errorf("parse close %q: %w", v.Close, err)
	}
	// 為替など出来高のない銘柄は空文字で返る
	if v.Volume != "" {
		if b.volume, err = strconv.ParseFloat(v.Volume, 64); err != nil {
			return bar{}, fmt.Errorf("parse volume %q: %w", v.Volume, err)
		}
	}
	return b, nil
}
