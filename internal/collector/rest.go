package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"OBVSentinel/internal/model"
)

// RESTFetcher implements Fetcher against a self-hosted candle service that
// serves GET {base}/api/v1/candles?symbol=&interval=&range= as a JSON array.
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRESTFetcher creates a new fetcher with optional proxy support.
func NewRESTFetcher(baseURL, apiKey, proxyURL string, timeout time.Duration) *RESTFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RESTFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restBar is the expected JSON shape from the candle service.
type restBar struct {
	Timestamp int64    `json:"timestamp"`
	Open      float64  `json:"open"`
	High      float64  `json:"high"`
	Low       float64  `json:"low"`
	Close     *float64 `json:"close"`
	Volume    float64  `json:"volume"`
}

// FetchCandles requests the series directly. Weekly series fall back to
// aggregating daily bars when the service has no weekly data.
func (f *RESTFetcher) FetchCandles(ctx context.Context, symbol, interval, rng string) ([]model.Candle, error) {
	bars, err := f.fetchBars(ctx, symbol, interval, rng)
	if err == nil || interval != "1wk" {
		return bars, err
	}
	daily, dailyErr := f.fetchBars(ctx, symbol, "1d", rng)
	if dailyErr != nil {
		return nil, fmt.Errorf("weekly fetch failed: %w; daily fallback also failed: %w", err, dailyErr)
	}
	return aggregateDailyToWeekly(daily), nil
}

func (f *RESTFetcher) fetchBars(ctx context.Context, symbol, interval, rng string) ([]model.Candle, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	q.Set("range", rng)
	endpoint := f.BaseURL + "/api/v1/candles?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch bars: status %d, body: %s", resp.StatusCode, truncate(string(body), 200))
	}
	var raw []restBar
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode bars: %w", err)
	}
	bars := make([]model.Candle, 0, len(raw))
	for _, rb := range raw {
		if rb.Close == nil {
			continue
		}
		c := model.Candle{
			Timestamp: rb.Timestamp,
			Open:      rb.Open,
			High:      rb.High,
			Low:       rb.Low,
			Close:     *rb.Close,
			Volume:    rb.Volume,
		}
		if c.Valid() {
			bars = append(bars, c)
		}
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("rest %s %s: %w", symbol, interval, ErrNoData)
	}
	// Ensure chronological order
	sort.Slice(bars, func(i, j int) bool { return bars[i].Timestamp < bars[j].Timestamp })
	return bars, nil
}

// aggregateDailyToWeekly converts daily bars into ISO-week bars stamped at
// the first trading day of each week.
func aggregateDailyToWeekly(daily []model.Candle) []model.Candle {
	if len(daily) == 0 {
		return nil
	}
	weekKey := func(ts int64) int {
		y, w := time.Unix(ts, 0).UTC().ISOWeek()
		return y*100 + w
	}

	var weekly []model.Candle
	week := daily[0]
	current := weekKey(week.Timestamp)
	for _, d := range daily[1:] {
		if k := weekKey(d.Timestamp); k != current {
			weekly = append(weekly, week)
			week, current = d, k
			continue
		}
		if d.High > week.High {
			week.High = d.High
		}
		if d.Low < week.Low {
			week.Low = d.Low
		}
		week.Close = d.Close
		week.Volume += d.Volume
	}
	return append(weekly, week)
}
