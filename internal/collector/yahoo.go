package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"time"

	"OBVSentinel/internal/model"
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// YahooFetcher implements Fetcher and FundamentalsFetcher using the
// Yahoo Finance public API.
type YahooFetcher struct {
	Client    *http.Client
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker

	// ChartHosts and QuoteHosts are tried in order; the next host is used
	// only when the previous one answers 401 or 404.
	ChartHosts []string
	QuoteHosts []string

	// QuarterHourOnly drops bars not stamped on a :00/:15/:30/:45 boundary.
	QuarterHourOnly bool
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string, timeout time.Duration) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &YahooFetcher{
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
		ChartHosts:      []string{"https://query1.finance.yahoo.com", "https://query2.finance.yahoo.com"},
		QuoteHosts:      []string{"https://query2.finance.yahoo.com", "https://query1.finance.yahoo.com"},
		QuarterHourOnly: true,
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
// Quote arrays contain nulls for bars without trades.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"chart"`
}

type yahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// yahooValue is the {raw, fmt} pair used by quoteSummary.
type yahooValue struct {
	Raw float64 `json:"raw"`
	Fmt string  `json:"fmt"`
}

type yahooSummary struct {
	QuoteSummary struct {
		Result []struct {
			DefaultKeyStatistics struct {
				FloatShares       *yahooValue `json:"floatShares"`
				SharesOutstanding *yahooValue `json:"sharesOutstanding"`
			} `json:"defaultKeyStatistics"`
			SummaryDetail struct {
				MarketCap           *yahooValue `json:"marketCap"`
				AverageVolume10days *yahooValue `json:"averageVolume10days"`
			} `json:"summaryDetail"`
			Price struct {
				ShortName string `json:"shortName"`
			} `json:"price"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"quoteSummary"`
}

// statusError carries a non-200 HTTP status.
type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status %d, body: %s", e.Code, e.Body)
}

func at(vals []*float64, i int) (float64, bool) {
	if i >= len(vals) || vals[i] == nil {
		return 0, false
	}
	return *vals[i], true
}

// FetchCandles downloads one chart series.
func (f *YahooFetcher) FetchCandles(ctx context.Context, symbol, interval, rng string) ([]model.Candle, error) {
	path := fmt.Sprintf("/v8/finance/chart/%s?interval=%s&range=%s",
		url.PathEscape(f.yahooSymbol(symbol)), url.QueryEscape(interval), url.QueryEscape(rng))

	body, err := f.get(ctx, f.ChartHosts, path)
	if err != nil {
		return nil, fmt.Errorf("yahoo chart %s %s: %w", symbol, interval, err)
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo chart %s %s: %w", symbol, interval, ErrNoData)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]model.Candle, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		c, ok := at(quote.Close, i)
		if !ok {
			continue // no trades in this bar
		}
		if f.QuarterHourOnly && ts%900 != 0 {
			continue
		}
		bar := model.Candle{Timestamp: ts, Close: c}
		bar.Open, ok = at(quote.Open, i)
		if !ok {
			bar.Open = c
		}
		if bar.High, ok = at(quote.High, i); !ok {
			bar.High = c
		}
		if bar.Low, ok = at(quote.Low, i); !ok {
			bar.Low = c
		}
		bar.Volume, _ = at(quote.Volume, i)
		if bar.Valid() {
			bars = append(bars, bar)
		}
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("yahoo chart %s %s: %w", symbol, interval, ErrNoData)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Timestamp < bars[j].Timestamp })
	return bars, nil
}

// FetchFundamentals reads the quoteSummary statistics. Missing fields are "-".
func (f *YahooFetcher) FetchFundamentals(ctx context.Context, symbol string) (*model.Fundamentals, error) {
	path := fmt.Sprintf("/v10/finance/quoteSummary/%s?modules=defaultKeyStatistics,summaryDetail,price",
		url.PathEscape(f.yahooSymbol(symbol)))

	body, err := f.get(ctx, f.QuoteHosts, path)
	if err != nil {
		return nil, fmt.Errorf("yahoo quoteSummary %s: %w", symbol, err)
	}
	var summary yahooSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo quoteSummary %s: %w", symbol, ErrNoData)
	}

	r := summary.QuoteSummary.Result[0]
	return &model.Fundamentals{
		Status:            model.StatusOK,
		Ticker:            symbol,
		Name:              orDash(r.Price.ShortName),
		FloatShares:       fmtOrDash(r.DefaultKeyStatistics.FloatShares),
		MarketCap:         fmtOrDash(r.SummaryDetail.MarketCap),
		SharesOutstanding: fmtOrDash(r.DefaultKeyStatistics.SharesOutstanding),
		AvgVolume10D:      fmtOrDash(r.SummaryDetail.AverageVolume10days),
	}, nil
}

func fmtOrDash(v *yahooValue) string {
	if v == nil {
		return "-"
	}
	return orDash(v.Fmt)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// get tries each host in turn, moving on only for 401/404 answers.
func (f *YahooFetcher) get(ctx context.Context, hosts []string, path string) ([]byte, error) {
	var lastErr error
	for i, host := range hosts {
		body, err := f.getOnce(ctx, host+path)
		if err == nil {
			return body, nil
		}
		lastErr = err
		var se *statusError
		if !errors.As(err, &se) || (se.Code != http.StatusUnauthorized && se.Code != http.StatusNotFound) {
			return nil, err
		}
		if i < len(hosts)-1 {
			log.Printf("[WARN] [yahoo] %s answered %d, retrying on %s", host, se.Code, hosts[i+1])
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no hosts configured")
	}
	return nil, lastErr
}

func (f *YahooFetcher) getOnce(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "application/json,text/html;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{Code: resp.StatusCode, Body: truncate(string(body), 200)}
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
