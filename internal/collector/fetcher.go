package collector

import (
	"context"
	"errors"

	"OBVSentinel/internal/model"
)

// ErrNoData is returned when a source answers but has no usable candles.
var ErrNoData = errors.New("no data returned")

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	// FetchCandles returns candles sorted by ascending timestamp.
	FetchCandles(ctx context.Context, symbol, interval, rng string) ([]model.Candle, error)
	Name() string
}

// FundamentalsFetcher fetches formatted company statistics.
type FundamentalsFetcher interface {
	FetchFundamentals(ctx context.Context, symbol string) (*model.Fundamentals, error)
}
