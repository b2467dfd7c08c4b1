package collector

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"OBVSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price        float64
	Data         map[string][]model.Candle // keyed by interval code
	Fundamentals map[string]*model.Fundamentals
	Err          error

	calls atomic.Int64
}

func (m *MockFetcher) Name() string { return "mock" }

// Calls reports how many FetchCandles calls were served.
func (m *MockFetcher) Calls() int64 { return m.calls.Load() }

func (m *MockFetcher) FetchCandles(_ context.Context, _ string, interval, _ string) ([]model.Candle, error) {
	m.calls.Add(1)
	if m.Err != nil {
		return nil, m.Err
	}
	if bars, ok := m.Data[interval]; ok {
		if len(bars) == 0 {
			return nil, fmt.Errorf("mock %s: %w", interval, ErrNoData)
		}
		out := make([]model.Candle, len(bars))
		copy(out, bars)
		return out, nil
	}
	return generateMockBars(m.Price, 120, intervalStep(interval)), nil
}

func (m *MockFetcher) FetchFundamentals(_ context.Context, symbol string) (*model.Fundamentals, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if f, ok := m.Fundamentals[symbol]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("mock fundamentals %s: %w", symbol, ErrNoData)
}

func intervalStep(interval string) int64 {
	switch interval {
	case "5m":
		return 300
	case "15m":
		return 900
	case "1h", "60m":
		return 3600
	case "1wk":
		return 7 * 86400
	}
	return 86400
}

func generateMockBars(basePrice float64, count int, step int64) []model.Candle {
	if basePrice <= 0 {
		basePrice = 100
	}
	end := time.Now().Unix() / step * step
	bars := make([]model.Candle, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.Candle{
			Timestamp: end - int64(count-1-i)*step,
			Open:      p * 0.999,
			High:      p * 1.005,
			Low:       p * 0.995,
			Close:     p,
			Volume:    1000000,
		}
	}
	return bars
}
