package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"OBVSentinel/internal/model"
)

type countingObserver struct {
	hits, misses int
}

func (o *countingObserver) CacheHit(string)  { o.hits++ }
func (o *countingObserver) CacheMiss(string) { o.misses++ }

// unreachableRedis points at a closed port so every command fails fast.
func unreachableRedis() *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestCacheKey(t *testing.T) {
	got := CacheKey("BBCA.JK", "1h", "10d")
	if got != "obvsentinel:candles:BBCA.JK:1h:10d" {
		t.Errorf("unexpected key %q", got)
	}
}

func TestCachedFetcher_BypassesBrokenRedis(t *testing.T) {
	bars := []model.Candle{{Timestamp: 1, Close: 10}}
	mock := &MockFetcher{Data: map[string][]model.Candle{"1d": bars}}
	obs := &countingObserver{}

	client := unreachableRedis()
	defer client.Close()
	c := NewCachedFetcher(mock, client, time.Minute)
	c.Observer = obs

	got, err := c.FetchCandles(context.Background(), "X", "1d", "3mo")
	if err != nil {
		t.Fatalf("expected redis failure to be bypassed, got %v", err)
	}
	if len(got) != 1 || got[0].Close != 10 {
		t.Errorf("unexpected bars %+v", got)
	}
	if mock.Calls() != 1 || obs.misses != 1 || obs.hits != 0 {
		t.Errorf("expected one miss served by the source, got calls=%d misses=%d hits=%d",
			mock.Calls(), obs.misses, obs.hits)
	}
	if c.Name() != "mock+redis" {
		t.Errorf("unexpected name %q", c.Name())
	}
}

func TestCachedFetcher_PropagatesSourceError(t *testing.T) {
	boom := errors.New("boom")
	client := unreachableRedis()
	defer client.Close()
	c := NewCachedFetcher(&MockFetcher{Err: boom}, client, 0)

	if _, err := c.FetchCandles(context.Background(), "X", "1d", "3mo"); !errors.Is(err, boom) {
		t.Errorf("expected source error, got %v", err)
	}
	if c.TTL != 5*time.Minute {
		t.Errorf("expected default TTL, got %v", c.TTL)
	}
}

func TestMockFetcher_EmptySeriesIsNoData(t *testing.T) {
	m := &MockFetcher{Data: map[string][]model.Candle{"1h": {}}}
	if _, err := m.FetchCandles(context.Background(), "X", "1h", "10d"); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
	bars, err := m.FetchCandles(context.Background(), "X", "15m", "10d")
	if err != nil || len(bars) == 0 {
		t.Fatalf("expected generated bars, got %d, %v", len(bars), err)
	}
	if bars[1].Timestamp-bars[0].Timestamp != 900 {
		t.Errorf("expected 15m spacing, got %d", bars[1].Timestamp-bars[0].Timestamp)
	}
}
