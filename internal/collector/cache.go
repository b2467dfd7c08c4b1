package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"OBVSentinel/internal/model"
)

// CacheObserver is notified of cache lookups.
type CacheObserver interface {
	CacheHit(source string)
	CacheMiss(source string)
}

// RedisConfig configures the candle cache connection.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient creates a client and pings the server.
func NewRedisClient(cfg RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	log.Printf("[redis] connected to %s (db=%d)", cfg.Addr, cfg.DB)
	return client, nil
}

// CachedFetcher serves candles from redis and falls through to Next on a
// miss. Redis failures are logged and bypassed; they never fail a fetch.
type CachedFetcher struct {
	Next     Fetcher
	Client   *goredis.Client
	TTL      time.Duration
	Observer CacheObserver
}

// NewCachedFetcher wraps next with a redis cache.
func NewCachedFetcher(next Fetcher, client *goredis.Client, ttl time.Duration) *CachedFetcher {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedFetcher{Next: next, Client: client, TTL: ttl}
}

func (c *CachedFetcher) Name() string { return c.Next.Name() + "+redis" }

// CacheKey is the redis key holding one candle series.
func CacheKey(symbol, interval, rng string) string {
	return fmt.Sprintf("obvsentinel:candles:%s:%s:%s", symbol, interval, rng)
}

func (c *CachedFetcher) FetchCandles(ctx context.Context, symbol, interval, rng string) ([]model.Candle, error) {
	key := CacheKey(symbol, interval, rng)

	raw, err := c.Client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var bars []model.Candle
		if jerr := json.Unmarshal(raw, &bars); jerr == nil && len(bars) > 0 {
			c.observe(true)
			return bars, nil
		}
		log.Printf("[WARN] [redis] discarding unreadable cache entry %s", key)
	case !errors.Is(err, goredis.Nil):
		log.Printf("[WARN] [redis] get %s: %v", key, err)
	}
	c.observe(false)

	bars, err := c.Next.FetchCandles(ctx, symbol, interval, rng)
	if err != nil {
		return nil, err
	}
	if payload, jerr := json.Marshal(bars); jerr == nil {
		if serr := c.Client.Set(ctx, key, payload, c.TTL).Err(); serr != nil {
			log.Printf("[WARN] [redis] set %s: %v", key, serr)
		}
	}
	return bars, nil
}

// FetchFundamentals passes through when the wrapped fetcher supports it.
func (c *CachedFetcher) FetchFundamentals(ctx context.Context, symbol string) (*model.Fundamentals, error) {
	ff, ok := c.Next.(FundamentalsFetcher)
	if !ok {
		return nil, fmt.Errorf("%s: fundamentals not supported", c.Next.Name())
	}
	return ff.FetchFundamentals(ctx, symbol)
}

func (c *CachedFetcher) observe(hit bool) {
	if c.Observer == nil {
		return
	}
	if hit {
		c.Observer.CacheHit(c.Next.Name())
	} else {
		c.Observer.CacheMiss(c.Next.Name())
	}
}
