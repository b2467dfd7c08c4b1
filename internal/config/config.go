package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		Provider        string            `yaml:"provider"` // yahoo, rest or mock
		BaseURL         string            `yaml:"base_url"`
		APIKey          string            `yaml:"api_key"`
		Range           string            `yaml:"range"`
		SubRange        string            `yaml:"sub_range"`
		Timeout         time.Duration     `yaml:"timeout"`
		SymbolMap       map[string]string `yaml:"symbol_map"`
		QuarterHourOnly bool              `yaml:"quarter_hour_only"`
	} `yaml:"data_source"`
	Analysis struct {
		Interval       string   `yaml:"interval"`
		SubInterval    string   `yaml:"sub_interval"`
		Period         int      `yaml:"period"`
		Offset         *int     `yaml:"offset"`           // nil: interval default
		UTCOffsetHours *float64 `yaml:"utc_offset_hours"` // nil: UTC+8
		Lookback       int      `yaml:"lookback"`
		MinVolume      float64  `yaml:"min_volume"`
		NowClamp       bool     `yaml:"now_clamp"`
	} `yaml:"analysis"`
	Watchlist []string `yaml:"watchlist"`
	Schedule  struct {
		ScanCron string `yaml:"scan_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Redis struct {
		Addr     string        `yaml:"addr"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db"`
		TTL      time.Duration `yaml:"ttl"`
	} `yaml:"redis"`
	Proxy   string `yaml:"proxy"`
	Workers int    `yaml:"workers"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		c.DataSource.Provider = v
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		c.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		c.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		c.Watchlist = splitList(v)
	}
	if v := os.Getenv("CRON_SCAN"); v != "" {
		c.Schedule.ScanCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.DataSource.Provider == "" {
		if c.DataSource.BaseURL != "" {
			c.DataSource.Provider = "rest"
		} else {
			c.DataSource.Provider = "yahoo"
		}
	}
	c.DataSource.Provider = strings.ToLower(c.DataSource.Provider)
	if c.DataSource.Timeout == 0 {
		c.DataSource.Timeout = 15 * time.Second
	}
	if c.Analysis.Interval == "" {
		c.Analysis.Interval = "1d"
	}
	if c.Analysis.UTCOffsetHours == nil {
		h := 8.0
		c.Analysis.UTCOffsetHours = &h
	}
	if c.Analysis.MinVolume == 0 {
		c.Analysis.MinVolume = 500000
	}
	if c.Schedule.ScanCron == "" {
		c.Schedule.ScanCron = "0 30 16 * * 1-5"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/obv_sentinel.db"
	}
	if c.Redis.TTL == 0 {
		c.Redis.TTL = 5 * time.Minute
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
}

// UTCOffset returns the exchange offset in seconds.
func (c *Config) UTCOffset() int64 {
	if c.Analysis.UTCOffsetHours == nil {
		return 8 * 3600
	}
	return int64(*c.Analysis.UTCOffsetHours * 3600)
}

// TelegramEnabled reports whether notifications and bot commands are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo", "mock":
	case "rest":
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for the rest provider")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required when bot_token is set")
	}
	if c.Analysis.Period < 0 || c.Analysis.Lookback < 0 || (c.Analysis.Offset != nil && *c.Analysis.Offset < 0) {
		return fmt.Errorf("analysis.period, offset and lookback must not be negative")
	}
	if h := c.Analysis.UTCOffsetHours; h != nil && (*h < -12 || *h > 14) {
		return fmt.Errorf("analysis.utc_offset_hours out of range: %v", *h)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, f := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' }) {
		out = append(out, strings.ToUpper(f))
	}
	return out
}
