package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"GridScout/internal/model"
	"GridScout/internal/strategy"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Data providers.
const (
	ProviderTushare = "tushare"
	ProviderYahoo   = "yahoo"
	ProviderMock    = "mock"
)

// minHistoryDays matches the analyzer's minimum series length.
const minHistoryDays = 20

// WatchFund is one watchlist entry. Grid fields are optional; zero values let
// the advisor suggest parameters.
type WatchFund struct {
	Code                   string  `yaml:"code"`
	Frequency              string  `yaml:"frequency"`
	PriceRangeRatio        float64 `yaml:"price_range_ratio"`
	GridCount              int     `yaml:"grid_count"`
	FrequencyMatchScore    float64 `yaml:"frequency_match_score"`
	PredictedDailyTriggers float64 `yaml:"predicted_daily_triggers"`
}

// GridParams returns the configured grid parameters, or nil when none are set.
func (w WatchFund) GridParams() *model.GridParams {
	if w.PriceRangeRatio == 0 && w.GridCount == 0 {
		return nil
	}
	return &model.GridParams{
		PriceRangeRatio:        w.PriceRangeRatio,
		GridCount:              w.GridCount,
		FrequencyMatchScore:    w.FrequencyMatchScore,
		PredictedDailyTriggers: w.PredictedDailyTriggers,
	}
}

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		Provider string `yaml:"provider"`
		BaseURL  string `yaml:"base_url"`
		Token    string `yaml:"token"`
	} `yaml:"data_source"`
	Cache struct {
		RedisAddr     string        `yaml:"redis_addr"`
		RedisPassword string        `yaml:"redis_password"`
		RedisDB       int           `yaml:"redis_db"`
		MetadataTTL   time.Duration `yaml:"metadata_ttl"`
		SeriesTTL     time.Duration `yaml:"series_ttl"`
	} `yaml:"cache"`
	Analysis struct {
		HistoryDays      int    `yaml:"history_days"`
		DefaultFrequency string  `yaml:"default_frequency"`
		Capital          float64 `yaml:"capital"`
	} `yaml:"analysis"`
	Schedule struct {
		ScanCron string `yaml:"scan_cron"`
	} `yaml:"schedule"`
	HTTP struct {
		Addr         string   `yaml:"addr"`
		AllowOrigins []string `yaml:"allow_origins"`
	} `yaml:"http"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Watch struct {
		StateFile string      `yaml:"state_file"`
		Funds     []WatchFund `yaml:"funds"`
	} `yaml:"watch"`
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads .env (if present), then config from a YAML file, then applies
// environment variable overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

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
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString("TELEGRAM_BOT_TOKEN", &c.Telegram.BotToken)
	setString("TELEGRAM_CHAT_ID", &c.Telegram.ChatID)
	setString("DATA_PROVIDER", &c.DataSource.Provider)
	setString("TUSHARE_TOKEN", &c.DataSource.Token)
	setString("TUSHARE_BASE_URL", &c.DataSource.BaseURL)
	setString("REDIS_ADDR", &c.Cache.RedisAddr)
	setString("REDIS_PASSWORD", &c.Cache.RedisPassword)
	setString("HTTP_ADDR", &c.HTTP.Addr)
	setString("SQLITE_PATH", &c.Database.SQLitePath)
	setString("CRON_SCAN", &c.Schedule.ScanCron)
	setString("LOG_LEVEL", &c.Log.Level)
	setString("HTTPS_PROXY", &c.Proxy)

	if v := os.Getenv("HISTORY_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil {
			c.Analysis.HistoryDays = days
		}
	}
	if v := os.Getenv("GRID_CAPITAL"); v != "" {
		if capital, err := strconv.ParseFloat(v, 64); err == nil {
			c.Analysis.Capital = capital
		}
	}
}

func (c *Config) applyDefaults() {
	c.DataSource.Provider = strings.ToLower(strings.TrimSpace(c.DataSource.Provider))
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = ProviderTushare
	}
	if c.DataSource.BaseURL == "" {
		switch c.DataSource.Provider {
		case ProviderTushare:
			c.DataSource.BaseURL = "http://api.tushare.pro"
		case ProviderYahoo:
			c.DataSource.BaseURL = "https://query1.finance.yahoo.com"
		}
	}
	if c.Cache.MetadataTTL == 0 {
		c.Cache.MetadataTTL = time.Hour
	}
	if c.Cache.SeriesTTL == 0 {
		c.Cache.SeriesTTL = 6 * time.Hour
	}
	if c.Analysis.HistoryDays == 0 {
		c.Analysis.HistoryDays = 90
	}
	if c.Analysis.DefaultFrequency == "" {
		c.Analysis.DefaultFrequency = string(model.FrequencyMedium)
	}
	if c.Analysis.Capital == 0 {
		c.Analysis.Capital = strategy.DefaultCapital
	}
	if c.Schedule.ScanCron == "" {
		c.Schedule.ScanCron = "0 30 15 * * 1-5"
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/gridscout.db"
	}
	if c.Watch.StateFile == "" {
		c.Watch.StateFile = "data/watch_state.json"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case ProviderTushare:
		if c.DataSource.Token == "" {
			return fmt.Errorf("data_source.token is required for provider %q", ProviderTushare)
		}
	case ProviderYahoo, ProviderMock:
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	if c.Analysis.HistoryDays < minHistoryDays {
		return fmt.Errorf("analysis.history_days must be at least %d", minHistoryDays)
	}
	if _, err := model.ParseFrequency(c.Analysis.DefaultFrequency); err != nil {
		return fmt.Errorf("analysis.default_frequency: %w", err)
	}
	if err := strategy.ValidateCapital(c.Analysis.Capital); err != nil {
		return fmt.Errorf("analysis.capital: %w", err)
	}
	for i, f := range c.Watch.Funds {
		if strings.TrimSpace(f.Code) == "" {
			return fmt.Errorf("watch.funds[%d].code is required", i)
		}
		if _, err := model.ParseFrequency(f.Frequency); err != nil {
			return fmt.Errorf("watch.funds[%d].frequency: %w", i, err)
		}
	}
	return nil
}

// TelegramEnabled reports whether bot credentials are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
