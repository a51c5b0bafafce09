package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"Cryptalyst/internal/calculator"
	"Cryptalyst/internal/collector"
	"Cryptalyst/internal/model"
)

// Data source names.
const (
	SourceYahoo = "yahoo"
	SourceREST  = "rest"
	SourceMock  = "mock"
)

// Config holds all application configuration.
type Config struct {
	Assets     []model.Asset `yaml:"assets"`
	DataSource struct {
		Provider    string `yaml:"provider"`
		BaseURL     string `yaml:"base_url"`
		APIKey      string `yaml:"api_key"`
		HistoryDays int    `yaml:"history_days"`
	} `yaml:"data_source"`
	Breaker    collector.BreakerConfig `yaml:"breaker"`
	Indicators calculator.Config       `yaml:"indicators"`
	News       struct {
		Feeds []string `yaml:"feeds"`
		Limit int      `yaml:"limit"`
	} `yaml:"news"`
	Schedule struct {
		AnalysisCron string `yaml:"analysis_cron"`
		AlertCron    string `yaml:"alert_cron"`
	} `yaml:"schedule"`
	Alerts struct {
		StateFile string `yaml:"state_file"`
	} `yaml:"alerts"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	HTTP struct {
		Addr           string `yaml:"addr"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"http"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Proxy string `yaml:"proxy"`
}

var defaultAssets = []model.Asset{
	{Symbol: "BTC", Name: "Bitcoin", Type: model.AssetCrypto},
	{Symbol: "ETH", Name: "Ethereum", Type: model.AssetCrypto},
}

var defaultFeeds = []string{
	"https://www.coindesk.com/arc/outboundfeeds/rss/",
	"https://cointelegraph.com/rss",
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

// Environment variable overrides
func (c *Config) applyEnv() {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("MARKET_API_BASE_URL"); v != "" {
		c.DataSource.BaseURL = v
	}
	if v := os.Getenv("MARKET_API_KEY"); v != "" {
		c.DataSource.APIKey = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		c.DataSource.Provider = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("CRON_ANALYSIS"); v != "" {
		c.Schedule.AnalysisCron = v
	}
	if v := os.Getenv("CRON_ALERTS"); v != "" {
		c.Schedule.AlertCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		c.HTTP.Addr = v
	}
	if v := os.Getenv("NEWS_FEEDS"); v != "" {
		c.News.Feeds = splitList(v)
	}
	if v := os.Getenv("HISTORY_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.DataSource.HistoryDays = n
		}
	}
}

func (c *Config) applyDefaults() {
	if len(c.Assets) == 0 {
		c.Assets = append([]model.Asset(nil), defaultAssets...)
	}
	for i := range c.Assets {
		a := &c.Assets[i]
		a.Symbol = strings.ToUpper(strings.TrimSpace(a.Symbol))
		if a.Name == "" {
			a.Name = a.Symbol
		}
		if a.Type == "" {
			a.Type = model.AssetCrypto
		}
	}
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = SourceYahoo
		if c.DataSource.BaseURL != "" {
			c.DataSource.Provider = SourceREST
		}
	}
	if c.DataSource.HistoryDays == 0 {
		c.DataSource.HistoryDays = collector.DefaultHistoryDays
	}
	ind := c.Indicators
	if !ind.SMA && !ind.EMA && !ind.RSI && !ind.MACD {
		c.Indicators = calculator.DefaultConfig()
	}
	if c.News.Feeds == nil {
		c.News.Feeds = append([]string(nil), defaultFeeds...)
	}
	if c.News.Limit == 0 {
		c.News.Limit = 20
	}
	if c.Schedule.AnalysisCron == "" {
		c.Schedule.AnalysisCron = "0 0 */4 * * *"
	}
	if c.Schedule.AlertCron == "" {
		c.Schedule.AlertCron = "0 */5 * * * *"
	}
	if c.Alerts.StateFile == "" {
		c.Alerts.StateFile = "data/alerts.json"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/cryptalyst.db"
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.HTTP.TimeoutSeconds == 0 {
		c.HTTP.TimeoutSeconds = 60
	}
}

// TelegramEnabled reports whether both Telegram credentials are set.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	if len(c.Assets) == 0 {
		return fmt.Errorf("at least one asset is required")
	}
	seen := make(map[string]bool)
	for _, a := range c.Assets {
		if a.Symbol == "" {
			return fmt.Errorf("assets: symbol is required")
		}
		if seen[a.Symbol] {
			return fmt.Errorf("assets: duplicate symbol %s", a.Symbol)
		}
		seen[a.Symbol] = true
		if a.Type != model.AssetCrypto && a.Type != model.AssetStock {
			return fmt.Errorf("assets: %s has invalid type %q", a.Symbol, a.Type)
		}
	}
	switch c.DataSource.Provider {
	case SourceYahoo, SourceMock:
	case SourceREST:
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for the rest provider")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not one of yahoo, rest, mock", c.DataSource.Provider)
	}
	if c.DataSource.HistoryDays < 0 {
		return fmt.Errorf("data_source.history_days must not be negative")
	}
	if err := c.Indicators.Validate(); err != nil {
		return err
	}
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(c.Schedule.AnalysisCron); err != nil {
		return fmt.Errorf("schedule.analysis_cron: %w", err)
	}
	if _, err := parser.Parse(c.Schedule.AlertCron); err != nil {
		return fmt.Errorf("schedule.alert_cron: %w", err)
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
