package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"Cryptalyst/internal/calculator"
	"Cryptalyst/internal/model"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Assets) != 2 || cfg.Assets[0].Symbol != "BTC" {
		t.Errorf("default assets = %+v", cfg.Assets)
	}
	if cfg.DataSource.Provider != SourceYahoo {
		t.Errorf("provider = %q, want yahoo", cfg.DataSource.Provider)
	}
	if cfg.Indicators != calculator.DefaultConfig() {
		t.Errorf("indicators = %+v, want defaults", cfg.Indicators)
	}
	if cfg.HTTP.Addr != ":8080" || cfg.Schedule.AlertCron == "" {
		t.Errorf("missing defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
	if cfg.TelegramEnabled() {
		t.Error("telegram should be disabled without credentials")
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
assets:
  - symbol: sol
    name: Solana
  - symbol: AAPL
    name: Apple
    type: stock
data_source:
  base_url: http://market.local
  history_days: 120
breaker:
  timeout: 45s
indicators:
  rsi: true
  rsi_period: 7
news:
  feeds: []
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Assets[0].Symbol != "SOL" || cfg.Assets[0].Type != model.AssetCrypto || cfg.Assets[1].Type != model.AssetStock {
		t.Errorf("assets = %+v", cfg.Assets)
	}
	if cfg.DataSource.Provider != SourceREST || cfg.DataSource.HistoryDays != 120 {
		t.Errorf("data_source = %+v", cfg.DataSource)
	}
	if cfg.Breaker.Timeout != 45*time.Second {
		t.Errorf("breaker timeout = %v", cfg.Breaker.Timeout)
	}
	if !cfg.Indicators.RSI || cfg.Indicators.SMA || cfg.Indicators.RSIPeriod != 7 {
		t.Errorf("indicators = %+v", cfg.Indicators)
	}
	if len(cfg.News.Feeds) != 0 {
		t.Errorf("explicit empty feeds should be kept, got %v", cfg.News.Feeds)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("TELEGRAM_CHAT_ID", "1")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("CRON_ANALYSIS", "0 30 * * * *")
	t.Setenv("NEWS_FEEDS", "http://a, ,http://b")
	t.Setenv("DATA_PROVIDER", "mock")

	cfg, err := Load(writeConfig(t, "http:\n  addr: \":1\"\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.TelegramEnabled() || cfg.HTTP.Addr != ":9090" || cfg.Schedule.AnalysisCron != "0 30 * * * *" {
		t.Errorf("env not applied: %+v", cfg)
	}
	if len(cfg.News.Feeds) != 2 || cfg.News.Feeds[1] != "http://b" {
		t.Errorf("feeds = %v", cfg.News.Feeds)
	}
	if cfg.DataSource.Provider != SourceMock {
		t.Errorf("provider = %q", cfg.DataSource.Provider)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "assets: [")); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"duplicate asset", func(c *Config) { c.Assets = append(c.Assets, c.Assets[0]) }, "duplicate"},
		{"bad type", func(c *Config) { c.Assets[0].Type = "bond" }, "invalid type"},
		{"rest without url", func(c *Config) { c.DataSource.Provider = SourceREST }, "base_url"},
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "ftp" }, "provider"},
		{"bad cron", func(c *Config) { c.Schedule.AlertCron = "every minute" }, "alert_cron"},
		{"inverted macd", func(c *Config) { c.Indicators.MACDFast = 30 }, "macd_fast"},
		{"half telegram", func(c *Config) { c.Telegram.BotToken = "x" }, "telegram"},
	}
	for _, tc := range cases {
		cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
		if err != nil {
			t.Fatal(err)
		}
		tc.mutate(cfg)
		err = cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: err = %v, want containing %q", tc.name, err, tc.want)
		}
	}
}
