package calculator

import (
	"fmt"

	"Cryptalyst/internal/model"
)

// Config selects which indicators ApplyIndicators computes. Zero periods fall
// back to the package defaults.
type Config struct {
	SMA        bool `yaml:"sma"`
	SMAPeriod  int  `yaml:"sma_period"`
	EMA        bool `yaml:"ema"`
	EMAPeriod  int  `yaml:"ema_period"`
	RSI        bool `yaml:"rsi"`
	RSIPeriod  int  `yaml:"rsi_period"`
	MACD       bool `yaml:"macd"`
	MACDFast   int  `yaml:"macd_fast"`
	MACDSlow   int  `yaml:"macd_slow"`
	MACDSignal int  `yaml:"macd_signal"`
}

// DefaultConfig enables every indicator with its default period.
func DefaultConfig() Config {
	return Config{
		SMA: true, SMAPeriod: DefaultSMAPeriod,
		EMA: true, EMAPeriod: DefaultEMAPeriod,
		RSI: true, RSIPeriod: DefaultRSIPeriod,
		MACD: true, MACDFast: DefaultMACDFast, MACDSlow: DefaultMACDSlow, MACDSignal: DefaultMACDSignal,
	}
}

// withDefaults fills zero periods.
func (c Config) withDefaults() Config {
	if c.SMAPeriod == 0 {
		c.SMAPeriod = DefaultSMAPeriod
	}
	if c.EMAPeriod == 0 {
		c.EMAPeriod = DefaultEMAPeriod
	}
	if c.RSIPeriod == 0 {
		c.RSIPeriod = DefaultRSIPeriod
	}
	if c.MACDFast == 0 {
		c.MACDFast = DefaultMACDFast
	}
	if c.MACDSlow == 0 {
		c.MACDSlow = DefaultMACDSlow
	}
	if c.MACDSignal == 0 {
		c.MACDSignal = DefaultMACDSignal
	}
	return c
}

// Validate rejects negative periods and an inverted MACD pair.
func (c Config) Validate() error {
	c = c.withDefaults()
	periods := []struct {
		name  string
		value int
	}{
		{"sma_period", c.SMAPeriod},
		{"ema_period", c.EMAPeriod},
		{"rsi_period", c.RSIPeriod},
		{"macd_fast", c.MACDFast},
		{"macd_slow", c.MACDSlow},
		{"macd_signal", c.MACDSignal},
	}
	for _, p := range periods {
		if p.value < 0 {
			return fmt.Errorf("indicators.%s must not be negative", p.name)
		}
	}
	if c.MACDFast >= c.MACDSlow {
		return fmt.Errorf("indicators.macd_fast (%d) must be less than macd_slow (%d)", c.MACDFast, c.MACDSlow)
	}
	return nil
}

// ApplyIndicators returns one record per input point with every enabled
// indicator merged in by index. The output never shrinks: an indicator without
// enough history leaves its fields empty.
func ApplyIndicators(series []model.PricePoint, cfg Config) []model.IndicatorRecord {
	cfg = cfg.withDefaults()
	out := newRecords(series)

	if cfg.SMA {
		for i, r := range CalculateSMA(series, cfg.SMAPeriod) {
			out[i].SMA = r.SMA
		}
	}
	if cfg.EMA {
		for i, r := range CalculateEMA(series, cfg.EMAPeriod) {
			out[i].EMA = r.EMA
		}
	}
	if cfg.RSI {
		for i, r := range CalculateRSI(series, cfg.RSIPeriod) {
			out[i].RSI = r.RSI
		}
	}
	if cfg.MACD {
		for i, r := range CalculateMACD(series, cfg.MACDFast, cfg.MACDSlow, cfg.MACDSignal) {
			out[i].MACD = r.MACD
			out[i].Signal = r.Signal
			out[i].Histogram = r.Histogram
		}
	}
	return out
}

// PointsFromBars converts candlesticks to price points keyed by date.
func PointsFromBars(bars []model.OHLCV) []model.PricePoint {
	points := make([]model.PricePoint, len(bars))
	for i, b := range bars {
		points[i] = model.PricePoint{
			Label:  b.Time.UTC().Format("2006-01-02"),
			Price:  b.Close,
			Volume: model.Some(b.Volume),
		}
	}
	return points
}
