package collector

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"Cryptalyst/internal/calculator"
	"Cryptalyst/internal/metrics"
	"Cryptalyst/internal/model"
)

// DefaultHistoryDays is the lookback used when none is configured.
const DefaultHistoryDays = 90

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price     float64
	DailyData []model.OHLCV
	HistErr   error
	QuoteErr  error
	Calls     atomic.Int64
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchHistory(_ context.Context, _ string, days int) ([]model.OHLCV, error) {
	m.Calls.Add(1)
	if m.HistErr != nil {
		return nil, m.HistErr
	}
	if m.DailyData != nil {
		return m.DailyData, nil
	}
	return generateMockBars(m.Price, days), nil
}

func (m *MockFetcher) FetchQuote(_ context.Context, symbol string) (*model.Quote, error) {
	m.Calls.Add(1)
	if m.QuoteErr != nil {
		return nil, m.QuoteErr
	}
	return &model.Quote{Symbol: symbol, Price: m.Price, FetchedAt: time.Now()}, nil
}

func generateMockBars(basePrice float64, count int) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   time.Now().AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// Collector orchestrates data fetching and indicator computation.
type Collector struct {
	Fetcher     Fetcher
	Indicators  calculator.Config
	HistoryDays int
	Metrics     *metrics.Metrics
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, indicators calculator.Config, historyDays int) *Collector {
	if historyDays <= 0 {
		historyDays = DefaultHistoryDays
	}
	return &Collector{Fetcher: fetcher, Indicators: indicators, HistoryDays: historyDays}
}

// Collect fetches history and the latest quote for asset and computes the
// indicator chart and price statistics. A failed quote falls back to the last
// close; a failed history fetch is an error.
func (c *Collector) Collect(ctx context.Context, asset model.Asset) (*model.MarketSnapshot, error) {
	bars, err := c.Fetcher.FetchHistory(ctx, asset.Symbol, c.HistoryDays)
	if err != nil {
		c.Metrics.ObserveFetchError(c.Fetcher.Name(), "history")
		return nil, fmt.Errorf("fetch history for %s: %w", asset.Symbol, err)
	}
	history := calculator.PointsFromBars(bars)

	var quote model.Quote
	q, err := c.Fetcher.FetchQuote(ctx, asset.Symbol)
	switch {
	case err == nil:
		quote = *q
	case len(history) > 0:
		c.Metrics.ObserveFetchError(c.Fetcher.Name(), "quote")
		log.Printf("[WARN] quote for %s failed: %v, using last close", asset.Symbol, err)
		quote = model.Quote{
			Symbol:    asset.Symbol,
			Price:     history[len(history)-1].Price,
			FetchedAt: time.Now(),
		}
	default:
		c.Metrics.ObserveFetchError(c.Fetcher.Name(), "quote")
		return nil, fmt.Errorf("fetch quote for %s: %w", asset.Symbol, err)
	}
	if !quote.Change24h.Finite() {
		quote.Change24h = calculator.Change24h(history)
	}

	return &model.MarketSnapshot{
		Asset:     asset,
		Quote:     quote,
		History:   history,
		Chart:     calculator.ApplyIndicators(history, c.Indicators),
		Stats:     calculator.ComputeStats(history),
		FetchedAt: time.Now(),
	}, nil
}
