package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sony/gobreaker/v2"

	"Cryptalyst/internal/model"
)

// BreakerConfig holds circuit breaker settings for an upstream source.
type BreakerConfig struct {
	MaxRequests uint32        `yaml:"max_requests"` // requests allowed while half-open
	Interval    time.Duration `yaml:"interval"`     // closed-state window for clearing counts
	Timeout     time.Duration `yaml:"timeout"`      // open-state time before half-open
}

// DefaultBreakerConfig trips after half of at least five requests fail.
var DefaultBreakerConfig = BreakerConfig{
	MaxRequests: 1,
	Interval:    time.Minute,
	Timeout:     30 * time.Second,
}

// BreakerFetcher guards another Fetcher with a circuit breaker so a failing
// upstream is not hammered on every scheduled run.
type BreakerFetcher struct {
	inner Fetcher
	cb    *gobreaker.CircuitBreaker[any]
}

// NewBreakerFetcher wraps inner. Zero config fields take the defaults.
func NewBreakerFetcher(inner Fetcher, cfg BreakerConfig) *BreakerFetcher {
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = DefaultBreakerConfig.MaxRequests
	}
	if cfg.Interval == 0 {
		cfg.Interval = DefaultBreakerConfig.Interval
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultBreakerConfig.Timeout
	}
	settings := gobreaker.Settings{
		Name:        inner.Name(),
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("[WARN] circuit breaker %s: %s -> %s", name, from, to)
		},
	}
	return &BreakerFetcher{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker[any](settings),
	}
}

func (b *BreakerFetcher) Name() string { return b.inner.Name() }

// State reports the breaker state.
func (b *BreakerFetcher) State() gobreaker.State { return b.cb.State() }

func (b *BreakerFetcher) FetchHistory(ctx context.Context, symbol string, days int) ([]model.OHLCV, error) {
	res, err := b.execute(ctx, func() (any, error) {
		return b.inner.FetchHistory(ctx, symbol, days)
	})
	if err != nil {
		return nil, err
	}
	return res.([]model.OHLCV), nil
}

func (b *BreakerFetcher) FetchQuote(ctx context.Context, symbol string) (*model.Quote, error) {
	res, err := b.execute(ctx, func() (any, error) {
		return b.inner.FetchQuote(ctx, symbol)
	})
	if err != nil {
		return nil, err
	}
	return res.(*model.Quote), nil
}

func (b *BreakerFetcher) execute(ctx context.Context, fn func() (any, error)) (any, error) {
	res, err := b.cb.Execute(func() (any, error) {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%s unavailable: %w", b.inner.Name(), err)
	}
	return res, err
}
