// Package pipeline runs one full analysis: collect, news, analyze, record.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"Cryptalyst/internal/analyzer"
	"Cryptalyst/internal/metrics"
	"Cryptalyst/internal/model"
	"Cryptalyst/internal/news"
	"Cryptalyst/internal/recorder"
)

// ErrUnknownAsset is returned for symbols that are not configured.
var ErrUnknownAsset = errors.New("unknown asset")

// Collector produces a market snapshot for an asset.
type Collector interface {
	Collect(ctx context.Context, asset model.Asset) (*model.MarketSnapshot, error)
}

// Result is the outcome of one run.
type Result struct {
	Report   *model.AnalysisReport `json:"report"`
	Snapshot *model.MarketSnapshot `json:"snapshot"`
}

// Pipeline wires the collector, news provider and analyzer together and
// remembers the latest result per symbol.
type Pipeline struct {
	Assets    []model.Asset
	Collector Collector
	News      news.Provider
	NewsLimit int
	Analyzer  *analyzer.Analyzer
	Recorder  recorder.Recorder
	Metrics   *metrics.Metrics

	mu     sync.RWMutex
	latest map[string]*Result
}

// New creates a Pipeline. A nil news provider means no articles, a nil
// recorder means nothing is persisted.
func New(assets []model.Asset, col Collector, np news.Provider, an *analyzer.Analyzer, rec recorder.Recorder) *Pipeline {
	if np == nil {
		np = &news.StaticProvider{}
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if an == nil {
		an = analyzer.New(analyzer.DefaultPolicy())
	}
	return &Pipeline{
		Assets:    assets,
		Collector: col,
		News:      np,
		NewsLimit: news.DefaultLimit,
		Analyzer:  an,
		Recorder:  rec,
		latest:    make(map[string]*Result),
	}
}

// Lookup finds a configured asset by symbol, case-insensitively.
func (p *Pipeline) Lookup(symbol string) (model.Asset, error) {
	for _, a := range p.Assets {
		if strings.EqualFold(a.Symbol, symbol) {
			return a, nil
		}
	}
	return model.Asset{}, fmt.Errorf("%w: %s", ErrUnknownAsset, symbol)
}

// RunSymbol looks up symbol and runs it.
func (p *Pipeline) RunSymbol(ctx context.Context, symbol string) (*Result, error) {
	asset, err := p.Lookup(symbol)
	if err != nil {
		return nil, err
	}
	return p.Run(ctx, asset)
}

// Run collects market data and news for asset and generates a report.
func (p *Pipeline) Run(ctx context.Context, asset model.Asset) (*Result, error) {
	start := time.Now()

	snap, err := p.Collector.Collect(ctx, asset)
	if err != nil {
		p.Metrics.ObserveError(asset.Symbol)
		return nil, fmt.Errorf("collect %s: %w", asset.Symbol, err)
	}

	articles, err := p.News.FetchNews(ctx, asset, p.NewsLimit)
	if err != nil {
		p.Metrics.ObserveFetchError("news", "articles")
		log.Printf("[WARN] news for %s failed: %v, continuing without articles", asset.Symbol, err)
		articles = nil
	}

	report := p.Analyzer.Generate(analyzer.Input{
		AssetName:    asset.Name,
		AssetSymbol:  asset.Symbol,
		AssetType:    asset.Type,
		CurrentPrice: snap.Quote.Price,
		Change24h:    snap.Quote.Change24h.Or(0),
		PriceHistory: snap.History,
		Stats:        snap.Stats,
		News:         articles,
		ChartData:    snap.Chart,
	})

	if err := p.Recorder.RecordAnalysis(&recorder.AnalysisRecord{
		Timestamp: report.Metadata.GeneratedAt,
		Report:    report,
	}); err != nil {
		log.Printf("[ERROR] record analysis for %s: %v", asset.Symbol, err)
	}
	p.Metrics.ObserveReport(report, time.Since(start).Seconds())

	res := &Result{Report: report, Snapshot: snap}
	p.mu.Lock()
	p.latest[strings.ToUpper(asset.Symbol)] = res
	p.mu.Unlock()

	log.Printf("[INFO] analysis %s: %s (confidence %.0f%%, risk %s)",
		asset.Symbol, report.Recommendation.Action, report.Recommendation.Confidence, report.Risk.Level)
	return res, nil
}

// Latest returns the most recent result for symbol, if any.
func (p *Pipeline) Latest(symbol string) (*Result, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	res, ok := p.latest[strings.ToUpper(symbol)]
	return res, ok
}
