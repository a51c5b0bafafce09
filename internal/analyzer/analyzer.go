// Package analyzer turns indicator output, news and price statistics into a
// rule-based analysis report. Every formula substitutes a neutral default for
// missing input, so a structurally complete report is always returned.
package analyzer

import (
	"math"
	"time"

	"github.com/google/uuid"

	"Cryptalyst/internal/model"
)

// Disclaimer is attached to every report.
const Disclaimer = "Rule-based analysis for informational purposes only. Not financial advice."

// Input is everything one analysis needs. Only the asset identity is required.
type Input struct {
	AssetName    string
	AssetSymbol  string
	AssetType    model.AssetType
	CurrentPrice float64
	Change24h    float64
	PriceHistory []model.PricePoint
	Stats        model.PriceStats
	News         []model.NewsArticle
	ChartData    []model.IndicatorRecord
}

// Analyzer applies a Policy. Now and NewID only feed the report metadata.
type Analyzer struct {
	Policy Policy
	Now    func() time.Time
	NewID  func() string
}

// New creates an Analyzer with the given policy.
func New(policy Policy) *Analyzer {
	return &Analyzer{
		Policy: policy,
		Now:    time.Now,
		NewID:  func() string { return uuid.NewString() },
	}
}

// GenerateAIAnalysis runs the default policy over in.
func GenerateAIAnalysis(in Input) *model.AnalysisReport {
	return New(DefaultPolicy()).Generate(in)
}

// Generate builds a fresh report from in.
func (a *Analyzer) Generate(in Input) *model.AnalysisReport {
	p := a.Policy
	price := resolvePrice(in)
	change := in.Change24h
	if math.IsNaN(change) || math.IsInf(change, 0) {
		change = 0
	}
	rangePercent := in.Stats.RangePercent.Or(p.DefaultRangePercent)

	sentiment := ScoreSentiment(in.News, p)
	technical := ScoreTechnical(in.ChartData, p)
	targets := ComputeTargets(price, in.Stats, p)
	risk := AssessRisk(rangePercent, sentiment.Score, technical.Score)
	rec := Recommend(sentiment, technical, risk, p)

	return &model.AnalysisReport{
		Metadata: model.ReportMetadata{
			ID:          a.NewID(),
			AssetName:   in.AssetName,
			AssetSymbol: in.AssetSymbol,
			AssetType:   in.AssetType,
			GeneratedAt: a.Now(),
			Disclaimer:  Disclaimer,
		},
		Sentiment:      sentiment,
		Technical:      technical,
		PriceTargets:   targets,
		Risk:           risk,
		Recommendation: rec,
		Insights:       buildInsights(sentiment, technical, rangePercent, change, p),
		Summary:        buildSummary(in, rec, risk, p),
	}
}

// resolvePrice prefers the quoted price and falls back to the latest point.
func resolvePrice(in Input) float64 {
	if in.CurrentPrice > 0 && !math.IsInf(in.CurrentPrice, 0) {
		return in.CurrentPrice
	}
	if n := len(in.ChartData); n > 0 {
		return in.ChartData[n-1].Price
	}
	if n := len(in.PriceHistory); n > 0 {
		return in.PriceHistory[n-1].Price
	}
	return 0
}
