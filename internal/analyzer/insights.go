package analyzer

import (
	"fmt"
	"math"

	"Cryptalyst/internal/model"
)

// buildInsights returns up to four sentences, always in the order
// sentiment, technical, volatility, momentum.
func buildInsights(sentiment model.SentimentResult, technical model.TechnicalResult, rangePercent, change24h float64, p Policy) []string {
	insights := []string{}

	if sentiment.Sentiment != model.Neutral {
		insights = append(insights, fmt.Sprintf("News sentiment is %s across %d articles (score %.0f/100).",
			sentiment.Sentiment, sentiment.NewsCount, sentiment.Score))
	}

	if len(technical.Signals) > 0 {
		insights = append(insights, fmt.Sprintf("%d technical signals cast %d bullish and %d bearish votes, pointing to a %s trend.",
			len(technical.Signals), technical.BullishCount, technical.BearishCount, technical.Trend))
	}

	switch {
	case rangePercent > p.HighVolatility:
		insights = append(insights, fmt.Sprintf("A %.1f%% price range signals high volatility; size positions accordingly.", rangePercent))
	case rangePercent < p.LowVolatility:
		insights = append(insights, fmt.Sprintf("A %.1f%% price range indicates low volatility and a stable market.", rangePercent))
	}

	if math.Abs(change24h) > p.MomentumThreshold {
		direction := "upward"
		if change24h < 0 {
			direction = "downward"
		}
		insights = append(insights, fmt.Sprintf("Strong %s momentum with a %+.1f%% move in the last 24 hours.", direction, change24h))
	}

	return insights
}

func buildSummary(in Input, rec model.Recommendation, risk model.RiskAssessment, p Policy) string {
	outlook := model.Neutral
	switch {
	case rec.OverallScore > p.TrendBullishAbove:
		outlook = model.Bullish
	case rec.OverallScore < p.TrendBearishBelow:
		outlook = model.Bearish
	}
	name := in.AssetName
	if name == "" {
		name = in.AssetSymbol
	}
	return fmt.Sprintf("%s (%s) shows a %s outlook with a %s recommendation at %.0f%% confidence and %s risk.",
		name, in.AssetSymbol, outlook, rec.Action, rec.Confidence, risk.Level)
}
