package analyzer

import (
	"math"

	"Cryptalyst/internal/model"
)

// Recommend averages the sentiment and technical scores into an action.
// Comparisons are strict: an overall score of exactly BuyAbove holds.
func Recommend(sentiment model.SentimentResult, technical model.TechnicalResult, risk model.RiskAssessment, p Policy) model.Recommendation {
	overall := (sentiment.Score + technical.Score) / 2
	rec := model.Recommendation{OverallScore: overall}

	switch {
	case overall > p.BuyAbove && risk.Level != model.RiskHigh:
		rec.Action = model.ActionBuy
		rec.Confidence = math.Min(math.Round((overall-50)*1.5), p.MaxTradeConfidence)
		rec.Reasoning = append(rec.Reasoning, "Combined sentiment and technical score is strongly positive")
		if sentiment.Sentiment == model.Bullish {
			rec.Reasoning = append(rec.Reasoning, "News coverage is predominantly positive")
		}
		if technical.Trend == model.Bullish {
			rec.Reasoning = append(rec.Reasoning, "Technical indicators confirm an upward trend")
		}
		rec.Reasoning = append(rec.Reasoning, "Risk level is within acceptable bounds")
	case overall < p.SellBelow:
		rec.Action = model.ActionSell
		rec.Confidence = math.Min(math.Round((50-overall)*1.5), p.MaxTradeConfidence)
		rec.Reasoning = append(rec.Reasoning, "Combined sentiment and technical score is strongly negative")
		if sentiment.Sentiment == model.Bearish {
			rec.Reasoning = append(rec.Reasoning, "News coverage is predominantly negative")
		}
		if technical.Trend == model.Bearish {
			rec.Reasoning = append(rec.Reasoning, "Technical indicators confirm a downward trend")
		}
	default:
		rec.Action = model.ActionHold
		rec.Confidence = math.Min(p.HoldBaseConfidence+math.Abs(overall-50), p.MaxHoldConfidence)
		if overall > p.BuyAbove {
			rec.Reasoning = append(rec.Reasoning, "Positive signals are outweighed by high risk")
		} else {
			rec.Reasoning = append(rec.Reasoning, "Mixed signals suggest waiting for a clearer direction")
		}
		if sentiment.Sentiment == model.Neutral {
			rec.Reasoning = append(rec.Reasoning, "News sentiment is neutral")
		}
		if technical.Trend == model.Neutral {
			rec.Reasoning = append(rec.Reasoning, "No clear technical trend")
		}
	}
	return rec
}
