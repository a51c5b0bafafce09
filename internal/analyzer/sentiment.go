package analyzer

import (
	"math"
	"strings"

	"Cryptalyst/internal/model"
)

// ScoreSentiment counts keyword hits across the title and description of every
// article. The score is the positive share of all hits, neutral when none hit.
func ScoreSentiment(news []model.NewsArticle, p Policy) model.SentimentResult {
	var positive, negative int
	for _, a := range news {
		text := strings.ToLower(a.Title + " " + a.Description)
		positive += countKeywords(text, p.PositiveKeywords)
		negative += countKeywords(text, p.NegativeKeywords)
	}

	score := p.NeutralScore
	if total := positive + negative; total > 0 {
		score = float64(positive) / float64(total) * 100
	}

	return model.SentimentResult{
		Score:      score,
		Sentiment:  sentimentLabel(score, p),
		Confidence: math.Min(float64(len(news))*p.ConfidencePerArticle, p.MaxSentimentConfidence),
		NewsCount:  len(news),
	}
}

func countKeywords(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		n += strings.Count(text, kw)
	}
	return n
}

func sentimentLabel(score float64, p Policy) string {
	switch {
	case score > p.SentimentBullishAbove:
		return model.Bullish
	case score < p.SentimentBearishBelow:
		return model.Bearish
	default:
		return model.Neutral
	}
}
