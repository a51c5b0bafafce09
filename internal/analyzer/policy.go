package analyzer

// Policy holds every threshold and keyword table the heuristics use.
type Policy struct {
	PositiveKeywords []string
	NegativeKeywords []string

	NeutralScore float64 // score used when nothing votes

	SentimentBullishAbove  float64
	SentimentBearishBelow  float64
	ConfidencePerArticle   float64
	MaxSentimentConfidence float64

	RSIOverbought  float64
	RSIOversold    float64
	RSIMidline     float64
	CrossoverVotes int

	TrendBullishAbove float64
	TrendBearishBelow float64

	DefaultRangePercent float64 // volatility when stats carry none
	DefaultMaxFactor    float64 // stats.max fallback as a multiple of price
	DefaultMinFactor    float64 // stats.min fallback as a multiple of price

	BuyAbove           float64
	SellBelow          float64
	MaxTradeConfidence float64
	HoldBaseConfidence float64
	MaxHoldConfidence  float64

	MomentumThreshold float64 // |change24h| in percent that earns an insight
	HighVolatility    float64
	LowVolatility     float64
}

// DefaultPolicy returns the production thresholds.
func DefaultPolicy() Policy {
	return Policy{
		PositiveKeywords: []string{"surge", "rally", "bullish", "gain", "growth", "breakout", "adoption", "upgrade"},
		NegativeKeywords: []string{"crash", "plunge", "bearish", "loss", "decline", "selloff", "hack", "downgrade"},

		NeutralScore: 50,

		SentimentBullishAbove:  65,
		SentimentBearishBelow:  35,
		ConfidencePerArticle:   10,
		MaxSentimentConfidence: 95,

		RSIOverbought:  70,
		RSIOversold:    30,
		RSIMidline:     50,
		CrossoverVotes: 2,

		TrendBullishAbove: 60,
		TrendBearishBelow: 40,

		DefaultRangePercent: 10,
		DefaultMaxFactor:    1.1,
		DefaultMinFactor:    0.9,

		BuyAbove:           65,
		SellBelow:          35,
		MaxTradeConfidence: 95,
		HoldBaseConfidence: 60,
		MaxHoldConfidence:  75,

		MomentumThreshold: 5,
		HighVolatility:    20,
		LowVolatility:     5,
	}
}
