package model

import "time"

// Sentiment labels.
const (
	Bullish = "bullish"
	Bearish = "bearish"
	Neutral = "neutral"
)

// Action is the recommended trade direction.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

// RiskLevel buckets the risk score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// ReportMetadata identifies a report. It is the only part that differs
// between two runs over the same inputs.
type ReportMetadata struct {
	ID          string    `json:"id"`
	AssetName   string    `json:"assetName"`
	AssetSymbol string    `json:"assetSymbol"`
	AssetType   AssetType `json:"assetType"`
	GeneratedAt time.Time `json:"generatedAt"`
	Disclaimer  string    `json:"disclaimer"`
}

type SentimentResult struct {
	Score      float64 `json:"score"`
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
	NewsCount  int     `json:"newsCount"`
}

// TechnicalSignal is one indicator's reading and its vote.
type TechnicalSignal struct {
	Indicator string  `json:"indicator"`
	Signal    string  `json:"signal"`
	Direction string  `json:"direction"`
	Value     float64 `json:"value"`
	Votes     int     `json:"votes"`
}

type TechnicalResult struct {
	Score        float64           `json:"score"`
	Signals      []TechnicalSignal `json:"signals"`
	Trend        string            `json:"trend"`
	BullishCount int               `json:"bullishCount"`
	BearishCount int               `json:"bearishCount"`
}

type PriceTargets struct {
	CurrentPrice float64 `json:"currentPrice"`
	Resistance1  float64 `json:"resistance1"`
	Resistance2  float64 `json:"resistance2"`
	Support1     float64 `json:"support1"`
	Support2     float64 `json:"support2"`
	TargetPrice  float64 `json:"targetPrice"`
}

type RiskAssessment struct {
	Level RiskLevel `json:"level"`
	Score int       `json:"score"`
}

type Recommendation struct {
	Action       Action   `json:"action"`
	Confidence   float64  `json:"confidence"`
	Reasoning    []string `json:"reasoning"`
	OverallScore float64  `json:"overallScore"`
}

// AnalysisReport is the output of one heuristic analysis run.
type AnalysisReport struct {
	Metadata       ReportMetadata  `json:"metadata"`
	Sentiment      SentimentResult `json:"sentiment"`
	Technical      TechnicalResult `json:"technical"`
	PriceTargets   PriceTargets    `json:"priceTargets"`
	Risk           RiskAssessment  `json:"risk"`
	Recommendation Recommendation  `json:"recommendation"`
	Insights       []string        `json:"insights"`
	Summary        string          `json:"summary"`
}
