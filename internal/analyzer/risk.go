package analyzer

import (
	"math"

	"Cryptalyst/internal/model"
)

// volatilityBands maps the range percent to its base risk contribution.
var volatilityBands = []struct {
	Above  float64
	Points float64
}{
	{20, 40},
	{10, 25},
}

// baseVolatilityPoints applies when no band matches.
const baseVolatilityPoints = 10

// riskLevels maps the risk score to a level, checked in order.
var riskLevels = []struct {
	Above float64
	Level model.RiskLevel
}{
	{60, model.RiskHigh},
	{35, model.RiskMedium},
}

// AssessRisk adds up volatility, sentiment extremity and technical indecision.
// An indecisive technical score (near 50) raises risk.
func AssessRisk(rangePercent, sentimentScore, technicalScore float64) model.RiskAssessment {
	score := float64(baseVolatilityPoints)
	for _, b := range volatilityBands {
		if rangePercent > b.Above {
			score = b.Points
			break
		}
	}
	score += math.Abs(sentimentScore-50) * 0.3
	score += (50 - math.Abs(technicalScore-50)) * 0.4

	level := model.RiskLow
	for _, l := range riskLevels {
		if score > l.Above {
			level = l.Level
			break
		}
	}
	return model.RiskAssessment{
		Level: level,
		Score: int(math.Min(math.Round(score), 100)),
	}
}
