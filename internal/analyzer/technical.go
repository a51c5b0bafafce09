package analyzer

import (
	"fmt"

	"Cryptalyst/internal/model"
)

// ScoreTechnical reads the last two chart records and lets each indicator vote.
// The score is the bullish share of all votes, neutral when none were cast.
func ScoreTechnical(chart []model.IndicatorRecord, p Policy) model.TechnicalResult {
	res := model.TechnicalResult{Score: p.NeutralScore, Trend: model.Neutral, Signals: []model.TechnicalSignal{}}
	if len(chart) == 0 {
		return res
	}
	current := chart[len(chart)-1]
	var previous *model.IndicatorRecord
	if len(chart) > 1 {
		previous = &chart[len(chart)-2]
	}

	var signals []model.TechnicalSignal
	if sig, ok := priceVsAverage("SMA", current.Price, current.SMA); ok {
		signals = append(signals, sig)
	}
	if sig, ok := priceVsAverage("EMA", current.Price, current.EMA); ok {
		signals = append(signals, sig)
	}
	if sig, ok := rsiSignal(current.RSI, p); ok {
		signals = append(signals, sig)
	}
	if sig, ok := macdSignal(current, previous, p); ok {
		signals = append(signals, sig)
	}

	for _, s := range signals {
		if s.Direction == model.Bullish {
			res.BullishCount += s.Votes
		} else {
			res.BearishCount += s.Votes
		}
	}
	if total := res.BullishCount + res.BearishCount; total > 0 {
		res.Score = float64(res.BullishCount) / float64(total) * 100
	}
	if signals != nil {
		res.Signals = signals
	}

	switch {
	case res.Score > p.TrendBullishAbove:
		res.Trend = model.Bullish
	case res.Score < p.TrendBearishBelow:
		res.Trend = model.Bearish
	}
	return res
}

func priceVsAverage(name string, price float64, avg model.Value) (model.TechnicalSignal, bool) {
	if !avg.Finite() {
		return model.TechnicalSignal{}, false
	}
	if price > avg.V {
		return model.TechnicalSignal{Indicator: name, Signal: "Price above " + name, Direction: model.Bullish, Value: avg.V, Votes: 1}, true
	}
	return model.TechnicalSignal{Indicator: name, Signal: "Price below " + name, Direction: model.Bearish, Value: avg.V, Votes: 1}, true
}

// rsiSignal casts a vote for every finite reading. Between the oversold and
// overbought thresholds the band is never abstained on; it leans by RSIMidline.
func rsiSignal(rsi model.Value, p Policy) (model.TechnicalSignal, bool) {
	if !rsi.Finite() {
		return model.TechnicalSignal{}, false
	}
	sig := model.TechnicalSignal{Indicator: "RSI", Value: rsi.V, Votes: 1}
	switch {
	case rsi.V > p.RSIOverbought:
		sig.Signal = fmt.Sprintf("Overbought (RSI %.1f)", rsi.V)
		sig.Direction = model.Bearish
	case rsi.V < p.RSIOversold:
		sig.Signal = fmt.Sprintf("Oversold (RSI %.1f)", rsi.V)
		sig.Direction = model.Bullish
	case rsi.V > p.RSIMidline:
		sig.Signal = fmt.Sprintf("Neutral zone, leaning up (RSI %.1f)", rsi.V)
		sig.Direction = model.Bullish
	default:
		sig.Signal = fmt.Sprintf("Neutral zone, leaning down (RSI %.1f)", rsi.V)
		sig.Direction = model.Bearish
	}
	return sig, true
}

// macdSignal double-weights a crossover between the last two records.
func macdSignal(current model.IndicatorRecord, previous *model.IndicatorRecord, p Policy) (model.TechnicalSignal, bool) {
	if !current.MACD.Finite() || !current.Signal.Finite() {
		return model.TechnicalSignal{}, false
	}
	diff := current.MACD.V - current.Signal.V
	sig := model.TechnicalSignal{Indicator: "MACD", Value: current.MACD.V, Votes: 1}

	if previous != nil && previous.MACD.Finite() && previous.Signal.Finite() {
		prevDiff := previous.MACD.V - previous.Signal.V
		switch {
		case prevDiff <= 0 && diff > 0:
			sig.Signal = "Bullish Crossover"
			sig.Direction = model.Bullish
			sig.Votes = p.CrossoverVotes
			return sig, true
		case prevDiff >= 0 && diff < 0:
			sig.Signal = "Bearish Crossover"
			sig.Direction = model.Bearish
			sig.Votes = p.CrossoverVotes
			return sig, true
		}
	}

	if diff > 0 {
		sig.Signal = "MACD above signal line"
		sig.Direction = model.Bullish
	} else {
		sig.Signal = "MACD below signal line"
		sig.Direction = model.Bearish
	}
	return sig, true
}
