package analyzer

import (
	"math"

	"Cryptalyst/internal/model"
)

// ComputeTargets derives support and resistance from the price and its range.
// Missing or non-finite stats fall back to the policy defaults so every field is a number.
func ComputeTargets(price float64, stats model.PriceStats, p Policy) model.PriceTargets {
	volatility := stats.RangePercent.Or(p.DefaultRangePercent) / 100
	high := stats.Max.Or(price * p.DefaultMaxFactor)
	low := stats.Min.Or(price * p.DefaultMinFactor)

	return model.PriceTargets{
		CurrentPrice: price,
		Resistance1:  math.Min(price*(1+volatility*0.5), high*0.98),
		Resistance2:  high,
		Support1:     math.Max(price*(1-volatility*0.5), low*1.02),
		Support2:     low,
		TargetPrice:  price * (1 + volatility*0.3),
	}
}
