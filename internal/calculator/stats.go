package calculator

import (
	"math"

	"Cryptalyst/internal/model"
)

// ComputeStats scans the series for min, max and average price.
// RangePercent is (max-min)/min*100 and stays empty when min is not positive.
func ComputeStats(series []model.PricePoint) model.PriceStats {
	if len(series) == 0 {
		return model.PriceStats{}
	}
	high := math.Inf(-1)
	low := math.Inf(1)
	sum := 0.0
	for _, p := range series {
		if p.Price > high {
			high = p.Price
		}
		if p.Price < low {
			low = p.Price
		}
		sum += p.Price
	}
	stats := model.PriceStats{
		Min:     model.Some(low),
		Max:     model.Some(high),
		Average: model.Some(sum / float64(len(series))),
	}
	if low > 0 {
		stats.RangePercent = model.Some((high - low) / low * 100)
	}
	return stats
}

// Change24h returns the percent change between the last two points, which for
// daily bars is the 24-hour move.
func Change24h(series []model.PricePoint) model.Value {
	n := len(series)
	if n < 2 || series[n-2].Price == 0 {
		return model.None
	}
	prev := series[n-2].Price
	return model.Some((series[n-1].Price - prev) / prev * 100)
}
