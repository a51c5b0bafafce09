package calculator

import "Cryptalyst/internal/model"

// rsiZeroLossRS is the relative strength used when the window has no losses.
// It caps RSI at 100 - 100/101 instead of 100.
const rsiZeroLossRS = 100.0

// CalculateRSI computes the RSI of each point from simple (not Wilder-smoothed)
// averages of the gains and losses over the trailing period steps.
// Points 0..period-1 carry no value. Returns nil when fewer than period+1 points exist.
func CalculateRSI(series []model.PricePoint, period int) []model.IndicatorRecord {
	if period <= 0 || len(series) < period+1 {
		return nil
	}
	out := newRecords(series)
	for i := period; i < len(series); i++ {
		var gains, losses float64
		for j := i - period + 1; j <= i; j++ {
			change := series[j].Price - series[j-1].Price
			if change > 0 {
				gains += change
			} else {
				losses -= change
			}
		}
		avgGain := gains / float64(period)
		avgLoss := losses / float64(period)

		rs := rsiZeroLossRS
		if avgLoss != 0 {
			rs = avgGain / avgLoss
		}
		out[i].RSI = model.Some(100.0 - 100.0/(1.0+rs))
	}
	return out
}
