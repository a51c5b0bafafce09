package calculator

import "Cryptalyst/internal/model"

// CalculateMACD computes the MACD line (fast EMA - slow EMA), its signal line
// (an EMA of the MACD line seeded with the mean of its first signal points) and
// the histogram. Returns nil when fewer than slow+signal points exist.
func CalculateMACD(series []model.PricePoint, fast, slow, signal int) []model.IndicatorRecord {
	if fast <= 0 || slow <= 0 || signal <= 0 || len(series) < slow+signal {
		return nil
	}
	out := newRecords(series)
	fastEMA := newEMAState(fast)
	slowEMA := newEMAState(slow)
	signalEMA := newEMAState(signal)

	for i, p := range series {
		f := fastEMA.next(p.Price)
		s := slowEMA.next(p.Price)
		if !f.Valid || !s.Valid {
			continue
		}
		macd := f.V - s.V
		out[i].MACD = model.Some(macd)

		sig := signalEMA.next(macd)
		if !sig.Valid {
			continue
		}
		out[i].Signal = sig
		out[i].Histogram = model.Some(macd - sig.V)
	}
	return out
}
