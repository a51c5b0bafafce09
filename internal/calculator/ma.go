package calculator

import "Cryptalyst/internal/model"

// Default periods used when a caller passes zero.
const (
	DefaultSMAPeriod  = 20
	DefaultEMAPeriod  = 12
	DefaultRSIPeriod  = 14
	DefaultMACDFast   = 12
	DefaultMACDSlow   = 26
	DefaultMACDSignal = 9
)

// CalculateSMA computes the simple moving average of each point over the
// trailing period prices, inclusive. Points before period-1 carry no value.
// Returns nil when the series is shorter than period.
func CalculateSMA(series []model.PricePoint, period int) []model.IndicatorRecord {
	if period <= 0 || len(series) < period {
		return nil
	}
	out := newRecords(series)
	for i := period - 1; i < len(series); i++ {
		out[i].SMA = model.Some(windowMean(series, i, period))
	}
	return out
}

// windowMean averages prices in (end-period, end]. The window is summed
// afresh so values do not drift on long series.
func windowMean(series []model.PricePoint, end, period int) float64 {
	sum := 0.0
	for j := end - period + 1; j <= end; j++ {
		sum += series[j].Price
	}
	return sum / float64(period)
}

// CalculateEMA computes the exponential moving average seeded with the simple
// mean of the first period prices. Returns nil when the series is shorter than period.
func CalculateEMA(series []model.PricePoint, period int) []model.IndicatorRecord {
	if period <= 0 || len(series) < period {
		return nil
	}
	out := newRecords(series)
	ema := newEMAState(period)
	for i, p := range series {
		out[i].EMA = ema.next(p.Price)
	}
	return out
}

// emaState folds prices into an EMA one step at a time, carrying the previous
// value forward. The first period-1 steps only accumulate the seed.
type emaState struct {
	period     int
	multiplier float64
	count      int
	sum        float64
	prev       float64
}

func newEMAState(period int) *emaState {
	return &emaState{
		period:     period,
		multiplier: 2.0 / float64(period+1),
	}
}

func (e *emaState) next(price float64) model.Value {
	e.count++
	if e.count <= e.period {
		e.sum += price
		if e.count < e.period {
			return model.None
		}
		e.prev = e.sum / float64(e.period)
		return model.Some(e.prev)
	}
	e.prev = (price-e.prev)*e.multiplier + e.prev
	return model.Some(e.prev)
}

func newRecords(series []model.PricePoint) []model.IndicatorRecord {
	out := make([]model.IndicatorRecord, len(series))
	for i, p := range series {
		out[i].PricePoint = p
	}
	return out
}
