package model

// IndicatorRecord is a PricePoint enriched with indicator readings.
// Readings stay invalid for the warm-up span of each indicator.
type IndicatorRecord struct {
	PricePoint
	SMA       Value `json:"sma"`
	EMA       Value `json:"ema"`
	RSI       Value `json:"rsi"`
	MACD      Value `json:"macd"`
	Signal    Value `json:"signal"`
	Histogram Value `json:"histogram"`
}
