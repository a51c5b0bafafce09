package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PricePoint is one entry of a chronologically ordered price series.
type PricePoint struct {
	Label  string  `json:"label"`
	Price  float64 `json:"price"`
	Volume Value   `json:"volume"`
}

// Quote is the latest traded price of an asset.
type Quote struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Change24h Value     `json:"change24h"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// AssetType distinguishes crypto assets from listed stocks.
type AssetType string

const (
	AssetCrypto AssetType = "crypto"
	AssetStock  AssetType = "stock"
)

// Asset identifies a tracked instrument.
type Asset struct {
	Symbol string    `yaml:"symbol" json:"symbol"`
	Name   string    `yaml:"name" json:"name"`
	Type   AssetType `yaml:"type" json:"type"`
}

// PriceStats summarises a price series. Any field may be absent.
type PriceStats struct {
	Min          Value `json:"min"`
	Max          Value `json:"max"`
	Average      Value `json:"average"`
	RangePercent Value `json:"rangePercent"`
}

// MarketSnapshot is everything collected for one asset in one run.
type MarketSnapshot struct {
	Asset     Asset             `json:"asset"`
	Quote     Quote             `json:"quote"`
	History   []PricePoint      `json:"history"`
	Chart     []IndicatorRecord `json:"chart"`
	Stats     PriceStats        `json:"stats"`
	FetchedAt time.Time         `json:"fetchedAt"`
}
