package recorder

import (
	"time"

	"Cryptalyst/internal/model"
)

// AnalysisRecord is one stored analysis run.
type AnalysisRecord struct {
	Timestamp time.Time
	Report    *model.AnalysisReport
}

// AlertEvent records a triggered price alert.
type AlertEvent struct {
	AlertID   string
	Symbol    string
	Condition string // "above" or "below"
	Target    float64
	Price     float64
	Note      string
}

// Recorder persists historical data for analysis.
type Recorder interface {
	RecordAnalysis(rec *AnalysisRecord) error
	RecordAlertEvent(evt *AlertEvent) error
	// RecentAnalyses returns up to limit records for symbol, newest first.
	RecentAnalyses(symbol string, limit int) ([]AnalysisRecord, error)
	Close() error
}
