package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"Cryptalyst/internal/model"
)

func TestObserveReport(t *testing.T) {
	m := New(prometheus.NewRegistry())
	rep := &model.AnalysisReport{
		Metadata:       model.ReportMetadata{AssetSymbol: "BTC"},
		Recommendation: model.Recommendation{Action: model.ActionBuy, Confidence: 42, OverallScore: 70},
	}
	m.ObserveReport(rep, 0.3)
	m.ObserveReport(rep, 0.2)

	if got := testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("BTC", "BUY")); got != 2 {
		t.Errorf("reports_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.LastConfidence.WithLabelValues("BTC")); got != 42 {
		t.Errorf("last_confidence = %v, want 42", got)
	}
	if got := testutil.ToFloat64(m.LastOverallScore.WithLabelValues("BTC")); got != 70 {
		t.Errorf("last_overall_score = %v, want 70", got)
	}
}

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveError("ETH")
	m.ObserveFetchError("yahoo", "history")
	m.ObserveAlert("ETH")
	m.ObserveAlert("ETH")
	m.ObserveHTTP("GET", "/api/health", "200", 0.01)

	if got := testutil.ToFloat64(m.AnalysisErrorsTotal.WithLabelValues("ETH")); got != 1 {
		t.Errorf("errors_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.FetchErrorsTotal.WithLabelValues("yahoo", "history")); got != 1 {
		t.Errorf("fetch_errors_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.AlertsTriggered.WithLabelValues("ETH")); got != 2 {
		t.Errorf("triggered_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/api/health", "200")); got != 1 {
		t.Errorf("http requests_total = %v, want 1", got)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveReport(&model.AnalysisReport{}, 1)
	m.ObserveError("X")
	m.ObserveFetchError("a", "b")
	m.ObserveAlert("X")
	m.ObserveHTTP("GET", "/", "200", 0)
}
