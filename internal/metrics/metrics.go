package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"Cryptalyst/internal/model"
)

// Metrics holds the Prometheus collectors for the analysis service.
type Metrics struct {
	AnalysesTotal       *prometheus.CounterVec
	AnalysisErrorsTotal *prometheus.CounterVec
	AnalysisDuration    prometheus.Histogram
	FetchErrorsTotal    *prometheus.CounterVec
	AlertsTriggered     *prometheus.CounterVec
	LastConfidence      *prometheus.GaugeVec
	LastOverallScore    *prometheus.GaugeVec
	HTTPRequests        *prometheus.CounterVec
	HTTPDuration        *prometheus.HistogramVec
}

var durationBuckets = []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30}

// New creates and registers the collectors on reg (the default registerer when nil).
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		AnalysesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cryptalyst",
			Subsystem: "analysis",
			Name:      "reports_total",
			Help:      "Analysis reports generated, by symbol and recommended action.",
		}, []string{"symbol", "action"}),
		AnalysisErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cryptalyst",
			Subsystem: "analysis",
			Name:      "errors_total",
			Help:      "Analysis runs that failed before a report was produced.",
		}, []string{"symbol"}),
		AnalysisDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cryptalyst",
			Subsystem: "analysis",
			Name:      "duration_seconds",
			Help:      "Wall time of a full collect-and-analyze run.",
			Buckets:   durationBuckets,
		}),
		FetchErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cryptalyst",
			Subsystem: "collector",
			Name:      "fetch_errors_total",
			Help:      "Upstream fetch failures by source and kind.",
		}, []string{"source", "kind"}),
		AlertsTriggered: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cryptalyst",
			Subsystem: "alerts",
			Name:      "triggered_total",
			Help:      "Price alerts that fired.",
		}, []string{"symbol"}),
		LastConfidence: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "cryptalyst",
			Subsystem: "analysis",
			Name:      "last_confidence",
			Help:      "Confidence of the latest recommendation per symbol.",
		}, []string{"symbol"}),
		LastOverallScore: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "cryptalyst",
			Subsystem: "analysis",
			Name:      "last_overall_score",
			Help:      "Overall score (0-100) of the latest report per symbol.",
		}, []string{"symbol"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cryptalyst",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "API requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cryptalyst",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "API request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// ObserveReport records a finished report.
func (m *Metrics) ObserveReport(rep *model.AnalysisReport, seconds float64) {
	if m == nil || rep == nil {
		return
	}
	sym := rep.Metadata.AssetSymbol
	m.AnalysesTotal.WithLabelValues(sym, string(rep.Recommendation.Action)).Inc()
	m.AnalysisDuration.Observe(seconds)
	m.LastConfidence.WithLabelValues(sym).Set(rep.Recommendation.Confidence)
	m.LastOverallScore.WithLabelValues(sym).Set(rep.Recommendation.OverallScore)
}

// ObserveError counts a failed run.
func (m *Metrics) ObserveError(symbol string) {
	if m == nil {
		return
	}
	m.AnalysisErrorsTotal.WithLabelValues(symbol).Inc()
}

// ObserveFetchError counts an upstream failure.
func (m *Metrics) ObserveFetchError(source, kind string) {
	if m == nil {
		return
	}
	m.FetchErrorsTotal.WithLabelValues(source, kind).Inc()
}

// ObserveAlert counts a fired alert.
func (m *Metrics) ObserveAlert(symbol string) {
	if m == nil {
		return
	}
	m.AlertsTriggered.WithLabelValues(symbol).Inc()
}

// ObserveHTTP records one served API request.
func (m *Metrics) ObserveHTTP(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, status).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(seconds)
}
