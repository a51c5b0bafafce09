package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"Cryptalyst/internal/alert"
	"Cryptalyst/internal/metrics"
	"Cryptalyst/internal/model"
	"Cryptalyst/internal/pipeline"
	"Cryptalyst/internal/recorder"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

// Handler holds the dependencies for HTTP handlers.
type Handler struct {
	Pipeline *pipeline.Pipeline
	Alerts   *alert.Manager
	Recorder recorder.Recorder
	Metrics  *metrics.Metrics
}

// NewHandler creates a new Handler.
func NewHandler(p *pipeline.Pipeline, am *alert.Manager, rec recorder.Recorder, m *metrics.Metrics) *Handler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Handler{Pipeline: p, Alerts: am, Recorder: rec, Metrics: m}
}

// HandleHealth returns service liveness and the tracked assets.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"assets": h.Pipeline.Assets,
		"time":   time.Now().UTC(),
	})
}

// HandleGetAnalysis returns the latest report for a symbol, running the
// pipeline when none is cached or ?refresh=true is given.
func (h *Handler) HandleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	asset, err := h.Pipeline.Lookup(symbol)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	if r.URL.Query().Get("refresh") != "true" {
		if res, ok := h.Pipeline.Latest(asset.Symbol); ok {
			h.jsonResponse(w, http.StatusOK, res.Report)
			return
		}
	}
	res, err := h.Pipeline.Run(r.Context(), asset)
	if err != nil {
		log.Printf("[ERROR] api analysis %s: %v", asset.Symbol, err)
		h.jsonError(w, "analysis failed: "+err.Error(), http.StatusBadGateway)
		return
	}
	h.jsonResponse(w, http.StatusOK, res.Report)
}

// HandleGetAnalysisHistory returns stored reports for a symbol, newest first.
func (h *Handler) HandleGetAnalysisHistory(w http.ResponseWriter, r *http.Request) {
	asset, err := h.Pipeline.Lookup(chi.URLParam(r, "symbol"))
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	records, err := h.Recorder.RecentAnalyses(asset.Symbol, parseLimit(r, defaultHistoryLimit))
	if err != nil {
		log.Printf("[ERROR] api history %s: %v", asset.Symbol, err)
		h.jsonError(w, "failed to load history", http.StatusInternalServerError)
		return
	}
	reports := make([]*model.AnalysisReport, 0, len(records))
	for _, rec := range records {
		reports = append(reports, rec.Report)
	}
	h.jsonResponse(w, http.StatusOK, reports)
}

// HandleGetIndicators returns the market snapshot (quote, stats, indicator chart).
func (h *Handler) HandleGetIndicators(w http.ResponseWriter, r *http.Request) {
	asset, err := h.Pipeline.Lookup(chi.URLParam(r, "symbol"))
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	if res, ok := h.Pipeline.Latest(asset.Symbol); ok && r.URL.Query().Get("refresh") != "true" {
		h.jsonResponse(w, http.StatusOK, res.Snapshot)
		return
	}
	snap, err := h.Pipeline.Collector.Collect(r.Context(), asset)
	if err != nil {
		log.Printf("[ERROR] api indicators %s: %v", asset.Symbol, err)
		h.jsonError(w, "collect failed: "+err.Error(), http.StatusBadGateway)
		return
	}
	h.jsonResponse(w, http.StatusOK, snap)
}

// HandleListAlerts lists alerts, optionally filtered by ?symbol=.
func (h *Handler) HandleListAlerts(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, h.Alerts.List(r.URL.Query().Get("symbol")))
}

type createAlertRequest struct {
	Symbol    string          `json:"symbol"`
	Condition alert.Condition `json:"condition"`
	Target    float64         `json:"target"`
	Note      string          `json:"note"`
}

// HandleCreateAlert adds a price alert on a tracked asset.
func (h *Handler) HandleCreateAlert(w http.ResponseWriter, r *http.Request) {
	var req createAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if _, err := h.Pipeline.Lookup(req.Symbol); err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	a, err := h.Alerts.Add(req.Symbol, req.Condition, req.Target, req.Note)
	switch {
	case errors.Is(err, alert.ErrInvalid):
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		log.Printf("[ERROR] api create alert: %v", err)
		h.jsonError(w, "failed to save alert", http.StatusInternalServerError)
		return
	}
	h.jsonResponse(w, http.StatusCreated, a)
}

// HandleDeleteAlert removes an alert by ID.
func (h *Handler) HandleDeleteAlert(w http.ResponseWriter, r *http.Request) {
	err := h.Alerts.Remove(chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, alert.ErrNotFound):
		h.jsonError(w, err.Error(), http.StatusNotFound)
	case err != nil:
		log.Printf("[ERROR] api delete alert: %v", err)
		h.jsonError(w, "failed to delete alert", http.StatusInternalServerError)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func parseLimit(r *http.Request, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 {
		return def
	}
	if n > maxHistoryLimit {
		return maxHistoryLimit
	}
	return n
}

func (h *Handler) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[WARN] encode response: %v", err)
	}
}

func (h *Handler) jsonError(w http.ResponseWriter, message string, status int) {
	h.jsonResponse(w, status, map[string]string{"error": message})
}
