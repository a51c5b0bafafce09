package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/robfig/cron/v3"

	"Cryptalyst/internal/alert"
	"Cryptalyst/internal/metrics"
	"Cryptalyst/internal/model"
	"Cryptalyst/internal/notifier"
	"Cryptalyst/internal/pipeline"
	"Cryptalyst/internal/recorder"
)

// Sender delivers a formatted message.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// QuoteSource supplies the latest price for the alert sweep.
type QuoteSource interface {
	FetchQuote(ctx context.Context, symbol string) (*model.Quote, error)
}

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron     *cron.Cron
	Pipeline *pipeline.Pipeline
	Alerts   *alert.Manager
	Quotes   QuoteSource
	Notifier Sender // nil disables notifications
	Recorder recorder.Recorder
	Metrics  *metrics.Metrics
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, p *pipeline.Pipeline, am *alert.Manager, qs QuoteSource, sender Sender, rec recorder.Recorder) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Pipeline: p,
		Alerts:   am,
		Quotes:   qs,
		Notifier: sender,
		Recorder: rec,
		Ctx:      ctx,
	}
}

// RegisterAll registers the analysis and alert sweep tasks.
func (s *Scheduler) RegisterAll(analysisCron, alertCron string) error {
	if _, err := s.Cron.AddFunc(analysisCron, s.analysisTask); err != nil {
		return fmt.Errorf("register analysis task: %w", err)
	}
	if _, err := s.Cron.AddFunc(alertCron, s.alertSweep); err != nil {
		return fmt.Errorf("register alert task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunAnalysisNow executes the analysis task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunAnalysisNow() {
	s.analysisTask()
}

func (s *Scheduler) analysisTask() {
	log.Println("[INFO] running analysis task")
	for _, asset := range s.Pipeline.Assets {
		if s.Ctx.Err() != nil {
			return
		}
		res, err := s.Pipeline.Run(s.Ctx, asset)
		if err != nil {
			log.Printf("[ERROR] analysis %s: %v", asset.Symbol, err)
			s.trySend(fmt.Sprintf("❌ %s analysis failed: %v", asset.Symbol, err))
			continue
		}
		s.trySend(notifier.FormatAnalysisReport(res.Report))
		s.checkAlerts(asset.Symbol, res.Snapshot.Quote.Price)
	}
}

func (s *Scheduler) alertSweep() {
	if s.Alerts == nil || s.Quotes == nil {
		return
	}
	for _, symbol := range s.Alerts.Symbols() {
		if s.Ctx.Err() != nil {
			return
		}
		q, err := s.Quotes.FetchQuote(s.Ctx, symbol)
		if err != nil {
			log.Printf("[WARN] alert sweep quote %s: %v", symbol, err)
			continue
		}
		s.checkAlerts(symbol, q.Price)
	}
}

func (s *Scheduler) checkAlerts(symbol string, price float64) {
	if s.Alerts == nil {
		return
	}
	for _, a := range s.Alerts.Evaluate(symbol, price) {
		log.Printf("[INFO] alert %s fired: %s %s %.2f at %.2f", a.ID, a.Symbol, a.Condition, a.Target, price)
		s.Metrics.ObserveAlert(a.Symbol)
		s.trySend(notifier.FormatAlertTriggered(a, price))
		if err := s.Recorder.RecordAlertEvent(&recorder.AlertEvent{
			AlertID:   a.ID,
			Symbol:    a.Symbol,
			Condition: string(a.Condition),
			Target:    a.Target,
			Price:     price,
			Note:      a.Note,
		}); err != nil {
			log.Printf("[ERROR] record alert event: %v", err)
		}
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.HelpText
	}
	switch strings.ToLower(fields[0]) {
	case "/analyze":
		if len(fields) < 2 {
			return "Usage: /analyze SYMBOL"
		}
		res, err := s.Pipeline.RunSymbol(ctx, fields[1])
		if errors.Is(err, pipeline.ErrUnknownAsset) {
			return fmt.Sprintf("Unknown symbol %s", strings.ToUpper(fields[1]))
		}
		if err != nil {
			log.Printf("[ERROR] analyze command: %v", err)
			return fmt.Sprintf("❌ analysis failed: %v", err)
		}
		return notifier.FormatAnalysisReport(res.Report)
	case "/alerts":
		if s.Alerts == nil {
			return "Alerts are disabled."
		}
		symbol := ""
		if len(fields) > 1 {
			symbol = fields[1]
		}
		return notifier.FormatAlertList(s.Alerts.List(symbol))
	default:
		return notifier.HelpText
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
