package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"Cryptalyst/internal/alert"
	"Cryptalyst/internal/model"
)

func TestSend(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bottoken/sendMessage" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewTelegramNotifier("token", "42", "")
	n.APIBase = srv.URL
	if err := n.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got["chat_id"] != "42" || got["text"] != "hello" || got["parse_mode"] != "HTML" || got["disable_web_page_preview"] != true {
		t.Errorf("payload = %v", got)
	}
}

func TestSendWithRetry_GivesUp(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewTelegramNotifier("token", "42", "")
	n.APIBase = srv.URL
	if err := n.SendWithRetry(context.Background(), "x", 0); err == nil {
		t.Fatal("expected error")
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("calls = %d, want 1 with no retries", n)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := n.SendWithRetry(ctx, "x", 3); err == nil {
		t.Error("expected error on cancelled context")
	}
}

func TestSendWithRetry_PermanentErrorNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
	}))
	defer srv.Close()

	n := NewTelegramNotifier("token", "42", "")
	n.APIBase = srv.URL
	err := n.SendWithRetry(context.Background(), "x", 3)

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest || !strings.Contains(apiErr.Description, "chat not found") {
		t.Fatalf("err = %v, want 400 APIError", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("calls = %d, want 1", n)
	}
}

func TestSendWithRetry_RateLimited(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"ok":false,"error_code":429,"description":"Too Many Requests","parameters":{"retry_after":5}}`))
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewTelegramNotifier("token", "42", "")
	n.APIBase = srv.URL
	n.MaxBackoff = 10 * time.Millisecond
	if err := n.SendWithRetry(context.Background(), "x", 2); err != nil {
		t.Fatalf("SendWithRetry: %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("calls = %d, want 2", n)
	}
}

func TestBackoff(t *testing.T) {
	n := &TelegramNotifier{MaxBackoff: 3 * time.Second}
	cases := []struct {
		attempt int
		apiErr  *APIError
		want    time.Duration
	}{
		{0, nil, time.Second},
		{1, nil, 2 * time.Second},
		{4, nil, 3 * time.Second},
		{0, &APIError{RetryAfter: 2 * time.Second}, 2 * time.Second},
		{0, &APIError{RetryAfter: time.Minute}, 3 * time.Second},
	}
	for _, tc := range cases {
		if got := n.backoff(tc.attempt, tc.apiErr); got != tc.want {
			t.Errorf("backoff(%d, %+v) = %v, want %v", tc.attempt, tc.apiErr, got, tc.want)
		}
	}
}

func TestStartPolling(t *testing.T) {
	var served int32
	replies := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			if atomic.AddInt32(&served, 1) == 1 {
				w.Write([]byte(`{"ok":true,"result":[{"update_id":7,"message":{"text":" /help "}}]}`))
				return
			}
			if r.URL.Query().Get("offset") != "8" {
				t.Errorf("offset = %q, want 8", r.URL.Query().Get("offset"))
			}
			w.Write([]byte(`{"ok":true,"result":[]}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			var p sendMessageRequest
			json.NewDecoder(r.Body).Decode(&p)
			select {
			case replies <- p.Text:
			default:
			}
			w.Write([]byte(`{"ok":true}`))
		}
	}))
	defer srv.Close()

	n := NewTelegramNotifier("token", "42", "")
	n.APIBase = srv.URL

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		n.StartPolling(ctx, func(_ context.Context, cmd string) string { return "echo " + cmd })
		close(done)
	}()

	select {
	case r := <-replies:
		if r != "echo /help" {
			t.Errorf("reply = %q", r)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reply sent")
	}
	cancel()
	<-done
}

func TestFormatAnalysisReport(t *testing.T) {
	rep := &model.AnalysisReport{
		Metadata:       model.ReportMetadata{AssetName: "Bitcoin", AssetSymbol: "BTC", Disclaimer: "Not advice"},
		Technical:      model.TechnicalResult{Signals: []model.TechnicalSignal{{Indicator: "RSI", Signal: "Overbought", Value: 75}}},
		Recommendation: model.Recommendation{Action: model.ActionSell, Confidence: 70, Reasoning: []string{"a < b"}},
		Risk:           model.RiskAssessment{Level: model.RiskHigh, Score: 65},
		Summary:        "Summary line.",
	}
	msg := FormatAnalysisReport(rep)
	for _, want := range []string{"Bitcoin (BTC)", "🔴 <b>SELL</b>", "RSI: Overbought", "a &lt; b", "Risk: High (65)", "<i>Not advice</i>"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestFormatAlerts(t *testing.T) {
	a := alert.Alert{ID: "0123456789", Symbol: "ETH", Condition: alert.Below, Target: 1500, Note: "buy <dip>", Active: true}
	msg := FormatAlertTriggered(a, 1490)
	if !strings.Contains(msg, "Price 1490.00 is below target 1500.00") || !strings.Contains(msg, "buy &lt;dip&gt;") {
		t.Errorf("unexpected alert message: %s", msg)
	}
	if got := FormatAlertList(nil); got != "No alerts configured." {
		t.Errorf("empty list = %q", got)
	}
	if got := FormatAlertList([]alert.Alert{a}); !strings.Contains(got, "ETH below 1500.00 [active] 01234567") {
		t.Errorf("list = %q", got)
	}
}
