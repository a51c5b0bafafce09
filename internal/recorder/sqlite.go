package recorder

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"Cryptalyst/internal/model"
)

// SQLiteRecorder persists historical data to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so API reads do not block scheduled writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analyses (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp       INTEGER NOT NULL,
			report_id       TEXT,
			symbol          TEXT NOT NULL,
			current_price   REAL,
			sentiment_score REAL,
			technical_score REAL,
			overall_score   REAL,
			risk_score      INTEGER,
			risk_level      TEXT,
			action          TEXT,
			confidence      REAL,
			report_json     TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_symbol_ts ON analyses(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS alert_events (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			alert_id  TEXT,
			symbol    TEXT,
			condition TEXT,
			target    REAL,
			price     REAL,
			note      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alert_events_ts ON alert_events(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordAnalysis(rec *AnalysisRecord) error {
	if rec == nil || rec.Report == nil {
		return errors.New("record analysis: nil report")
	}
	data, err := json.Marshal(rec.Report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rep := rec.Report
	_, err = r.db.Exec(`INSERT INTO analyses
		(timestamp, report_id, symbol, current_price, sentiment_score, technical_score,
		 overall_score, risk_score, risk_level, action, confidence, report_json)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		ts.UnixMilli(), rep.Metadata.ID, rep.Metadata.AssetSymbol, rep.PriceTargets.CurrentPrice,
		rep.Sentiment.Score, rep.Technical.Score, rep.Recommendation.OverallScore,
		rep.Risk.Score, string(rep.Risk.Level), string(rep.Recommendation.Action),
		rep.Recommendation.Confidence, string(data),
	)
	return err
}

func (r *SQLiteRecorder) RecordAlertEvent(evt *AlertEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO alert_events
		(timestamp, alert_id, symbol, condition, target, price, note)
		VALUES (?,?,?,?,?,?,?)`,
		time.Now().UnixMilli(), evt.AlertID, evt.Symbol, evt.Condition,
		evt.Target, evt.Price, evt.Note,
	)
	return err
}

func (r *SQLiteRecorder) RecentAnalyses(symbol string, limit int) ([]AnalysisRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.Query(`SELECT timestamp, report_json FROM analyses
		WHERE symbol = ? ORDER BY timestamp DESC, id DESC LIMIT ?`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	defer rows.Close()

	var out []AnalysisRecord
	for rows.Next() {
		var (
			ts   int64
			data string
		)
		if err := rows.Scan(&ts, &data); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		var rep model.AnalysisReport
		if err := json.Unmarshal([]byte(data), &rep); err != nil {
			return nil, fmt.Errorf("decode report: %w", err)
		}
		out = append(out, AnalysisRecord{Timestamp: time.UnixMilli(ts), Report: &rep})
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
