// Package alert keeps user price alerts and checks them against fresh quotes.
package alert

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when an alert ID is unknown.
	ErrNotFound = errors.New("alert not found")
	// ErrInvalid wraps every validation failure from Add.
	ErrInvalid = errors.New("invalid alert")
)

// Condition is the direction an alert fires in.
type Condition string

const (
	Above Condition = "above"
	Below Condition = "below"
)

// Alert fires once when the price crosses Target in the Condition direction.
type Alert struct {
	ID          string     `json:"id"`
	Symbol      string     `json:"symbol"`
	Condition   Condition  `json:"condition"`
	Target      float64    `json:"target"`
	Note        string     `json:"note,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	TriggeredAt *time.Time `json:"triggeredAt,omitempty"`
	Active      bool       `json:"active"`
}

// holds reports whether price satisfies the alert condition.
func (a Alert) holds(price float64) bool {
	switch a.Condition {
	case Above:
		return price >= a.Target
	case Below:
		return price <= a.Target
	}
	return false
}

// Manager handles alert operations with concurrency safety.
type Manager struct {
	mu       sync.Mutex
	state    *State
	filePath string
	now      func() time.Time
}

// NewManager creates a Manager, loading state from disk.
func NewManager(filePath string) (*Manager, error) {
	state, err := LoadState(filePath)
	if err != nil {
		return nil, fmt.Errorf("load alert state: %w", err)
	}
	return &Manager{state: state, filePath: filePath, now: time.Now}, nil
}

// Add validates and stores a new active alert, returning it with its ID.
func (m *Manager) Add(symbol string, cond Condition, target float64, note string) (Alert, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return Alert{}, fmt.Errorf("%w: symbol is required", ErrInvalid)
	}
	if cond != Above && cond != Below {
		return Alert{}, fmt.Errorf("%w: condition must be %q or %q, got %q", ErrInvalid, Above, Below, cond)
	}
	if target <= 0 {
		return Alert{}, fmt.Errorf("%w: target must be positive, got %v", ErrInvalid, target)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	a := Alert{
		ID:        uuid.NewString(),
		Symbol:    symbol,
		Condition: cond,
		Target:    target,
		Note:      note,
		CreatedAt: m.now(),
		Active:    true,
	}
	next := make([]Alert, len(m.state.Alerts), len(m.state.Alerts)+1)
	copy(next, m.state.Alerts)
	if err := m.commit(append(next, a)); err != nil {
		return Alert{}, err
	}
	return a, nil
}

// Remove deletes the alert with id.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, a := range m.state.Alerts {
		if a.ID == id {
			next := make([]Alert, 0, len(m.state.Alerts)-1)
			next = append(next, m.state.Alerts[:i]...)
			next = append(next, m.state.Alerts[i+1:]...)
			return m.commit(next)
		}
	}
	return ErrNotFound
}

// List returns alerts for symbol, or all alerts when symbol is empty.
func (m *Manager) List(symbol string) []Alert {
	m.mu.Lock()
	defer m.mu.Unlock()

	symbol = strings.ToUpper(symbol)
	out := make([]Alert, 0, len(m.state.Alerts))
	for _, a := range m.state.Alerts {
		if symbol == "" || a.Symbol == symbol {
			out = append(out, a)
		}
	}
	return out
}

// Evaluate deactivates and returns every active alert on symbol whose
// condition holds at price.
// A failed save is only logged: fired alerts stay inactive in memory so
// they are not delivered twice.
func (m *Manager) Evaluate(symbol string, price float64) []Alert {
	m.mu.Lock()
	defer m.mu.Unlock()

	symbol = strings.ToUpper(symbol)
	var fired []Alert
	now := m.now()
	for i := range m.state.Alerts {
		a := &m.state.Alerts[i]
		if !a.Active || a.Symbol != symbol || !a.holds(price) {
			continue
		}
		a.Active = false
		t := now
		a.TriggeredAt = &t
		fired = append(fired, *a)
	}
	if len(fired) > 0 {
		if err := m.save(); err != nil {
			log.Printf("[ERROR] failed to save alert state: %v", err)
		}
	}
	return fired
}

// Symbols returns the distinct symbols with at least one active alert.
func (m *Manager) Symbols() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]bool)
	var out []string
	for _, a := range m.state.Alerts {
		if a.Active && !seen[a.Symbol] {
			seen[a.Symbol] = true
			out = append(out, a.Symbol)
		}
	}
	return out
}

// commit persists alerts and installs them only once the write succeeded.
func (m *Manager) commit(alerts []Alert) error {
	next := &State{Alerts: alerts}
	if err := SaveState(m.filePath, next); err != nil {
		return fmt.Errorf("save alert state: %w", err)
	}
	m.state = next
	return nil
}

func (m *Manager) save() error {
	return SaveState(m.filePath, m.state)
}
