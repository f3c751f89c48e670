// Package paper simulates positions opened from emitted signals so strategy
// performance can be tracked without touching a broker. Each position is
// opened once and closed exactly once: take-profit, stop-loss, or timeout.
package paper

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quantlab/flowdesk/internal/config"
	"github.com/quantlab/flowdesk/internal/core"
)

// Status is the lifecycle state of a paper position.
type Status string

const (
	StatusOpen          Status = "OPEN"
	StatusClosedTP      Status = "CLOSED_TP"
	StatusClosedSL      Status = "CLOSED_SL"
	StatusClosedTimeout Status = "CLOSED_TIMEOUT"
)

// Position is one simulated trade tracking the signal's underlying.
type Position struct {
	ID        string
	SignalID  string
	Ticker    string
	Kind      core.StrategyKind
	Direction core.Direction
	Entry     float64
	TP        float64
	SL        float64
	OpenedAt  time.Time
	Deadline  time.Time

	Status    Status
	ExitPrice float64
	ClosedAt  time.Time
	ReturnPct float64
}

// Closed reports whether the position has reached a terminal state.
func (p *Position) Closed() bool { return p.Status != StatusOpen }

// Engine owns every open and closed paper position. Positions are held in
// insertion order and never removed; closed positions stay for reporting.
type Engine struct {
	mu        sync.Mutex
	positions []*Position
	lastPrice map[string]float64
	log       *zap.Logger
}

func NewEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		lastPrice: make(map[string]float64),
		log:       log,
	}
}

// Open creates a position from a signal at the event's underlying price.
// Take-profit and stop-loss levels come from the signal's resolved
// thresholds; bearish positions mirror them below/above entry.
func (e *Engine) Open(signal core.Signal, th config.Thresholds) *Position {
	entry := signal.Event.UnderlyingPrice
	tp := entry * (1 + th.TPPct/100)
	sl := entry * (1 - th.SLPct/100)
	if signal.Direction == core.Bearish {
		tp = entry * (1 - th.TPPct/100)
		sl = entry * (1 + th.SLPct/100)
	}

	pos := &Position{
		ID:        uuid.NewString(),
		SignalID:  signal.ID,
		Ticker:    signal.Ticker,
		Kind:      signal.Kind,
		Direction: signal.Direction,
		Entry:     entry,
		TP:        tp,
		SL:        sl,
		OpenedAt:  signal.CreatedAt,
		Deadline:  signal.CreatedAt.Add(th.MaxHold),
		Status:    StatusOpen,
	}

	e.mu.Lock()
	e.positions = append(e.positions, pos)
	e.mu.Unlock()

	e.log.Info("paper position opened",
		zap.String("position", pos.ID),
		zap.String("ticker", pos.Ticker),
		zap.String("kind", string(pos.Kind)),
		zap.Float64("entry", pos.Entry),
		zap.Float64("tp", pos.TP),
		zap.Float64("sl", pos.SL),
		zap.Time("deadline", pos.Deadline))
	return pos
}

// UpdatePrices feeds fresh underlying prices and returns the positions closed
// this round, in insertion order. For each open position: with no price ever
// seen for the ticker nothing happens; past the deadline it times out at the
// latest known price; otherwise take-profit and stop-loss are checked only
// against prices in this update, take-profit first when both levels are hit
// by the same print.
func (e *Engine) UpdatePrices(prices map[string]float64, now time.Time) []*Position {
	e.mu.Lock()
	defer e.mu.Unlock()

	for ticker, price := range prices {
		e.lastPrice[ticker] = price
	}

	var closed []*Position
	for _, pos := range e.positions {
		if pos.Closed() {
			continue
		}

		price, known := e.lastPrice[pos.Ticker]
		if !known {
			continue
		}

		if !now.Before(pos.Deadline) {
			e.close(pos, StatusClosedTimeout, price, now)
			closed = append(closed, pos)
			continue
		}

		if _, fresh := prices[pos.Ticker]; !fresh {
			continue
		}

		switch {
		case pos.hitTP(price):
			e.close(pos, StatusClosedTP, price, now)
			closed = append(closed, pos)
		case pos.hitSL(price):
			e.close(pos, StatusClosedSL, price, now)
			closed = append(closed, pos)
		}
	}
	return closed
}

func (p *Position) hitTP(price float64) bool {
	if p.Direction == core.Bearish {
		return price <= p.TP
	}
	return price >= p.TP
}

func (p *Position) hitSL(price float64) bool {
	if p.Direction == core.Bearish {
		return price >= p.SL
	}
	return price <= p.SL
}

func (e *Engine) close(pos *Position, status Status, price float64, now time.Time) {
	pos.Status = status
	pos.ExitPrice = price
	pos.ClosedAt = now
	pos.ReturnPct = (price - pos.Entry) / pos.Entry * 100
	if pos.Direction == core.Bearish {
		pos.ReturnPct = -pos.ReturnPct
	}

	e.log.Info("paper position closed",
		zap.String("position", pos.ID),
		zap.String("ticker", pos.Ticker),
		zap.String("status", string(status)),
		zap.Float64("exit", price),
		zap.Float64("return_pct", pos.ReturnPct))
}

// OpenCount returns the number of positions still open.
func (e *Engine) OpenCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, pos := range e.positions {
		if !pos.Closed() {
			n++
		}
	}
	return n
}

// Positions returns a snapshot of every position, open and closed, in
// insertion order.
func (e *Engine) Positions() []*Position {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*Position, len(e.positions))
	copy(out, e.positions)
	return out
}
