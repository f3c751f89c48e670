// Package heartbeat tracks run-level counters and periodically logs a
// one-line health summary so a quiet session is distinguishable from a dead
// one.
package heartbeat

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/quantlab/flowdesk/internal/core"
)

// Tracker accumulates counters since start. Safe for concurrent use.
type Tracker struct {
	mu            sync.Mutex
	startedAt     time.Time
	events        int64
	rejected      int64
	signals       int64
	signalsByKind map[core.StrategyKind]int64
	now           func() time.Time
}

func NewTracker() *Tracker {
	t := &Tracker{
		signalsByKind: make(map[core.StrategyKind]int64),
		now:           time.Now,
	}
	t.startedAt = t.now()
	return t
}

// CountEvent records one accepted flow event.
func (t *Tracker) CountEvent() {
	t.mu.Lock()
	t.events++
	t.mu.Unlock()
}

// CountRejected records one rejected flow event.
func (t *Tracker) CountRejected() {
	t.mu.Lock()
	t.rejected++
	t.mu.Unlock()
}

// CountSignal records one emitted signal.
func (t *Tracker) CountSignal(kind core.StrategyKind) {
	t.mu.Lock()
	t.signals++
	t.signalsByKind[kind]++
	t.mu.Unlock()
}

// Snapshot renders the current counters as a single log-friendly line.
func (t *Tracker) Snapshot() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	uptime := t.now().Sub(t.startedAt).Round(time.Second)

	kinds := make([]string, 0, len(t.signalsByKind))
	for kind, n := range t.signalsByKind {
		kinds = append(kinds, fmt.Sprintf("%s=%d", kind, n))
	}
	sort.Strings(kinds)

	line := fmt.Sprintf("uptime=%s events=%d rejected=%d signals=%d",
		uptime, t.events, t.rejected, t.signals)
	if len(kinds) > 0 {
		line += " " + strings.Join(kinds, " ")
	}
	return line
}

// Beat logs one heartbeat line.
func (t *Tracker) Beat(log *zap.Logger) {
	log.Info("heartbeat", zap.String("status", t.Snapshot()))
}
