package strategy

import (
	"sync"
	"time"

	"github.com/quantlab/flowdesk/internal/core"
)

type memoryKey struct {
	ticker    string
	direction core.Direction
}

type memoryEntry struct {
	at       time.Time
	notional float64
}

// Memory tracks recent qualifying events per ticker and direction for the
// swing evaluator's repeated-buying gate. Entries are evicted by age against
// the configured lookback window before every check, so the per-key ring is
// bounded by the window. The arena is keyed by ticker+direction rather than
// being a process-wide singleton so tests and per-ticker workers can hold
// isolated instances.
type Memory struct {
	mu      sync.Mutex
	entries map[memoryKey][]memoryEntry
}

// NewMemory creates an empty repeated-buying memory.
func NewMemory() *Memory {
	return &Memory{entries: make(map[memoryKey][]memoryEntry)}
}

// Observe records one qualifying event and returns how many qualifying
// events (including this one) the key has seen inside the window ending at
// the event time. Entries older than the window are evicted first and never
// count again.
func (m *Memory) Observe(ticker string, direction core.Direction, at time.Time, notional float64, window time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := memoryKey{ticker: ticker, direction: direction}
	kept := m.prune(key, at, window)
	kept = append(kept, memoryEntry{at: at, notional: notional})
	m.entries[key] = kept
	return len(kept)
}

// Count returns the qualifying events currently inside the window without
// recording anything.
func (m *Memory) Count(ticker string, direction core.Direction, at time.Time, window time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := memoryKey{ticker: ticker, direction: direction}
	kept := m.prune(key, at, window)
	m.entries[key] = kept
	return len(kept)
}

func (m *Memory) prune(key memoryKey, at time.Time, window time.Duration) []memoryEntry {
	cutoff := at.Add(-window)
	entries := m.entries[key]
	idx := 0
	for idx < len(entries) && !entries[idx].at.After(cutoff) {
		idx++
	}
	return entries[idx:]
}
