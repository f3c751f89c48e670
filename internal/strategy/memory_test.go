package strategy

import (
	"testing"
	"time"

	"github.com/quantlab/flowdesk/internal/core"
)

func TestMemory_ObserveCounts(t *testing.T) {
	m := NewMemory()
	window := 4 * time.Hour

	if got := m.Observe("NVDA", core.Bullish, baseTime, 150_000, window); got != 1 {
		t.Errorf("first observation should count 1, got %d", got)
	}
	if got := m.Observe("NVDA", core.Bullish, baseTime.Add(30*time.Minute), 150_000, window); got != 2 {
		t.Errorf("second observation should count 2, got %d", got)
	}
	if got := m.Observe("NVDA", core.Bullish, baseTime.Add(time.Hour), 150_000, window); got != 3 {
		t.Errorf("third observation should count 3, got %d", got)
	}
}

func TestMemory_KeysAreIsolated(t *testing.T) {
	m := NewMemory()
	window := 4 * time.Hour

	m.Observe("NVDA", core.Bullish, baseTime, 150_000, window)
	m.Observe("NVDA", core.Bullish, baseTime, 150_000, window)

	if got := m.Observe("NVDA", core.Bearish, baseTime, 150_000, window); got != 1 {
		t.Errorf("opposite direction should not share history, got %d", got)
	}
	if got := m.Observe("AMD", core.Bullish, baseTime, 150_000, window); got != 1 {
		t.Errorf("other ticker should not share history, got %d", got)
	}
}

func TestMemory_TimeEviction(t *testing.T) {
	m := NewMemory()
	window := 4 * time.Hour

	m.Observe("NVDA", core.Bullish, baseTime, 150_000, window)
	m.Observe("NVDA", core.Bullish, baseTime.Add(time.Hour), 150_000, window)
	m.Observe("NVDA", core.Bullish, baseTime.Add(2*time.Hour), 150_000, window)

	// Five hours later the first three are outside the window: the pruned
	// entries must not count for a newcomer.
	late := baseTime.Add(7 * time.Hour)
	if got := m.Observe("NVDA", core.Bullish, late, 150_000, window); got != 1 {
		t.Errorf("evicted entries must not count, got %d", got)
	}
}

func TestMemory_CountDoesNotRecord(t *testing.T) {
	m := NewMemory()
	window := time.Hour

	if got := m.Count("NVDA", core.Bullish, baseTime, window); got != 0 {
		t.Errorf("empty memory should count 0, got %d", got)
	}
	m.Observe("NVDA", core.Bullish, baseTime, 150_000, window)
	if got := m.Count("NVDA", core.Bullish, baseTime, window); got != 1 {
		t.Errorf("expected count 1, got %d", got)
	}
	if got := m.Count("NVDA", core.Bullish, baseTime, window); got != 1 {
		t.Errorf("Count must not record, got %d", got)
	}
}
