package signal

import (
	"context"
	"sync"

	"github.com/quantlab/flowdesk/internal/core"
)

// MemoryStore is a bounded in-memory signal store. When full it drops the
// oldest signals first.
type MemoryStore struct {
	signals []core.Signal
	maxSize int
	mu      sync.RWMutex
}

// NewMemoryStore creates a new in-memory store with max capacity.
func NewMemoryStore(maxSize int) *MemoryStore {
	return &MemoryStore{
		signals: make([]core.Signal, 0, maxSize),
		maxSize: maxSize,
	}
}

// Save adds a signal to the store.
func (m *MemoryStore) Save(ctx context.Context, signal core.Signal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.signals = append(m.signals, signal)

	if len(m.signals) > m.maxSize {
		m.signals = m.signals[len(m.signals)-m.maxSize:]
	}

	return nil
}

// GetByID retrieves a signal by ID.
func (m *MemoryStore) GetByID(ctx context.Context, id string) (*core.Signal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := range m.signals {
		if m.signals[i].ID == id {
			sig := m.signals[i]
			return &sig, nil
		}
	}
	return nil, core.ErrSignalNotFound
}

// List returns signals matching the filter.
func (m *MemoryStore) List(ctx context.Context, filter ListFilter) ([]core.Signal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []core.Signal
	for _, sig := range m.signals {
		if matches(sig, filter) {
			result = append(result, sig)
		}
	}

	if filter.Offset >= len(result) {
		return []core.Signal{}, nil
	}
	if filter.Offset > 0 {
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}

	return result, nil
}

// Count returns the count of matching signals.
func (m *MemoryStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, sig := range m.signals {
		if matches(sig, filter) {
			count++
		}
	}
	return count, nil
}

func matches(sig core.Signal, filter ListFilter) bool {
	if filter.Ticker != "" && sig.Ticker != filter.Ticker {
		return false
	}
	if filter.Kind != "" && sig.Kind != filter.Kind {
		return false
	}
	if filter.Direction != "" && sig.Direction != filter.Direction {
		return false
	}
	if filter.MinStrength > 0 && sig.Strength < filter.MinStrength {
		return false
	}
	if !filter.From.IsZero() && sig.CreatedAt.Before(filter.From) {
		return false
	}
	if !filter.To.IsZero() && sig.CreatedAt.After(filter.To) {
		return false
	}
	return true
}
