package signal

import (
	"context"
	"time"

	"github.com/quantlab/flowdesk/internal/core"
)

// Store defines the interface for signal persistence.
type Store interface {
	// Save persists an emitted signal. The signal already carries its ID.
	Save(ctx context.Context, signal core.Signal) error

	// GetByID retrieves a signal by its ID.
	GetByID(ctx context.Context, id string) (*core.Signal, error)

	// List retrieves signals matching the filter, oldest first.
	List(ctx context.Context, filter ListFilter) ([]core.Signal, error)

	// Count returns the number of signals matching the filter.
	Count(ctx context.Context, filter ListFilter) (int, error)
}

// ListFilter defines criteria for listing signals.
type ListFilter struct {
	Ticker      string
	Kind        core.StrategyKind
	Direction   core.Direction
	MinStrength float64
	From        time.Time
	To          time.Time
	Limit       int
	Offset      int
}
