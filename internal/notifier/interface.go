// Package notifier defines the delivery contract for formatted alerts and a
// registry the router resolves channel targets against. Notifiers receive
// pre-rendered text; formatting belongs to the alert package.
package notifier

import (
	"context"
	"fmt"
	"sync"

	"github.com/quantlab/flowdesk/internal/core"
)

// Notifier delivers one rendered alert.
type Notifier interface {
	// Name returns the unique identifier for this notifier instance.
	Name() string

	// Send delivers the alert text.
	Send(ctx context.Context, text string) error
}

// Registry manages notifier instances by name.
type Registry struct {
	mu        sync.RWMutex
	notifiers map[string]Notifier
}

// NewRegistry creates an empty notifier registry.
func NewRegistry() *Registry {
	return &Registry{notifiers: make(map[string]Notifier)}
}

// Register adds a notifier to the registry.
func (r *Registry) Register(n Notifier) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := n.Name()
	if _, exists := r.notifiers[name]; exists {
		return fmt.Errorf("notifier %s already registered", name)
	}
	r.notifiers[name] = n
	return nil
}

// Get retrieves a notifier by name.
func (r *Registry) Get(name string) (Notifier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, exists := r.notifiers[name]
	if !exists {
		return nil, core.WrapError(core.ErrNotifierFailed,
			fmt.Errorf("notifier %s not found", name))
	}
	return n, nil
}

// Names returns the registered notifier names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.notifiers))
	for name := range r.notifiers {
		names = append(names, name)
	}
	return names
}
