package strategy

import (
	"sync"

	"github.com/rs/zerolog"
)

// Status values reported per strategy.
const (
	StatusRunning = "Running"
	StatusPaused  = "Paused"
)

// Registry holds the loaded strategies and their enabled state. Newly
// registered strategies start enabled. State is process-lifetime only.
type Registry struct {
	mu      sync.RWMutex
	log     zerolog.Logger
	names   []string
	entries map[string]*entry
}

type entry struct {
	strategy Strategy
	enabled  bool
}

// NewRegistry returns an empty registry.
func NewRegistry(log zerolog.Logger) *Registry {
	return &Registry{log: log, entries: make(map[string]*entry)}
}

// Register adds a strategy by name, overwriting (with a warning) any existing
// entry under the same name.
func (r *Registry) Register(s Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := s.Name()
	if _, exists := r.entries[name]; exists {
		r.log.Warn().Str("strategy", name).Msg("overwriting registered strategy")
	} else {
		r.names = append(r.names, name)
	}
	r.entries[name] = &entry{strategy: s, enabled: true}
}

// Enable resumes a strategy without re-registering it.
func (r *Registry) Enable(name string) {
	r.setEnabled(name, true)
}

// Disable pauses a strategy without removing it.
func (r *Registry) Disable(name string) {
	r.setEnabled(name, false)
}

func (r *Registry) setEnabled(name string, enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[name]; ok {
		e.enabled = enabled
	}
}

// IsEnabled reports the strategy's enabled state; unknown names are false.
func (r *Registry) IsEnabled(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return ok && e.enabled
}

// All returns every registered strategy regardless of enabled state, in
// registration order.
func (r *Registry) All() []Strategy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Strategy, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.entries[name].strategy)
	}
	return out
}

// Enabled returns the enabled strategies in registration order.
func (r *Registry) Enabled() []Strategy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Strategy, 0, len(r.names))
	for _, name := range r.names {
		if e := r.entries[name]; e.enabled {
			out = append(out, e.strategy)
		}
	}
	return out
}

// Status maps every strategy name to Running or Paused for observability.
func (r *Registry) Status() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(r.names))
	for _, name := range r.names {
		if r.entries[name].enabled {
			out[name] = StatusRunning
		} else {
			out[name] = StatusPaused
		}
	}
	return out
}
