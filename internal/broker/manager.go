package broker

import (
	"sync"

	"github.com/rs/zerolog"
)

// Manager holds the registry of brokers and the one currently active. The
// active pointer is the only shared mutable state in the execution path;
// Select swaps it atomically and callers that already hold a reference simply
// finish their call against the previous broker.
type Manager struct {
	mu      sync.RWMutex
	log     zerolog.Logger
	brokers map[string]Broker
	order   []string
	active  Broker
}

// NewManager seeds the registry with the given default broker and marks it active.
func NewManager(log zerolog.Logger, def Broker) *Manager {
	m := &Manager{
		log:     log,
		brokers: make(map[string]Broker),
	}
	m.brokers[def.Name()] = def
	m.order = append(m.order, def.Name())
	m.active = def
	return m
}

// Register adds a broker under its name, overwriting any previous entry.
func (m *Manager) Register(b Broker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.brokers[b.Name()]; exists {
		m.log.Warn().Str("broker", b.Name()).Msg("overwriting registered broker")
	} else {
		m.order = append(m.order, b.Name())
	}
	m.brokers[b.Name()] = b
}

// Select makes the named broker active. Takes effect for the next order; it
// does not disturb calls already in flight against the previous broker.
func (m *Manager) Select(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.brokers[name]
	if !ok {
		return ErrNotFound
	}
	m.active = b
	m.log.Info().Str("broker", name).Msg("active broker switched")
	return nil
}

// Active returns the currently active broker.
func (m *Manager) Active() Broker {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// Names lists registered broker ids in registration order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}
