// Package store defines the persistence contracts the trading core consumes
// and an in-memory implementation used for paper trading and tests. Durable
// storage lives outside this process; the core only depends on these
// interfaces.
package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"agenttrader/internal/market"
)

// TradeStore persists trades. Create assigns the id. A trade created OPEN
// must be visible to the next GetOpenTrades call (read-your-writes).
type TradeStore interface {
	Create(ctx context.Context, trade *market.Trade) (*market.Trade, error)
	Update(ctx context.Context, trade *market.Trade) error
	GetOpenTrades(ctx context.Context) ([]*market.Trade, error)
}

// StatsStore exposes aggregate results for republication after a close.
type StatsStore interface {
	Get(ctx context.Context) (market.Stats, error)
}

// MemoryStore keeps trades in process memory. It satisfies both TradeStore
// and StatsStore.
type MemoryStore struct {
	mu     sync.Mutex
	trades map[string]*market.Trade
	order  []string
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{trades: make(map[string]*market.Trade)}
}

// Create copies the trade, assigns an id, and stores it.
func (s *MemoryStore) Create(ctx context.Context, trade *market.Trade) (*market.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *trade
	stored.ID = uuid.NewString()
	s.trades[stored.ID] = &stored
	s.order = append(s.order, stored.ID)

	out := stored
	return &out, nil
}

// Update replaces the stored trade matching the given id.
func (s *MemoryStore) Update(ctx context.Context, trade *market.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.trades[trade.ID]; !ok {
		return ErrTradeNotFound
	}
	stored := *trade
	s.trades[trade.ID] = &stored
	return nil
}

// GetOpenTrades returns copies of every trade still marked OPEN, in creation order.
func (s *MemoryStore) GetOpenTrades(ctx context.Context) ([]*market.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var open []*market.Trade
	for _, id := range s.order {
		trade := s.trades[id]
		if trade.Result == market.ResultOpen {
			out := *trade
			open = append(open, &out)
		}
	}
	return open, nil
}

// Get aggregates closed-trade results.
func (s *MemoryStore) Get(ctx context.Context) (market.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stats market.Stats
	for _, trade := range s.trades {
		switch trade.Result {
		case market.ResultWin:
			stats.Wins++
		case market.ResultLoss:
			stats.Losses++
		default:
			continue
		}
		stats.TotalTrades++
		stats.NetPnL += trade.PnL
	}
	if stats.TotalTrades > 0 {
		stats.WinRate = float64(stats.Wins) / float64(stats.TotalTrades)
	}
	return stats, nil
}
