package broker

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"agenttrader/internal/market"
	"agenttrader/internal/store"
)

// Paper simulates a venue that fills every order immediately at the requested
// price against a fixed mock balance. Resulting trades are persisted OPEN via
// the injected trade store. SL/TP breach tracking is not its job; the
// execution engine re-checks open positions on every tick.
type Paper struct {
	log     zerolog.Logger
	trades  store.TradeStore
	balance float64
}

// NewPaper builds a paper broker with the given starting balance.
func NewPaper(log zerolog.Logger, trades store.TradeStore, balance float64) *Paper {
	return &Paper{log: log, trades: trades, balance: balance}
}

// Name implements Broker.
func (p *Paper) Name() string { return "paper" }

// PlaceOrder fills at the requested price and persists the OPEN trade.
func (p *Paper) PlaceOrder(ctx context.Context, symbol string, side market.Side, quantity, price, stopLoss, takeProfit float64) (*market.Trade, error) {
	if quantity <= 0 {
		return nil, errors.New("quantity must be positive")
	}
	if price <= 0 {
		return nil, errors.New("price must be positive")
	}

	trade := &market.Trade{
		Symbol:     symbol,
		Side:       side,
		Quantity:   quantity,
		EntryPrice: price,
		StopLoss:   stopLoss,
		TakeProfit: takeProfit,
		Result:     market.ResultOpen,
		EntryTime:  time.Now(),
	}
	created, err := p.trades.Create(ctx, trade)
	if err != nil {
		return nil, err
	}

	p.log.Info().
		Str("sym", symbol).
		Str("side", string(side)).
		Float64("qty", quantity).
		Float64("px", price).
		Float64("sl", stopLoss).
		Float64("tp", takeProfit).
		Msg("paper fill")
	return created, nil
}

// ClosePosition logs and returns. The paper venue keeps no symbol to order-id
// map, so it cannot tell which fill to unwind; settlement happens in the
// execution engine against the trade store.
func (p *Paper) ClosePosition(ctx context.Context, symbol string, price float64) error {
	p.log.Info().Str("sym", symbol).Float64("px", price).Msg("paper close (no venue-side position to unwind)")
	return nil
}

// GetBalance returns the fixed mock balance regardless of fills.
func (p *Paper) GetBalance(ctx context.Context, asset string) (float64, error) {
	return p.balance, nil
}

// IsConnected always reports true; there is no connection to lose.
func (p *Paper) IsConnected() bool { return true }
