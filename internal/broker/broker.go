// Package broker abstracts order placement venues behind a single contract so
// the execution engine can switch between paper and live trading at runtime.
package broker

import (
	"context"
	"errors"

	"agenttrader/internal/market"
)

// ErrNotFound reports a lookup for a broker id that was never registered.
var ErrNotFound = errors.New("broker not found")

// ErrNotWired reports an operation on a live adapter that has no API
// credentials configured yet.
var ErrNotWired = errors.New("live broker not wired to an exchange account")

// Broker is the venue contract. PlaceOrder returns the resulting trade in
// OPEN state. ClosePosition closes whatever the venue holds for the symbol;
// venues that cannot resolve a position by symbol alone may treat it as a
// logged no-op (the execution engine owns close-by-symbol settlement).
type Broker interface {
	Name() string
	PlaceOrder(ctx context.Context, symbol string, side market.Side, quantity, price, stopLoss, takeProfit float64) (*market.Trade, error)
	ClosePosition(ctx context.Context, symbol string, price float64) error
	GetBalance(ctx context.Context, asset string) (float64, error)
	IsConnected() bool
}
