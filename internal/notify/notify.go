// Package notify broadcasts pipeline state changes to external subscribers.
// Delivery is fire-and-forget; the trading core never blocks on consumers.
package notify

import (
	"time"

	"github.com/asaskevich/EventBus"

	"agenttrader/internal/market"
)

// Topic names published on the bus.
const (
	TopicPriceUpdate  = "price.updated"
	TopicSignal       = "signal.created"
	TopicTradeOpened  = "trade.opened"
	TopicTradeClosed  = "trade.closed"
	TopicStatsUpdated = "stats.updated"
)

// PriceUpdate is the payload published on TopicPriceUpdate.
type PriceUpdate struct {
	Symbol string
	Price  float64
	Time   time.Time
}

// Notifier is the sink contract the pipeline publishes through.
type Notifier interface {
	PriceUpdated(symbol string, price float64, ts time.Time)
	SignalCreated(sig *market.Signal)
	TradeOpened(trade *market.Trade)
	TradeClosed(trade *market.Trade)
	StatsUpdated(stats market.Stats)
}

// Bus publishes notifications on an in-process event bus. Subscribers
// registered with SubscribeAsync consume on their own goroutines, keeping
// Publish non-blocking from the pipeline's point of view.
type Bus struct {
	bus EventBus.Bus
}

// NewBus returns a Bus backed by a fresh event bus.
func NewBus() *Bus {
	return &Bus{bus: EventBus.New()}
}

// Subscribe registers an async handler for a topic.
func (b *Bus) Subscribe(topic string, fn interface{}) error {
	return b.bus.SubscribeAsync(topic, fn, false)
}

// Unsubscribe removes a previously registered handler.
func (b *Bus) Unsubscribe(topic string, fn interface{}) error {
	return b.bus.Unsubscribe(topic, fn)
}

func (b *Bus) PriceUpdated(symbol string, price float64, ts time.Time) {
	b.bus.Publish(TopicPriceUpdate, PriceUpdate{Symbol: symbol, Price: price, Time: ts})
}

func (b *Bus) SignalCreated(sig *market.Signal) {
	b.bus.Publish(TopicSignal, sig)
}

func (b *Bus) TradeOpened(trade *market.Trade) {
	b.bus.Publish(TopicTradeOpened, trade)
}

func (b *Bus) TradeClosed(trade *market.Trade) {
	b.bus.Publish(TopicTradeClosed, trade)
}

func (b *Bus) StatsUpdated(stats market.Stats) {
	b.bus.Publish(TopicStatsUpdated, stats)
}

// Nop discards every notification; handy default for tests.
type Nop struct{}

func (Nop) PriceUpdated(string, float64, time.Time) {}
func (Nop) SignalCreated(*market.Signal)            {}
func (Nop) TradeOpened(*market.Trade)               {}
func (Nop) TradeClosed(*market.Trade)               {}
func (Nop) StatsUpdated(market.Stats)               {}
