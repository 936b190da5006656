package notify

import (
	"sync"
	"testing"
	"time"

	"agenttrader/internal/market"
)

func TestBusDeliversTradeClosed(t *testing.T) {
	bus := NewBus()

	var (
		mu  sync.Mutex
		got *market.Trade
	)
	done := make(chan struct{})
	handler := func(trade *market.Trade) {
		mu.Lock()
		got = trade
		mu.Unlock()
		close(done)
	}
	if err := bus.Subscribe(TopicTradeClosed, handler); err != nil {
		t.Fatalf("Subscribe returned error: %v", err)
	}

	bus.TradeClosed(&market.Trade{ID: "t1", Symbol: "BTCUSDT", Result: market.ResultWin})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for async delivery")
	}

	mu.Lock()
	defer mu.Unlock()
	if got == nil || got.ID != "t1" {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestPublishWithoutSubscribersDoesNotBlock(t *testing.T) {
	bus := NewBus()
	finished := make(chan struct{})
	go func() {
		bus.PriceUpdated("BTCUSDT", 100, time.Now())
		bus.StatsUpdated(market.Stats{})
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatalf("publish blocked with no subscribers")
	}
}
