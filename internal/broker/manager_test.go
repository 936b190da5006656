package broker

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"agenttrader/internal/store"
)

func TestManagerDefaultsToSeedBroker(t *testing.T) {
	paper := NewPaper(zerolog.Nop(), store.NewMemoryStore(), 1000)
	m := NewManager(zerolog.Nop(), paper)

	if m.Active().Name() != "paper" {
		t.Fatalf("expected paper active by default, got %s", m.Active().Name())
	}
}

func TestManagerSelectSwapsActive(t *testing.T) {
	paper := NewPaper(zerolog.Nop(), store.NewMemoryStore(), 1000)
	m := NewManager(zerolog.Nop(), paper)
	m.Register(NewBinance(zerolog.Nop(), "", "", false))

	if err := m.Select("binance"); err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if m.Active().Name() != "binance" {
		t.Fatalf("expected binance active, got %s", m.Active().Name())
	}

	if err := m.Select("paper"); err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if m.Active().Name() != "paper" {
		t.Fatalf("expected paper active, got %s", m.Active().Name())
	}
}

func TestManagerSelectUnknown(t *testing.T) {
	m := NewManager(zerolog.Nop(), NewPaper(zerolog.Nop(), store.NewMemoryStore(), 1000))
	err := m.Select("kraken")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if m.Active().Name() != "paper" {
		t.Fatalf("failed select must not disturb active broker")
	}
}

func TestBinanceNeutralWithoutCredentials(t *testing.T) {
	b := NewBinance(zerolog.Nop(), "", "", false)
	if b.IsConnected() {
		t.Fatalf("expected disconnected without credentials")
	}
	if _, err := b.PlaceOrder(nil, "BTCUSDT", "BUY", 1, 100, 0, 0); !errors.Is(err, ErrNotWired) {
		t.Fatalf("expected ErrNotWired, got %v", err)
	}
	if _, err := b.GetBalance(nil, "USDT"); !errors.Is(err, ErrNotWired) {
		t.Fatalf("expected ErrNotWired, got %v", err)
	}
}
