package strategy

import (
	"testing"

	"agenttrader/internal/market"
)

func closedCandle(symbol string, i int, price float64) market.Candle {
	return market.Candle{
		Symbol:   symbol,
		Time:     int64(1700000000 + i*60),
		Open:     price,
		High:     price + 0.5,
		Low:      price - 0.5,
		Close:    price,
		Volume:   100,
		IsClosed: true,
	}
}

func TestMACDCrossEmitsBuyOnReversal(t *testing.T) {
	strat := NewMACDCross(12, 26, 9, 0)

	var signals []*market.Signal
	price := 200.0
	i := 0
	for ; i < 60; i++ { // downtrend drives macd below signal
		price -= 1
		if sig := strat.OnCandle(closedCandle("BTCUSDT", i, price)); sig != nil {
			signals = append(signals, sig)
		}
	}
	for ; i < 120; i++ { // reversal must cross back up
		price += 1
		if sig := strat.OnCandle(closedCandle("BTCUSDT", i, price)); sig != nil {
			signals = append(signals, sig)
		}
	}

	var sawBuy bool
	for _, sig := range signals {
		if sig.Side == market.Buy {
			sawBuy = true
			if sig.Diagnostics["diff"] <= 0 {
				t.Fatalf("buy crossover must have positive diff, got %f", sig.Diagnostics["diff"])
			}
		}
	}
	if !sawBuy {
		t.Fatalf("expected a BUY crossover during the reversal, got %d signals", len(signals))
	}
}

func TestMACDCrossEmitsSellOnBreakdown(t *testing.T) {
	strat := NewMACDCross(12, 26, 9, 0)

	var sawSell bool
	price := 100.0
	i := 0
	for ; i < 60; i++ {
		price += 1
		if sig := strat.OnCandle(closedCandle("ETHUSDT", i, price)); sig != nil && sig.Side == market.Sell {
			sawSell = true
		}
	}
	for ; i < 120; i++ {
		price -= 1
		if sig := strat.OnCandle(closedCandle("ETHUSDT", i, price)); sig != nil && sig.Side == market.Sell {
			sawSell = true
		}
	}
	if !sawSell {
		t.Fatalf("expected a SELL crossover during the breakdown")
	}
}

func TestMACDCrossNoiseThresholdSuppresses(t *testing.T) {
	// an absurdly large threshold means no crossover ever clears it
	strat := NewMACDCross(12, 26, 9, 1e9)

	price := 200.0
	for i := 0; i < 120; i++ {
		if i < 60 {
			price -= 1
		} else {
			price += 1
		}
		if sig := strat.OnCandle(closedCandle("BTCUSDT", i, price)); sig != nil {
			t.Fatalf("noise threshold should suppress all signals, got %+v", sig)
		}
	}
}

func TestMACDCrossIgnoresOpenBars(t *testing.T) {
	strat := NewMACDCross(12, 26, 9, 0)
	for i := 0; i < 120; i++ {
		c := closedCandle("BTCUSDT", i, 100+float64(i%10))
		c.IsClosed = false
		if sig := strat.OnCandle(c); sig != nil {
			t.Fatalf("intrabar update must not emit")
		}
	}
}
