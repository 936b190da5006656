package strategy

import (
	"testing"

	"agenttrader/internal/market"
)

func trendCandles(symbol string, start, step float64, n int, up bool) []market.Candle {
	out := make([]market.Candle, 0, n)
	price := start
	for i := 0; i < n; i++ {
		if up {
			price += step
		} else {
			price -= step
		}
		c := market.Candle{
			Symbol:   symbol,
			Time:     int64(1700000000 + i*60),
			Close:    price,
			Volume:   1000,
			IsClosed: true,
		}
		if up {
			c.Open = price - 1
			c.High = price + 0.2
			c.Low = price - 1.4
		} else {
			c.Open = price + 1
			c.High = price + 1.4
			c.Low = price - 0.2
		}
		out = append(out, c)
	}
	return out
}

func smallTrendConfig() EMATrendConfig {
	return EMATrendConfig{
		FastPeriod:    2,
		MediumPeriod:  3,
		SlowPeriod:    5,
		MinSlopeAngle: 10,
		RetestBars:    3,
		MinBodyRatio:  0.5,
		SwingBars:     3,
		MaxStopPct:    0.02,
		RiskReward:    2,
	}
}

func TestEMATrendLongSignal(t *testing.T) {
	strat := NewEMATrend(smallTrendConfig())

	var sig *market.Signal
	for _, c := range trendCandles("BTCUSDT", 100, 0.5, 12, true) {
		if s := strat.OnCandle(c); s != nil {
			sig = s
		}
	}
	if sig == nil {
		t.Fatalf("expected long signal from steady uptrend")
	}
	if sig.Side != market.Buy {
		t.Fatalf("expected BUY, got %s", sig.Side)
	}
	if sig.StopLoss <= 0 || sig.StopLoss >= sig.Price {
		t.Fatalf("stop loss %.4f must sit below entry %.4f", sig.StopLoss, sig.Price)
	}
	if sig.TakeProfit <= sig.Price {
		t.Fatalf("take profit %.4f must sit above entry %.4f", sig.TakeProfit, sig.Price)
	}
	risk := sig.Price - sig.StopLoss
	reward := sig.TakeProfit - sig.Price
	if reward < risk*1.99 || reward > risk*2.01 {
		t.Fatalf("expected 1:2 risk reward, risk=%.4f reward=%.4f", risk, reward)
	}
	if _, ok := sig.Diagnostics["slopeAngle"]; !ok {
		t.Fatalf("expected slope angle diagnostic, got %+v", sig.Diagnostics)
	}
}

func TestEMATrendShortSignal(t *testing.T) {
	strat := NewEMATrend(smallTrendConfig())

	var sig *market.Signal
	for _, c := range trendCandles("ETHUSDT", 200, 0.5, 12, false) {
		if s := strat.OnCandle(c); s != nil {
			sig = s
		}
	}
	if sig == nil {
		t.Fatalf("expected short signal from steady downtrend")
	}
	if sig.Side != market.Sell {
		t.Fatalf("expected SELL, got %s", sig.Side)
	}
	if sig.StopLoss <= sig.Price {
		t.Fatalf("short stop loss %.4f must sit above entry %.4f", sig.StopLoss, sig.Price)
	}
	if sig.TakeProfit >= sig.Price {
		t.Fatalf("short take profit %.4f must sit below entry %.4f", sig.TakeProfit, sig.Price)
	}
}

func TestEMATrendIgnoresOpenBars(t *testing.T) {
	strat := NewEMATrend(smallTrendConfig())
	for _, c := range trendCandles("BTCUSDT", 100, 0.5, 12, true) {
		c.IsClosed = false
		if sig := strat.OnCandle(c); sig != nil {
			t.Fatalf("intrabar update must not emit, got %+v", sig)
		}
	}
}

func TestEMATrendNeedsWarmup(t *testing.T) {
	strat := NewEMATrend(smallTrendConfig())
	candles := trendCandles("BTCUSDT", 100, 0.5, 5, true)
	for _, c := range candles {
		if sig := strat.OnCandle(c); sig != nil {
			t.Fatalf("expected no signal before slow EMA warmup")
		}
	}
}

func TestEMATrendResetClearsHistory(t *testing.T) {
	strat := NewEMATrend(smallTrendConfig())
	for _, c := range trendCandles("BTCUSDT", 100, 0.5, 12, true) {
		strat.OnCandle(c)
	}
	strat.Reset()
	// after reset the warmup requirement applies again
	candles := trendCandles("BTCUSDT", 100, 0.5, 5, true)
	for _, c := range candles {
		if sig := strat.OnCandle(c); sig != nil {
			t.Fatalf("expected no signal right after reset")
		}
	}
}

func TestEMATrendRejectsWeakBody(t *testing.T) {
	cfg := smallTrendConfig()
	cfg.MinBodyRatio = 0.9
	strat := NewEMATrend(cfg)

	var sig *market.Signal
	for _, c := range trendCandles("BTCUSDT", 100, 0.5, 12, true) {
		if s := strat.OnCandle(c); s != nil {
			sig = s
		}
	}
	if sig != nil {
		t.Fatalf("expected confirmation filter to reject doji-like candles")
	}
}
