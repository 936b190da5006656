// Package strategy contains trading signal generation logic wired into the
// candle stream. Strategies are pure over their own candle history: no I/O,
// no side effects, one optional signal per candle.
package strategy

import "agenttrader/internal/market"

// Strategy defines behaviour shared by strategy implementations.
// OnCandle is called once per tick with non-decreasing candle times; the feed
// delivers intrabar updates too, so implementations wanting closed-bar
// semantics must check Candle.IsClosed themselves.
type Strategy interface {
	Name() string
	Indicators() []string
	OnCandle(c market.Candle) *market.Signal
	Reset()
}

// window is a bounded rolling candle history. Once max is exceeded the oldest
// entry is evicted, keeping indicator computation cost constant.
type window struct {
	candles []market.Candle
	max     int
}

func newWindow(max int) *window {
	if max <= 0 {
		max = 200
	}
	return &window{candles: make([]market.Candle, 0, max), max: max}
}

func (w *window) push(c market.Candle) {
	w.candles = append(w.candles, c)
	if len(w.candles) > w.max {
		w.candles = w.candles[1:]
	}
}

func (w *window) len() int { return len(w.candles) }

func (w *window) closes() []float64 {
	out := make([]float64, len(w.candles))
	for i, c := range w.candles {
		out[i] = c.Close
	}
	return out
}

func (w *window) reset() { w.candles = w.candles[:0] }

// last returns the i-th candle from the end (0 = most recent).
func (w *window) last(i int) market.Candle {
	return w.candles[len(w.candles)-1-i]
}
