package strategy

import (
	"fmt"

	"github.com/markcheno/go-talib"

	"agenttrader/internal/market"
)

// MACDCross signals when the MACD line crosses its signal line by more than a
// noise threshold, on closed bars only.
type MACDCross struct {
	fast, slow, signal int
	noise              float64
	history            *window
	prevDiff           float64
	hasPrev            bool
}

// NewMACDCross builds the strategy with standard 12/26/9 defaults.
func NewMACDCross(fast, slow, signalPeriod int, noise float64) *MACDCross {
	if fast <= 0 {
		fast = 12
	}
	if slow <= 0 {
		slow = 26
	}
	if signalPeriod <= 0 {
		signalPeriod = 9
	}
	if noise < 0 {
		noise = 0
	}
	return &MACDCross{
		fast:    fast,
		slow:    slow,
		signal:  signalPeriod,
		noise:   noise,
		history: newWindow((slow + signalPeriod) * 4),
	}
}

// Name returns the identifier used by the registry and factory.
func (s *MACDCross) Name() string { return "macd" }

// Indicators lists the indicator series this strategy depends on.
func (s *MACDCross) Indicators() []string {
	return []string{fmt.Sprintf("MACD(%d,%d,%d)", s.fast, s.slow, s.signal)}
}

// Reset clears candle history and crossover state.
func (s *MACDCross) Reset() {
	s.history.reset()
	s.prevDiff = 0
	s.hasPrev = false
}

// OnCandle emits on a line/signal crossover exceeding the noise threshold.
func (s *MACDCross) OnCandle(c market.Candle) *market.Signal {
	if !c.IsClosed {
		return nil
	}
	s.history.push(c)
	if s.history.len() < s.slow+s.signal {
		return nil
	}

	closes := s.history.closes()
	macdLine, signalLine, _ := talib.Macd(closes, s.fast, s.slow, s.signal)
	n := len(closes) - 1
	diff := macdLine[n] - signalLine[n]

	defer func() {
		s.prevDiff = diff
		s.hasPrev = true
	}()

	if !s.hasPrev {
		return nil
	}

	var side market.Side
	switch {
	case s.prevDiff <= 0 && diff > s.noise:
		side = market.Buy
	case s.prevDiff >= 0 && diff < -s.noise:
		side = market.Sell
	default:
		return nil
	}

	return &market.Signal{
		Strategy: s.Name(),
		Symbol:   c.Symbol,
		Side:     side,
		Price:    c.Close,
		Time:     c.Timestamp(),
		Reason:   fmt.Sprintf("macd crossed %s signal line", crossWord(side)),
		Diagnostics: map[string]float64{
			"macd":   macdLine[n],
			"signal": signalLine[n],
			"diff":   diff,
		},
	}
}

func crossWord(side market.Side) string {
	if side == market.Buy {
		return "above"
	}
	return "below"
}
