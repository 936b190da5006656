package strategy

import (
	"fmt"
	"math"

	"github.com/markcheno/go-talib"

	"agenttrader/internal/market"
)

// EMATrend is a trend-following strategy. It requires a fast/medium/slow EMA
// alignment, a minimum slope angle on the medium EMA, a recent retest of the
// medium EMA, and a confirmation candle whose body dominates its range.
// Stop-loss comes from the recent swing low/high bounded by a percentage
// floor; take-profit sits at a fixed risk:reward multiple.
type EMATrend struct {
	fast, medium, slow int
	minSlopeAngle      float64
	retestBars         int
	minBodyRatio       float64
	swingBars          int
	maxStopPct         float64
	riskReward         float64
	history            *window
}

// EMATrendConfig carries the tunable knobs for NewEMATrend.
type EMATrendConfig struct {
	FastPeriod    int
	MediumPeriod  int
	SlowPeriod    int
	MinSlopeAngle float64
	RetestBars    int
	MinBodyRatio  float64
	SwingBars     int
	MaxStopPct    float64
	RiskReward    float64
}

// NewEMATrend builds the strategy, substituting defaults for unset knobs.
func NewEMATrend(cfg EMATrendConfig) *EMATrend {
	if cfg.FastPeriod <= 0 {
		cfg.FastPeriod = 9
	}
	if cfg.MediumPeriod <= 0 {
		cfg.MediumPeriod = 21
	}
	if cfg.SlowPeriod <= 0 {
		cfg.SlowPeriod = 50
	}
	if cfg.MinSlopeAngle <= 0 {
		cfg.MinSlopeAngle = 10
	}
	if cfg.RetestBars <= 0 {
		cfg.RetestBars = 3
	}
	if cfg.MinBodyRatio <= 0 {
		cfg.MinBodyRatio = 0.5
	}
	if cfg.SwingBars <= 0 {
		cfg.SwingBars = 10
	}
	if cfg.MaxStopPct <= 0 {
		cfg.MaxStopPct = 0.02
	}
	if cfg.RiskReward <= 0 {
		cfg.RiskReward = 2
	}
	return &EMATrend{
		fast:          cfg.FastPeriod,
		medium:        cfg.MediumPeriod,
		slow:          cfg.SlowPeriod,
		minSlopeAngle: cfg.MinSlopeAngle,
		retestBars:    cfg.RetestBars,
		minBodyRatio:  cfg.MinBodyRatio,
		swingBars:     cfg.SwingBars,
		maxStopPct:    cfg.MaxStopPct,
		riskReward:    cfg.RiskReward,
		history:       newWindow(cfg.SlowPeriod * 4),
	}
}

// Name returns the identifier used by the registry and factory.
func (s *EMATrend) Name() string { return "ema_trend" }

// Indicators lists the indicator series this strategy depends on.
func (s *EMATrend) Indicators() []string {
	return []string{
		fmt.Sprintf("EMA(%d)", s.fast),
		fmt.Sprintf("EMA(%d)", s.medium),
		fmt.Sprintf("EMA(%d)", s.slow),
	}
}

// Reset clears accumulated candle history.
func (s *EMATrend) Reset() { s.history.reset() }

// OnCandle evaluates the trend conditions on closed bars only.
func (s *EMATrend) OnCandle(c market.Candle) *market.Signal {
	if !c.IsClosed {
		return nil
	}
	s.history.push(c)
	if s.history.len() < s.slow+1 {
		return nil
	}

	closes := s.history.closes()
	emaFast := talib.Ema(closes, s.fast)
	emaMedium := talib.Ema(closes, s.medium)
	emaSlow := talib.Ema(closes, s.slow)

	n := len(closes) - 1
	fast, medium, slow := emaFast[n], emaMedium[n], emaSlow[n]
	prevMedium := emaMedium[n-1]

	angle := slopeAngle(prevMedium, medium)

	var side market.Side
	switch {
	case fast > medium && medium > slow && angle >= s.minSlopeAngle:
		side = market.Buy
	case fast < medium && medium < slow && angle <= -s.minSlopeAngle:
		side = market.Sell
	default:
		return nil
	}

	if !s.retested(side, emaMedium) {
		return nil
	}
	if !s.confirmed(side, c) {
		return nil
	}

	stop := s.stopLoss(side, c.Close)
	target := c.Close + s.riskReward*(c.Close-stop)

	return &market.Signal{
		Strategy:   s.Name(),
		Symbol:     c.Symbol,
		Side:       side,
		Price:      c.Close,
		Time:       c.Timestamp(),
		Reason:     fmt.Sprintf("ema alignment %s, slope %.1f°, retest confirmed", side, angle),
		StopLoss:   stop,
		TakeProfit: target,
		Diagnostics: map[string]float64{
			"emaFast":    fast,
			"emaMedium":  medium,
			"emaSlow":    slow,
			"slopeAngle": angle,
		},
	}
}

// retested reports whether price pulled back to the medium EMA recently.
func (s *EMATrend) retested(side market.Side, emaMedium []float64) bool {
	bars := s.retestBars
	if bars > s.history.len() {
		bars = s.history.len()
	}
	for i := 0; i < bars; i++ {
		c := s.history.last(i)
		ema := emaMedium[len(emaMedium)-1-i]
		if side == market.Buy && c.Low <= ema {
			return true
		}
		if side == market.Sell && c.High >= ema {
			return true
		}
	}
	return false
}

// confirmed requires the trigger candle to close in the trade direction with
// a body taking at least minBodyRatio of its full range.
func (s *EMATrend) confirmed(side market.Side, c market.Candle) bool {
	rng := c.High - c.Low
	if rng <= 0 {
		return false
	}
	body := math.Abs(c.Close - c.Open)
	if body/rng < s.minBodyRatio {
		return false
	}
	if side == market.Buy {
		return c.Close > c.Open
	}
	return c.Close < c.Open
}

// stopLoss anchors on the recent swing extreme but never further away than
// maxStopPct of the entry price.
func (s *EMATrend) stopLoss(side market.Side, price float64) float64 {
	bars := s.swingBars
	if bars > s.history.len() {
		bars = s.history.len()
	}
	if side == market.Buy {
		swing := math.Inf(1)
		for i := 0; i < bars; i++ {
			swing = math.Min(swing, s.history.last(i).Low)
		}
		floor := price * (1 - s.maxStopPct)
		return math.Max(swing, floor)
	}
	swing := math.Inf(-1)
	for i := 0; i < bars; i++ {
		swing = math.Max(swing, s.history.last(i).High)
	}
	ceil := price * (1 + s.maxStopPct)
	return math.Min(swing, ceil)
}

// slopeAngle maps one-bar percent change of the EMA onto degrees.
func slopeAngle(prev, cur float64) float64 {
	if prev <= 0 {
		return 0
	}
	return math.Atan((cur-prev)/prev*100) * 180 / math.Pi
}
