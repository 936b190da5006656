package strategy

import (
	"strings"

	"agenttrader/internal/config"
)

// Build returns a strategy implementation matching the configured mode.
// Unknown modes become never-emitting placeholders so a typo in config shows
// up in the registry status instead of crashing boot.
func Build(mode string, cfg config.Strategies) Strategy {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "ema", "ema_trend", "trend":
		return NewEMATrend(EMATrendConfig{
			FastPeriod:    cfg.EMATrend.FastPeriod,
			MediumPeriod:  cfg.EMATrend.MediumPeriod,
			SlowPeriod:    cfg.EMATrend.SlowPeriod,
			MinSlopeAngle: cfg.EMATrend.MinSlopeAngle,
			RetestBars:    cfg.EMATrend.RetestBars,
			MinBodyRatio:  cfg.EMATrend.MinBodyRatio,
			SwingBars:     cfg.EMATrend.SwingBars,
			MaxStopPct:    cfg.EMATrend.MaxStopPct,
			RiskReward:    cfg.EMATrend.RiskReward,
		})
	case "macd", "macd_cross":
		return NewMACDCross(cfg.MACD.FastPeriod, cfg.MACD.SlowPeriod, cfg.MACD.SignalPeriod, cfg.MACD.NoiseThreshold)
	default:
		return NewPlaceholder(mode)
	}
}
