package strategy

import (
	"github.com/rs/zerolog"

	"agenttrader/internal/market"
	"agenttrader/internal/metrics"
)

// Runner feeds each incoming candle to every enabled strategy and collects
// the emitted signals in registration order. A panicking strategy is
// recovered and logged; it must never take down candle processing for the
// others.
type Runner struct {
	log      zerolog.Logger
	registry *Registry
}

// NewRunner wires a runner over the given registry.
func NewRunner(log zerolog.Logger, registry *Registry) *Runner {
	return &Runner{log: log, registry: registry}
}

// Registry exposes the underlying registry for external toggling.
func (r *Runner) Registry() *Registry { return r.registry }

// OnCandle runs every enabled strategy sequentially and returns all non-nil
// signals.
func (r *Runner) OnCandle(c market.Candle) []*market.Signal {
	var signals []*market.Signal
	for _, strat := range r.registry.Enabled() {
		if sig := r.runOne(strat, c); sig != nil {
			metrics.SignalsTotal.WithLabelValues(strat.Name(), string(sig.Side)).Inc()
			signals = append(signals, sig)
		}
	}
	return signals
}

func (r *Runner) runOne(strat Strategy, c market.Candle) (sig *market.Signal) {
	defer func() {
		if rec := recover(); rec != nil {
			metrics.StrategyFaultsTotal.WithLabelValues(strat.Name()).Inc()
			r.log.Error().Str("strategy", strat.Name()).Interface("panic", rec).Msg("strategy fault isolated")
			sig = nil
		}
	}()
	return strat.OnCandle(c)
}
