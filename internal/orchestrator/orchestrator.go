// Package orchestrator wires the market feed, strategy runner, and execution
// engine into one tick pipeline and owns its lifecycle. One instance is
// constructed at boot and passed explicitly; there is no hidden global.
package orchestrator

import (
	"context"

	"github.com/rs/zerolog"

	"agenttrader/internal/engine"
	"agenttrader/internal/exchange"
	"agenttrader/internal/market"
	"agenttrader/internal/notify"
	"agenttrader/internal/strategy"
)

// MarketFeed is the slice of the feed contract the orchestrator drives.
type MarketFeed interface {
	SetDataCallback(exchange.DataCallback)
	Start() error
	Stop()
	GetHistoricalCandles(ctx context.Context, symbol, interval string, limit int) []market.Candle
}

// Orchestrator coordinates the per-tick pipeline: broadcast the price, check
// open positions, fan out to strategies, execute collected signals. The feed
// delivers one tick at a time and the whole chain runs to completion before
// the next tick, so a tick's processing is never interleaved with another's.
type Orchestrator struct {
	log      zerolog.Logger
	feed     MarketFeed
	runner   *strategy.Runner
	eng      *engine.Engine
	notifier notify.Notifier

	symbol      string
	interval    string
	warmupLimit int

	ctx    context.Context
	cancel context.CancelFunc
}

// Config carries the orchestrator's stream identity and warm-up depth.
type Config struct {
	Symbol      string
	Interval    string
	WarmupLimit int
}

// New wires an orchestrator over its collaborators.
func New(log zerolog.Logger, feed MarketFeed, runner *strategy.Runner, eng *engine.Engine, notifier notify.Notifier, cfg Config) *Orchestrator {
	return &Orchestrator{
		log:         log,
		feed:        feed,
		runner:      runner,
		eng:         eng,
		notifier:    notifier,
		symbol:      cfg.Symbol,
		interval:    cfg.Interval,
		warmupLimit: cfg.WarmupLimit,
	}
}

// Registry exposes the strategy registry for external inspection and toggling.
func (o *Orchestrator) Registry() *strategy.Registry { return o.runner.Registry() }

// Start warms the strategies with historical candles, registers the tick
// callback, and opens the stream.
func (o *Orchestrator) Start() error {
	o.ctx, o.cancel = context.WithCancel(context.Background())

	o.warmup()
	o.feed.SetDataCallback(o.onCandle)
	if err := o.feed.Start(); err != nil {
		o.cancel()
		return err
	}
	o.log.Info().Str("symbol", o.symbol).Str("interval", o.interval).Msg("orchestrator started")
	return nil
}

// Stop tears down the stream. In-flight tick processing completes.
func (o *Orchestrator) Stop() {
	o.feed.Stop()
	if o.cancel != nil {
		o.cancel()
	}
	o.log.Info().Msg("orchestrator stopped")
}

// warmup primes strategy indicator state from the historical backfill.
// Signals generated from stale candles are discarded, not executed.
func (o *Orchestrator) warmup() {
	if o.warmupLimit <= 0 {
		return
	}
	candles := o.feed.GetHistoricalCandles(o.ctx, o.symbol, o.interval, o.warmupLimit)
	discarded := 0
	for _, c := range candles {
		discarded += len(o.runner.OnCandle(c))
	}
	o.log.Info().Int("candles", len(candles)).Int("stale_signals_discarded", discarded).Msg("strategy warmup complete")
}

// onCandle runs the full pipeline for one tick, in order: broadcast, open
// position check, strategy fan-out, then signal execution in strategy
// registration order.
func (o *Orchestrator) onCandle(c market.Candle) {
	o.notifier.PriceUpdated(c.Symbol, c.Close, c.Timestamp())

	if err := o.eng.OnPriceUpdate(o.ctx, c.Symbol, c.Close, c.Timestamp()); err != nil {
		o.log.Error().Err(err).Str("sym", c.Symbol).Msg("price update check failed")
	}

	for _, sig := range o.runner.OnCandle(c) {
		o.notifier.SignalCreated(sig)
		if _, err := o.eng.ExecuteSignal(o.ctx, sig); err != nil {
			o.log.Error().Err(err).Str("sym", sig.Symbol).Str("strategy", sig.Strategy).Msg("signal execution failed")
		}
	}
}
