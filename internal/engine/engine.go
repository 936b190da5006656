// Package engine turns strategy signals into orders and settles open
// positions against their stop-loss/take-profit thresholds.
package engine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"agenttrader/internal/broker"
	"agenttrader/internal/config"
	"agenttrader/internal/market"
	"agenttrader/internal/metrics"
	"agenttrader/internal/notify"
	"agenttrader/internal/store"
)

// Engine executes signals through the active broker and re-checks open
// positions on every price tick. Processing is single-tick-serial, so the
// open-position check followed by order placement is race-free; parallelizing
// across symbols would require making that check-then-act atomic.
type Engine struct {
	log      zerolog.Logger
	brokers  *broker.Manager
	trades   store.TradeStore
	stats    store.StatsStore
	notifier notify.Notifier
	risk     config.Risk
}

// New wires an engine over its collaborators.
func New(log zerolog.Logger, brokers *broker.Manager, trades store.TradeStore, stats store.StatsStore, notifier notify.Notifier, risk config.Risk) *Engine {
	return &Engine{
		log:      log,
		brokers:  brokers,
		trades:   trades,
		stats:    stats,
		notifier: notifier,
		risk:     risk,
	}
}

// ExecuteSignal sizes and places an order for the signal. A signal for a
// symbol that already has an OPEN trade is rejected and returns nil; one
// position per symbol.
func (e *Engine) ExecuteSignal(ctx context.Context, sig *market.Signal) (*market.Trade, error) {
	open, err := e.trades.GetOpenTrades(ctx)
	if err != nil {
		return nil, fmt.Errorf("query open trades: %w", err)
	}
	for _, trade := range open {
		if trade.Symbol == sig.Symbol {
			e.log.Warn().Str("sym", sig.Symbol).Str("strategy", sig.Strategy).Msg("signal rejected, position already open")
			return nil, nil
		}
	}

	active := e.brokers.Active()
	balance, err := active.GetBalance(ctx, e.risk.BalanceAsset)
	if err != nil {
		return nil, fmt.Errorf("fetch balance: %w", err)
	}

	stop, target := e.thresholds(sig)
	stopDist := math.Abs(sig.Price - stop)
	if stopDist <= 0 {
		return nil, fmt.Errorf("invalid stop distance for %s at %.8f", sig.Symbol, sig.Price)
	}

	riskAmount := balance * e.risk.RiskPerTrade
	quantity := truncate4(riskAmount / stopDist)
	if quantity <= 0 {
		e.log.Warn().Str("sym", sig.Symbol).Float64("balance", balance).Msg("signal rejected, computed quantity is zero")
		return nil, nil
	}

	trade, err := active.PlaceOrder(ctx, sig.Symbol, sig.Side, quantity, sig.Price, stop, target)
	if err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}

	metrics.TradesOpenedTotal.WithLabelValues(trade.Symbol, string(trade.Side)).Inc()
	e.notifier.TradeOpened(trade)
	e.log.Info().
		Str("sym", trade.Symbol).
		Str("side", string(trade.Side)).
		Float64("qty", trade.Quantity).
		Float64("entry", trade.EntryPrice).
		Float64("sl", trade.StopLoss).
		Float64("tp", trade.TakeProfit).
		Str("reason", sig.Reason).
		Msg("trade opened")
	return trade, nil
}

// thresholds applies the default percentage distances when the signal does
// not supply its own SL/TP.
func (e *Engine) thresholds(sig *market.Signal) (stop, target float64) {
	stop = sig.StopLoss
	target = sig.TakeProfit
	if sig.Side == market.Buy {
		if stop == 0 {
			stop = sig.Price * (1 - e.risk.DefaultStopPct)
		}
		if target == 0 {
			target = sig.Price * (1 + e.risk.DefaultTargetPct)
		}
		return stop, target
	}
	if stop == 0 {
		stop = sig.Price * (1 + e.risk.DefaultStopPct)
	}
	if target == 0 {
		target = sig.Price * (1 - e.risk.DefaultTargetPct)
	}
	return stop, target
}

// OnPriceUpdate re-evaluates every OPEN trade on the symbol against its
// thresholds using the last-trade price only. Intrabar wicks that cross a
// threshold without the stream reporting that price are not caught; that is
// accepted policy, not a bug. Exact equality at a threshold counts as breach
// and the threshold defines the fill price.
func (e *Engine) OnPriceUpdate(ctx context.Context, symbol string, price float64, ts time.Time) error {
	open, err := e.trades.GetOpenTrades(ctx)
	if err != nil {
		return fmt.Errorf("query open trades: %w", err)
	}

	for _, trade := range open {
		if trade.Symbol != symbol {
			continue
		}
		result, exit, breached := evaluate(trade, price)
		if !breached {
			continue
		}
		e.settle(ctx, trade, result, exit, ts)
	}
	return nil
}

// evaluate applies the strict-price breach rules.
func evaluate(trade *market.Trade, price float64) (market.TradeResult, float64, bool) {
	if trade.Side == market.Buy {
		switch {
		case price <= trade.StopLoss:
			return market.ResultLoss, trade.StopLoss, true
		case price >= trade.TakeProfit:
			return market.ResultWin, trade.TakeProfit, true
		}
		return "", 0, false
	}
	switch {
	case price >= trade.StopLoss:
		return market.ResultLoss, trade.StopLoss, true
	case price <= trade.TakeProfit:
		return market.ResultWin, trade.TakeProfit, true
	}
	return "", 0, false
}

// settle closes the trade at the breached threshold. A broker or persistence
// failure is logged; the closed state in memory stays authoritative and no
// compensating transaction is attempted.
func (e *Engine) settle(ctx context.Context, trade *market.Trade, result market.TradeResult, exit float64, ts time.Time) {
	if err := e.brokers.Active().ClosePosition(ctx, trade.Symbol, exit); err != nil {
		e.log.Error().Err(err).Str("sym", trade.Symbol).Msg("broker close failed, settling anyway")
	}

	trade.ExitPrice = exit
	trade.Result = result
	trade.ExitTime = ts
	pnl := math.Abs(trade.EntryPrice - exit)
	if result == market.ResultLoss {
		pnl = -pnl
	}
	trade.PnL = pnl

	if err := e.trades.Update(ctx, trade); err != nil {
		e.log.Error().Err(err).Str("trade", trade.ID).Msg("persisting trade close failed")
	}

	metrics.TradesClosedTotal.WithLabelValues(trade.Symbol, string(result)).Inc()
	e.notifier.TradeClosed(trade)
	e.log.Info().
		Str("sym", trade.Symbol).
		Str("result", string(result)).
		Float64("exit", exit).
		Float64("pnl", pnl).
		Msg("trade closed")

	e.refreshStats(ctx)
}

func (e *Engine) refreshStats(ctx context.Context) {
	stats, err := e.stats.Get(ctx)
	if err != nil {
		e.log.Error().Err(err).Msg("stats refresh failed")
		return
	}
	e.notifier.StatsUpdated(stats)
}

// truncate4 floors a quantity to 4 decimal places.
func truncate4(v float64) float64 {
	return math.Floor(v*1e4) / 1e4
}
