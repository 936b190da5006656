package main

import (
	"flag"
	"os"
	ossignal "os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"agenttrader/internal/broker"
	"agenttrader/internal/config"
	"agenttrader/internal/engine"
	"agenttrader/internal/exchange"
	"agenttrader/internal/metrics"
	"agenttrader/internal/notify"
	"agenttrader/internal/orchestrator"
	"agenttrader/internal/store"
	"agenttrader/internal/strategy"
	"agenttrader/internal/util"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to YAML config")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		bootLog := util.NewLogger("info")
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := util.NewLogger(cfg.App.LogLevel)

	if cfg.App.MetricsAddr != "" {
		_ = metrics.Serve(cfg.App.MetricsAddr)
		log.Info().Str("addr", cfg.App.MetricsAddr).Msg("metrics up")
	}

	trades := store.NewMemoryStore()
	bus := notify.NewBus()

	paper := broker.NewPaper(log, trades, cfg.Paper.StartingBalance)
	brokers := broker.NewManager(log, paper)
	brokers.Register(broker.NewBinance(log, cfg.Exchange.APIKey, cfg.Exchange.APISecret, cfg.Exchange.Testnet))
	if err := brokers.Select(cfg.Broker.Active); err != nil {
		log.Fatal().Err(err).Str("broker", cfg.Broker.Active).Msg("select broker")
	}

	registry := strategy.NewRegistry(log)
	modes := cfg.Strategies.Enabled
	if len(modes) == 0 {
		modes = []string{"ema_trend"}
	}
	for _, mode := range modes {
		registry.Register(strategy.Build(mode, cfg.Strategies))
	}
	runner := strategy.NewRunner(log, registry)

	feedOpts := []exchange.Option{}
	if cfg.Exchange.StreamURL != "" {
		feedOpts = append(feedOpts, exchange.WithStreamBaseURL(cfg.Exchange.StreamURL))
	}
	feed := exchange.NewFeed(log, cfg.Exchange.Symbol, cfg.Exchange.Interval, feedOpts...)

	eng := engine.New(log, brokers, trades, trades, bus, cfg.Risk)
	orch := orchestrator.New(log, feed, runner, eng, bus, orchestrator.Config{
		Symbol:      cfg.Exchange.Symbol,
		Interval:    cfg.Exchange.Interval,
		WarmupLimit: cfg.Exchange.HistoryLimit,
	})

	if err := orch.Start(); err != nil {
		log.Fatal().Err(err).Msg("start orchestrator")
	}
	log.Info().Str("symbol", cfg.Exchange.Symbol).Str("interval", cfg.Exchange.Interval).Msg("trading engine started")

	sigCh := make(chan os.Signal, 1)
	ossignal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutting down")
	orch.Stop()
}
