package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CandlesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "candles_total", Help: "Count of market candles ingested"},
		[]string{"symbol"},
	)
	FeedReconnectsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "feed_reconnects_total", Help: "Market feed reconnect attempts"},
	)
	SignalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "signals_total", Help: "Signals emitted by strategies"},
		[]string{"strategy", "side"},
	)
	StrategyFaultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "strategy_faults_total", Help: "Strategy panics recovered by the runner"},
		[]string{"strategy"},
	)
	TradesOpenedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "trades_opened_total", Help: "Trades opened by the execution engine"},
		[]string{"symbol", "side"},
	)
	TradesClosedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "trades_closed_total", Help: "Trades closed by the execution engine"},
		[]string{"symbol", "result"},
	)
)

func init() {
	prometheus.MustRegister(
		CandlesTotal,
		FeedReconnectsTotal,
		SignalsTotal,
		StrategyFaultsTotal,
		TradesOpenedTotal,
		TradesClosedTotal,
	)
}

func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
