// Command history dumps recent historical candles for a symbol/interval as
// JSON lines; handy for eyeballing what the strategies will warm up on.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"agenttrader/internal/exchange"
	"agenttrader/internal/util"
)

func main() {
	symbol := flag.String("symbol", "BTCUSDT", "trading symbol")
	interval := flag.String("interval", "1m", "kline interval")
	limit := flag.Int("limit", 50, "number of candles")
	flag.Parse()

	log := util.NewLogger("info")
	feed := exchange.NewFeed(log, *symbol, *interval)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	candles := feed.GetHistoricalCandles(ctx, *symbol, *interval, *limit)
	if len(candles) == 0 {
		log.Warn().Str("symbol", *symbol).Msg("no candles returned")
		return
	}

	enc := json.NewEncoder(os.Stdout)
	for _, c := range candles {
		_ = enc.Encode(c)
	}
}
