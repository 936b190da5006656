// Package exchange hosts the market data connector for the candle pipeline.
package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"agenttrader/internal/market"
	"agenttrader/internal/metrics"
)

const (
	defaultStreamBaseURL  = "wss://stream.binance.com:9443/ws"
	defaultReconnectDelay = 5 * time.Second
	readTimeout           = 30 * time.Second
)

// DataCallback is the single consumer invoked once per received tick.
type DataCallback func(market.Candle)

// Feed maintains a streaming kline subscription for one symbol/interval and
// exposes a synchronous historical backfill. On connection loss it retries
// forever with a fixed delay; only Stop ends the loop.
type Feed struct {
	log            zerolog.Logger
	symbol         string
	interval       string
	streamBaseURL  string
	reconnectDelay time.Duration
	rest           *binance.Client

	mu       sync.Mutex
	callback DataCallback
	cancel   context.CancelFunc
	done     chan struct{}
}

// Option configures Feed construction parameters.
type Option func(*Feed)

// WithStreamBaseURL overrides the websocket endpoint (tests point this at a
// local server).
func WithStreamBaseURL(url string) Option {
	return func(f *Feed) {
		if url != "" {
			f.streamBaseURL = strings.TrimSuffix(url, "/")
		}
	}
}

// WithReconnectDelay overrides the fixed retry delay.
func WithReconnectDelay(d time.Duration) Option {
	return func(f *Feed) {
		if d > 0 {
			f.reconnectDelay = d
		}
	}
}

// WithRESTClient injects the client used for historical queries.
func WithRESTClient(client *binance.Client) Option {
	return func(f *Feed) { f.rest = client }
}

// NewFeed constructs a feed for a fixed symbol and interval.
func NewFeed(log zerolog.Logger, symbol, interval string, opts ...Option) *Feed {
	f := &Feed{
		log:            log,
		symbol:         strings.ToUpper(symbol),
		interval:       interval,
		streamBaseURL:  defaultStreamBaseURL,
		reconnectDelay: defaultReconnectDelay,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.rest == nil {
		f.rest = binance.NewClient("", "")
	}
	return f
}

// SetDataCallback registers the consumer. Must be called before Start.
func (f *Feed) SetDataCallback(fn DataCallback) {
	f.mu.Lock()
	f.callback = fn
	f.mu.Unlock()
}

// Start opens the streaming subscription and keeps it alive until Stop.
func (f *Feed) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.callback == nil {
		return fmt.Errorf("data callback not set")
	}
	if f.cancel != nil {
		return fmt.Errorf("feed already started")
	}
	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	f.done = make(chan struct{})
	go f.run(ctx, f.done)
	return nil
}

// Stop tears down the connection and cancels any pending reconnect. In-flight
// tick processing completes; new ticks stop arriving.
func (f *Feed) Stop() {
	f.mu.Lock()
	cancel := f.cancel
	done := f.done
	f.cancel = nil
	f.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (f *Feed) streamURL() string {
	return fmt.Sprintf("%s/%s@kline_%s", f.streamBaseURL, strings.ToLower(f.symbol), f.interval)
}

// run is the reconnect-forever loop. A transient network failure must never
// end it permanently; each failure waits the fixed delay and redials.
func (f *Feed) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		err := f.consume(ctx)
		if ctx.Err() != nil {
			return
		}
		metrics.FeedReconnectsTotal.Inc()
		f.log.Warn().Err(err).Dur("retry_in", f.reconnectDelay).Msg("market feed disconnected, retrying")
		select {
		case <-time.After(f.reconnectDelay):
		case <-ctx.Done():
			return
		}
	}
}

func (f *Feed) consume(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, f.streamURL(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	// unblock the blocking read when Stop fires
	connCtx, connCancel := context.WithCancel(ctx)
	defer connCancel()
	go func() {
		<-connCtx.Done()
		conn.Close()
	}()

	f.log.Info().Str("symbol", f.symbol).Str("interval", f.interval).Msg("connected market data feed")

	conn.SetReadLimit(1 << 20)
	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})
	go f.keepAlive(connCtx, conn)

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		candle, err := parseKline(message)
		if err != nil {
			// a malformed message is dropped, the connection stays up
			f.log.Warn().Err(err).Msg("failed to decode kline message")
			continue
		}
		metrics.CandlesTotal.WithLabelValues(candle.Symbol).Inc()
		f.mu.Lock()
		cb := f.callback
		f.mu.Unlock()
		cb(candle)
	}
}

func (f *Feed) keepAlive(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				f.log.Warn().Err(err).Msg("feed ping failed")
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

type klineEvent struct {
	EventType string       `json:"e"`
	Symbol    string       `json:"s"`
	Kline     klinePayload `json:"k"`
}

type klinePayload struct {
	StartTime int64  `json:"t"`
	Symbol    string `json:"s"`
	Interval  string `json:"i"`
	Open      string `json:"o"`
	Close     string `json:"c"`
	High      string `json:"h"`
	Low       string `json:"l"`
	Volume    string `json:"v"`
	IsFinal   bool   `json:"x"`
}

func parseKline(message []byte) (market.Candle, error) {
	var event klineEvent
	if err := json.Unmarshal(message, &event); err != nil {
		return market.Candle{}, err
	}
	if event.EventType != "kline" {
		return market.Candle{}, fmt.Errorf("unexpected event type %q", event.EventType)
	}
	k := event.Kline
	open, err := strconv.ParseFloat(k.Open, 64)
	if err != nil {
		return market.Candle{}, fmt.Errorf("invalid open: %w", err)
	}
	high, err := strconv.ParseFloat(k.High, 64)
	if err != nil {
		return market.Candle{}, fmt.Errorf("invalid high: %w", err)
	}
	low, err := strconv.ParseFloat(k.Low, 64)
	if err != nil {
		return market.Candle{}, fmt.Errorf("invalid low: %w", err)
	}
	closePx, err := strconv.ParseFloat(k.Close, 64)
	if err != nil {
		return market.Candle{}, fmt.Errorf("invalid close: %w", err)
	}
	volume, err := strconv.ParseFloat(k.Volume, 64)
	if err != nil {
		return market.Candle{}, fmt.Errorf("invalid volume: %w", err)
	}
	return market.Candle{
		Symbol:   strings.ToUpper(event.Symbol),
		Time:     k.StartTime / 1000,
		Open:     open,
		High:     high,
		Low:      low,
		Close:    closePx,
		Volume:   volume,
		IsClosed: k.IsFinal,
	}, nil
}

// GetHistoricalCandles fetches up to limit klines for bulk backfill. A remote
// error yields an empty slice; downstream treats "no data" as a valid state.
func (f *Feed) GetHistoricalCandles(ctx context.Context, symbol, interval string, limit int) []market.Candle {
	klines, err := f.rest.NewKlinesService().
		Symbol(strings.ToUpper(symbol)).
		Interval(interval).
		Limit(limit).
		Do(ctx)
	if err != nil {
		f.log.Warn().Err(err).Str("symbol", symbol).Msg("historical kline fetch failed")
		return nil
	}

	candles := make([]market.Candle, 0, len(klines))
	for _, k := range klines {
		open, err1 := strconv.ParseFloat(k.Open, 64)
		high, err2 := strconv.ParseFloat(k.High, 64)
		low, err3 := strconv.ParseFloat(k.Low, 64)
		closePx, err4 := strconv.ParseFloat(k.Close, 64)
		volume, err5 := strconv.ParseFloat(k.Volume, 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
			f.log.Warn().Str("symbol", symbol).Msg("skipping malformed historical kline")
			continue
		}
		candles = append(candles, market.Candle{
			Symbol:   strings.ToUpper(symbol),
			Time:     k.OpenTime / 1000,
			Open:     open,
			High:     high,
			Low:      low,
			Close:    closePx,
			Volume:   volume,
			IsClosed: true,
		})
	}
	return candles
}
