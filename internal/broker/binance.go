package broker

import (
	"context"
	"strconv"

	"github.com/adshao/go-binance/v2"
	"github.com/rs/zerolog"

	"agenttrader/internal/market"
)

// Binance is a thin live-exchange adapter. Balance and connectivity queries
// go to the real API; order placement stays disabled until an account is
// wired in, so a misconfigured process can never trade real funds.
type Binance struct {
	log    zerolog.Logger
	client *binance.Client
	live   bool
}

// NewBinance builds the adapter. Empty credentials leave it in neutral mode:
// connected-false, orders rejected.
func NewBinance(log zerolog.Logger, apiKey, apiSecret string, testnet bool) *Binance {
	if apiKey == "" || apiSecret == "" {
		return &Binance{log: log}
	}
	binance.UseTestnet = testnet
	return &Binance{log: log, client: binance.NewClient(apiKey, apiSecret), live: true}
}

// Name implements Broker.
func (b *Binance) Name() string { return "binance" }

// PlaceOrder rejects until live order routing is wired.
// TODO: wire client.NewCreateOrderService with OCO stop-loss/take-profit legs.
func (b *Binance) PlaceOrder(ctx context.Context, symbol string, side market.Side, quantity, price, stopLoss, takeProfit float64) (*market.Trade, error) {
	b.log.Warn().Str("sym", symbol).Str("side", string(side)).Msg("live order placement not enabled")
	return nil, ErrNotWired
}

// ClosePosition rejects until live order routing is wired.
func (b *Binance) ClosePosition(ctx context.Context, symbol string, price float64) error {
	return ErrNotWired
}

// GetBalance queries the spot account for the free amount of the asset.
func (b *Binance) GetBalance(ctx context.Context, asset string) (float64, error) {
	if !b.live {
		return 0, ErrNotWired
	}
	account, err := b.client.NewGetAccountService().Do(ctx)
	if err != nil {
		return 0, err
	}
	for _, bal := range account.Balances {
		if bal.Asset != asset {
			continue
		}
		free, err := strconv.ParseFloat(bal.Free, 64)
		if err != nil {
			return 0, err
		}
		return free, nil
	}
	return 0, nil
}

// IsConnected pings the exchange when credentials are present.
func (b *Binance) IsConnected() bool {
	if !b.live {
		return false
	}
	return b.client.NewPingService().Do(context.Background()) == nil
}
