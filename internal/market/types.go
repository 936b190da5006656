// Package market standardizes the payloads shared between the data feed,
// strategies, execution, and persistence layers.
package market

import "time"

// Side enumerates trade directions.
type Side string

const (
	// Buy opens or represents a long position.
	Buy Side = "BUY"
	// Sell opens or represents a short position.
	Sell Side = "SELL"
)

// TradeResult tracks the lifecycle of a trade. A trade is created OPEN and
// moves exactly once to WIN or LOSS; terminal states are final.
type TradeResult string

const (
	ResultOpen TradeResult = "OPEN"
	ResultWin  TradeResult = "WIN"
	ResultLoss TradeResult = "LOSS"
)

// Candle is one OHLCV bar for a symbol/interval. IsClosed reports whether the
// bar is finalized; the feed delivers every tick including intrabar updates,
// so consumers needing closed-bar semantics must check it themselves.
type Candle struct {
	Symbol   string  `json:"symbol"`
	Time     int64   `json:"time"` // unix seconds, bar open time
	Open     float64 `json:"open"`
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Close    float64 `json:"close"`
	Volume   float64 `json:"volume"`
	IsClosed bool    `json:"isClosed"`
}

// Timestamp converts the bar open time to a time.Time.
func (c Candle) Timestamp() time.Time { return time.Unix(c.Time, 0) }

// Signal is a strategy's recommendation to open a position. StopLoss and
// TakeProfit are optional; zero means the execution engine applies its
// defaults. Diagnostics carries strategy-specific values (moving averages,
// slope angle) for the reason trail.
type Signal struct {
	Strategy    string             `json:"strategy"`
	Symbol      string             `json:"symbol"`
	Side        Side               `json:"side"`
	Price       float64            `json:"price"`
	Time        time.Time          `json:"time"`
	Reason      string             `json:"reason"`
	StopLoss    float64            `json:"stopLoss,omitempty"`
	TakeProfit  float64            `json:"takeProfit,omitempty"`
	Diagnostics map[string]float64 `json:"diagnostics,omitempty"`
}

// Trade is a position owned by the execution engine while open and handed to
// the trade store for durability. ID is assigned by the store on create.
type Trade struct {
	ID         string      `json:"id"`
	Symbol     string      `json:"symbol"`
	Side       Side        `json:"side"`
	Quantity   float64     `json:"quantity"`
	EntryPrice float64     `json:"entryPrice"`
	ExitPrice  float64     `json:"exitPrice,omitempty"`
	StopLoss   float64     `json:"stopLoss"`
	TakeProfit float64     `json:"takeProfit"`
	PnL        float64     `json:"pnl,omitempty"`
	Result     TradeResult `json:"result"`
	EntryTime  time.Time   `json:"entryTime"`
	ExitTime   time.Time   `json:"exitTime,omitempty"`
}

// Stats aggregates closed-trade results for republication after settlement.
type Stats struct {
	TotalTrades int     `json:"totalTrades"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	WinRate     float64 `json:"winRate"`
	NetPnL      float64 `json:"netPnl"`
}
