package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarketTick is one timestamped price/quote/volume observation for a symbol,
// produced by a tick stream (live or synthetic).
type MarketTick struct {
	Symbol     string          `json:"symbol"`
	Timestamp  time.Time       `json:"timestamp"`
	Price      decimal.Decimal `json:"price"`
	Bid        decimal.Decimal `json:"bid"`
	Ask        decimal.Decimal `json:"ask"`
	Volume     int64           `json:"volume"`
	ImpliedVol float64         `json:"impliedVol"`
}
