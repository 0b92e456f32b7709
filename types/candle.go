package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Candle is one historical daily bar for a symbol. Series handed to the
// backtest engine are assumed chronological and duplicate-free.
type Candle struct {
	Symbol    string          `json:"symbol"`
	Open      decimal.Decimal `json:"open"`
	Close     decimal.Decimal `json:"close"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Volume    decimal.Decimal `json:"volume"`
	Timestamp time.Time       `json:"timestamp"`
}
