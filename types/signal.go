package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Signal is a trade suggestion produced by a strategy rule. The absence of a
// signal on a tick is an ordinary outcome, not an error.
type Signal struct {
	Symbol    string
	Side      Side
	Quantity  int64
	Price     decimal.Decimal
	Reason    string
	CreatedAt time.Time
}

func NewSignal(symbol string, side Side, quantity int64, price decimal.Decimal, reason string, createdAt time.Time) Signal {
	return Signal{
		Symbol:    symbol,
		Side:      side,
		Quantity:  quantity,
		Price:     price,
		Reason:    reason,
		CreatedAt: createdAt,
	}
}
