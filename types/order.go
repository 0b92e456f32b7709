package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderKind string

type OrderStatus string

type Side string

const (
	KindMarket OrderKind = "MARKET"
	KindLimit  OrderKind = "LIMIT"

	OrderPending  OrderStatus = "PENDING"
	OrderFilled   OrderStatus = "FILLED"
	OrderRejected OrderStatus = "REJECTED"

	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Order is a paper-trading order. IDs are unique and monotonically assigned
// by the execution engine. LimitPrice is required iff Kind is KindLimit.
type Order struct {
	ID         int64
	Symbol     string
	Quantity   int64
	Kind       OrderKind
	LimitPrice *decimal.Decimal
	FillPrice  decimal.Decimal
	Status     OrderStatus
	Reason     string
	Timestamp  time.Time
}
