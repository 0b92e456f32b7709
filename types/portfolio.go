package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// PortfolioView is a read-only snapshot of paper-trading state. The live
// portfolio is owned by the execution engine; everything here is a copy.
type PortfolioView struct {
	Cash      decimal.Decimal
	Positions map[string]PositionSnapshot
	Time      time.Time
}

type PositionSnapshot struct {
	Symbol        string
	Quantity      int64
	AvgCost       decimal.Decimal
	LastPrice     decimal.Decimal
	MarketValue   decimal.Decimal
	UnrealizedPnL decimal.Decimal
}

// PortfolioSummary aggregates the view into the headline account numbers.
type PortfolioSummary struct {
	CashBalance   decimal.Decimal
	MarketValue   decimal.Decimal
	TotalValue    decimal.Decimal
	UnrealizedPnL decimal.Decimal
	RealizedPnL   decimal.Decimal
}
