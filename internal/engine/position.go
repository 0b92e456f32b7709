package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"optionslab/types"
)

// position is the mutable per-symbol state of the paper book. Average cost
// is meaningful only while quantity is non-zero; a position that returns to
// zero quantity is removed from the book.
type position struct {
	symbol    string
	quantity  int64
	avgCost   decimal.Decimal
	lastPrice decimal.Decimal
}

func (p *position) marketValue() decimal.Decimal {
	return p.lastPrice.Mul(decimal.NewFromInt(p.quantity))
}

func (p *position) unrealizedPnL() decimal.Decimal {
	return p.lastPrice.Sub(p.avgCost).Mul(decimal.NewFromInt(p.quantity))
}

// portfolio is the paper-trading book: cash plus open positions plus the
// realized P&L accumulated over closed trades. It is mutated only by the
// execution engine's fill path (single writer); reads go through copies.
type portfolio struct {
	cash      decimal.Decimal
	positions map[string]*position
	realized  decimal.Decimal
}

func newPortfolio(startingCash decimal.Decimal) *portfolio {
	return &portfolio{
		cash:      startingCash,
		positions: make(map[string]*position),
	}
}

// applyFill mutates the book for a fill of qty at price. Cash always moves
// by -qty*price. Realized P&L accrues when a fill closes existing quantity:
// on an exact close the position is removed, on a flip through zero the
// closed portion is realized and the position reopens at the fill price
// with the overshoot quantity.
func (p *portfolio) applyFill(symbol string, qty int64, price decimal.Decimal) {
	p.cash = p.cash.Sub(price.Mul(decimal.NewFromInt(qty)))

	pos, ok := p.positions[symbol]
	if !ok {
		p.positions[symbol] = &position{
			symbol:    symbol,
			quantity:  qty,
			avgCost:   price,
			lastPrice: price,
		}
		return
	}

	q0 := pos.quantity
	q1 := q0 + qty

	switch {
	case q1 == 0:
		p.realized = p.realized.Add(price.Sub(pos.avgCost).Mul(decimal.NewFromInt(abs64(q0))))
		delete(p.positions, symbol)

	case sameSign(q0, q1):
		// Weighted average cost only grows on same-direction adds; a
		// partial close keeps the existing average.
		if abs64(q1) > abs64(q0) {
			pos.avgCost = pos.avgCost.Mul(decimal.NewFromInt(q0)).
				Add(price.Mul(decimal.NewFromInt(qty))).
				Div(decimal.NewFromInt(q1))
		} else {
			p.realized = p.realized.Add(price.Sub(pos.avgCost).Mul(decimal.NewFromInt(abs64(qty))).Mul(signOf(q0)))
		}
		pos.quantity = q1
		pos.lastPrice = price

	default:
		// Direction flip: realize the closed portion, reopen at the fill.
		p.realized = p.realized.Add(price.Sub(pos.avgCost).Mul(decimal.NewFromInt(abs64(q0))))
		pos.quantity = q1
		pos.avgCost = price
		pos.lastPrice = price
	}
}

// mark updates the latest observed price for an open position.
func (p *portfolio) mark(symbol string, price decimal.Decimal) {
	if pos, ok := p.positions[symbol]; ok {
		pos.lastPrice = price
	}
}

func (p *portfolio) view(now time.Time) types.PortfolioView {
	view := types.PortfolioView{
		Cash:      p.cash,
		Positions: make(map[string]types.PositionSnapshot, len(p.positions)),
		Time:      now,
	}
	for sym, pos := range p.positions {
		view.Positions[sym] = types.PositionSnapshot{
			Symbol:        pos.symbol,
			Quantity:      pos.quantity,
			AvgCost:       pos.avgCost,
			LastPrice:     pos.lastPrice,
			MarketValue:   pos.marketValue(),
			UnrealizedPnL: pos.unrealizedPnL(),
		}
	}
	return view
}

func (p *portfolio) summary() types.PortfolioSummary {
	marketValue := decimal.Zero
	unrealized := decimal.Zero
	for _, pos := range p.positions {
		marketValue = marketValue.Add(pos.marketValue())
		unrealized = unrealized.Add(pos.unrealizedPnL())
	}
	return types.PortfolioSummary{
		CashBalance:   p.cash,
		MarketValue:   marketValue,
		TotalValue:    p.cash.Add(marketValue),
		UnrealizedPnL: unrealized,
		RealizedPnL:   p.realized,
	}
}

func sameSign(a, b int64) bool {
	return (a > 0 && b > 0) || (a < 0 && b < 0)
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func signOf(v int64) decimal.Decimal {
	if v < 0 {
		return decimal.NewFromInt(-1)
	}
	return decimal.NewFromInt(1)
}
