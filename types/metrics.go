package types

import "time"

// MetricsRow is one (strategy, date) record of the backtest output table.
// Rows for a strategy are chronological; no ordering is guaranteed across
// strategies beyond grouping.
type MetricsRow struct {
	Date       time.Time `csv:"date" json:"date"`
	Strategy   string    `csv:"strategy" json:"strategy"`
	Price      float64   `csv:"price" json:"price"`
	PnL        float64   `csv:"pnl" json:"pnl"`
	Delta      float64   `csv:"delta" json:"delta"`
	Gamma      float64   `csv:"gamma" json:"gamma"`
	Theta      float64   `csv:"theta" json:"theta"`
	Vega       float64   `csv:"vega" json:"vega"`
	ImpliedVol float64   `csv:"implied_volatility" json:"impliedVolatility"`
}
