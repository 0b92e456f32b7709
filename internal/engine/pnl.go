package engine

import (
	"math"

	"optionslab/types"
)

// PayoffAt returns the strategy's intrinsic payoff minus entry cost at one
// underlying price, summed across legs and scaled by signed contract count.
func PayoffAt(s *types.Strategy, price float64) float64 {
	total := 0.0
	for _, leg := range s.Legs {
		var payoff float64
		switch leg.Kind {
		case types.KindCall:
			payoff = math.Max(price-leg.Strike, 0)
		case types.KindPut:
			payoff = math.Max(leg.Strike-price, 0)
		}
		total += (payoff - leg.EntryPrice) * float64(leg.Contracts)
	}
	return total
}

// PayoffCurve evaluates PayoffAt over a sweep of candidate prices, for
// scenario analysis.
func PayoffCurve(s *types.Strategy, prices []float64) []float64 {
	curve := make([]float64, len(prices))
	for i, p := range prices {
		curve[i] = PayoffAt(s, p)
	}
	return curve
}
