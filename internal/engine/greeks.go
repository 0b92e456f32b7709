package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/chobie/go-gaussian"

	"optionslab/types"
)

// Greeks holds net option sensitivities for a whole strategy, each leg
// scaled by its signed contract count.
type Greeks struct {
	Delta float64
	Gamma float64
	Theta float64
	Vega  float64
}

const daysPerYear = 365.0

// yearsToExpiry counts whole days between now and expiry, as a year
// fraction. Zero or negative means the leg is expired.
func yearsToExpiry(now, expiry time.Time) float64 {
	days := int(expiry.Sub(now).Hours() / 24)
	return float64(days) / daysPerYear
}

// StrategyGreeks computes net delta, gamma, theta and vega for a strategy
// at the given underlying price, annualized volatility and risk-free rate.
// Expired legs contribute zero. Theta uses the same magnitude expression
// for calls and puts, matching the pricing model this engine replicates.
func StrategyGreeks(s *types.Strategy, underlying, volatility, riskFree float64, now time.Time) (Greeks, error) {
	if underlying <= 0 {
		return Greeks{}, ErrNonPositiveUnderlying
	}
	if volatility <= 0 {
		return Greeks{}, ErrNonPositiveVolatility
	}

	norm := gaussian.NewGaussian(0, 1)
	var net Greeks
	for i, leg := range s.Legs {
		if leg.Strike <= 0 {
			return Greeks{}, fmt.Errorf("leg %d (%s): %w", i, leg.Symbol, ErrNonPositiveStrike)
		}
		t := yearsToExpiry(now, leg.Expiry)
		if t <= 0 {
			continue
		}

		sqrtT := math.Sqrt(t)
		d1 := (math.Log(underlying/leg.Strike) + (riskFree+volatility*volatility/2)*t) / (volatility * sqrtT)
		pdf := norm.Pdf(d1)

		delta := norm.Cdf(d1)
		if leg.Kind == types.KindPut {
			delta -= 1
		}
		gamma := pdf / (underlying * volatility * sqrtT)
		theta := -underlying * volatility * pdf / (2 * sqrtT)
		vega := underlying * sqrtT * pdf

		n := float64(leg.Contracts)
		net.Delta += delta * n
		net.Gamma += gamma * n
		net.Theta += theta * n
		net.Vega += vega * n
	}
	return net, nil
}
