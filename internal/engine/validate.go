package engine

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"optionslab/types"
)

// Limits is the tagged bounds structure for strategy and order validation.
// Unknown configuration fields are rejected at load time, not at first use.
type Limits struct {
	MinDaysToExpiry  int
	MaxDaysToExpiry  int
	MinStrikePrice   float64
	MaxPositionSize  int64
	MaxLossThreshold float64
}

const (
	// Daily moves above this fraction are treated as data anomalies.
	maxDailyMove = 0.20
	// Annualized realized volatility above this is unsafe to trade.
	maxSafeVolatility = 0.50
	// Bars needed before realized volatility is meaningful.
	minVolatilityBars = 20
)

// ValidateStrategy checks every leg against the configured bounds. It runs
// before any state mutation and leaves nothing half-applied.
func ValidateStrategy(s *types.Strategy, lim Limits, now time.Time) error {
	if len(s.Legs) == 0 {
		return validationErr("legs", "strategy has no legs")
	}
	for _, leg := range s.Legs {
		if leg.Symbol == "" {
			return validationErr("symbol", "leg symbol must not be empty")
		}
		if leg.Strike < lim.MinStrikePrice {
			return validationErr("strike", "strike %.2f below minimum %.2f", leg.Strike, lim.MinStrikePrice)
		}
		days := int(leg.Expiry.Sub(now).Hours() / 24)
		if days < lim.MinDaysToExpiry {
			return validationErr("expiry", "expiry too soon, minimum %d days required", lim.MinDaysToExpiry)
		}
		if days > lim.MaxDaysToExpiry {
			return validationErr("expiry", "expiry too far, maximum %d days allowed", lim.MaxDaysToExpiry)
		}
	}
	return nil
}

// ValidateBars rejects empty, inconsistent or anomalous historical data.
func ValidateBars(series []types.Candle) error {
	if len(series) == 0 {
		return validationErr("series", "empty market data")
	}
	var prevClose float64
	for i, c := range series {
		high, low := c.High.InexactFloat64(), c.Low.InexactFloat64()
		open, close := c.Open.InexactFloat64(), c.Close.InexactFloat64()

		if high < low || close > high || close < low || open > high || open < low {
			return validationErr("series", "invalid price relationships on %s", c.Timestamp.Format("2006-01-02"))
		}
		if i > 0 && prevClose != 0 {
			move := math.Abs(close/prevClose - 1)
			if move > maxDailyMove {
				return validationErr("series", "suspicious price movement on %s", c.Timestamp.Format("2006-01-02"))
			}
		}
		prevClose = close
	}
	return nil
}

// ValidatePositionSize checks an order quantity against the absolute size
// limit and the account-risk exposure threshold.
func ValidatePositionSize(quantity int64, accountValue float64, openPositions []types.PositionSnapshot, lim Limits) error {
	if abs64(quantity) > lim.MaxPositionSize {
		return validationErr("quantity", "position size exceeds maximum allowed: %d", lim.MaxPositionSize)
	}
	exposure := abs64(quantity)
	for _, pos := range openPositions {
		exposure += abs64(pos.Quantity)
	}
	if float64(exposure)*lim.MaxLossThreshold > accountValue {
		return validationErr("exposure", "position would exceed maximum account risk threshold")
	}
	return nil
}

// ValidateMarketHours checks the wall clock against the configured trading
// window (times in "15:04" form, compared in the local day).
func ValidateMarketHours(now time.Time, start, end string) error {
	open, err := time.Parse("15:04", start)
	if err != nil {
		return validationErr("market_hours", "bad market open %q", start)
	}
	close, err := time.Parse("15:04", end)
	if err != nil {
		return validationErr("market_hours", "bad market close %q", end)
	}

	minutes := now.Hour()*60 + now.Minute()
	openMin := open.Hour()*60 + open.Minute()
	closeMin := close.Hour()*60 + close.Minute()
	if minutes < openMin || minutes > closeMin {
		return validationErr("market_hours", "outside of market hours")
	}
	return nil
}

// ValidateMarketConditions refuses to trade into a market whose realized
// volatility exceeds the safety ceiling.
func ValidateMarketConditions(series []types.Candle) error {
	if len(series) < minVolatilityBars {
		return validationErr("series", "insufficient historical data for analysis")
	}
	vol := HistoricalVolatility(series)
	if vol > maxSafeVolatility {
		return validationErr("volatility", "market volatility %.2f too high for safe trading", vol)
	}
	return nil
}

// HistoricalVolatility annualizes the standard deviation of day-over-day
// close returns.
func HistoricalVolatility(series []types.Candle) float64 {
	if len(series) < 2 {
		return 0
	}
	returns := make([]float64, 0, len(series)-1)
	for i := 1; i < len(series); i++ {
		prev := series[i-1].Close.InexactFloat64()
		if prev == 0 {
			continue
		}
		returns = append(returns, series[i].Close.InexactFloat64()/prev-1)
	}
	if len(returns) < 2 {
		return 0
	}
	return stat.StdDev(returns, nil) * math.Sqrt(tradingDays)
}
