package engine

import (
	"math"
	"sort"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"optionslab/types"
)

const tradingDays = 252

// Attribution decomposes P&L change into first and second order Greek
// contributions across consecutive rows.
type Attribution struct {
	Delta float64 `json:"delta_pnl"`
	Gamma float64 `json:"gamma_pnl"`
	Theta float64 `json:"theta_pnl"`
	Vega  float64 `json:"vega_pnl"`
	Total float64 `json:"total_explained"`
}

// Exposure is the Greek exposure of the most recent row.
type Exposure struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"`
	Vega  float64 `json:"vega"`
}

// Report is the complete risk summary for one strategy's metric history.
type Report struct {
	ID               uuid.UUID   `json:"id"`
	Strategy         string      `json:"strategy"`
	TotalReturn      float64     `json:"total_return"`
	AnnualizedReturn float64     `json:"annualized_return"`
	AnnualizedVol    float64     `json:"annualized_volatility"`
	VaR95            float64     `json:"var_95"`
	VaR99            float64     `json:"var_99"`
	Sharpe           float64     `json:"sharpe_ratio"`
	Sortino          float64     `json:"sortino_ratio"`
	MaxDrawdown      float64     `json:"max_drawdown"`
	WinRate          float64     `json:"win_rate"`
	ProfitFactor     float64     `json:"profit_factor"`
	Attribution      Attribution `json:"attribution"`
	Exposure         Exposure    `json:"exposure"`
}

// ReportGenerator derives risk statistics from backtest metric rows.
type ReportGenerator struct {
	riskFree float64 // annual risk-free rate used in ratio numerators
}

func NewReportGenerator(riskFree float64) *ReportGenerator {
	return &ReportGenerator{riskFree: riskFree}
}

// Generate computes the full report for one strategy. Rows must be in
// chronological order, as RunBacktest emits them. Generation is read-only,
// so repeated calls over the same rows give identical results.
func (g *ReportGenerator) Generate(strategy string, rows []types.MetricsRow) (Report, error) {
	if len(rows) == 0 {
		return Report{}, ErrEmptySeries
	}
	if len(rows) < 2 {
		return Report{}, ErrInsufficientRows
	}

	returns, err := pnlReturns(rows)
	if err != nil {
		return Report{}, err
	}

	mean, std := stat.MeanStdDev(returns, nil)
	if std == 0 {
		return Report{}, ErrZeroVariance
	}

	report := Report{
		ID:            uuid.New(),
		Strategy:      strategy,
		AnnualizedVol: std * math.Sqrt(tradingDays),
		Exposure: Exposure{
			Delta: rows[len(rows)-1].Delta,
			Gamma: rows[len(rows)-1].Gamma,
			Theta: rows[len(rows)-1].Theta,
			Vega:  rows[len(rows)-1].Vega,
		},
	}

	for _, row := range rows {
		report.TotalReturn += row.PnL
	}
	report.AnnualizedReturn = mean * tradingDays

	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)
	report.VaR95 = stat.Quantile(0.05, stat.LinInterp, sorted, nil)
	report.VaR99 = stat.Quantile(0.01, stat.LinInterp, sorted, nil)

	dailyRF := g.riskFree / tradingDays
	report.Sharpe = math.Sqrt(tradingDays) * (mean - dailyRF) / std

	sortino, err := sortinoRatio(returns, mean, dailyRF)
	if err != nil {
		return Report{}, err
	}
	report.Sortino = sortino

	report.MaxDrawdown = maxDrawdown(returns)
	report.WinRate, report.ProfitFactor = winStats(returns)
	report.Attribution = attributePnL(rows)
	return report, nil
}

// pnlReturns is the day-over-day relative change of the P&L series. A zero
// P&L followed by a nonzero one has no defined relative change.
func pnlReturns(rows []types.MetricsRow) ([]float64, error) {
	returns := make([]float64, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		prev := rows[i-1].PnL
		if prev == 0 {
			return nil, ErrDegenerateReturns
		}
		returns = append(returns, rows[i].PnL/prev-1)
	}
	return returns, nil
}

func sortinoRatio(returns []float64, mean, dailyRF float64) (float64, error) {
	downside := make([]float64, 0, len(returns))
	for _, r := range returns {
		if r < 0 {
			downside = append(downside, r)
		}
	}
	if len(downside) == 0 {
		// No losing days means no measurable downside risk; infinite, like
		// the profit factor on the same series.
		return math.Inf(1), nil
	}
	if len(downside) < 2 {
		return 0, ErrNoDownsideReturns
	}
	downStd := stat.StdDev(downside, nil)
	if downStd == 0 {
		return 0, ErrZeroVariance
	}
	return math.Sqrt(tradingDays) * (mean - dailyRF) / downStd, nil
}

// maxDrawdown is the largest peak-to-trough decline of the compounded
// return path. Always non-positive.
func maxDrawdown(returns []float64) float64 {
	wealth := 1.0
	peak := 1.0
	worst := 0.0
	for _, r := range returns {
		wealth *= 1 + r
		if wealth > peak {
			peak = wealth
		}
		if dd := wealth/peak - 1; dd < worst {
			worst = dd
		}
	}
	return worst
}

// winStats is the fraction of positive return days and the gross-profit to
// gross-loss ratio. With no losing days the profit factor is +Inf.
func winStats(returns []float64) (winRate, profitFactor float64) {
	var wins int
	var grossProfit, grossLoss float64
	for _, r := range returns {
		if r > 0 {
			wins++
			grossProfit += r
		} else if r < 0 {
			grossLoss += -r
		}
	}
	winRate = float64(wins) / float64(len(returns))
	if grossLoss == 0 {
		return winRate, math.Inf(1)
	}
	return winRate, grossProfit / grossLoss
}

// attributePnL explains day-over-day P&L through the Greeks: each row's
// delta times the day's price move, half its gamma times the move squared,
// and its vega times the implied volatility change. Theta decays on every
// row of the table, one trading day per row.
func attributePnL(rows []types.MetricsRow) Attribution {
	var a Attribution
	for _, row := range rows {
		a.Theta += row.Theta / tradingDays
	}
	for i := 1; i < len(rows); i++ {
		dS := rows[i].Price - rows[i-1].Price
		dIV := rows[i].ImpliedVol - rows[i-1].ImpliedVol

		a.Delta += rows[i].Delta * dS
		a.Gamma += 0.5 * rows[i].Gamma * dS * dS
		a.Vega += rows[i].Vega * dIV
	}
	a.Total = a.Delta + a.Gamma + a.Theta + a.Vega
	return a
}
