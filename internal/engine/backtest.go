package engine

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"

	"optionslab/types"
)

// BacktestEngine owns a registry of named strategies and replays historical
// daily bars through the greeks calculator and the payoff function. The
// registry lives on the engine value; there is no process-wide state.
type BacktestEngine struct {
	strategies map[string]*types.Strategy
	order      []string // registration order, for stable output grouping

	now          func() time.Time
	showProgress bool
}

func NewBacktestEngine() *BacktestEngine {
	return &BacktestEngine{
		strategies: make(map[string]*types.Strategy),
		now:        time.Now,
	}
}

// ShowProgress enables the progress bar during runs.
func (e *BacktestEngine) ShowProgress(on bool) {
	e.showProgress = on
}

// AddStrategy registers a named strategy. Names are unique.
func (e *BacktestEngine) AddStrategy(name string, legs []types.OptionLeg) error {
	if name == "" {
		return validationErr("name", "strategy name must not be empty")
	}
	if _, ok := e.strategies[name]; ok {
		return fmt.Errorf("%q: %w", name, ErrDuplicateStrategy)
	}
	e.strategies[name] = &types.Strategy{Name: name, Legs: legs}
	e.order = append(e.order, name)
	return nil
}

// Strategy returns a registered strategy by name.
func (e *BacktestEngine) Strategy(name string) (*types.Strategy, bool) {
	s, ok := e.strategies[name]
	return s, ok
}

// RunBacktest replays the series through every named strategy (all
// registered strategies when names is empty) and returns one metrics row
// per strategy per bar. Volatility and risk-free rate are held constant for
// the whole run; the implied volatility column carries that constant.
// Within a strategy, rows follow the input series' chronological order.
func (e *BacktestEngine) RunBacktest(names []string, series []types.Candle, volatility, riskFree float64) ([]types.MetricsRow, error) {
	if len(series) == 0 {
		return nil, ErrEmptySeries
	}
	if len(names) == 0 {
		names = e.order
	}

	selected := make([]*types.Strategy, 0, len(names))
	for _, name := range names {
		s, ok := e.strategies[name]
		if !ok {
			return nil, fmt.Errorf("%q: %w", name, ErrUnknownStrategy)
		}
		selected = append(selected, s)
	}

	var bar *progressbar.ProgressBar
	if e.showProgress {
		bar = initProgressBar(len(selected) * len(series))
	}

	rows := make([]types.MetricsRow, 0, len(selected)*len(series))
	for _, strat := range selected {
		for _, candle := range series {
			close := candle.Close.InexactFloat64()
			greeks, err := StrategyGreeks(strat, close, volatility, riskFree, e.now())
			if err != nil {
				return nil, fmt.Errorf("strategy %q at %s: %w", strat.Name, candle.Timestamp.Format("2006-01-02"), err)
			}
			rows = append(rows, types.MetricsRow{
				Date:       candle.Timestamp,
				Strategy:   strat.Name,
				Price:      close,
				PnL:        PayoffAt(strat, close),
				Delta:      greeks.Delta,
				Gamma:      greeks.Gamma,
				Theta:      greeks.Theta,
				Vega:       greeks.Vega,
				ImpliedVol: volatility,
			})
			if bar != nil {
				bar.Add(1)
			}
		}
	}
	return rows, nil
}

func initProgressBar(maxTicks int) *progressbar.ProgressBar {
	return progressbar.NewOptions(maxTicks,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetDescription("Backtesting in progress..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
