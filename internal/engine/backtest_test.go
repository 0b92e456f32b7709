package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"optionslab/types"
)

func testSeries(n int) []types.Candle {
	series := make([]types.Candle, 0, n)
	price := int64(100)
	for i := 0; i < n; i++ {
		series = append(series, types.Candle{
			Symbol:    "SPY",
			Open:      decimal.NewFromInt(price),
			Close:     decimal.NewFromInt(price + 1),
			High:      decimal.NewFromInt(price + 2),
			Low:       decimal.NewFromInt(price - 1),
			Volume:    decimal.NewFromInt(1000),
			Timestamp: testNow.AddDate(0, 0, -n+i),
		})
		price++
	}
	return series
}

func newTestBacktest(t *testing.T, names ...string) *BacktestEngine {
	t.Helper()
	e := NewBacktestEngine()
	e.now = func() time.Time { return testNow }
	for _, name := range names {
		legs := []types.OptionLeg{leg(types.KindPut, 95, 1, 30), leg(types.KindPut, 105, -1, 30)}
		if err := e.AddStrategy(name, legs); err != nil {
			t.Fatal(err)
		}
	}
	return e
}

func TestBacktestEngine_AddStrategy(t *testing.T) {
	e := newTestBacktest(t, "spread")

	if err := e.AddStrategy("spread", nil); !errors.Is(err, ErrDuplicateStrategy) {
		t.Errorf("duplicate AddStrategy() error = %v, want ErrDuplicateStrategy", err)
	}
	if err := e.AddStrategy("", nil); err == nil {
		t.Error("empty name accepted, want error")
	}
	if _, ok := e.Strategy("spread"); !ok {
		t.Error("registered strategy not found")
	}
}

func TestBacktestEngine_RunBacktest(t *testing.T) {
	e := newTestBacktest(t, "alpha", "beta")
	series := testSeries(3)

	rows, err := e.RunBacktest(nil, series, 0.2, 0.05)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 6 {
		t.Fatalf("got %d rows, want 6", len(rows))
	}

	// All rows for one strategy come before the next, in registration
	// order, chronological within each strategy.
	wantStrategies := []string{"alpha", "alpha", "alpha", "beta", "beta", "beta"}
	for i, row := range rows {
		if row.Strategy != wantStrategies[i] {
			t.Errorf("row %d strategy = %q, want %q", i, row.Strategy, wantStrategies[i])
		}
	}
	for i := 1; i < 3; i++ {
		if rows[i].Date.Before(rows[i-1].Date) {
			t.Errorf("rows out of chronological order at %d", i)
		}
	}
	if rows[0].ImpliedVol != 0.2 {
		t.Errorf("implied vol column = %v, want the run constant 0.2", rows[0].ImpliedVol)
	}
}

func TestBacktestEngine_RunBacktestSelection(t *testing.T) {
	e := newTestBacktest(t, "alpha", "beta")
	series := testSeries(2)

	rows, err := e.RunBacktest([]string{"beta"}, series, 0.2, 0.05)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	for _, row := range rows {
		if row.Strategy != "beta" {
			t.Errorf("row strategy = %q, want beta", row.Strategy)
		}
	}
}

func TestBacktestEngine_RunBacktestErrors(t *testing.T) {
	e := newTestBacktest(t, "alpha")

	if _, err := e.RunBacktest(nil, nil, 0.2, 0.05); !errors.Is(err, ErrEmptySeries) {
		t.Errorf("empty series error = %v, want ErrEmptySeries", err)
	}
	if _, err := e.RunBacktest([]string{"ghost"}, testSeries(2), 0.2, 0.05); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("unknown strategy error = %v, want ErrUnknownStrategy", err)
	}
	if _, err := e.RunBacktest(nil, testSeries(2), 0, 0.05); !errors.Is(err, ErrNonPositiveVolatility) {
		t.Errorf("zero volatility error = %v, want ErrNonPositiveVolatility", err)
	}
}
