package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"optionslab/internal/engine"
	"optionslab/types"
)

const dailyBarsQuery = `
SELECT symbol, open, close, high, low, volume, ts
FROM daily_bars
WHERE symbol = $1 AND ts BETWEEN $2 AND $3
ORDER BY ts ASC`

const insertMetricsQuery = `
INSERT INTO backtest_metrics
  (date, strategy, price, pnl, delta, gamma, theta, vega, implied_volatility)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

const insertReportQuery = `
INSERT INTO risk_reports
  (id, strategy, total_return, annualized_return, annualized_volatility,
   var_95, var_99, sharpe_ratio, sortino_ratio, max_drawdown,
   win_rate, profit_factor, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

type queries struct {
	conn *pgxpool.Pool
}

func (q queries) DailyBars(ctx context.Context, symbol string, start, end time.Time) ([]barRow, error) {
	rows, err := q.conn.Query(ctx, dailyBarsQuery, symbol, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (barRow, error) {
		var b barRow
		err := row.Scan(&b.Symbol, &b.Open, &b.Close, &b.High, &b.Low, &b.Volume, &b.Timestamp)
		return b, err
	})
}

func (q queries) InsertMetrics(ctx context.Context, rows []types.MetricsRow) error {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(insertMetricsQuery,
			r.Date, r.Strategy, r.Price, r.PnL,
			r.Delta, r.Gamma, r.Theta, r.Vega, r.ImpliedVol)
	}
	return q.conn.SendBatch(ctx, batch).Close()
}

func (q queries) InsertReport(ctx context.Context, report engine.Report) error {
	_, err := q.conn.Exec(ctx, insertReportQuery,
		report.ID, report.Strategy, report.TotalReturn, report.AnnualizedReturn,
		report.AnnualizedVol, report.VaR95, report.VaR99, report.Sharpe,
		report.Sortino, report.MaxDrawdown, report.WinRate, report.ProfitFactor,
		time.Now())
	return err
}
