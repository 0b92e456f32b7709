package repository

import (
	"context"

	"optionslab/internal/engine"
	"optionslab/types"
)

// SaveMetrics persists backtest metric rows.
func (db *Database) SaveMetrics(ctx context.Context, rows []types.MetricsRow) error {
	if len(rows) == 0 {
		return ErrNoMetrics
	}
	return db.results.InsertMetrics(ctx, rows)
}

// SaveReport persists a generated risk report.
func (db *Database) SaveReport(ctx context.Context, report engine.Report) error {
	return db.results.InsertReport(ctx, report)
}
