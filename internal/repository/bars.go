package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"optionslab/types"
)

type barRow struct {
	Symbol    string
	Open      decimal.Decimal
	Close     decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Volume    decimal.Decimal
	Timestamp time.Time
}

// GetDailyBars loads the daily bars for a symbol over [start, end],
// oldest first.
func (db *Database) GetDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]types.Candle, error) {
	rows, err := db.bars.DailyBars(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoBars
	}
	return convertBars(rows), nil
}

func convertBars(rows []barRow) []types.Candle {
	var candles []types.Candle
	for _, row := range rows {
		candles = append(candles, types.Candle{
			Symbol:    row.Symbol,
			Open:      row.Open,
			Close:     row.Close,
			High:      row.High,
			Low:       row.Low,
			Volume:    row.Volume,
			Timestamp: row.Timestamp,
		})
	}
	return candles
}
