package engine

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"optionslab/types"
)

// WriteMetricsCSV exports backtest rows to a CSV file, one row per
// strategy-day, with the header derived from the row's csv tags.
func WriteMetricsCSV(path string, rows []types.MetricsRow) error {
	if len(rows) == 0 {
		return ErrEmptySeries
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating metrics file: %w", err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return fmt.Errorf("writing metrics file: %w", err)
	}
	return nil
}
