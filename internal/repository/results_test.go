package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"optionslab/internal/engine"
	"optionslab/types"
)

type mockResultsRepository struct {
	insertErr   error
	gotMetrics  int
	gotStrategy string
}

func (m *mockResultsRepository) InsertMetrics(_ context.Context, rows []types.MetricsRow) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.gotMetrics = len(rows)
	return nil
}

func (m *mockResultsRepository) InsertReport(_ context.Context, report engine.Report) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.gotStrategy = report.Strategy
	return nil
}

func TestDatabase_SaveMetrics(t *testing.T) {
	rows := []types.MetricsRow{
		{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Strategy: "Bull Put Spread", Price: 100, PnL: 1.5},
		{Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Strategy: "Bull Put Spread", Price: 101, PnL: 1.7},
	}

	t.Run("should persist all rows", func(t *testing.T) {
		mock := &mockResultsRepository{}
		db := &Database{results: mock}
		if err := db.SaveMetrics(context.Background(), rows); err != nil {
			t.Fatalf("SaveMetrics() unexpected error: %v", err)
		}
		if mock.gotMetrics != len(rows) {
			t.Errorf("SaveMetrics() persisted %d rows, want %d", mock.gotMetrics, len(rows))
		}
	})

	t.Run("should throw ErrNoMetrics on empty input", func(t *testing.T) {
		db := &Database{results: &mockResultsRepository{}}
		if err := db.SaveMetrics(context.Background(), nil); !errors.Is(err, ErrNoMetrics) {
			t.Errorf("SaveMetrics() error = %v, want ErrNoMetrics", err)
		}
	})

	t.Run("should propagate insert errors", func(t *testing.T) {
		insertErr := errors.New("deadlock detected")
		db := &Database{results: &mockResultsRepository{insertErr: insertErr}}
		if err := db.SaveMetrics(context.Background(), rows); !errors.Is(err, insertErr) {
			t.Errorf("SaveMetrics() error = %v, want %v", err, insertErr)
		}
	})
}

func TestDatabase_SaveReport(t *testing.T) {
	mock := &mockResultsRepository{}
	db := &Database{results: mock}
	report := engine.Report{Strategy: "Bear Call Spread", Sharpe: 1.2}
	if err := db.SaveReport(context.Background(), report); err != nil {
		t.Fatalf("SaveReport() unexpected error: %v", err)
	}
	if mock.gotStrategy != report.Strategy {
		t.Errorf("SaveReport() strategy = %q, want %q", mock.gotStrategy, report.Strategy)
	}
}
