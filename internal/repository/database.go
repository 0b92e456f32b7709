package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"optionslab/internal/engine"
	"optionslab/types"
)

// Global error declarations.
var (
	ErrNoBars    = errors.New("no bars found in datasource")
	ErrNoMetrics = errors.New("no metric rows to save")
)

type barsRepository interface {
	DailyBars(ctx context.Context, symbol string, start, end time.Time) ([]barRow, error)
}
type resultsRepository interface {
	InsertMetrics(ctx context.Context, rows []types.MetricsRow) error
	InsertReport(ctx context.Context, report engine.Report) error
}

// Database struct that holds the database connection and queries.
type Database struct {
	bars    barsRepository
	results resultsRepository
	conn    *pgxpool.Pool
}

// NewDatabase creates a new Database instance and verifies connectivity.
func NewDatabase(dbURL string) (Database, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return Database{}, fmt.Errorf("parse config: %w", err)
	}
	// Register shopspring decimal
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	conn, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return Database{}, err
	}
	// Ensure the connection is established.
	if err := conn.Ping(context.Background()); err != nil {
		return Database{}, err
	}

	q := queries{conn: conn}
	return Database{
		bars:    q,
		results: q,
		conn:    conn}, nil
}

// Close releases the connection pool.
func (db *Database) Close() {
	if db.conn != nil {
		db.conn.Close()
	}
}
