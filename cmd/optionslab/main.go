package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"optionslab/internal/config"
	"optionslab/internal/engine"
	"optionslab/internal/marketdata"
	"optionslab/internal/repository"
	"optionslab/types"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	csvPath := flag.String("out", "", "write backtest metrics to this CSV file")
	paperFor := flag.Duration("paper", 0, "run the paper trading loop for this duration")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("loading config", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, log, *csvPath, *paperFor); err != nil {
		log.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger, csvPath string, paperFor time.Duration) error {
	now := time.Now()
	limits := engine.Limits{
		MinDaysToExpiry:  cfg.Trading.MinDaysToExpiry,
		MaxDaysToExpiry:  cfg.Trading.MaxDaysToExpiry,
		MinStrikePrice:   cfg.Trading.MinStrikePrice,
		MaxPositionSize:  cfg.Trading.MaxPositionSize,
		MaxLossThreshold: cfg.Trading.MaxLossThreshold,
	}

	expiry := now.AddDate(0, 0, 30)
	spread := types.NewCreditSpread(cfg.Market.Symbol, expiry, 95, 105, types.KindPut, 1)
	if err := engine.ValidateStrategy(spread, limits, now); err != nil {
		return fmt.Errorf("strategy rejected: %w", err)
	}

	bars, db, err := loadBars(cfg, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}
	if err := engine.ValidateBars(bars); err != nil {
		return fmt.Errorf("market data rejected: %w", err)
	}

	bt := engine.NewBacktestEngine()
	bt.ShowProgress(true)
	if err := bt.AddStrategy(spread.Name, spread.Legs); err != nil {
		return err
	}

	rows, err := bt.RunBacktest(nil, bars, cfg.Market.Volatility, cfg.Market.RiskFreeRate)
	if err != nil {
		return err
	}
	log.Info("backtest complete", "strategy", spread.Name, "rows", len(rows))

	if csvPath != "" {
		if err := engine.WriteMetricsCSV(csvPath, rows); err != nil {
			return err
		}
		log.Info("metrics written", "path", csvPath)
	}

	report, err := engine.NewReportGenerator(cfg.Market.RiskFreeRate).Generate(spread.Name, rows)
	if err != nil {
		return fmt.Errorf("risk report: %w", err)
	}
	printReport(report)

	if db != nil {
		ctx := context.Background()
		if err := db.SaveMetrics(ctx, rows); err != nil {
			return err
		}
		if err := db.SaveReport(ctx, report); err != nil {
			return err
		}
		log.Info("results persisted", "report_id", report.ID)
	}

	if paperFor > 0 {
		return runPaper(cfg, log, limits, paperFor)
	}
	return nil
}

// loadBars pulls daily bars from the database when one is configured and
// otherwise synthesizes a year of history from a seeded random walk.
func loadBars(cfg config.Config, log *slog.Logger) ([]types.Candle, *repository.Database, error) {
	if cfg.Database.Enabled {
		db, err := repository.NewDatabase(cfg.Database.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		end := time.Now()
		start := end.AddDate(-1, 0, 0)
		bars, err := db.GetDailyBars(context.Background(), cfg.Market.Symbol, start, end)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return bars, &db, nil
	}

	log.Info("no database configured, using synthetic history", "symbol", cfg.Market.Symbol)
	return syntheticBars(cfg.Market.Symbol, 252, 42), nil, nil
}

func syntheticBars(symbol string, n int, seed int64) []types.Candle {
	rng := rand.New(rand.NewSource(seed))
	price := 100.0
	day := time.Now().AddDate(0, 0, -n)

	bars := make([]types.Candle, 0, n)
	for i := 0; i < n; i++ {
		open := price
		close := open * (1 + rng.NormFloat64()*0.01)
		high := max(open, close) * (1 + rng.Float64()*0.005)
		low := min(open, close) * (1 - rng.Float64()*0.005)

		bars = append(bars, types.Candle{
			Symbol:    symbol,
			Open:      decimal.NewFromFloat(open).Round(2),
			Close:     decimal.NewFromFloat(close).Round(2),
			High:      decimal.NewFromFloat(high).Round(2),
			Low:       decimal.NewFromFloat(low).Round(2),
			Volume:    decimal.NewFromInt(1_000_000 + rng.Int63n(500_000)),
			Timestamp: day.AddDate(0, 0, i),
		})
		price = close
	}
	return bars
}

func runPaper(cfg config.Config, log *slog.Logger, limits engine.Limits, dur time.Duration) error {
	var stream marketdata.Stream
	if cfg.Stream.Source == "live" {
		stream = marketdata.NewLiveStream(marketdata.LiveConfig{
			URL:    cfg.Stream.URL,
			Symbol: cfg.Market.Symbol,
		}, log)
	} else {
		stream = marketdata.NewSyntheticStream(marketdata.SyntheticConfig{
			Symbol:  cfg.Market.Symbol,
			Cadence: time.Duration(cfg.Stream.CadenceMS) * time.Millisecond,
		})
	}
	defer stream.Stop()

	cache := marketdata.NewCache(cfg.Stream.CacheDepth)
	paper := engine.NewPaperEngine(engine.PaperConfig{
		StartingCash: decimal.NewFromFloat(cfg.Trading.StartingCash),
		FillTimeout:  time.Duration(cfg.Trading.FillTimeoutSecs) * time.Second,
		Limits:       limits,
	}, log)
	paper.Connect()
	paper.Subscribe(cfg.Market.Symbol)

	stop := make(chan struct{})
	go paper.Feed(stream, cache, stop)

	monitor := engine.NewMonitor(time.Duration(cfg.Stream.MonitorSecs)*time.Second, func() {
		paper.RefreshMarks(cache)
		summary := paper.PortfolioSummary()
		log.Info("portfolio",
			"cash", summary.CashBalance,
			"market_value", summary.MarketValue,
			"unrealized", summary.UnrealizedPnL,
			"realized", summary.RealizedPnL)
	})
	monitor.Start()
	defer monitor.Stop()

	rule := engine.RuleConfig{
		Threshold:    cfg.Strategy.Threshold,
		PositionSize: cfg.Strategy.PositionSize,
		MaxPositions: cfg.Strategy.MaxPositions,
	}

	deadline := time.After(dur)
	ticker := time.NewTicker(time.Duration(cfg.Stream.CadenceMS) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			close(stop)
			summary := paper.PortfolioSummary()
			fmt.Printf("\nPaper session finished: cash %s, realized P&L %s\n",
				summary.CashBalance, summary.RealizedPnL)
			return nil
		case <-ticker.C:
			history := cache.History(cfg.Market.Symbol, 2)
			signal, ok := rule.Evaluate(history, time.Now())
			if !ok {
				continue
			}
			qty := signal.Quantity
			if signal.Side == types.SideSell {
				qty = -qty
			}
			view := paper.View()
			if _, held := view.Positions[signal.Symbol]; !held && rule.AtCapacity(len(view.Positions)) {
				log.Info("position cap reached, skipping signal", "symbol", signal.Symbol)
				continue
			}
			order, err := paper.PlaceOrder(signal.Symbol, qty, types.KindMarket, nil)
			if err != nil {
				log.Warn("order invalid", "error", err)
				continue
			}
			if order.Status == types.OrderRejected {
				log.Warn("order rejected", "reason", order.Reason)
			}
		}
	}
}

func printReport(r engine.Report) {
	fmt.Printf("\nRisk report for %s (%s)\n", r.Strategy, r.ID)
	fmt.Printf("  total return        %10.4f\n", r.TotalReturn)
	fmt.Printf("  annualized return   %10.4f\n", r.AnnualizedReturn)
	fmt.Printf("  annualized vol      %10.4f\n", r.AnnualizedVol)
	fmt.Printf("  VaR 95 / 99         %10.4f / %.4f\n", r.VaR95, r.VaR99)
	fmt.Printf("  Sharpe / Sortino    %10.4f / %.4f\n", r.Sharpe, r.Sortino)
	fmt.Printf("  max drawdown        %10.4f\n", r.MaxDrawdown)
	fmt.Printf("  win rate            %10.4f\n", r.WinRate)
	fmt.Printf("  profit factor       %10.4f\n", r.ProfitFactor)
	fmt.Printf("  exposure            delta %.4f gamma %.4f theta %.4f vega %.4f\n",
		r.Exposure.Delta, r.Exposure.Gamma, r.Exposure.Theta, r.Exposure.Vega)
	fmt.Printf("  attribution total   %10.4f\n", r.Attribution.Total)
}
