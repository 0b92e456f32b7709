// Package config loads application settings from a YAML file with sane
// defaults for every field. Unknown keys are rejected so a typo in the file
// surfaces at startup instead of silently falling back to a default.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/viper"
)

type Market struct {
	Symbol       string  `mapstructure:"symbol"`
	RiskFreeRate float64 `mapstructure:"risk_free_rate"`
	Volatility   float64 `mapstructure:"volatility"`
	OpenTime     string  `mapstructure:"open_time"`
	CloseTime    string  `mapstructure:"close_time"`
}

type Strategy struct {
	Threshold    float64 `mapstructure:"threshold"`
	PositionSize int64   `mapstructure:"position_size"`
	MaxPositions int     `mapstructure:"max_positions"`
}

type Trading struct {
	StartingCash     float64 `mapstructure:"starting_cash"`
	MinDaysToExpiry  int     `mapstructure:"min_days_to_expiry"`
	MaxDaysToExpiry  int     `mapstructure:"max_days_to_expiry"`
	MinStrikePrice   float64 `mapstructure:"min_strike_price"`
	MaxPositionSize  int64   `mapstructure:"max_position_size"`
	MaxLossThreshold float64 `mapstructure:"max_loss_threshold"`
	FillTimeoutSecs  int     `mapstructure:"fill_timeout_seconds"`
}

type Stream struct {
	Source      string `mapstructure:"source"` // "synthetic" or "live"
	URL         string `mapstructure:"url"`
	CadenceMS   int    `mapstructure:"cadence_ms"`
	CacheDepth  int    `mapstructure:"cache_depth"`
	MonitorSecs int    `mapstructure:"monitor_interval_seconds"`
}

type Database struct {
	URL     string `mapstructure:"url"`
	Enabled bool   `mapstructure:"enabled"`
}

type Config struct {
	Market   Market   `mapstructure:"market"`
	Strategy Strategy `mapstructure:"strategy"`
	Trading  Trading  `mapstructure:"trading"`
	Stream   Stream   `mapstructure:"stream"`
	Database Database `mapstructure:"database"`
}

// Load reads configuration from path. A missing or empty path falls back to
// the defaults; a malformed file or an unknown key is an error.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.UnmarshalExact(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("market.symbol", "SPY")
	v.SetDefault("market.risk_free_rate", 0.05)
	v.SetDefault("market.volatility", 0.20)
	v.SetDefault("market.open_time", "09:30")
	v.SetDefault("market.close_time", "16:00")

	v.SetDefault("strategy.threshold", 0.01)
	v.SetDefault("strategy.position_size", 1)
	v.SetDefault("strategy.max_positions", 1)

	v.SetDefault("trading.starting_cash", 100000.0)
	v.SetDefault("trading.min_days_to_expiry", 7)
	v.SetDefault("trading.max_days_to_expiry", 45)
	v.SetDefault("trading.min_strike_price", 1.0)
	v.SetDefault("trading.max_position_size", 10)
	v.SetDefault("trading.max_loss_threshold", 0.5)
	v.SetDefault("trading.fill_timeout_seconds", 5)

	v.SetDefault("stream.source", "synthetic")
	v.SetDefault("stream.url", "")
	v.SetDefault("stream.cadence_ms", 1000)
	v.SetDefault("stream.cache_depth", 1000)
	v.SetDefault("stream.monitor_interval_seconds", 5)

	v.SetDefault("database.url", "")
	v.SetDefault("database.enabled", false)
}

func (c Config) validate() error {
	if c.Market.Symbol == "" {
		return errors.New("market.symbol must not be empty")
	}
	if c.Strategy.Threshold <= 0 {
		return errors.New("strategy.threshold must be positive")
	}
	if c.Trading.StartingCash <= 0 {
		return errors.New("trading.starting_cash must be positive")
	}
	if c.Trading.MinDaysToExpiry > c.Trading.MaxDaysToExpiry {
		return errors.New("trading.min_days_to_expiry exceeds max_days_to_expiry")
	}
	if c.Stream.Source != "synthetic" && c.Stream.Source != "live" {
		return fmt.Errorf("stream.source %q not supported", c.Stream.Source)
	}
	if c.Stream.Source == "live" && c.Stream.URL == "" {
		return errors.New("stream.url required for live source")
	}
	return nil
}
