package engine

import (
	"fmt"
	"time"

	"optionslab/types"
)

// RuleConfig enumerates the recognized strategy-rule fields. Construction
// rejects unknown fields so a typo fails immediately, not at first use.
type RuleConfig struct {
	Threshold    float64 // relative move that triggers a signal, e.g. 0.01
	PositionSize int64
	MaxPositions int
}

// ParseRuleConfig builds a RuleConfig from loosely-typed configuration.
func ParseRuleConfig(raw map[string]any) (RuleConfig, error) {
	cfg := RuleConfig{PositionSize: 1, MaxPositions: 1}
	for key, value := range raw {
		switch key {
		case "threshold":
			v, ok := toFloat(value)
			if !ok {
				return RuleConfig{}, validationErr(key, "expected a number, got %T", value)
			}
			cfg.Threshold = v
		case "position_size":
			v, ok := toInt(value)
			if !ok {
				return RuleConfig{}, validationErr(key, "expected an integer, got %T", value)
			}
			cfg.PositionSize = v
		case "max_positions":
			v, ok := toInt(value)
			if !ok {
				return RuleConfig{}, validationErr(key, "expected an integer, got %T", value)
			}
			cfg.MaxPositions = int(v)
		default:
			return RuleConfig{}, validationErr(key, "unknown rule field")
		}
	}
	if cfg.Threshold <= 0 {
		return RuleConfig{}, validationErr("threshold", "must be positive")
	}
	return cfg, nil
}

// AtCapacity reports whether opening another position would exceed the
// rule's cap. A zero MaxPositions disables the cap.
func (c RuleConfig) AtCapacity(openPositions int) bool {
	return c.MaxPositions > 0 && openPositions >= c.MaxPositions
}

// Evaluate applies the threshold rule to recent tick history. A (zero,
// false) return means no signal this tick, which is an ordinary outcome.
func (c RuleConfig) Evaluate(history []types.MarketTick, now time.Time) (types.Signal, bool) {
	if len(history) < 2 {
		return types.Signal{}, false
	}
	latest := history[len(history)-1]
	prev := history[len(history)-2]

	prevPrice := prev.Price.InexactFloat64()
	latestPrice := latest.Price.InexactFloat64()
	if prevPrice == 0 {
		return types.Signal{}, false
	}

	switch {
	case latestPrice > prevPrice*(1+c.Threshold):
		reason := fmt.Sprintf("price increased above threshold: %v", c.Threshold)
		return types.NewSignal(latest.Symbol, types.SideSell, c.PositionSize, latest.Price, reason, now), true
	case latestPrice < prevPrice*(1-c.Threshold):
		reason := fmt.Sprintf("price decreased below threshold: %v", c.Threshold)
		return types.NewSignal(latest.Symbol, types.SideBuy, c.PositionSize, latest.Price, reason, now), true
	}
	return types.Signal{}, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n == float64(int64(n)) {
			return int64(n), true
		}
	}
	return 0, false
}
