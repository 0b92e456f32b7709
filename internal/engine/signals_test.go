package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"optionslab/types"
)

func TestParseRuleConfig(t *testing.T) {
	tests := []struct {
		name    string
		raw     map[string]any
		want    RuleConfig
		wantErr bool
	}{
		{
			"full config",
			map[string]any{"threshold": 0.02, "position_size": 5, "max_positions": 3},
			RuleConfig{Threshold: 0.02, PositionSize: 5, MaxPositions: 3},
			false,
		},
		{
			"defaults fill in",
			map[string]any{"threshold": 0.01},
			RuleConfig{Threshold: 0.01, PositionSize: 1, MaxPositions: 1},
			false,
		},
		{"unknown field", map[string]any{"threshold": 0.01, "treshold": 0.02}, RuleConfig{}, true},
		{"wrong type", map[string]any{"threshold": "high"}, RuleConfig{}, true},
		{"fractional position size", map[string]any{"threshold": 0.01, "position_size": 1.5}, RuleConfig{}, true},
		{"missing threshold", map[string]any{"position_size": 2}, RuleConfig{}, true},
		{"negative threshold", map[string]any{"threshold": -0.01}, RuleConfig{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRuleConfig(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRuleConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseRuleConfig() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRuleConfig_AtCapacity(t *testing.T) {
	tests := []struct {
		name string
		max  int
		open int
		want bool
	}{
		{"below cap", 3, 2, false},
		{"at cap", 3, 3, true},
		{"above cap", 3, 4, true},
		{"zero disables cap", 0, 100, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := RuleConfig{Threshold: 0.01, MaxPositions: tt.max}
			if got := rule.AtCapacity(tt.open); got != tt.want {
				t.Errorf("AtCapacity(%d) = %v, want %v", tt.open, got, tt.want)
			}
		})
	}
}

func signalTick(price float64) types.MarketTick {
	return types.MarketTick{Symbol: "SPY", Price: decimal.NewFromFloat(price)}
}

func TestRuleConfig_Evaluate(t *testing.T) {
	rule := RuleConfig{Threshold: 0.01, PositionSize: 2}
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		history  []types.MarketTick
		wantSide types.Side
		wantHit  bool
	}{
		{"sharp rise sells", []types.MarketTick{signalTick(100), signalTick(101.5)}, types.SideSell, true},
		{"sharp drop buys", []types.MarketTick{signalTick(100), signalTick(98.5)}, types.SideBuy, true},
		{"small move is quiet", []types.MarketTick{signalTick(100), signalTick(100.5)}, "", false},
		{"exact threshold is quiet", []types.MarketTick{signalTick(100), signalTick(101)}, "", false},
		{"not enough history", []types.MarketTick{signalTick(100)}, "", false},
		{"zero previous price", []types.MarketTick{signalTick(0), signalTick(100)}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signal, ok := rule.Evaluate(tt.history, now)
			if ok != tt.wantHit {
				t.Fatalf("Evaluate() hit = %v, want %v", ok, tt.wantHit)
			}
			if !ok {
				return
			}
			if signal.Side != tt.wantSide {
				t.Errorf("side = %v, want %v", signal.Side, tt.wantSide)
			}
			if signal.Quantity != rule.PositionSize {
				t.Errorf("quantity = %d, want %d", signal.Quantity, rule.PositionSize)
			}
			if signal.Symbol != "SPY" || signal.Reason == "" {
				t.Errorf("signal = %+v, want symbol and reason populated", signal)
			}
		})
	}
}
