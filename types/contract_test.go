package types

import (
	"strings"
	"testing"
	"time"
)

func TestNewCreditSpread(t *testing.T) {
	expiry := time.Date(2024, 4, 19, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		kind     OptionKind
		wantName string
	}{
		{"put spread is bull put", KindPut, "Bull Put Spread SPY"},
		{"call spread is bear call", KindCall, "Bear Call Spread SPY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewCreditSpread("SPY", expiry, 95, 105, tt.kind, 2)
			if s.Name != tt.wantName {
				t.Errorf("name = %q, want %q", s.Name, tt.wantName)
			}
			if len(s.Legs) != 2 {
				t.Fatalf("legs = %d, want 2", len(s.Legs))
			}
			long, short := s.Legs[0], s.Legs[1]
			if long.Contracts != 2 || long.Strike != 95 {
				t.Errorf("long leg = %+v, want 2 contracts at 95", long)
			}
			if short.Contracts != -2 || short.Strike != 105 {
				t.Errorf("short leg = %+v, want -2 contracts at 105", short)
			}
			for i, leg := range s.Legs {
				if leg.Kind != tt.kind || leg.Symbol != "SPY" || !leg.Expiry.Equal(expiry) {
					t.Errorf("leg %d = %+v, want kind %s on SPY expiring %s", i, leg, tt.kind, expiry)
				}
			}
			if !strings.Contains(s.Description, "long 95") {
				t.Errorf("description = %q, want the strikes mentioned", s.Description)
			}
		})
	}
}

func TestStrategy_AddLeg(t *testing.T) {
	s := NewStrategy("iron condor", "four legs")
	for i := 0; i < 4; i++ {
		s.AddLeg(OptionLeg{Symbol: "SPY", Strike: float64(90 + i*5)})
	}
	if len(s.Legs) != 4 {
		t.Errorf("legs = %d, want 4", len(s.Legs))
	}
}
