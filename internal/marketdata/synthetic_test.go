package marketdata

import (
	"testing"
	"time"
)

func TestSyntheticStream_ProducesWellFormedTicks(t *testing.T) {
	s := NewSyntheticStream(SyntheticConfig{
		Symbol:  "SPY",
		Cadence: time.Millisecond,
		Seed:    7,
	})
	defer s.Stop()

	for i := 0; i < 5; i++ {
		select {
		case tick := <-s.Ticks():
			if tick.Symbol != "SPY" {
				t.Errorf("symbol = %q, want SPY", tick.Symbol)
			}
			if tick.Price.IsZero() {
				t.Error("price should not be zero near the baseline")
			}
			if !tick.Bid.LessThan(tick.Ask) {
				t.Errorf("bid %s not below ask %s", tick.Bid, tick.Ask)
			}
			if tick.Volume < 0 {
				t.Errorf("volume = %d, want non-negative", tick.Volume)
			}
			if tick.ImpliedVol <= 0 {
				t.Errorf("implied vol = %v, want positive", tick.ImpliedVol)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for tick")
		}
	}
	if s.Err() != nil {
		t.Errorf("Err() = %v, want nil", s.Err())
	}
}

func TestSyntheticStream_StopClosesFeed(t *testing.T) {
	s := NewSyntheticStream(SyntheticConfig{Symbol: "SPY", Cadence: time.Millisecond})
	s.Stop()
	s.Stop() // idempotent

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-s.Ticks():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("feed never closed after Stop")
		}
	}
}

func TestSyntheticStream_DeterministicWithSeed(t *testing.T) {
	a := NewSyntheticStream(SyntheticConfig{Symbol: "SPY", Cadence: time.Millisecond, Seed: 42})
	b := NewSyntheticStream(SyntheticConfig{Symbol: "SPY", Cadence: time.Millisecond, Seed: 42})
	defer a.Stop()
	defer b.Stop()

	for i := 0; i < 3; i++ {
		ta := <-a.Ticks()
		tb := <-b.Ticks()
		if !ta.Price.Equal(tb.Price) {
			t.Fatalf("tick %d prices diverge: %s vs %s", i, ta.Price, tb.Price)
		}
		if ta.Volume != tb.Volume {
			t.Fatalf("tick %d volumes diverge: %d vs %d", i, ta.Volume, tb.Volume)
		}
	}
}
