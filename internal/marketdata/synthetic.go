package marketdata

import (
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	exprand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"optionslab/types"
)

// SyntheticConfig drives the random-walk tick generator.
type SyntheticConfig struct {
	Symbol   string
	Baseline float64       // walk center, e.g. 100
	StepDev  float64       // per-tick price move stddev, e.g. 1.0
	MeanVol  float64       // mean of the exponential volume draw, e.g. 1000
	BaseIV   float64       // implied-volatility proxy center, e.g. 0.2
	Cadence  time.Duration // nominal one second
	Seed     int64
}

func (c *SyntheticConfig) defaults() {
	if c.Baseline == 0 {
		c.Baseline = 100
	}
	if c.StepDev == 0 {
		c.StepDev = 1.0
	}
	if c.MeanVol == 0 {
		c.MeanVol = 1000
	}
	if c.BaseIV == 0 {
		c.BaseIV = 0.2
	}
	if c.Cadence == 0 {
		c.Cadence = time.Second
	}
}

// SyntheticStream generates ticks as a gaussian random walk around the
// baseline, with bid/ask pinned one cent either side of the price and
// volume drawn from an exponential distribution.
type SyntheticStream struct {
	cfg SyntheticConfig

	out      chan types.MarketTick
	stop     chan struct{}
	stopOnce sync.Once
}

func NewSyntheticStream(cfg SyntheticConfig) *SyntheticStream {
	cfg.defaults()
	s := &SyntheticStream{
		cfg:  cfg,
		out:  make(chan types.MarketTick, 64),
		stop: make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *SyntheticStream) run() {
	defer close(s.out)

	rng := rand.New(rand.NewSource(s.cfg.Seed))
	volume := distuv.Exponential{Rate: 1 / s.cfg.MeanVol, Src: exprand.NewSource(uint64(s.cfg.Seed) + 1)}

	ticker := time.NewTicker(s.cfg.Cadence)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			price := s.cfg.Baseline + rng.NormFloat64()*s.cfg.StepDev
			tick := types.MarketTick{
				Symbol:     s.cfg.Symbol,
				Timestamp:  now.UTC(),
				Price:      decimal.NewFromFloat(price).Round(4),
				Bid:        decimal.NewFromFloat(price - 0.01).Round(4),
				Ask:        decimal.NewFromFloat(price + 0.01).Round(4),
				Volume:     int64(volume.Rand()),
				ImpliedVol: s.cfg.BaseIV + rng.NormFloat64()*0.01,
			}
			select {
			case s.out <- tick:
			case <-s.stop:
				return
			}
		}
	}
}

func (s *SyntheticStream) Ticks() <-chan types.MarketTick { return s.out }

// Err is always nil for the synthetic generator; it has no upstream to lose.
func (s *SyntheticStream) Err() error { return nil }

func (s *SyntheticStream) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}
