package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

// Monitor runs a poll function on a fixed cadence until stopped. It
// replaces sleep-loop polling with an explicit, cancellable periodic task:
// tests call Poll directly instead of waiting out the interval.
type Monitor struct {
	interval time.Duration
	poll     func()

	started  atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewMonitor(interval time.Duration, poll func()) *Monitor {
	if interval <= 0 {
		interval = time.Second
	}
	return &Monitor{
		interval: interval,
		poll:     poll,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the poll loop. Stop latency is bounded by the interval.
func (m *Monitor) Start() {
	if !m.started.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer close(m.done)
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-m.stop:
				return
			case <-ticker.C:
				m.poll()
			}
		}
	}()
}

// Stop signals the loop and waits for it to exit. Safe to call repeatedly.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
	if m.started.Load() {
		<-m.done
	}
}

// Poll runs the poll body once, synchronously.
func (m *Monitor) Poll() { m.poll() }
