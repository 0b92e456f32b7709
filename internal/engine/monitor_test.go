package engine

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestMonitor_PollsOnCadence(t *testing.T) {
	var count atomic.Int64
	m := NewMonitor(5*time.Millisecond, func() { count.Add(1) })
	m.Start()
	time.Sleep(40 * time.Millisecond)
	m.Stop()

	got := count.Load()
	if got == 0 {
		t.Fatal("monitor never polled")
	}
	// No polls after Stop returns.
	time.Sleep(20 * time.Millisecond)
	if count.Load() != got {
		t.Error("monitor polled after Stop")
	}
}

func TestMonitor_StopWithoutStart(t *testing.T) {
	m := NewMonitor(time.Second, func() {})
	done := make(chan struct{})
	go func() {
		m.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked without a running loop")
	}
}

func TestMonitor_StopIsIdempotent(t *testing.T) {
	m := NewMonitor(time.Millisecond, func() {})
	m.Start()
	m.Stop()
	m.Stop()
}

func TestMonitor_PollRunsSynchronously(t *testing.T) {
	var count int
	m := NewMonitor(time.Hour, func() { count++ })
	m.Poll()
	m.Poll()
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}
