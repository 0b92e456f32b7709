// Package marketdata produces and caches per-symbol tick streams. A stream
// is a lazy, cancellable sequence of ticks for one symbol: live (websocket)
// and synthetic implementations satisfy the same interface, so consumers
// never care which one configuration selected.
package marketdata

import "optionslab/types"

// Stream emits time-ordered ticks for a single symbol until stopped. A
// stream cannot be paused or restarted; create a new instance instead.
// Stop halts future emissions but does not retract ticks already queued
// on the channel.
type Stream interface {
	// Ticks returns the emission channel. It is closed after Stop, or
	// after a fatal producer failure.
	Ticks() <-chan types.MarketTick

	// Err reports the failure that terminated the producer, if any.
	// Producer failures must surface here rather than being swallowed.
	Err() error

	// Stop signals the producer to halt. Safe to call more than once.
	Stop()
}
