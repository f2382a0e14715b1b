package executor

import "sync/atomic"

// Clock is a monotonic logical clock for dispatch ordering.
//
// Every unit of work executed by the Dispatcher, and every simulated
// input recorded by a trace recorder sharing this clock, is stamped
// with a strictly increasing seq number. This ensures:
// - Deterministic ordering (no wall-clock race conditions)
// - Golden traces compare byte-identically across runs
// - Causal relationships between inputs and reactions are explicit
//
// Thread-safety: Clock is safe for concurrent use (atomic operations).
// However, the Dispatcher's cooperative design means only one goroutine
// typically calls Next().
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a new clock starting at a specific sequence number.
// Used when resuming a recorded trace from a known position.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
// Calls are linearizable - each call returns a unique, increasing value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
