package engine

import "sync/atomic"

// Clock is the monotonic tick counter.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations).
// However, the Framework's single-writer design means only one goroutine
// calls Next().
type Clock struct {
	tick atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a new clock starting at a specific tick.
// Used to resume sequence numbering from a persisted journal.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.tick.Store(start)
	return c
}

// Next advances the clock and returns the new tick.
func (c *Clock) Next() int64 {
	return c.tick.Add(1)
}

// Current returns the current tick without advancing.
func (c *Clock) Current() int64 {
	return c.tick.Load()
}
