package engine

import "sync/atomic"

// Clock is a monotonic logical clock stamping simulator runs.
//
// Each run takes a strictly increasing seq from the clock. The seq is part
// of the run's random stream, so the same seed and seq replay the same
// samples regardless of wall-clock time.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations).
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock whose next value is start+1.
// Used for replay: NewClockAt(seq-1) reproduces a run stamped seq.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
