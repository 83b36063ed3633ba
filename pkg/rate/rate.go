// Package rate provides the control loop's fixed-rate tick primitive.
//
// Deadlines are computed on an absolute schedule rather than by sleeping a
// fixed duration after each tick, so per-tick processing time and sleep
// jitter do not accumulate into drift. A badly missed deadline skips whole
// intervals to catch up without firing a burst of late ticks.
package rate

import (
	"context"
	"time"
)

// Ticker tracks the next deadline on an absolute schedule. Not safe for
// concurrent use; the control loop is its only caller.
type Ticker struct {
	interval time.Duration
	next     time.Time
}

// NewTicker creates a ticker firing every interval. The schedule's origin
// is the first call to Wait.
func NewTicker(interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = time.Millisecond
	}
	return &Ticker{interval: interval}
}

// Interval returns the tick interval.
func (t *Ticker) Interval() time.Duration {
	return t.interval
}

// Wait blocks until the next deadline on the schedule, or until ctx is
// cancelled (returning ctx.Err()). If the caller overran one or more full
// intervals, the missed deadlines are skipped: the next wait targets the
// first schedule point still in the future, keeping the original phase.
func (t *Ticker) Wait(ctx context.Context) error {
	now := time.Now()
	if t.next.IsZero() {
		t.next = now
	}
	t.next = t.next.Add(t.interval)
	if behind := now.Sub(t.next); behind >= 0 {
		missed := int64(behind/t.interval) + 1
		t.next = t.next.Add(time.Duration(missed) * t.interval)
	}

	timer := time.NewTimer(time.Until(t.next))
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
