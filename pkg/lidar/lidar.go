// Package lidar caches the most recent laser scan and hands it out as a
// blocking-read-with-timeout snapshot.
//
// Scans arrive asynchronously at the sensor's own cadence via OnScan; reads
// are synchronous. Before the first scan a read blocks (up to its timeout);
// after that, reads return the cached snapshot immediately, stale or not.
package lidar

import (
	"sync"
	"time"
)

// Feed owns the cached scan. The snapshot is replaced wholesale on each
// arrival, so a reader always sees a fully-formed scan.
type Feed struct {
	mu     sync.RWMutex
	ranges []float64

	first chan struct{}
	once  sync.Once
}

func New() *Feed {
	return &Feed{
		first: make(chan struct{}),
	}
}

// OnScan replaces the cached snapshot and wakes any waiters. The slice is
// copied, so the producer may reuse its buffer.
func (f *Feed) OnScan(ranges []float64) {
	snapshot := make([]float64, len(ranges))
	copy(snapshot, ranges)
	f.mu.Lock()
	f.ranges = snapshot
	f.mu.Unlock()
	f.once.Do(func() { close(f.first) })
}

// Received reports whether at least one scan has ever arrived. It lets
// callers tell "no scan yet" apart from a genuinely empty scan, which the
// zero-value snapshot returned on timeout cannot.
func (f *Feed) Received() bool {
	select {
	case <-f.first:
		return true
	default:
		return false
	}
}

// Length returns the number of points in the cached scan, blocking until
// the first scan arrives or timeout elapses. A timeout <= 0 waits
// indefinitely. If the timeout elapses with no scan ever received, the
// result is 0.
func (f *Feed) Length(timeout time.Duration) int {
	f.wait(timeout)
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.ranges)
}

// Ranges returns a copy of the cached scan distances, with the same
// blocking behaviour as Length. If the timeout elapses with no scan ever
// received, the result is empty.
func (f *Feed) Ranges(timeout time.Duration) []float64 {
	f.wait(timeout)
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]float64, len(f.ranges))
	copy(out, f.ranges)
	return out
}

// wait blocks until the first scan or the timeout. Once the first scan has
// arrived the channel is closed and this returns immediately forever after.
func (f *Feed) wait(timeout time.Duration) {
	if timeout <= 0 {
		<-f.first
		return
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-f.first:
	case <-timer.C:
	}
}
