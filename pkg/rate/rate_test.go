package rate

import (
	"context"
	"testing"
	"time"
)

func TestWaitHoldsTheCadence(t *testing.T) {
	const interval = 20 * time.Millisecond
	ticker := NewTicker(interval)

	start := time.Now()
	for i := 0; i < 5; i++ {
		if err := ticker.Wait(context.Background()); err != nil {
			t.Fatalf("wait %d failed: %v", i, err)
		}
	}
	elapsed := time.Since(start)

	// 5 ticks on an absolute schedule: ~5 intervals total, not 5
	// intervals plus accumulated per-tick overhead.
	if elapsed < 5*interval-interval/2 {
		t.Errorf("5 ticks finished too fast: %v", elapsed)
	}
	if elapsed > 5*interval+5*interval/2 {
		t.Errorf("5 ticks drifted: %v", elapsed)
	}
}

func TestOverrunSkipsMissedDeadlinesWithoutBurst(t *testing.T) {
	const interval = 10 * time.Millisecond
	ticker := NewTicker(interval)

	if err := ticker.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}

	// Overrun by several intervals, as a stalled update action would.
	time.Sleep(4 * interval)

	// The next wait must land on a future schedule point, not return a
	// burst of immediate catch-up ticks.
	start := time.Now()
	if err := ticker.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}
	first := time.Since(start)
	if first > interval+interval/2 {
		t.Errorf("post-overrun wait took %v, want at most ~one interval", first)
	}

	start = time.Now()
	if err := ticker.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}
	second := time.Since(start)
	if second < interval/4 {
		t.Errorf("tick after catch-up fired immediately (%v): burst not suppressed", second)
	}
}

func TestSchedulePhaseIsPreservedAcrossOverrun(t *testing.T) {
	const interval = 10 * time.Millisecond
	ticker := NewTicker(interval)
	if err := ticker.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}
	origin := ticker.next

	time.Sleep(3*interval + interval/2)
	if err := ticker.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}

	// The new deadline must still sit on the original schedule.
	if offset := ticker.next.Sub(origin) % interval; offset != 0 {
		t.Errorf("deadline drifted off the schedule by %v", offset)
	}
}

func TestCancelUnblocksWait(t *testing.T) {
	ticker := NewTicker(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- ticker.Wait(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("got %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after cancellation")
	}
}

func TestNonPositiveIntervalIsSanitised(t *testing.T) {
	ticker := NewTicker(0)
	if ticker.Interval() <= 0 {
		t.Errorf("interval not sanitised: %v", ticker.Interval())
	}
}
