package renderer

import (
	"context"
	"time"
)

// Ticker is a FrameRequester that fires on a fixed interval. It stands in
// for a display refresh when there is no window. Callbacks run on the
// goroutine that calls Run, RunFrames or Fire.
type Ticker struct {
	interval  time.Duration
	pending   func() bool
	presented int
}

// NewTicker creates a ticker firing every interval.
func NewTicker(interval time.Duration) *Ticker {
	return &Ticker{interval: interval}
}

func (t *Ticker) RequestFrame(fn func() bool) {
	t.pending = fn
}

func (t *Ticker) CancelFrame() {
	t.pending = nil
}

// Pending reports whether a callback is waiting to be fired.
func (t *Ticker) Pending() bool {
	return t.pending != nil
}

// Fire runs the pending callback, if any, and reports whether one ran.
func (t *Ticker) Fire() bool {
	fn := t.pending
	if fn == nil {
		return false
	}
	t.pending = nil
	if fn() {
		t.presented++
	}
	return true
}

// Presented returns how many fired callbacks reported a frame to present.
func (t *Ticker) Presented() int {
	return t.presented
}

// RunFrames fires up to n callbacks back to back without waiting and returns
// how many ran.
func (t *Ticker) RunFrames(n int) int {
	fired := 0
	for fired < n && t.Fire() {
		fired++
	}
	return fired
}

// Run fires the pending callback once per interval until ctx is done or no
// callback is pending.
func (t *Ticker) Run(ctx context.Context) error {
	tick := time.NewTicker(t.interval)
	defer tick.Stop()

	for t.Pending() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
			t.Fire()
		}
	}
	return nil
}
