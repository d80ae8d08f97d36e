package resource

import (
	"sync/atomic"
	"time"
)

// Timer is a one-shot scheduled callback with idempotent cancellation.
// Cancelling after the callback fired is a no-op; cancelling before
// guarantees it never fires, even if the firing was already scheduled.
type Timer struct {
	timer     *time.Timer
	cancelled atomic.Bool
	fired     atomic.Bool
}

// NewTimer schedules fn to run once after delay.
func NewTimer(fn func(), delay time.Duration) *Timer {
	t := &Timer{}
	t.timer = time.AfterFunc(delay, func() {
		if t.cancelled.Load() {
			return
		}
		t.fired.Store(true)
		fn()
	})
	return t
}

// Cancel prevents a pending firing. Safe to call more than once.
func (t *Timer) Cancel() {
	if t.cancelled.Swap(true) {
		return
	}
	t.timer.Stop()
}

// Fired reports whether the callback has run.
func (t *Timer) Fired() bool {
	return t.fired.Load()
}

// Cancelled reports whether the timer was cancelled.
func (t *Timer) Cancelled() bool {
	return t.cancelled.Load()
}
