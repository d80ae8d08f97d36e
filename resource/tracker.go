package resource

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CleanupFunc releases one resource. It takes no arguments and reports
// failure by panicking; the tracker recovers and logs.
type CleanupFunc func()

// AsyncCleanupFunc releases one resource and may block. It is only run
// by DisposeAsync.
type AsyncCleanupFunc func(ctx context.Context) error

// Tracker owns pending cleanup actions, scheduled timers, and spawned
// background tasks, and releases them all exactly once on disposal.
type Tracker struct {
	mu            sync.Mutex
	disposed      bool
	cleanups      []CleanupFunc
	asyncCleanups []AsyncCleanupFunc
	timers        []*Timer
	tasks         map[uuid.UUID]*Task

	logger zerolog.Logger
}

// NewTracker creates an empty tracker.
func NewTracker(opts ...TrackerOption) *Tracker {
	tr := &Tracker{
		tasks:  make(map[uuid.UUID]*Task),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(tr)
	}
	return tr
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithLogger sets the logger used to report cleanup failures.
func WithLogger(logger zerolog.Logger) TrackerOption {
	return func(tr *Tracker) {
		tr.logger = logger.With().Str("component", "resource_tracker").Logger()
	}
}

// Track registers a synchronous cleanup action to run on disposal.
func (tr *Tracker) Track(fn CleanupFunc) error {
	if fn == nil {
		return ErrNilCleanup
	}
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if tr.disposed {
		return ErrTrackerDisposed
	}
	tr.cleanups = append(tr.cleanups, fn)
	return nil
}

// TrackAsync registers an asynchronous cleanup action to run on
// DisposeAsync. The synchronous Dispose path does not run it.
func (tr *Tracker) TrackAsync(fn AsyncCleanupFunc) error {
	if fn == nil {
		return ErrNilCleanup
	}
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if tr.disposed {
		return ErrTrackerDisposed
	}
	tr.asyncCleanups = append(tr.asyncCleanups, fn)
	return nil
}

// TrackTimer registers a timer for cancellation on disposal and returns
// a cleanup token that cancels it early. The token is idempotent.
func (tr *Tracker) TrackTimer(t *Timer) (CleanupFunc, error) {
	tr.mu.Lock()
	if tr.disposed {
		tr.mu.Unlock()
		return nil, ErrTrackerDisposed
	}
	tr.timers = append(tr.timers, t)
	tr.mu.Unlock()
	return t.Cancel, nil
}

// TrackTask registers a running task. Tracking is weak: a task that
// finishes on its own removes itself and does not accumulate.
func (tr *Tracker) TrackTask(t *Task) error {
	tr.mu.Lock()
	if tr.disposed {
		tr.mu.Unlock()
		return ErrTrackerDisposed
	}
	tr.tasks[t.id] = t
	tr.mu.Unlock()

	t.onFinish(func() { tr.forgetTask(t.id) })
	return nil
}

// Spawn starts fn as a background task and tracks it. If the tracker is
// already disposed the task is not started.
func (tr *Tracker) Spawn(name string, fn func(ctx context.Context) error) (*Task, error) {
	tr.mu.Lock()
	if tr.disposed {
		tr.mu.Unlock()
		return nil, ErrTrackerDisposed
	}
	tr.mu.Unlock()

	t := RunTask(name, fn)
	if err := tr.TrackTask(t); err != nil {
		// Disposal raced the spawn; cancel the orphan.
		t.Cancel()
		return nil, err
	}
	return t, nil
}

// SetTimeout schedules fn to run once after delay and registers the
// resulting timer for cleanup.
func (tr *Tracker) SetTimeout(fn func(), delay time.Duration) (*Timer, error) {
	tr.mu.Lock()
	if tr.disposed {
		tr.mu.Unlock()
		return nil, ErrTrackerDisposed
	}
	t := NewTimer(fn, delay)
	tr.timers = append(tr.timers, t)
	tr.mu.Unlock()
	return t, nil
}

// SetInterval schedules fn to run repeatedly every interval and returns
// a token that stops it. Once the token is invoked the callback never
// fires again, even if a firing was already pending. Disposal stops the
// interval as well.
func (tr *Tracker) SetInterval(fn func(), interval time.Duration) (CleanupFunc, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}

	var cancelled atomic.Bool
	task, err := tr.Spawn("interval", func(ctx context.Context) error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if cancelled.Load() {
					return nil
				}
				fn()
			}
		}
	})
	if err != nil {
		return nil, err
	}

	var once sync.Once
	stop := func() {
		once.Do(func() {
			cancelled.Store(true)
			task.Cancel()
		})
	}
	return stop, nil
}

// Disposed reports whether the tracker has been disposed.
func (tr *Tracker) Disposed() bool {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.disposed
}

// Dispose releases all tracked resources synchronously. Timers are
// cancelled, task cancellation is requested without waiting, and every
// synchronous cleanup action runs with individual failure recovery.
// A second call is a no-op.
func (tr *Tracker) Dispose() {
	timers, tasks, cleanups, _ := tr.seal()
	if timers == nil && tasks == nil && cleanups == nil {
		return
	}

	for _, t := range timers {
		t.Cancel()
	}
	for _, t := range tasks {
		t.Cancel()
	}
	for _, fn := range cleanups {
		tr.runCleanup(fn)
	}
}

// DisposeAsync releases all tracked resources, waiting for every task
// to reach a terminal state before running cleanup actions. The context
// bounds how long to wait for stragglers. A second call is a no-op.
func (tr *Tracker) DisposeAsync(ctx context.Context) {
	timers, tasks, cleanups, asyncCleanups := tr.seal()
	if timers == nil && tasks == nil && cleanups == nil && asyncCleanups == nil {
		return
	}

	for _, t := range timers {
		t.Cancel()
	}
	for _, t := range tasks {
		t.Cancel()
	}
	for _, t := range tasks {
		select {
		case <-t.Done():
			if err := t.Err(); err != nil && !errors.Is(err, context.Canceled) {
				tr.logger.Warn().Str("task", t.Name()).Err(err).Msg("task finished with error during disposal")
			}
		case <-ctx.Done():
			tr.logger.Warn().Str("task", t.Name()).Msg("gave up waiting for task during disposal")
		}
	}

	for _, fn := range cleanups {
		tr.runCleanup(fn)
	}
	for _, fn := range asyncCleanups {
		tr.runAsyncCleanup(ctx, fn)
	}
}

// seal marks the tracker disposed and hands back the tracked resources
// exactly once. Later calls receive only nil slices.
func (tr *Tracker) seal() ([]*Timer, []*Task, []CleanupFunc, []AsyncCleanupFunc) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if tr.disposed {
		return nil, nil, nil, nil
	}
	tr.disposed = true

	timers := tr.timers
	cleanups := tr.cleanups
	asyncCleanups := tr.asyncCleanups
	tasks := make([]*Task, 0, len(tr.tasks))
	for _, t := range tr.tasks {
		tasks = append(tasks, t)
	}

	tr.timers = nil
	tr.cleanups = nil
	tr.asyncCleanups = nil
	tr.tasks = nil

	// seal always hands back non-nil markers so callers can distinguish
	// first disposal from repeats even when nothing was tracked.
	if timers == nil {
		timers = []*Timer{}
	}
	if cleanups == nil {
		cleanups = []CleanupFunc{}
	}
	return timers, tasks, cleanups, asyncCleanups
}

// runCleanup runs one synchronous cleanup action, recovering a panic so
// one failing action cannot prevent the rest.
func (tr *Tracker) runCleanup(fn CleanupFunc) {
	defer func() {
		if r := recover(); r != nil {
			tr.logger.Error().Interface("panic", r).Msg("cleanup action failed")
		}
	}()
	fn()
}

// runAsyncCleanup runs one asynchronous cleanup action with the same
// isolation guarantee.
func (tr *Tracker) runAsyncCleanup(ctx context.Context, fn AsyncCleanupFunc) {
	defer func() {
		if r := recover(); r != nil {
			tr.logger.Error().Interface("panic", r).Msg("async cleanup action failed")
		}
	}()
	if err := fn(ctx); err != nil {
		tr.logger.Error().Err(err).Msg("async cleanup action failed")
	}
}

// forgetTask drops a finished task from the registry.
func (tr *Tracker) forgetTask(id uuid.UUID) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if tr.disposed {
		return
	}
	delete(tr.tasks, id)
}
