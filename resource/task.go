package resource

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Task is a cancellable unit of background work. Cancellation is
// cooperative: Cancel signals the task's context and the task function
// is expected to return promptly once the context is done.
type Task struct {
	id     uuid.UUID
	name   string
	cancel context.CancelFunc
	done   chan struct{}

	mu       sync.Mutex
	err      error
	finished bool
	hooks    []func()
}

// RunTask starts fn on its own goroutine and returns a handle for it.
// The name is used for logging only. A panic inside fn is recovered and
// recorded as the task's error.
func RunTask(name string, fn func(ctx context.Context) error) *Task {
	ctx, cancel := context.WithCancel(context.Background())
	t := &Task{
		id:     uuid.New(),
		name:   name,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go func() {
		defer cancel()
		var err error
		func() {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("task %s panicked: %v", name, r)
				}
			}()
			err = fn(ctx)
		}()
		t.finish(err)
	}()
	return t
}

// ID returns the task's unique identifier.
func (t *Task) ID() uuid.UUID {
	return t.id
}

// Name returns the task's diagnostic name.
func (t *Task) Name() string {
	return t.name
}

// Cancel requests cooperative cancellation. It is safe to call more
// than once and after the task has finished.
func (t *Task) Cancel() {
	t.cancel()
}

// Done returns a channel that is closed when the task reaches a
// terminal state.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Err returns the task's error, or nil if it completed cleanly or has
// not finished yet. A cancelled task usually reports context.Canceled.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Finished reports whether the task has reached a terminal state.
func (t *Task) Finished() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.finished
}

// finish records the outcome and runs completion hooks.
func (t *Task) finish(err error) {
	t.mu.Lock()
	t.err = err
	t.finished = true
	hooks := t.hooks
	t.hooks = nil
	t.mu.Unlock()

	close(t.done)
	for _, h := range hooks {
		h()
	}
}

// onFinish registers a hook to run when the task finishes. If the task
// has already finished, the hook runs immediately.
func (t *Task) onFinish(h func()) {
	t.mu.Lock()
	if t.finished {
		t.mu.Unlock()
		h()
		return
	}
	t.hooks = append(t.hooks, h)
	t.mu.Unlock()
}
