package event

import (
	"context"
	"sync"
)

// Handler is the interface for event handlers.
type Handler interface {
	// Handle processes one event payload. The payload is type-erased;
	// handlers should type-assert.
	Handle(ctx context.Context, payload any) error
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(ctx context.Context, payload any) error

// Handle implements the Handler interface.
func (f HandlerFunc) Handle(ctx context.Context, payload any) error {
	return f(ctx, payload)
}

// Mode selects where a handler runs during fan-out. It is fixed at
// registration time.
type Mode int

const (
	// ModeBlocking runs the handler on the dispatch worker pool, so a
	// slow or blocking handler cannot stall delivery to others.
	ModeBlocking Mode = iota

	// ModeAsync spawns the handler on its own goroutine per delivery.
	// Use for handlers that suspend on their own channels or contexts.
	ModeAsync
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeBlocking:
		return "blocking"
	case ModeAsync:
		return "async"
	default:
		return "unknown"
	}
}

// CleanupFunc undoes exactly one registration. Invoking it more than
// once is a no-op after the first call.
type CleanupFunc func()

// combineCleanup folds several cleanup tokens into one, preserving
// idempotence.
func combineCleanup(fns ...CleanupFunc) CleanupFunc {
	var once sync.Once
	return func() {
		once.Do(func() {
			for _, fn := range fns {
				fn()
			}
		})
	}
}

// Typed adapts a function over a concrete payload type to a Handler.
// Payloads of any other type are skipped silently.
func Typed[T any](fn func(ctx context.Context, data T) error) Handler {
	return HandlerFunc(func(ctx context.Context, payload any) error {
		if data, ok := payload.(T); ok {
			return fn(ctx, data)
		}
		return nil
	})
}
