package dispatch

import (
	"context"
	"runtime/debug"
	"time"
)

// Handler is the unit of work executed for one delivery.
type Handler func(ctx context.Context, payload any) error

// PanicHandler is called when a handler panics. It receives the payload
// being delivered, the recovered value, and the captured stack trace.
type PanicHandler func(payload any, panicValue any, stack []byte)

// defaultPanicHandler discards the panic. Callers that want visibility
// install their own handler.
func defaultPanicHandler(any, any, []byte) {}

// Result describes the outcome of one handler execution.
type Result struct {
	// Success is true if the handler completed without error or panic.
	Success bool

	// Error is the error returned by the handler, if any. A panic is
	// reported as a *PanicError.
	Error error

	// Panicked is true if the handler panicked.
	Panicked bool

	// Skipped is true if execution never started because the context was
	// already cancelled.
	Skipped bool

	// Duration is the wall-clock time spent in the handler.
	Duration time.Duration
}

// Executor runs handlers with panic recovery and timing.
type Executor struct {
	panicHandler PanicHandler
}

// NewExecutor creates an executor with the given options.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{
		panicHandler: defaultPanicHandler,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithExecutorPanicHandler sets the panic handler for the executor.
func WithExecutorPanicHandler(h PanicHandler) ExecutorOption {
	return func(e *Executor) {
		if h != nil {
			e.panicHandler = h
		}
	}
}

// Execute runs a handler with the given payload and returns the result.
// Panics are recovered, reported to the panic handler, and surfaced in
// the Result; they never propagate to the caller.
func (e *Executor) Execute(ctx context.Context, payload any, handler Handler) (result Result) {
	select {
	case <-ctx.Done():
		return Result{Error: ctx.Err(), Skipped: true}
	default:
	}

	start := time.Now()

	defer func() {
		result.Duration = time.Since(start)

		if r := recover(); r != nil {
			stack := debug.Stack()
			result.Success = false
			result.Panicked = true
			result.Error = &PanicError{Value: r, Stack: stack}

			// The panic handler itself must not take the process down.
			func() {
				defer func() { _ = recover() }()
				e.panicHandler(payload, r, stack)
			}()
		}
	}()

	if err := handler(ctx, payload); err != nil {
		result.Error = err
		return result
	}
	result.Success = true
	return result
}
