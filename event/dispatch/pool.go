package dispatch

import (
	"context"
	"sync"
	"sync/atomic"
)

// DoneFunc receives the result of a completed submission.
type DoneFunc func(Result)

// Pool executes handlers on a fixed set of worker goroutines.
//
// A submission that cannot be queued because the queue is at capacity is
// run on a dedicated goroutine instead, so a delivery is never dropped
// and the submitting caller is never blocked by slow handlers.
type Pool struct {
	queueSize   int
	workerCount int

	mu      sync.Mutex // protects queue creation/destruction
	queue   chan poolTask
	running atomic.Bool
	wg      sync.WaitGroup

	executor *Executor

	// Stats
	submitted atomic.Uint64
	completed atomic.Uint64
	succeeded atomic.Uint64
	failed    atomic.Uint64
	panicked  atomic.Uint64
	spawned   atomic.Uint64
}

// poolTask is one queued handler execution.
type poolTask struct {
	ctx     context.Context
	payload any
	handler Handler
	done    DoneFunc
}

// NewPool creates a worker pool with the given options.
func NewPool(opts ...PoolOption) *Pool {
	p := &Pool{
		queueSize:   1024,
		workerCount: 8,
		executor:    NewExecutor(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithQueueSize sets the task queue capacity.
func WithQueueSize(size int) PoolOption {
	return func(p *Pool) {
		if size > 0 {
			p.queueSize = size
		}
	}
}

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) PoolOption {
	return func(p *Pool) {
		if count > 0 {
			p.workerCount = count
		}
	}
}

// WithPanicHandler sets the panic handler used for all executions.
func WithPanicHandler(h PanicHandler) PoolOption {
	return func(p *Pool) {
		p.executor = NewExecutor(WithExecutorPanicHandler(h))
	}
}

// Start starts the worker goroutines.
func (p *Pool) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running.Load() {
		return ErrAlreadyRunning
	}

	p.queue = make(chan poolTask, p.queueSize)
	p.running.Store(true)

	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return nil
}

// Stop drains the queue and stops the workers. It waits for in-flight
// handlers to finish or for the context to be cancelled.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running.Load() {
		p.mu.Unlock()
		return ErrNotRunning
	}
	p.running.Store(false)
	close(p.queue)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Submit schedules a handler execution. The done callback is invoked
// with the result exactly once, on whichever goroutine ran the handler.
// If the pool is stopped or its queue is full, the handler runs on a
// fresh goroutine so the delivery still happens.
func (p *Pool) Submit(ctx context.Context, payload any, handler Handler, done DoneFunc) {
	p.submitted.Add(1)
	task := poolTask{ctx: ctx, payload: payload, handler: handler, done: done}

	if p.enqueue(task) {
		return
	}

	// Overflow or stopped pool: never drop a delivery.
	p.spawned.Add(1)
	go p.run(task)
}

// enqueue attempts a non-blocking queue send. The mutex orders it
// against Stop closing the queue, so a concurrent Stop can never turn
// the send into a panic on a closed channel.
func (p *Pool) enqueue(task poolTask) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running.Load() {
		return false
	}
	select {
	case p.queue <- task:
		return true
	default:
		return false
	}
}

// worker processes tasks until the queue is closed.
func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.queue {
		p.run(task)
	}
}

// run executes one task and reports its result.
func (p *Pool) run(task poolTask) {
	result := p.executor.Execute(task.ctx, task.payload, task.handler)

	p.completed.Add(1)
	switch {
	case result.Panicked:
		p.panicked.Add(1)
	case result.Error != nil:
		p.failed.Add(1)
	case result.Success:
		p.succeeded.Add(1)
	}

	if task.done != nil {
		task.done(result)
	}
}

// IsRunning returns true if the pool has been started and not stopped.
func (p *Pool) IsRunning() bool {
	return p.running.Load()
}

// Stats returns pool counters.
func (p *Pool) Stats() PoolStats {
	return PoolStats{
		Submitted: p.submitted.Load(),
		Completed: p.completed.Load(),
		Succeeded: p.succeeded.Load(),
		Failed:    p.failed.Load(),
		Panicked:  p.panicked.Load(),
		Spawned:   p.spawned.Load(),
	}
}

// PoolStats contains counters for a Pool.
type PoolStats struct {
	// Submitted is the total number of Submit calls.
	Submitted uint64

	// Completed is the number of handler executions that finished.
	Completed uint64

	// Succeeded is the number of successful handler executions.
	Succeeded uint64

	// Failed is the number of handlers that returned errors.
	Failed uint64

	// Panicked is the number of handlers that panicked.
	Panicked uint64

	// Spawned is the number of submissions that overflowed to a
	// dedicated goroutine.
	Spawned uint64
}
