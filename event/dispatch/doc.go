// Package dispatch provides the execution substrate for event fan-out.
//
// An Executor runs a single handler with panic recovery and timing. A
// Pool runs handlers on a fixed set of worker goroutines so a blocking
// handler cannot stall delivery to other handlers or other streams; when
// the pool queue is full a submission falls back to a dedicated
// goroutine rather than dropping the delivery.
//
// Every submission carries a completion callback, which lets the caller
// wait for exactly the handlers it started without blocking unrelated
// dispatches.
package dispatch
