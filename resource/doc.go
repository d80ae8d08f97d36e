// Package resource provides cooperative lifecycle management for the
// background work a session starts: cleanup actions, timers, and
// cancellable tasks.
//
// A Tracker collects everything registered against it and releases it
// all in one idempotent disposal. Dispose is the synchronous path: it
// cancels timers, requests task cancellation without waiting, and runs
// the synchronous cleanup actions. DisposeAsync additionally waits for
// every tracked task to reach a terminal state and then runs the
// asynchronous cleanup actions. One failing action never prevents the
// rest from running; failures are logged, not propagated.
//
// Once disposed, a Tracker rejects all further tracking calls with
// ErrTrackerDisposed.
package resource
