// Package event provides the subscription and dispatch engine for an
// AuroraLens app session.
//
// The Manager is the composition root: application code registers typed
// handlers ("on button press", "on transcription for language L") and
// receives a CleanupFunc per registration; the transport delivers
// decoded payloads through Emit. Internally a Registry maps each stream
// identifier to its ordered handler list, and fan-out runs every
// handler with per-handler failure isolation: blocking handlers go to a
// worker pool, async handlers get their own goroutine, and Emit waits
// for exactly the handlers it started.
//
// Parameterized streams that are inherently exclusive (the current
// transcription language, the current translation pair) use single-slot
// bindings: installing a new handler tears down the previous one first,
// so at most one is ever live per slot.
package event
