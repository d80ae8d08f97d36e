// Package session ties the SDK together for one running app session:
// one event manager, one resource tracker, one transport connection,
// and the session's settings store.
//
// A Session is the object application code holds. Handlers are
// registered through Events before or after Connect; subscriptions
// registered while offline are replayed once the connection is up.
// Close and CloseContext dispose the session's resource tracker, which
// tears down the connection, the event engine, and every timer or task
// started on the session's behalf, exactly once.
package session
