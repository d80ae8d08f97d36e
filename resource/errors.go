package resource

import "errors"

// Sentinel errors for the resource tracker.
var (
	// ErrTrackerDisposed is returned when a tracking call is made after
	// the tracker has been disposed. This is a programmer error, not a
	// transient condition.
	ErrTrackerDisposed = errors.New("resource tracker has been disposed")

	// ErrNilCleanup is returned when a nil cleanup action is tracked.
	ErrNilCleanup = errors.New("cleanup action cannot be nil")

	// ErrInvalidInterval is returned when a timer is scheduled with a
	// non-positive duration.
	ErrInvalidInterval = errors.New("interval must be positive")
)
