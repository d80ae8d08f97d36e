package event

import (
	"errors"

	"github.com/auroralens/aurora-go/stream"
)

// Sentinel errors for the event engine.
var (
	// ErrNilHandler is reported when a nil handler is registered; the
	// registration is ignored.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrInvalidStream is reported when a stream identifier is empty; the
	// registration is ignored.
	ErrInvalidStream = errors.New("invalid stream identifier")

	// ErrManagerClosed is returned when Stop is called twice.
	ErrManagerClosed = errors.New("event manager is not running")
)

// HandlerError wraps a failure from one handler with the stream it was
// registered for.
type HandlerError struct {
	// Stream is the identifier the failing handler was registered for.
	Stream stream.Type

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *HandlerError) Error() string {
	return "handler error on stream " + e.Stream.String() + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *HandlerError) Unwrap() error {
	return e.Err
}
