package event

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/auroralens/aurora-go/resource"
	"github.com/auroralens/aurora-go/stream"
)

// Notifier is told when the first handler for a stream is registered,
// so the transport can open the corresponding upstream channel. The
// notification is best-effort: a failure is logged, never propagated to
// the registering caller.
type Notifier interface {
	SubscriptionNeeded(ctx context.Context, t stream.Type) error
}

// NotifierFunc is a function adapter for Notifier.
type NotifierFunc func(ctx context.Context, t stream.Type) error

// SubscriptionNeeded implements the Notifier interface.
func (f NotifierFunc) SubscriptionNeeded(ctx context.Context, t stream.Type) error {
	return f(ctx, t)
}

// registration is one handler's membership in a stream's handler list.
// Handlers are removed by registration identity, not value equality.
type registration struct {
	handler Handler
	mode    Mode
}

// Registry maps stream identifiers to ordered handler lists. It is safe
// for concurrent use; lookups return snapshot copies so fan-out is
// insulated from concurrent mutation.
type Registry struct {
	mu   sync.Mutex
	subs map[stream.Type][]*registration

	notifier Notifier
	tracker  *resource.Tracker
	logger   zerolog.Logger
}

// NewRegistry creates an empty registry. The notifier and tracker may
// be nil; without a tracker the first-subscriber notification runs as
// an untracked goroutine.
func NewRegistry(notifier Notifier, tracker *resource.Tracker, logger zerolog.Logger) *Registry {
	return &Registry{
		subs:     make(map[stream.Type][]*registration),
		notifier: notifier,
		tracker:  tracker,
		logger:   logger.With().Str("component", "registry").Logger(),
	}
}

// Register appends a handler to the list for t, creating the list if
// absent, and returns an idempotent token that removes exactly this
// handler. The first handler for a stream triggers the
// subscription-needed notification.
func (r *Registry) Register(t stream.Type, h Handler, mode Mode) CleanupFunc {
	reg := &registration{handler: h, mode: mode}

	r.mu.Lock()
	first := len(r.subs[t]) == 0
	r.subs[t] = append(r.subs[t], reg)
	r.mu.Unlock()

	if first {
		r.notifySubscriptionNeeded(t)
	}

	var once sync.Once
	return func() {
		once.Do(func() { r.remove(t, reg) })
	}
}

// remove deletes one registration by identity. The stream's entry is
// deleted entirely when its handler list becomes empty.
func (r *Registry) remove(t stream.Type, reg *registration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	regs := r.subs[t]
	for i, candidate := range regs {
		if candidate == reg {
			r.subs[t] = append(regs[:i], regs[i+1:]...)
			break
		}
	}
	if len(r.subs[t]) == 0 {
		delete(r.subs, t)
	}
}

// snapshot returns a copy of the registrations for t, or nil.
func (r *Registry) snapshot(t stream.Type) []*registration {
	r.mu.Lock()
	defer r.mu.Unlock()

	regs := r.subs[t]
	if len(regs) == 0 {
		return nil
	}
	result := make([]*registration, len(regs))
	copy(result, regs)
	return result
}

// Handlers returns a snapshot of the handlers registered for t, in
// insertion order.
func (r *Registry) Handlers(t stream.Type) []Handler {
	regs := r.snapshot(t)
	if regs == nil {
		return nil
	}
	handlers := make([]Handler, len(regs))
	for i, reg := range regs {
		handlers[i] = reg.handler
	}
	return handlers
}

// Count returns the number of handlers registered for t.
func (r *Registry) Count(t stream.Type) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs[t])
}

// Streams returns every stream identifier with at least one handler.
func (r *Registry) Streams() []stream.Type {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.subs) == 0 {
		return nil
	}
	streams := make([]stream.Type, 0, len(r.subs))
	for t := range r.subs {
		streams = append(streams, t)
	}
	return streams
}

// notifySubscriptionNeeded fires the best-effort notification as a
// tracked background task so it participates in orderly shutdown.
func (r *Registry) notifySubscriptionNeeded(t stream.Type) {
	if r.notifier == nil {
		return
	}

	notify := func(ctx context.Context) error {
		if err := r.notifier.SubscriptionNeeded(ctx, t); err != nil {
			r.logger.Warn().Str("stream", t.String()).Err(err).
				Msg("subscription notification failed")
		}
		return nil
	}

	if r.tracker == nil {
		go func() { _ = notify(context.Background()) }()
		return
	}
	if _, err := r.tracker.Spawn("subscription_needed", notify); err != nil {
		r.logger.Debug().Str("stream", t.String()).Err(err).
			Msg("skipping subscription notification")
	}
}
