package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/auroralens/aurora-go/config"
	"github.com/auroralens/aurora-go/event"
	"github.com/auroralens/aurora-go/resource"
	"github.com/auroralens/aurora-go/stream"
	"github.com/auroralens/aurora-go/transport"
	"github.com/auroralens/aurora-go/types"
)

// Session is one app session against the AuroraLens cloud.
type Session struct {
	id      string
	cfg     *config.App
	logger  zerolog.Logger
	tracker *resource.Tracker
	events  *event.Manager

	connMu sync.Mutex
	conn   *transport.Conn

	settingsMu sync.Mutex
	settings   map[string]any
}

// Option configures a Session.
type Option func(*options)

type options struct {
	logger zerolog.Logger
}

// WithLogger sets the logger for the session and everything it owns.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New creates a session for the given app configuration. The session
// owns its resource tracker; disposing the tracker (via Close or
// CloseContext) releases everything the session started.
func New(cfg *config.App, opts ...Option) *Session {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	id := uuid.NewString()
	logger := o.logger.With().Str("session_id", id).Logger()

	s := &Session{
		id:       id,
		cfg:      cfg,
		logger:   logger,
		tracker:  resource.NewTracker(resource.WithLogger(logger)),
		settings: make(map[string]any),
	}

	s.events = event.NewManager(
		event.WithLogger(logger),
		event.WithTracker(s.tracker),
		event.WithNotifier(s),
	)

	// The dispatch pool drains with the rest of the session's resources.
	_ = s.tracker.TrackAsync(func(ctx context.Context) error {
		err := s.events.Stop(ctx)
		if errors.Is(err, event.ErrManagerClosed) {
			return nil
		}
		return err
	})
	_ = s.tracker.Track(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.events.Stop(ctx)
	})

	// Session-owned settings bookkeeping.
	s.events.OnSettingsUpdate(func(_ context.Context, settings []types.Setting) error {
		s.storeSettings(settings)
		return nil
	})
	s.events.OnConnected(func(_ context.Context, ack *types.ConnectionAck) error {
		if ack != nil {
			s.storeSettings(ack.Settings)
		}
		return nil
	})

	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Events returns the session's event manager for handler registration
// and emission.
func (s *Session) Events() *event.Manager {
	return s.events
}

// Tracker returns the session's resource tracker for tracking
// app-owned cleanup work against the session lifetime.
func (s *Session) Tracker() *resource.Tracker {
	return s.tracker
}

// Connect opens the transport connection. Streams that gained handlers
// before connecting are subscribed immediately.
func (s *Session) Connect(ctx context.Context) error {
	if s.tracker.Disposed() {
		return resource.ErrTrackerDisposed
	}

	conn, err := transport.Dial(ctx, transport.Config{
		URL:         s.cfg.ServerURL,
		PackageName: s.cfg.PackageName,
		APIKey:      s.cfg.APIKey,
		SessionID:   s.id,
	}, s.events, s.logger)
	if err != nil {
		return err
	}

	s.connMu.Lock()
	s.conn = conn
	s.connMu.Unlock()

	if err := s.tracker.Track(func() { _ = conn.Close() }); err != nil {
		// Disposal raced the connect.
		_ = conn.Close()
		return err
	}

	// Replay subscriptions registered while offline.
	for _, t := range s.events.Registry().Streams() {
		if err := conn.SubscriptionNeeded(ctx, t); err != nil {
			s.logger.Warn().Str("stream", t.String()).Err(err).Msg("subscription replay failed")
		}
	}
	return nil
}

// SubscriptionNeeded implements event.Notifier. Before Connect it is a
// no-op; Connect replays the registry's streams once the connection is
// up.
func (s *Session) SubscriptionNeeded(ctx context.Context, t stream.Type) error {
	s.connMu.Lock()
	conn := s.conn
	s.connMu.Unlock()

	if conn == nil {
		return nil
	}
	return conn.SubscriptionNeeded(ctx, t)
}

// Setting returns the current value of one setting key.
func (s *Session) Setting(key string) (any, bool) {
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()
	v, ok := s.settings[key]
	return v, ok
}

// storeSettings merges a settings list into the session store.
func (s *Session) storeSettings(settings []types.Setting) {
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()
	for _, setting := range settings {
		s.settings[setting.Key] = setting.Value
	}
}

// RequestPhoto asks the glasses to capture a photo and returns the
// request id. The capture arrives on the photo_taken stream; register
// a handler with Events().OnPhotoTaken before requesting.
func (s *Session) RequestPhoto() (string, error) {
	requestID := uuid.NewString()
	err := s.send(types.PhotoRequest{
		Type:        types.MsgPhotoRequest,
		PackageName: s.cfg.PackageName,
		RequestID:   requestID,
	})
	if err != nil {
		return "", err
	}
	return requestID, nil
}

// send writes one protocol message, failing if not connected.
func (s *Session) send(v any) error {
	s.connMu.Lock()
	conn := s.conn
	s.connMu.Unlock()

	if conn == nil {
		return transport.ErrNotConnected
	}
	return conn.Send(v)
}

// Close releases everything the session owns, synchronously. Safe to
// call more than once; only the first call does work.
func (s *Session) Close() {
	s.tracker.Dispose()
}

// CloseContext releases everything the session owns, waiting for
// background tasks to reach a terminal state. Safe to call more than
// once.
func (s *Session) CloseContext(ctx context.Context) {
	s.tracker.DisposeAsync(ctx)
}
