package event

import (
	"context"
	"reflect"
	"sync"

	"github.com/rs/zerolog"

	"github.com/auroralens/aurora-go/event/dispatch"
	"github.com/auroralens/aurora-go/resource"
	"github.com/auroralens/aurora-go/stream"
	"github.com/auroralens/aurora-go/types"
)

// DefaultTranscriptionLanguage is used by OnTranscription.
const DefaultTranscriptionLanguage = "en-US"

// ErrorHandler observes handler failures during fan-out. It must not
// block; it runs on the goroutine that executed the failing handler.
type ErrorHandler func(t stream.Type, err error)

// Manager is the composition root of the event engine. It owns the
// subscription registry, the dispatch substrate, and the single-slot
// bindings, and exposes the typed registration API.
type Manager struct {
	registry *Registry
	pool     *dispatch.Pool
	executor *dispatch.Executor
	slots    *slotBinder

	logger     zerolog.Logger
	errHandler ErrorHandler

	stopOnce sync.Once
}

// managerConfig collects option values before construction.
type managerConfig struct {
	logger      zerolog.Logger
	notifier    Notifier
	tracker     *resource.Tracker
	errHandler  ErrorHandler
	workerCount int
	queueSize   int
}

// Option configures a Manager.
type Option func(*managerConfig)

// WithLogger sets the logger for the engine and its registry.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *managerConfig) {
		c.logger = logger
	}
}

// WithNotifier sets the collaborator told when a stream gains its first
// handler.
func WithNotifier(n Notifier) Option {
	return func(c *managerConfig) {
		c.notifier = n
	}
}

// WithTracker sets the resource tracker that owns the engine's
// background work (first-subscriber notifications).
func WithTracker(tr *resource.Tracker) Option {
	return func(c *managerConfig) {
		c.tracker = tr
	}
}

// WithErrorHandler installs a hook observing handler failures.
func WithErrorHandler(h ErrorHandler) Option {
	return func(c *managerConfig) {
		c.errHandler = h
	}
}

// WithWorkerCount sets the dispatch pool size.
func WithWorkerCount(n int) Option {
	return func(c *managerConfig) {
		c.workerCount = n
	}
}

// WithQueueSize sets the dispatch pool queue capacity.
func WithQueueSize(n int) Option {
	return func(c *managerConfig) {
		c.queueSize = n
	}
}

// NewManager creates a Manager and starts its dispatch pool.
func NewManager(opts ...Option) *Manager {
	cfg := managerConfig{
		logger:      zerolog.Nop(),
		workerCount: 8,
		queueSize:   1024,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	logger := cfg.logger.With().Str("component", "event_manager").Logger()

	m := &Manager{
		registry:   NewRegistry(cfg.notifier, cfg.tracker, cfg.logger),
		slots:      newSlotBinder(),
		logger:     logger,
		errHandler: cfg.errHandler,
		executor:   dispatch.NewExecutor(),
	}
	m.pool = dispatch.NewPool(
		dispatch.WithWorkerCount(cfg.workerCount),
		dispatch.WithQueueSize(cfg.queueSize),
	)
	// Start cannot fail on a fresh pool.
	_ = m.pool.Start()
	return m
}

// Registry exposes the subscription registry, mainly for tests and for
// the transport's subscription bookkeeping.
func (m *Manager) Registry() *Registry {
	return m.registry
}

// Stop drains the dispatch pool. Emit remains safe to call afterwards;
// deliveries then run on dedicated goroutines.
func (m *Manager) Stop(ctx context.Context) error {
	err := ErrManagerClosed
	m.stopOnce.Do(func() {
		err = m.pool.Stop(ctx)
	})
	return err
}

// Emit delivers a payload to every handler currently registered for t.
// It waits for all handlers invoked by this call to finish, but never
// blocks other Emit calls and never raises a handler failure: failures
// are logged and reported to the error handler hook. With no handlers
// registered it is a no-op.
func (m *Manager) Emit(ctx context.Context, t stream.Type, payload any) {
	regs := m.registry.snapshot(t)
	if len(regs) == 0 {
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(regs))

	for _, reg := range regs {
		handler := dispatch.Handler(reg.handler.Handle)
		done := func(res dispatch.Result) {
			m.reportResult(t, res)
			wg.Done()
		}

		switch reg.mode {
		case ModeAsync:
			go func() {
				done(m.executor.Execute(ctx, payload, handler))
			}()
		default:
			m.pool.Submit(ctx, payload, handler, done)
		}
	}

	wg.Wait()
}

// reportResult logs one handler failure and forwards it to the error
// handler hook. Successful and skipped executions are ignored.
func (m *Manager) reportResult(t stream.Type, res dispatch.Result) {
	if res.Error == nil || res.Skipped {
		return
	}

	evt := m.logger.Error().Str("stream", t.String()).Err(res.Error)
	if res.Panicked {
		if pe, ok := res.Error.(*dispatch.PanicError); ok {
			evt = evt.Bytes("stack", pe.Stack)
		}
	}
	evt.Msg("event handler failed")

	if m.errHandler != nil {
		m.errHandler(t, &HandlerError{Stream: t, Err: res.Error})
	}
}

// On registers a blocking handler for a stream and returns its cleanup
// token. A nil handler or empty stream registers nothing: the rejection
// is logged with ErrNilHandler or ErrInvalidStream and the returned
// token is a no-op.
func (m *Manager) On(t stream.Type, h Handler) CleanupFunc {
	return m.register(t, h, ModeBlocking)
}

// OnAsync registers a handler that runs on its own goroutine per
// delivery. Invalid registrations are swallowed the same way as On.
func (m *Manager) OnAsync(t stream.Type, h Handler) CleanupFunc {
	return m.register(t, h, ModeAsync)
}

// OnFunc is On for a bare function.
func (m *Manager) OnFunc(t stream.Type, fn HandlerFunc) CleanupFunc {
	if fn == nil {
		return m.register(t, nil, ModeBlocking)
	}
	return m.On(t, fn)
}

func (m *Manager) register(t stream.Type, h Handler, mode Mode) CleanupFunc {
	var reason error
	switch {
	case h == nil:
		reason = ErrNilHandler
	case !t.IsValid():
		reason = ErrInvalidStream
	}
	if reason != nil {
		// Nothing was registered; the token is a no-op.
		m.logger.Warn().Str("stream", t.String()).Err(reason).Msg("ignoring invalid registration")
		return func() {}
	}
	return m.registry.Register(t, h, mode)
}

// Typed convenience registrations, one per stream family.

// OnTranscription listens for transcription in the default language.
func (m *Manager) OnTranscription(fn func(ctx context.Context, data types.TranscriptionData) error) (CleanupFunc, error) {
	return m.OnTranscriptionForLanguage(DefaultTranscriptionLanguage, fn)
}

// OnTranscriptionForLanguage listens for transcription in one language.
// The transcription slot holds at most one binding per Manager:
// installing a new language tears down the previous handler first. A
// malformed language code fails validation and leaves any prior binding
// untouched.
func (m *Manager) OnTranscriptionForLanguage(lang string, fn func(ctx context.Context, data types.TranscriptionData) error) (CleanupFunc, error) {
	return m.slots.bind(SlotTranscription,
		func() (stream.Type, error) { return stream.ForTranscription(lang) },
		func(t stream.Type) CleanupFunc { return m.On(t, Typed(fn)) },
	)
}

// OnTranslationForLanguage listens for translation for one language
// pair. Like transcription, the translation slot holds at most one
// binding per Manager.
func (m *Manager) OnTranslationForLanguage(source, target string, fn func(ctx context.Context, data types.TranslationData) error) (CleanupFunc, error) {
	return m.slots.bind(SlotTranslation,
		func() (stream.Type, error) { return stream.ForTranslation(source, target) },
		func(t stream.Type) CleanupFunc { return m.On(t, Typed(fn)) },
	)
}

// OnButtonPress listens for physical button presses.
func (m *Manager) OnButtonPress(fn func(ctx context.Context, data types.ButtonPress) error) CleanupFunc {
	return m.On(stream.ButtonPress, Typed(fn))
}

// OnHeadPosition listens for head position changes.
func (m *Manager) OnHeadPosition(fn func(ctx context.Context, data types.HeadPosition) error) CleanupFunc {
	return m.On(stream.HeadPosition, Typed(fn))
}

// OnPhoneNotification listens for mirrored phone notifications.
func (m *Manager) OnPhoneNotification(fn func(ctx context.Context, data types.PhoneNotification) error) CleanupFunc {
	return m.On(stream.PhoneNotification, Typed(fn))
}

// OnAudioChunk listens for raw audio buffers.
func (m *Manager) OnAudioChunk(fn func(ctx context.Context, data types.AudioChunk) error) CleanupFunc {
	return m.On(stream.AudioChunk, Typed(fn))
}

// OnLocationUpdate listens for GPS fixes.
func (m *Manager) OnLocationUpdate(fn func(ctx context.Context, data types.LocationUpdate) error) CleanupFunc {
	return m.On(stream.LocationUpdate, Typed(fn))
}

// OnVPSCoordinates listens for visual-positioning pose estimates.
func (m *Manager) OnVPSCoordinates(fn func(ctx context.Context, data types.VPSCoordinates) error) CleanupFunc {
	return m.On(stream.VPSCoordinates, Typed(fn))
}

// OnCalendarEvent listens for calendar entries.
func (m *Manager) OnCalendarEvent(fn func(ctx context.Context, data types.CalendarEvent) error) CleanupFunc {
	return m.On(stream.CalendarEvent, Typed(fn))
}

// OnVoiceActivity listens for voice activity detection changes.
func (m *Manager) OnVoiceActivity(fn func(ctx context.Context, data types.VoiceActivity) error) CleanupFunc {
	return m.On(stream.VoiceActivity, Typed(fn))
}

// OnGlassesBattery listens for glasses battery updates.
func (m *Manager) OnGlassesBattery(fn func(ctx context.Context, data types.BatteryUpdate) error) CleanupFunc {
	return m.On(stream.GlassesBatteryUpdate, Typed(fn))
}

// OnPhoneBattery listens for phone battery updates.
func (m *Manager) OnPhoneBattery(fn func(ctx context.Context, data types.BatteryUpdate) error) CleanupFunc {
	return m.On(stream.PhoneBatteryUpdate, Typed(fn))
}

// OnPhotoTaken listens for photo capture events.
func (m *Manager) OnPhotoTaken(fn func(ctx context.Context, data types.PhotoTaken) error) CleanupFunc {
	return m.On(stream.PhotoTaken, Typed(fn))
}

// OnCustomMessage listens for custom messages carrying the given action
// string; the handler receives the message payload. Multiple handlers
// for the same action all fire.
func (m *Manager) OnCustomMessage(action string, fn func(ctx context.Context, payload any) error) CleanupFunc {
	return m.On(stream.CustomMessage, Typed(func(ctx context.Context, msg types.CustomMessage) error {
		if msg.Action != action {
			return nil
		}
		return fn(ctx, msg.Payload)
	}))
}

// Session lifecycle registrations.

// OnConnected listens for session connection events.
func (m *Manager) OnConnected(fn func(ctx context.Context, ack *types.ConnectionAck) error) CleanupFunc {
	return m.On(stream.Connected, Typed(fn))
}

// OnDisconnected listens for session disconnection events. The payload
// is the disconnect reason.
func (m *Manager) OnDisconnected(fn func(ctx context.Context, reason string) error) CleanupFunc {
	return m.On(stream.Disconnected, Typed(fn))
}

// OnError listens for session-level errors.
func (m *Manager) OnError(fn func(ctx context.Context, err error) error) CleanupFunc {
	return m.On(stream.SessionError, Typed(fn))
}

// OnSettingsUpdate listens for settings updates.
func (m *Manager) OnSettingsUpdate(fn func(ctx context.Context, settings []types.Setting) error) CleanupFunc {
	return m.On(stream.SettingsUpdate, Typed(fn))
}

// OnSettingChange listens for changes to one setting key. The handler
// receives the new and previous values; it fires only when the value
// actually changed. Settings arrive both on explicit updates and with
// the initial connection ack.
func (m *Manager) OnSettingChange(key string, fn func(ctx context.Context, value, previous any) error) CleanupFunc {
	var mu sync.Mutex
	var previous any

	observe := HandlerFunc(func(ctx context.Context, payload any) error {
		settings := settingsFromPayload(payload)
		for _, s := range settings {
			if s.Key != key {
				continue
			}
			mu.Lock()
			old := previous
			changed := !reflect.DeepEqual(s.Value, old)
			if changed {
				previous = s.Value
			}
			mu.Unlock()
			if changed {
				return fn(ctx, s.Value, old)
			}
			return nil
		}
		return nil
	})

	return combineCleanup(
		m.On(stream.SettingsUpdate, observe),
		m.On(stream.Connected, observe),
	)
}

// settingsFromPayload extracts the settings list from either a settings
// update or a connection ack.
func settingsFromPayload(payload any) []types.Setting {
	switch v := payload.(type) {
	case []types.Setting:
		return v
	case *types.ConnectionAck:
		if v != nil {
			return v.Settings
		}
	}
	return nil
}
