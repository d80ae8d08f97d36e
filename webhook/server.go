package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/auroralens/aurora-go/types"
)

// Defaults for Config fields left zero.
const (
	DefaultWebhookPath = "/webhook"
	DefaultAddr        = ":7010"
)

// ErrNoSessionHandler is returned by Run when no session handler was
// installed; a webhook server that cannot start sessions is a
// misconfiguration.
var ErrNoSessionHandler = errors.New("webhook server has no session handler")

// SessionHandler handles a request to start or recover a session.
type SessionHandler func(ctx context.Context, req types.SessionWebhookRequest) error

// StopHandler handles a request to stop a running session.
type StopHandler func(ctx context.Context, req types.StopWebhookRequest) error

// Config holds the webhook server settings.
type Config struct {
	// PackageName identifies the app; requests for other packages are
	// not filtered here, the cloud routes by registration.
	PackageName string

	// Addr is the listen address. Empty means ":7010".
	Addr string

	// WebhookPath is the path session webhooks arrive on. Empty means
	// "/webhook".
	WebhookPath string

	// HealthCheck exposes GET /health when true.
	HealthCheck bool
}

// Server receives session lifecycle webhooks from the cloud. An app
// server typically starts one Session per session_request it receives.
type Server struct {
	cfg    Config
	logger zerolog.Logger

	onSession  SessionHandler
	onStop     StopHandler
	onRecovery SessionHandler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger.With().Str("component", "webhook_server").Logger()
	}
}

// OnSession installs the handler for session start requests.
func OnSession(fn SessionHandler) Option {
	return func(s *Server) {
		s.onSession = fn
	}
}

// OnStop installs the handler for session stop requests.
func OnStop(fn StopHandler) Option {
	return func(s *Server) {
		s.onStop = fn
	}
}

// OnSessionRecovery installs the handler for session recovery
// requests. Without one, recovery requests fall back to the session
// handler.
func OnSessionRecovery(fn SessionHandler) Option {
	return func(s *Server) {
		s.onRecovery = fn
	}
}

// NewServer creates a webhook server.
func NewServer(cfg Config, opts ...Option) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.WebhookPath == "" {
		cfg.WebhookPath = DefaultWebhookPath
	}

	s := &Server{
		cfg:    cfg,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the HTTP handler: the webhook endpoint plus the
// optional health check.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Post(s.cfg.WebhookPath, s.handleWebhook)
	if s.cfg.HealthCheck {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
	}
	return r
}

// Run serves until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	if s.onSession == nil {
		return ErrNoSessionHandler
	}

	srv := &http.Server{Addr: s.cfg.Addr, Handler: s.Router()}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.cfg.Addr).Str("path", s.cfg.WebhookPath).Msg("webhook server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// handleWebhook discriminates one webhook request and dispatches it.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := readEnvelope(r)
	if err != nil {
		s.respond(w, http.StatusBadRequest, types.WebhookResponse{Status: "error", Message: "malformed request"})
		return
	}

	switch body.env.Type {
	case types.WebhookSessionRequest:
		var req types.SessionWebhookRequest
		s.dispatch(w, r, body.raw, &req, func(ctx context.Context) error {
			if s.onSession == nil {
				return ErrNoSessionHandler
			}
			return s.onSession(ctx, req)
		})

	case types.WebhookSessionRecovery:
		var rec types.SessionRecoveryWebhookRequest
		s.dispatch(w, r, body.raw, &rec, func(ctx context.Context) error {
			req := types.SessionWebhookRequest{
				WebhookEnvelope: rec.WebhookEnvelope,
				WebSocketURL:    rec.WebSocketURL,
			}
			if s.onRecovery != nil {
				return s.onRecovery(ctx, req)
			}
			if s.onSession == nil {
				return ErrNoSessionHandler
			}
			return s.onSession(ctx, req)
		})

	case types.WebhookStopRequest:
		var req types.StopWebhookRequest
		s.dispatch(w, r, body.raw, &req, func(ctx context.Context) error {
			if s.onStop == nil {
				return nil
			}
			return s.onStop(ctx, req)
		})

	case types.WebhookServerRegistration, types.WebhookServerHeartbeat:
		// Liveness traffic; acknowledging is the whole contract.
		s.respond(w, http.StatusOK, types.WebhookResponse{Status: "success"})

	default:
		s.logger.Warn().Str("type", body.env.Type).Msg("unknown webhook type")
		s.respond(w, http.StatusBadRequest, types.WebhookResponse{Status: "error", Message: "unknown webhook type"})
	}
}

// dispatch decodes the concrete request into dst and runs fn, mapping
// the outcome to a webhook response.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, raw []byte, dst any, fn func(ctx context.Context) error) {
	if err := json.Unmarshal(raw, dst); err != nil {
		s.respond(w, http.StatusBadRequest, types.WebhookResponse{Status: "error", Message: "malformed request"})
		return
	}
	if err := fn(r.Context()); err != nil {
		s.logger.Error().Err(err).Msg("webhook handler failed")
		s.respond(w, http.StatusInternalServerError, types.WebhookResponse{Status: "error", Message: err.Error()})
		return
	}
	s.respond(w, http.StatusOK, types.WebhookResponse{Status: "success"})
}

func (s *Server) respond(w http.ResponseWriter, status int, resp types.WebhookResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Warn().Err(err).Msg("writing webhook response failed")
	}
}

type envelopeBody struct {
	env types.WebhookEnvelope
	raw []byte
}

func readEnvelope(r *http.Request) (envelopeBody, error) {
	raw, err := readBody(r)
	if err != nil {
		return envelopeBody{}, err
	}
	var env types.WebhookEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return envelopeBody{}, err
	}
	return envelopeBody{env: env, raw: raw}, nil
}

func readBody(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	const maxBody = 1 << 20
	return io.ReadAll(io.LimitReader(r.Body, maxBody))
}
