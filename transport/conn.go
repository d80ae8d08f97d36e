package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/auroralens/aurora-go/stream"
	"github.com/auroralens/aurora-go/types"
)

// Sentinel errors for the transport.
var (
	// ErrNotConnected is returned when sending on a closed connection.
	ErrNotConnected = errors.New("transport is not connected")

	// ErrInvalidURL is returned for endpoints that are not ws:// or wss://.
	ErrInvalidURL = errors.New("invalid websocket url")
)

// Sink receives decoded payloads from the read loop. The event
// engine's Manager satisfies it.
type Sink interface {
	Emit(ctx context.Context, t stream.Type, payload any)
}

// Config holds everything needed to open a session connection.
type Config struct {
	// URL is the ws:// or wss:// session endpoint.
	URL string

	// PackageName identifies the app to the cloud.
	PackageName string

	// APIKey authenticates the app.
	APIKey string

	// SessionID routes messages for this session.
	SessionID string

	// WriteTimeout bounds each outgoing write. Zero means 10 seconds.
	WriteTimeout time.Duration
}

// Conn is one live session connection. All writes are serialized; the
// read loop runs on its own goroutine and feeds the sink until the
// connection drops or Close is called.
type Conn struct {
	cfg    Config
	sink   Sink
	logger zerolog.Logger

	writeMu sync.Mutex
	ws      *websocket.Conn
	closed  atomic.Bool

	subsMu sync.Mutex
	subs   map[string]struct{}
}

// Dial opens the WebSocket, sends the connection init message, and
// starts the read loop.
func Dial(ctx context.Context, cfg Config, sink Sink, logger zerolog.Logger) (*Conn, error) {
	if !strings.HasPrefix(cfg.URL, "ws://") && !strings.HasPrefix(cfg.URL, "wss://") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, cfg.URL)
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}

	ws, _, err := websocket.DefaultDialer.DialContext(ctx, cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cfg.URL, err)
	}

	c := &Conn{
		cfg:    cfg,
		sink:   sink,
		logger: logger.With().Str("component", "transport").Str("session_id", cfg.SessionID).Logger(),
		ws:     ws,
		subs:   make(map[string]struct{}),
	}

	init := types.ConnectionInit{
		Type:        types.MsgConnectionInit,
		SessionID:   cfg.SessionID,
		PackageName: cfg.PackageName,
		APIKey:      cfg.APIKey,
	}
	if err := c.Send(init); err != nil {
		_ = ws.Close()
		return nil, fmt.Errorf("connection init: %w", err)
	}

	go c.readLoop()
	return c, nil
}

// Send serializes v as JSON and writes it to the connection.
func (c *Conn) Send(v any) error {
	if c.closed.Load() {
		return ErrNotConnected
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = c.ws.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	return c.ws.WriteJSON(v)
}

// SubscriptionNeeded implements the event engine's notifier hook. It
// adds the stream to the subscription set and sends the full updated
// list to the cloud.
func (c *Conn) SubscriptionNeeded(ctx context.Context, t stream.Type) error {
	c.subsMu.Lock()
	c.subs[t.String()] = struct{}{}
	subs := make([]string, 0, len(c.subs))
	for s := range c.subs {
		subs = append(subs, s)
	}
	c.subsMu.Unlock()
	sort.Strings(subs)

	return c.Send(types.SubscriptionUpdate{
		Type:          types.MsgSubscriptionUpdate,
		PackageName:   c.cfg.PackageName,
		Subscriptions: subs,
	})
}

// Close shuts the connection down. The read loop exits without
// emitting a disconnected event; Close is the deliberate path. The
// underlying socket is released even when the read loop already marked
// the connection closed after losing it.
func (c *Conn) Close() error {
	if !c.closed.Swap(true) {
		c.writeMu.Lock()
		deadline := time.Now().Add(time.Second)
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		c.writeMu.Unlock()
	}
	return c.ws.Close()
}

// readLoop decodes incoming messages until the connection drops.
func (c *Conn) readLoop() {
	ctx := context.Background()
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if !c.closed.Load() {
				c.logger.Warn().Err(err).Msg("connection lost")
				c.closed.Store(true)
				c.sink.Emit(ctx, stream.Disconnected, "connection lost")
			}
			return
		}
		c.handleMessage(ctx, data)
	}
}

// handleMessage discriminates one protocol message and feeds the sink.
func (c *Conn) handleMessage(ctx context.Context, data []byte) {
	var env types.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		c.logger.Warn().Err(err).Msg("dropping malformed message")
		return
	}

	switch env.Type {
	case types.MsgConnectionAck:
		var ack types.ConnectionAck
		if err := json.Unmarshal(data, &ack); err != nil {
			c.logger.Warn().Err(err).Msg("dropping malformed connection ack")
			return
		}
		c.sink.Emit(ctx, stream.Connected, &ack)

	case types.MsgConnectionError:
		var ce types.ConnectionError
		if err := json.Unmarshal(data, &ce); err != nil {
			c.logger.Warn().Err(err).Msg("dropping malformed connection error")
			return
		}
		c.sink.Emit(ctx, stream.SessionError, fmt.Errorf("connection refused: %s", ce.Message))

	case types.MsgDataStream:
		var ds types.DataStream
		if err := json.Unmarshal(data, &ds); err != nil {
			c.logger.Warn().Err(err).Msg("dropping malformed data stream")
			return
		}
		t := stream.Type(ds.StreamType)
		payload, err := decodeStreamPayload(t, ds.Data)
		if err != nil {
			c.logger.Warn().Str("stream", ds.StreamType).Err(err).Msg("dropping undecodable payload")
			return
		}
		c.sink.Emit(ctx, t, payload)

	case types.MsgSettingsUpdate:
		var su types.SettingsUpdate
		if err := json.Unmarshal(data, &su); err != nil {
			c.logger.Warn().Err(err).Msg("dropping malformed settings update")
			return
		}
		c.sink.Emit(ctx, stream.SettingsUpdate, su.Settings)

	case types.MsgCustomMessage:
		var cm types.CustomMessage
		if err := json.Unmarshal(data, &cm); err != nil {
			c.logger.Warn().Err(err).Msg("dropping malformed custom message")
			return
		}
		c.sink.Emit(ctx, stream.CustomMessage, cm)

	case types.MsgAppStopped:
		var as types.AppStopped
		if err := json.Unmarshal(data, &as); err != nil {
			c.logger.Warn().Err(err).Msg("dropping malformed app stopped")
			return
		}
		c.sink.Emit(ctx, stream.Disconnected, as.Reason)

	case types.MsgDashboardModeChanged:
		var dm types.DashboardModeChanged
		if err := json.Unmarshal(data, &dm); err != nil {
			c.logger.Warn().Err(err).Msg("dropping malformed dashboard mode change")
			return
		}
		c.sink.Emit(ctx, stream.DashboardModeChanged, dm.Mode)

	case types.MsgWebSocketError:
		var we types.WebSocketError
		if err := json.Unmarshal(data, &we); err != nil {
			c.logger.Warn().Err(err).Msg("dropping malformed websocket error")
			return
		}
		c.sink.Emit(ctx, stream.SessionError, errors.New(we.Message))

	default:
		c.logger.Debug().Str("type", env.Type).Msg("ignoring unknown message type")
	}
}

// HTTPURL converts a ws:// or wss:// endpoint to its http(s)
// counterpart, used for REST calls against the same host.
func HTTPURL(wsURL string) (string, error) {
	switch {
	case strings.HasPrefix(wsURL, "wss://"):
		return "https://" + strings.TrimPrefix(wsURL, "wss://"), nil
	case strings.HasPrefix(wsURL, "ws://"):
		return "http://" + strings.TrimPrefix(wsURL, "ws://"), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, wsURL)
	}
}
