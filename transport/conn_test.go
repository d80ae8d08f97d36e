package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auroralens/aurora-go/stream"
	"github.com/auroralens/aurora-go/types"
)

// recordingSink captures everything the transport emits.
type recordingSink struct {
	streams  []stream.Type
	payloads []any
}

func (s *recordingSink) Emit(_ context.Context, t stream.Type, payload any) {
	s.streams = append(s.streams, t)
	s.payloads = append(s.payloads, payload)
}

func newTestConn(sink Sink) *Conn {
	return &Conn{sink: sink, logger: zerolog.Nop()}
}

func TestHandleMessageConnectionAck(t *testing.T) {
	sink := &recordingSink{}
	c := newTestConn(sink)

	c.handleMessage(context.Background(), []byte(`{
		"type": "tpa_connection_ack",
		"settings": [{"key": "brightness", "value": 50}]
	}`))

	require.Len(t, sink.streams, 1)
	assert.Equal(t, stream.Connected, sink.streams[0])
	ack, ok := sink.payloads[0].(*types.ConnectionAck)
	require.True(t, ok, "expected *types.ConnectionAck, got %T", sink.payloads[0])
	require.Len(t, ack.Settings, 1)
	assert.Equal(t, "brightness", ack.Settings[0].Key)
}

func TestHandleMessageConnectionError(t *testing.T) {
	sink := &recordingSink{}
	c := newTestConn(sink)

	c.handleMessage(context.Background(), []byte(`{
		"type": "tpa_connection_error",
		"message": "bad api key"
	}`))

	require.Len(t, sink.streams, 1)
	assert.Equal(t, stream.SessionError, sink.streams[0])
	err, ok := sink.payloads[0].(error)
	require.True(t, ok)
	assert.Contains(t, err.Error(), "bad api key")
}

func TestHandleMessageDataStream(t *testing.T) {
	sink := &recordingSink{}
	c := newTestConn(sink)

	c.handleMessage(context.Background(), []byte(`{
		"type": "data_stream",
		"stream_type": "button_press",
		"data": {"button_id": "main", "press_type": "short"}
	}`))

	require.Len(t, sink.streams, 1)
	assert.Equal(t, stream.ButtonPress, sink.streams[0])
	press, ok := sink.payloads[0].(types.ButtonPress)
	require.True(t, ok, "expected types.ButtonPress, got %T", sink.payloads[0])
	assert.Equal(t, "main", press.ButtonID)
	assert.Equal(t, "short", press.PressType)
}

func TestHandleMessageParameterizedDataStream(t *testing.T) {
	sink := &recordingSink{}
	c := newTestConn(sink)

	c.handleMessage(context.Background(), []byte(`{
		"type": "data_stream",
		"stream_type": "transcription:en-US",
		"data": {"text": "hello world", "is_final": true}
	}`))

	require.Len(t, sink.streams, 1)
	assert.Equal(t, stream.Type("transcription:en-US"), sink.streams[0])
	tr, ok := sink.payloads[0].(types.TranscriptionData)
	require.True(t, ok)
	assert.Equal(t, "hello world", tr.Text)
	assert.True(t, tr.IsFinal)
}

func TestHandleMessageSettingsUpdate(t *testing.T) {
	sink := &recordingSink{}
	c := newTestConn(sink)

	c.handleMessage(context.Background(), []byte(`{
		"type": "settings_update",
		"settings": [{"key": "theme", "value": "dark"}]
	}`))

	require.Len(t, sink.streams, 1)
	assert.Equal(t, stream.SettingsUpdate, sink.streams[0])
	settings, ok := sink.payloads[0].([]types.Setting)
	require.True(t, ok)
	require.Len(t, settings, 1)
	assert.Equal(t, "theme", settings[0].Key)
	assert.Equal(t, "dark", settings[0].Value)
}

func TestHandleMessageCustomMessage(t *testing.T) {
	sink := &recordingSink{}
	c := newTestConn(sink)

	c.handleMessage(context.Background(), []byte(`{
		"type": "custom_message",
		"action": "ping",
		"payload": {"n": 1}
	}`))

	require.Len(t, sink.streams, 1)
	assert.Equal(t, stream.CustomMessage, sink.streams[0])
	msg, ok := sink.payloads[0].(types.CustomMessage)
	require.True(t, ok)
	assert.Equal(t, "ping", msg.Action)
}

func TestHandleMessageAppStopped(t *testing.T) {
	sink := &recordingSink{}
	c := newTestConn(sink)

	c.handleMessage(context.Background(), []byte(`{
		"type": "app_stopped",
		"reason": "user_disabled"
	}`))

	require.Len(t, sink.streams, 1)
	assert.Equal(t, stream.Disconnected, sink.streams[0])
	assert.Equal(t, "user_disabled", sink.payloads[0])
}

func TestHandleMessageMalformed(t *testing.T) {
	sink := &recordingSink{}
	c := newTestConn(sink)

	c.handleMessage(context.Background(), []byte(`not json`))
	c.handleMessage(context.Background(), []byte(`{"type": "unknown_thing"}`))

	assert.Empty(t, sink.streams, "malformed and unknown messages must be dropped")
}

func TestHandleMessageUndecodablePayload(t *testing.T) {
	sink := &recordingSink{}
	c := newTestConn(sink)

	c.handleMessage(context.Background(), []byte(`{
		"type": "data_stream",
		"stream_type": "button_press",
		"data": {"button_id": 42}
	}`))

	assert.Empty(t, sink.streams, "undecodable payloads must be dropped")
}

func TestDecodeStreamPayloadUnknownStream(t *testing.T) {
	payload, err := decodeStreamPayload("future_stream", []byte(`{"field": "value"}`))
	require.NoError(t, err)
	generic, ok := payload.(map[string]any)
	require.True(t, ok, "expected map payload, got %T", payload)
	assert.Equal(t, "value", generic["field"])
}

func TestDecodeStreamPayloadBatteryFamilies(t *testing.T) {
	for _, st := range []stream.Type{stream.GlassesBatteryUpdate, stream.PhoneBatteryUpdate} {
		payload, err := decodeStreamPayload(st, []byte(`{"level": 85, "charging": true}`))
		require.NoError(t, err)
		battery, ok := payload.(types.BatteryUpdate)
		require.True(t, ok)
		assert.Equal(t, 85, battery.Level)
		assert.True(t, battery.Charging)
	}
}

// channelSink forwards emissions to a channel for tests that need to
// wait on the read loop.
type channelSink struct {
	emits chan stream.Type
}

func (s *channelSink) Emit(_ context.Context, t stream.Type, _ any) {
	s.emits <- t
}

func dialTestServer(t *testing.T, sink Sink) (*Conn, func()) {
	t.Helper()
	upgrader := websocket.Upgrader{}
	serverConns := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		// Drain the connection init.
		_, _, _ = ws.ReadMessage()
		serverConns <- ws
	}))

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	c, err := Dial(context.Background(), Config{
		URL:         url,
		PackageName: "com.example.test",
		APIKey:      "key",
		SessionID:   "sid",
	}, sink, zerolog.Nop())
	require.NoError(t, err)

	var serverSide *websocket.Conn
	select {
	case serverSide = <-serverConns:
	case <-time.After(5 * time.Second):
		t.Fatal("server never saw the connection")
	}

	return c, func() {
		_ = serverSide.Close()
		srv.Close()
	}
}

func TestCloseReleasesSocketAfterConnectionLost(t *testing.T) {
	sink := &channelSink{emits: make(chan stream.Type, 4)}
	c, dropServer := dialTestServer(t, sink)

	// Kill the server side so the read loop observes a lost connection.
	dropServer()

	select {
	case st := <-sink.emits:
		assert.Equal(t, stream.Disconnected, st)
	case <-time.After(5 * time.Second):
		t.Fatal("read loop never reported the lost connection")
	}

	// Close after the loss must still release the socket.
	_ = c.Close()
	err := c.ws.UnderlyingConn().Close()
	assert.Error(t, err, "underlying socket still open after Close")
}

func TestCloseIsDeliberate(t *testing.T) {
	sink := &channelSink{emits: make(chan stream.Type, 4)}
	c, shutdown := dialTestServer(t, sink)
	defer shutdown()

	require.NoError(t, c.Close())

	// A deliberate close must not surface as a disconnected event.
	select {
	case st := <-sink.emits:
		t.Fatalf("unexpected emit %s after deliberate close", st)
	case <-time.After(100 * time.Millisecond):
	}

	err := c.ws.UnderlyingConn().Close()
	assert.Error(t, err, "underlying socket still open after Close")
}

func TestDialRejectsBadScheme(t *testing.T) {
	_, err := Dial(context.Background(), Config{URL: "http://example.test"}, &recordingSink{}, zerolog.Nop())
	assert.ErrorIs(t, err, ErrInvalidURL)
}

func TestHTTPURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "wss://api.example.test/app-ws", want: "https://api.example.test/app-ws"},
		{in: "ws://localhost:8002/app-ws", want: "http://localhost:8002/app-ws"},
		{in: "https://api.example.test", wantErr: true},
	}
	for _, tt := range tests {
		got, err := HTTPURL(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidURL)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestHandleMessageDashboardModeChanged(t *testing.T) {
	sink := &recordingSink{}
	c := newTestConn(sink)

	c.handleMessage(context.Background(), []byte(`{
		"type": "dashboard_mode_changed",
		"mode": "expanded"
	}`))

	require.Len(t, sink.streams, 1)
	assert.Equal(t, stream.DashboardModeChanged, sink.streams[0])
	assert.Equal(t, "expanded", sink.payloads[0])
}

func TestHandleMessageAckWithCapabilities(t *testing.T) {
	sink := &recordingSink{}
	c := newTestConn(sink)

	c.handleMessage(context.Background(), []byte(`{
		"type": "tpa_connection_ack",
		"capabilities": {
			"model_name": "AuroraLens One",
			"has_camera": true,
			"camera": {"resolution": {"width": 1920, "height": 1080}, "has_focus": true},
			"has_screen": true,
			"screen": {"is_color": false, "max_text_lines": 5},
			"has_button": true,
			"button": {"count": 1, "buttons": [{"type": "press", "events": ["press", "double_press"]}]}
		}
	}`))

	require.Len(t, sink.streams, 1)
	ack, ok := sink.payloads[0].(*types.ConnectionAck)
	require.True(t, ok)
	caps := ack.Capabilities
	require.NotNil(t, caps)
	assert.Equal(t, "AuroraLens One", caps.ModelName)
	assert.True(t, caps.HasCamera)
	require.NotNil(t, caps.Camera)
	require.NotNil(t, caps.Camera.Resolution)
	assert.Equal(t, 1920, caps.Camera.Resolution.Width)
	require.NotNil(t, caps.Screen)
	assert.Equal(t, 5, caps.Screen.MaxTextLines)
	require.NotNil(t, caps.Button)
	require.Len(t, caps.Button.Buttons, 1)
	assert.Equal(t, "press", caps.Button.Buttons[0].Type)
}
