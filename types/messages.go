package types

import "encoding/json"

// Message types sent from an app to the cloud.
const (
	MsgConnectionInit         = "tpa_connection_init"
	MsgSubscriptionUpdate     = "subscription_update"
	MsgDisplayRequest         = "display_event"
	MsgPhotoRequest           = "photo_request"
	MsgDashboardContentUpdate = "dashboard_content_update"
	MsgDashboardModeChange    = "dashboard_mode_change"
	MsgDashboardSystemUpdate  = "dashboard_system_update"
)

// Message types sent from the cloud to an app.
const (
	MsgConnectionAck        = "tpa_connection_ack"
	MsgConnectionError      = "tpa_connection_error"
	MsgAppStopped           = "app_stopped"
	MsgSettingsUpdate       = "settings_update"
	MsgDataStream           = "data_stream"
	MsgCustomMessage        = "custom_message"
	MsgWebSocketError       = "websocket_error"
	MsgDashboardModeChanged = "dashboard_mode_changed"
)

// Dashboard display modes.
const (
	DashboardModeMain     = "main"
	DashboardModeExpanded = "expanded"
)

// Envelope is the minimal shape shared by every protocol message; the
// transport reads it first to discriminate the concrete type.
type Envelope struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id,omitempty"`
}

// ConnectionInit opens an app session with the cloud.
type ConnectionInit struct {
	Type        string `json:"type"`
	SessionID   string `json:"session_id,omitempty"`
	PackageName string `json:"package_name"`
	APIKey      string `json:"api_key"`
}

// ConnectionAck acknowledges a successful session open.
type ConnectionAck struct {
	Type         string          `json:"type"`
	Settings     []Setting       `json:"settings,omitempty"`
	Config       json.RawMessage `json:"config,omitempty"`
	Capabilities *Capabilities   `json:"capabilities,omitempty"`
}

// ConnectionError reports a failed session open.
type ConnectionError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// SubscriptionUpdate replaces the set of streams the app receives.
type SubscriptionUpdate struct {
	Type          string   `json:"type"`
	PackageName   string   `json:"package_name"`
	Subscriptions []string `json:"subscriptions"`
}

// DataStream wraps one payload of realtime stream data. Data stays raw
// until the transport resolves the concrete payload type from
// StreamType.
type DataStream struct {
	Type       string          `json:"type"`
	StreamType string          `json:"stream_type"`
	Data       json.RawMessage `json:"data"`
}

// SettingsUpdate delivers the app's current settings.
type SettingsUpdate struct {
	Type        string    `json:"type"`
	PackageName string    `json:"package_name,omitempty"`
	Settings    []Setting `json:"settings"`
}

// Setting is one key/value entry in the app's settings.
type Setting struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// PhotoRequest asks the glasses to capture a photo. The result arrives
// later on the photo_taken stream, correlated by RequestID.
type PhotoRequest struct {
	Type        string `json:"type"`
	PackageName string `json:"package_name"`
	RequestID   string `json:"request_id"`
}

// DashboardContentUpdate writes app content to the dashboard.
type DashboardContentUpdate struct {
	Type        string   `json:"type"`
	PackageName string   `json:"package_name"`
	Content     string   `json:"content"`
	Modes       []string `json:"modes"`
}

// DashboardModeChange requests a dashboard mode switch.
type DashboardModeChange struct {
	Type        string `json:"type"`
	PackageName string `json:"package_name"`
	Mode        string `json:"mode"`
}

// DashboardSystemUpdate sets one section of the system dashboard. Only
// the system dashboard app may send it.
type DashboardSystemUpdate struct {
	Type        string `json:"type"`
	PackageName string `json:"package_name"`
	Section     string `json:"section"` // topLeft, topRight, bottomLeft, bottomRight
	Content     string `json:"content"`
}

// DashboardModeChanged notifies the app of the active dashboard mode.
type DashboardModeChanged struct {
	Type string `json:"type"`
	Mode string `json:"mode"`
}

// AppStopped tells the app its session is being shut down.
type AppStopped struct {
	Type    string `json:"type"`
	Reason  string `json:"reason"`
	Message string `json:"message,omitempty"`
}

// WebSocketError reports a transport-level failure from the cloud.
type WebSocketError struct {
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}
