package types

import "time"

// Webhook request types delivered by the cloud to an app server over
// HTTP.
const (
	WebhookSessionRequest     = "session_request"
	WebhookStopRequest        = "stop_request"
	WebhookServerRegistration = "server_registration"
	WebhookServerHeartbeat    = "server_heartbeat"
	WebhookSessionRecovery    = "session_recovery"
)

// WebhookEnvelope is the shape shared by every webhook request; servers
// read it first to discriminate the concrete type.
type WebhookEnvelope struct {
	Type      string    `json:"type"`
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// SessionWebhookRequest asks the app server to start a session for a
// user. WebSocketURL, when present, names the specific cloud server the
// session should connect to.
type SessionWebhookRequest struct {
	WebhookEnvelope
	WebSocketURL string `json:"aurora_websocket_url,omitempty"`
}

// StopWebhookRequest asks the app server to stop a running session.
// Reason is "user_disabled", "system_stop", or "error".
type StopWebhookRequest struct {
	WebhookEnvelope
	Reason string `json:"reason"`
}

// ServerRegistrationWebhookRequest confirms the app server's
// registration with the cloud.
type ServerRegistrationWebhookRequest struct {
	WebhookEnvelope
	RegistrationID string   `json:"registration_id"`
	PackageName    string   `json:"package_name"`
	ServerURLs     []string `json:"server_urls"`
}

// ServerHeartbeatWebhookRequest is a liveness check for a registered
// app server.
type ServerHeartbeatWebhookRequest struct {
	WebhookEnvelope
	RegistrationID string `json:"registration_id"`
}

// SessionRecoveryWebhookRequest asks the app server to re-establish a
// session after a cloud-side disconnect.
type SessionRecoveryWebhookRequest struct {
	WebhookEnvelope
	WebSocketURL string `json:"aurora_websocket_url"`
}

// WebhookResponse is the body an app server returns for every webhook
// request. Status is "success" or "error".
type WebhookResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
