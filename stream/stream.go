package stream

import "strings"

// Type identifies a category of realtime data delivered through the
// event engine. Parameterized streams embed their parameters after a
// colon, e.g. "transcription:en-US".
type Type string

// Core interaction streams.
const (
	Transcription     Type = "transcription"
	Translation       Type = "translation"
	ButtonPress       Type = "button_press"
	HeadPosition      Type = "head_position"
	PhoneNotification Type = "phone_notification"
)

// Device status streams.
const (
	GlassesBatteryUpdate   Type = "glasses_battery_update"
	PhoneBatteryUpdate     Type = "phone_battery_update"
	GlassesConnectionState Type = "glasses_connection_state"
)

// Location and spatial streams.
const (
	LocationUpdate Type = "location_update"
	VPSCoordinates Type = "vps_coordinates"
)

// Audio and media streams.
const (
	VoiceActivity    Type = "vad"
	AudioChunk       Type = "audio_chunk"
	RTMPStreamStatus Type = "rtmp_stream_status"
	PhotoTaken       Type = "photo_taken"
)

// Calendar and notification streams.
const (
	CalendarEvent         Type = "calendar_event"
	NotificationDismissed Type = "notification_dismissed"
)

// CustomMessage carries app-defined payloads keyed by an action string.
const CustomMessage Type = "custom_message"

// Session lifecycle events. These are emitted locally by the session, not
// delivered over the wire as data streams.
const (
	Connected      Type = "connected"
	Disconnected   Type = "disconnected"
	SessionError   Type = "error"
	SettingsUpdate Type = "settings_update"
)

// DashboardModeChanged fires when the glasses switch dashboard modes.
const DashboardModeChanged Type = "dashboard_mode_changed"

// String returns the identifier as a plain string.
func (t Type) String() string {
	return string(t)
}

// Base returns the stream family without parameters. For
// "transcription:en-US" it returns Transcription; for unparameterized
// streams it returns the Type unchanged.
func (t Type) Base() Type {
	if i := strings.IndexByte(string(t), ':'); i >= 0 {
		return t[:i]
	}
	return t
}

// Params returns the colon-separated parameters following the stream
// family, or nil if the Type carries none.
func (t Type) Params() []string {
	i := strings.IndexByte(string(t), ':')
	if i < 0 {
		return nil
	}
	return strings.Split(string(t[i+1:]), ":")
}

// IsValid reports whether the Type is non-empty.
func (t Type) IsValid() bool {
	return t != ""
}
