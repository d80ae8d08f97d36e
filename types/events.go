package types

import "time"

// TranscriptionData is real-time speech transcription for one utterance
// segment.
type TranscriptionData struct {
	Text               string `json:"text"`
	IsFinal            bool   `json:"is_final"`
	TranscribeLanguage string `json:"transcribe_language,omitempty"`
	StartTime          int64  `json:"start_time"`
	EndTime            int64  `json:"end_time"`
	SpeakerID          string `json:"speaker_id,omitempty"`
	DurationMs         int64  `json:"duration,omitempty"`
}

// TranslationData is real-time translation of a transcription segment.
type TranslationData struct {
	Text               string `json:"text"`
	OriginalText       string `json:"original_text,omitempty"`
	IsFinal            bool   `json:"is_final"`
	StartTime          int64  `json:"start_time"`
	EndTime            int64  `json:"end_time"`
	SpeakerID          string `json:"speaker_id,omitempty"`
	DurationMs         int64  `json:"duration,omitempty"`
	TranscribeLanguage string `json:"transcribe_language,omitempty"`
	TranslateLanguage  string `json:"translate_language,omitempty"`
	DidTranslate       bool   `json:"did_translate"`
}

// AudioChunk is a raw audio buffer from the glasses microphone.
type AudioChunk struct {
	Data       []byte `json:"array_buffer"`
	SampleRate int    `json:"sample_rate,omitempty"`
}

// ButtonPress is a physical button press on the glasses.
type ButtonPress struct {
	ButtonID  string `json:"button_id"`
	PressType string `json:"press_type"` // "short" or "long"
}

// HeadPosition reports head orientation changes.
type HeadPosition struct {
	Position string `json:"position"` // "up" or "down"
}

// PhoneNotification is a notification mirrored from the paired phone.
type PhoneNotification struct {
	NotificationID string `json:"notification_id"`
	App            string `json:"app"`
	Title          string `json:"title"`
	Content        string `json:"content"`
	Priority       string `json:"priority"` // "low", "normal", or "high"
}

// NotificationDismissed reports a phone notification being dismissed.
type NotificationDismissed struct {
	NotificationID string `json:"notification_id"`
}

// BatteryUpdate is a battery status report from the glasses or phone.
type BatteryUpdate struct {
	Level            int  `json:"level"` // 0-100
	Charging         bool `json:"charging"`
	MinutesRemaining int  `json:"time_remaining,omitempty"`
}

// GlassesConnectionState reports the glasses' connection status.
type GlassesConnectionState struct {
	ModelName string `json:"model_name"`
	Status    string `json:"status"`
}

// LocationUpdate is a GPS fix.
type LocationUpdate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// VPSCoordinates is a visual-positioning-system pose estimate.
type VPSCoordinates struct {
	DeviceModel string  `json:"device_model"`
	RequestID   string  `json:"request_id"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Z           float64 `json:"z"`
	QX          float64 `json:"qx"`
	QY          float64 `json:"qy"`
	QZ          float64 `json:"qz"`
	QW          float64 `json:"qw"`
	Confidence  float64 `json:"confidence"`
}

// CalendarEvent is an upcoming calendar entry from the paired phone.
type CalendarEvent struct {
	EventID   string `json:"event_id"`
	Title     string `json:"title"`
	DtStart   string `json:"dt_start"`
	DtEnd     string `json:"dt_end"`
	Timezone  string `json:"timezone"`
	Timestamp string `json:"time_stamp"`
}

// VoiceActivity reports whether speech is currently detected.
type VoiceActivity struct {
	Status bool `json:"status"`
}

// PhotoTaken carries a photo captured on the glasses.
type PhotoTaken struct {
	Data      []byte    `json:"photo_data"`
	MimeType  string    `json:"mime_type"`
	Timestamp time.Time `json:"timestamp"`
}

// RTMPStreamStatus is a status update for an outgoing RTMP stream.
type RTMPStreamStatus struct {
	StreamID     string         `json:"stream_id,omitempty"`
	Status       string         `json:"status"`
	ErrorDetails string         `json:"error_details,omitempty"`
	AppID        string         `json:"app_id,omitempty"`
	Stats        map[string]any `json:"stats,omitempty"`
}

// CustomMessage is an app-defined payload keyed by an action string.
type CustomMessage struct {
	Action  string `json:"action"`
	Payload any    `json:"payload"`
}
