package transport

import (
	"encoding/json"
	"fmt"

	"github.com/auroralens/aurora-go/stream"
	"github.com/auroralens/aurora-go/types"
)

// decodeStreamPayload resolves the concrete payload type for a data
// stream message. The stream identifier may carry parameters
// ("transcription:en-US"); the payload type is determined by its base.
func decodeStreamPayload(t stream.Type, raw json.RawMessage) (any, error) {
	var (
		payload any
		err     error
	)

	switch t.Base() {
	case stream.Transcription:
		payload, err = unmarshalAs[types.TranscriptionData](raw)
	case stream.Translation:
		payload, err = unmarshalAs[types.TranslationData](raw)
	case stream.ButtonPress:
		payload, err = unmarshalAs[types.ButtonPress](raw)
	case stream.HeadPosition:
		payload, err = unmarshalAs[types.HeadPosition](raw)
	case stream.PhoneNotification:
		payload, err = unmarshalAs[types.PhoneNotification](raw)
	case stream.NotificationDismissed:
		payload, err = unmarshalAs[types.NotificationDismissed](raw)
	case stream.GlassesBatteryUpdate, stream.PhoneBatteryUpdate:
		payload, err = unmarshalAs[types.BatteryUpdate](raw)
	case stream.GlassesConnectionState:
		payload, err = unmarshalAs[types.GlassesConnectionState](raw)
	case stream.LocationUpdate:
		payload, err = unmarshalAs[types.LocationUpdate](raw)
	case stream.VPSCoordinates:
		payload, err = unmarshalAs[types.VPSCoordinates](raw)
	case stream.CalendarEvent:
		payload, err = unmarshalAs[types.CalendarEvent](raw)
	case stream.VoiceActivity:
		payload, err = unmarshalAs[types.VoiceActivity](raw)
	case stream.AudioChunk:
		payload, err = unmarshalAs[types.AudioChunk](raw)
	case stream.RTMPStreamStatus:
		payload, err = unmarshalAs[types.RTMPStreamStatus](raw)
	case stream.PhotoTaken:
		payload, err = unmarshalAs[types.PhotoTaken](raw)
	case stream.CustomMessage:
		payload, err = unmarshalAs[types.CustomMessage](raw)
	default:
		// Unknown streams are delivered raw so generic handlers still
		// see them.
		var generic map[string]any
		if err = json.Unmarshal(raw, &generic); err == nil {
			payload = generic
		}
	}

	if err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", t.Base(), err)
	}
	return payload, nil
}

func unmarshalAs[T any](raw json.RawMessage) (T, error) {
	var v T
	err := json.Unmarshal(raw, &v)
	return v, err
}
