package types

// Capabilities is the hardware profile of the connected glasses,
// delivered with the connection ack. Sections are nil when the device
// lacks the hardware.
type Capabilities struct {
	ModelName string `json:"model_name"`

	HasCamera bool                `json:"has_camera"`
	Camera    *CameraCapabilities `json:"camera,omitempty"`

	HasScreen bool                `json:"has_screen"`
	Screen    *ScreenCapabilities `json:"screen,omitempty"`

	HasMicrophone bool                    `json:"has_microphone"`
	Microphone    *MicrophoneCapabilities `json:"microphone,omitempty"`

	HasSpeaker bool                 `json:"has_speaker"`
	Speaker    *SpeakerCapabilities `json:"speaker,omitempty"`

	HasIMU bool             `json:"has_imu"`
	IMU    *IMUCapabilities `json:"imu,omitempty"`

	HasButton bool                `json:"has_button"`
	Button    *ButtonCapabilities `json:"button,omitempty"`

	HasLight bool               `json:"has_light"`
	Light    *LightCapabilities `json:"light,omitempty"`

	Power *PowerCapabilities `json:"power,omitempty"`
}

// Resolution is a pixel dimension pair.
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// CameraCapabilities describes the device camera.
type CameraCapabilities struct {
	Resolution *Resolution       `json:"resolution,omitempty"`
	HasHDR     bool              `json:"has_hdr"`
	HasFocus   bool              `json:"has_focus"`
	Video      VideoCapabilities `json:"video"`
}

// VideoCapabilities describes video recording and streaming support.
type VideoCapabilities struct {
	CanRecord            bool         `json:"can_record"`
	CanStream            bool         `json:"can_stream"`
	SupportedStreamTypes []string     `json:"supported_stream_types,omitempty"`
	SupportedResolutions []Resolution `json:"supported_resolutions,omitempty"`
}

// ScreenCapabilities describes the display.
type ScreenCapabilities struct {
	Count            int         `json:"count"`
	IsColor          bool        `json:"is_color"`
	Color            string      `json:"color,omitempty"`
	CanDisplayBitmap bool        `json:"can_display_bitmap"`
	Resolution       *Resolution `json:"resolution,omitempty"`
	MaxTextLines     int         `json:"max_text_lines,omitempty"`
	AdjustBrightness bool        `json:"adjust_brightness"`
}

// MicrophoneCapabilities describes audio input.
type MicrophoneCapabilities struct {
	Count  int  `json:"count"`
	HasVAD bool `json:"has_vad"`
}

// SpeakerCapabilities describes audio output.
type SpeakerCapabilities struct {
	Count     int  `json:"count"`
	IsPrivate bool `json:"is_private"`
}

// IMUCapabilities describes the inertial sensors.
type IMUCapabilities struct {
	AxisCount        int  `json:"axis_count"`
	HasAccelerometer bool `json:"has_accelerometer"`
	HasCompass       bool `json:"has_compass"`
	HasGyroscope     bool `json:"has_gyroscope"`
}

// ButtonInput describes one physical input.
type ButtonInput struct {
	Type         string   `json:"type"` // "press", "swipe1d", "swipe2d"
	Events       []string `json:"events"`
	IsCapacitive bool     `json:"is_capacitive"`
}

// ButtonCapabilities describes physical inputs.
type ButtonCapabilities struct {
	Count   int           `json:"count"`
	Buttons []ButtonInput `json:"buttons,omitempty"`
}

// Light describes one LED.
type Light struct {
	IsFullColor bool   `json:"is_full_color"`
	Color       string `json:"color,omitempty"`
}

// LightCapabilities describes LEDs.
type LightCapabilities struct {
	Count  int     `json:"count"`
	Lights []Light `json:"lights,omitempty"`
}

// PowerCapabilities describes battery hardware.
type PowerCapabilities struct {
	HasExternalBattery bool `json:"has_external_battery"`
}
