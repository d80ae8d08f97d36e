package types

// Setting types in an app's declared settings schema.
const (
	SettingToggle           = "toggle"
	SettingText             = "text"
	SettingSelect           = "select"
	SettingSlider           = "slider"
	SettingGroup            = "group"
	SettingTextNoSaveButton = "text_no_save_button"
	SettingSelectWithSearch = "select_with_search"
	SettingMultiselect      = "multiselect"
	SettingTitleValue       = "titleValue"
)

// SelectOption is one choice in a select-type setting.
type SelectOption struct {
	Label string `json:"label"`
	Value any    `json:"value"`
}

// AppSetting is one entry in an app's settings schema: the declared
// type and label plus the user's current value. The flat wire Setting
// carries only key and value; AppSetting is the full declaration the
// cloud stores for the app.
type AppSetting struct {
	Type         string         `json:"type"`
	Key          string         `json:"key"`
	Label        string         `json:"label,omitempty"`
	Value        any            `json:"value,omitempty"`
	DefaultValue any            `json:"default_value,omitempty"`
	Options      []SelectOption `json:"options,omitempty"`
	Min          *float64       `json:"min,omitempty"`
	Max          *float64       `json:"max,omitempty"`
}

// AppSettings is an app's full settings schema.
type AppSettings []AppSetting

// Get returns the setting with the given key.
func (s AppSettings) Get(key string) (AppSetting, bool) {
	for _, setting := range s {
		if setting.Key == key {
			return setting, true
		}
	}
	return AppSetting{}, false
}

// Value returns the effective value for a key: the user's value if
// set, otherwise the declared default.
func (s AppSettings) Value(key string) (any, bool) {
	setting, ok := s.Get(key)
	if !ok {
		return nil, false
	}
	if setting.Value != nil {
		return setting.Value, true
	}
	return setting.DefaultValue, setting.DefaultValue != nil
}

// Flatten reduces the schema to the wire key/value pairs delivered on
// settings updates, using the effective value per key.
func (s AppSettings) Flatten() []Setting {
	flat := make([]Setting, 0, len(s))
	for _, setting := range s {
		if setting.Type == SettingGroup {
			continue
		}
		v := setting.Value
		if v == nil {
			v = setting.DefaultValue
		}
		flat = append(flat, Setting{Key: setting.Key, Value: v})
	}
	return flat
}
