package types

import (
	"reflect"
	"testing"
)

func testSchema() AppSettings {
	return AppSettings{
		{Type: SettingGroup, Key: "display", Label: "Display"},
		{Type: SettingToggle, Key: "show_captions", DefaultValue: true},
		{Type: SettingSlider, Key: "brightness", Value: 70, DefaultValue: 50},
		{Type: SettingSelect, Key: "language", Options: []SelectOption{
			{Label: "English", Value: "en-US"},
			{Label: "Spanish", Value: "es-ES"},
		}},
	}
}

func TestAppSettingsGet(t *testing.T) {
	s := testSchema()

	setting, ok := s.Get("brightness")
	if !ok {
		t.Fatal("expected brightness setting")
	}
	if setting.Type != SettingSlider {
		t.Errorf("expected slider, got %q", setting.Type)
	}

	if _, ok := s.Get("missing"); ok {
		t.Error("unexpected setting for missing key")
	}
}

func TestAppSettingsValue(t *testing.T) {
	s := testSchema()

	tests := []struct {
		key    string
		want   any
		wantOK bool
	}{
		{"brightness", 70, true},      // user value wins
		{"show_captions", true, true}, // falls back to default
		{"language", nil, false},      // no value, no default
		{"missing", nil, false},
	}
	for _, tt := range tests {
		got, ok := s.Value(tt.key)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("Value(%q) = %v, %v; want %v, %v", tt.key, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestAppSettingsFlatten(t *testing.T) {
	flat := testSchema().Flatten()

	want := []Setting{
		{Key: "show_captions", Value: true},
		{Key: "brightness", Value: 70},
		{Key: "language", Value: nil},
	}
	if !reflect.DeepEqual(flat, want) {
		t.Errorf("Flatten() = %v, want %v", flat, want)
	}
}
