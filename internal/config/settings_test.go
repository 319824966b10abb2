package config

import (
	"testing"

	apperrors "github.com/ironsheep/heightmesh/internal/errors"
)

func TestSettings_WithDefaults(t *testing.T) {
	got := Settings{Polygons: 500}.WithDefaults()

	want := DefaultSettings()
	want.Polygons = 500
	if got != want {
		t.Errorf("WithDefaults: got %+v, want %+v", got, want)
	}

	if (Settings{}).WithDefaults() != DefaultSettings() {
		t.Error("zero settings should equal the defaults")
	}
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"defaults", func(s *Settings) {}, false},
		{"monochrome", func(s *Settings) { s.ColorMode = ColorModeMonochrome }, false},
		{"detail 1", func(s *Settings) { s.DetailLevel = 1 }, false},
		{"detail 10", func(s *Settings) { s.DetailLevel = 10 }, false},
		{"sensitivity 1", func(s *Settings) { s.Sensitivity = 1 }, false},
		{"zero polygons", func(s *Settings) { s.Polygons = 0 }, true},
		{"negative polygons", func(s *Settings) { s.Polygons = -5 }, true},
		{"unknown color mode", func(s *Settings) { s.ColorMode = "sepia" }, true},
		{"detail 0", func(s *Settings) { s.DetailLevel = 0 }, true},
		{"detail 11", func(s *Settings) { s.DetailLevel = 11 }, true},
		{"negative sensitivity", func(s *Settings) { s.Sensitivity = -0.1 }, true},
		{"sensitivity above one", func(s *Settings) { s.Sensitivity = 1.1 }, true},
		{"zero threshold", func(s *Settings) { s.DiscontinuityThreshold = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate: got %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestParseSettings(t *testing.T) {
	s, err := ParseSettings([]byte(`{"polygons": 800, "color_mode": "monochrome"}`))
	if err != nil {
		t.Fatalf("ParseSettings failed: %v", err)
	}
	if s.Polygons != 800 || s.ColorMode != ColorModeMonochrome {
		t.Errorf("parsed values lost: %+v", s)
	}
	if s.DetailLevel != DefaultDetailLevel || s.DiscontinuityThreshold != DefaultDiscontinuityThreshold {
		t.Errorf("absent keys should keep defaults: %+v", s)
	}
}

func TestParseSettings_Empty(t *testing.T) {
	s, err := ParseSettings(nil)
	if err != nil || s != DefaultSettings() {
		t.Errorf("empty input should yield defaults, got %+v, %v", s, err)
	}
}

func TestParseSettings_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed", `{"polygons": `},
		{"wrong type", `{"polygons": "many"}`},
		{"out of range", `{"detail_level": 42}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSettings([]byte(tt.data))
			if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestSettings_Merge(t *testing.T) {
	base := Settings{
		Polygons:               800,
		ColorMode:              ColorModeMonochrome,
		DetailLevel:            7,
		Sensitivity:            0.9,
		DiscontinuityThreshold: 0.1,
	}

	got := Settings{DetailLevel: 2}.Merge(base)
	want := base
	want.DetailLevel = 2
	if got != want {
		t.Errorf("Merge: got %+v, want %+v", got, want)
	}
}
