package config

import (
	"encoding/json"
	"fmt"

	apperrors "github.com/ironsheep/heightmesh/internal/errors"
)

// ColorMode selects how vertex colors are produced.
type ColorMode string

const (
	ColorModeColor      ColorMode = "color"
	ColorModeMonochrome ColorMode = "monochrome"
)

// Default generation values.
const (
	DefaultPolygons               = 2000
	DefaultDetailLevel            = 5
	DefaultSensitivity            = 0.5
	DefaultDiscontinuityThreshold = 0.2
)

// Settings is the caller-supplied GenerationSettings record. It is read-only
// for the duration of a run.
type Settings struct {
	// Polygons is the target polygon budget that drives downsampling.
	Polygons int `yaml:"polygons" json:"polygons"`

	// ColorMode is "color" or "monochrome".
	ColorMode ColorMode `yaml:"color_mode" json:"color_mode"`

	// DetailLevel (1-10) is handed to the depth strategy.
	DetailLevel int `yaml:"detail_level" json:"detail_level"`

	// Sensitivity (0-1) is handed to the depth strategy.
	Sensitivity float64 `yaml:"sensitivity" json:"sensitivity"`

	// DiscontinuityThreshold is the largest per-edge depth difference a
	// 2x2 block may have and still be triangulated.
	DiscontinuityThreshold float64 `yaml:"discontinuity_threshold" json:"discontinuity_threshold"`
}

// DefaultSettings returns the settings used when the caller supplies none.
func DefaultSettings() Settings {
	return Settings{
		Polygons:               DefaultPolygons,
		ColorMode:              ColorModeColor,
		DetailLevel:            DefaultDetailLevel,
		Sensitivity:            DefaultSensitivity,
		DiscontinuityThreshold: DefaultDiscontinuityThreshold,
	}
}

// WithDefaults returns a copy of s where every unset (zero) field carries its
// default. A zero Sensitivity counts as unset.
func (s Settings) WithDefaults() Settings {
	return s.Merge(DefaultSettings())
}

// Merge returns a copy of s with every unset (zero) field taken from base.
func (s Settings) Merge(base Settings) Settings {
	if s.Polygons == 0 {
		s.Polygons = base.Polygons
	}
	if s.ColorMode == "" {
		s.ColorMode = base.ColorMode
	}
	if s.DetailLevel == 0 {
		s.DetailLevel = base.DetailLevel
	}
	if s.Sensitivity == 0 {
		s.Sensitivity = base.Sensitivity
	}
	if s.DiscontinuityThreshold == 0 {
		s.DiscontinuityThreshold = base.DiscontinuityThreshold
	}
	return s
}

// Validate checks that every field is within its documented range.
func (s Settings) Validate() error {
	if s.Polygons <= 0 {
		return apperrors.NewValidationError(fmt.Sprintf("polygons must be > 0 (got %d)", s.Polygons), nil)
	}
	switch s.ColorMode {
	case ColorModeColor, ColorModeMonochrome:
	default:
		return apperrors.NewValidationError(fmt.Sprintf("unsupported color_mode %q (use color or monochrome)", s.ColorMode), nil)
	}
	if s.DetailLevel < 1 || s.DetailLevel > 10 {
		return apperrors.NewValidationError(fmt.Sprintf("detail_level must be between 1 and 10 (got %d)", s.DetailLevel), nil)
	}
	if s.Sensitivity < 0 || s.Sensitivity > 1 {
		return apperrors.NewValidationError(fmt.Sprintf("sensitivity must be between 0 and 1 (got %g)", s.Sensitivity), nil)
	}
	if s.DiscontinuityThreshold <= 0 {
		return apperrors.NewValidationError(fmt.Sprintf("discontinuity_threshold must be > 0 (got %g)", s.DiscontinuityThreshold), nil)
	}
	return nil
}

// ParseSettings decodes a JSON settings record onto the defaults, so absent
// keys keep their default values.
func ParseSettings(data []byte) (Settings, error) {
	s := DefaultSettings()
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, apperrors.NewValidationError("invalid settings JSON", err)
	}
	s = s.WithDefaults()
	return s, s.Validate()
}
