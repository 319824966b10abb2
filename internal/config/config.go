// Package config holds generation settings and the application configuration.
//
// Configuration is layered: DefaultConfig, then an optional YAML file
// (LoadConfig), then HEIGHTMESH_* environment variables (ApplyEnv).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/heightmesh/internal/classify"
	apperrors "github.com/ironsheep/heightmesh/internal/errors"
)

// Config is the full application configuration.
type Config struct {
	Settings   Settings            `yaml:"settings"`
	Thresholds classify.Thresholds `yaml:"thresholds"`
	Detectors  DetectorConfig      `yaml:"detectors"`

	// JournalPath enables the SQLite processing journal when non-empty.
	JournalPath string `yaml:"journal_path"`
	LogLevel    string `yaml:"log_level"`
}

// DetectorConfig configures the opaque detector collaborators.
type DetectorConfig struct {
	// FaceCascadePath points to a pigo facefinder cascade. Empty disables
	// face detection.
	FaceCascadePath string `yaml:"face_cascade_path"`

	// OCRLanguage is the Tesseract language used for text regions.
	OCRLanguage string `yaml:"ocr_language"`

	// MinObjectArea filters object boxes in the analysis report (px²).
	MinObjectArea int `yaml:"min_object_area"`
}

// DefaultConfig returns sane defaults.
func DefaultConfig() *Config {
	return &Config{
		Settings:   DefaultSettings(),
		Thresholds: classify.DefaultThresholds(),
		Detectors: DetectorConfig{
			OCRLanguage:   "eng",
			MinObjectArea: 100,
		},
		LogLevel: "info",
	}
}

// LoadConfig reads and parses a YAML config file. Returns DefaultConfig merged with the file.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Settings = cfg.Settings.WithDefaults()
	return cfg, cfg.Validate()
}

// ApplyEnv overrides configuration values from HEIGHTMESH_* variables.
func (c *Config) ApplyEnv() {
	c.Detectors.FaceCascadePath = getEnvOrDefault("HEIGHTMESH_FACE_CASCADE", c.Detectors.FaceCascadePath)
	c.Detectors.OCRLanguage = getEnvOrDefault("HEIGHTMESH_OCR_LANGUAGE", c.Detectors.OCRLanguage)
	c.JournalPath = getEnvOrDefault("HEIGHTMESH_JOURNAL", c.JournalPath)
	c.LogLevel = getEnvOrDefault("HEIGHTMESH_LOG_LEVEL", c.LogLevel)
	c.Settings.Polygons = parseIntOrDefault("HEIGHTMESH_POLYGONS", c.Settings.Polygons)
	c.Settings.DiscontinuityThreshold = parseFloatOrDefault("HEIGHTMESH_DISCONTINUITY_THRESHOLD", c.Settings.DiscontinuityThreshold)
}

// Validate checks that values are sane.
func (c *Config) Validate() error {
	if err := c.Settings.Validate(); err != nil {
		return err
	}
	if err := c.Thresholds.Validate(); err != nil {
		return err
	}
	if c.Detectors.MinObjectArea < 0 {
		return apperrors.NewValidationError(
			fmt.Sprintf("detectors.min_object_area must be >= 0 (got %d)", c.Detectors.MinObjectArea), nil)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return f
		}
	}
	return defaultValue
}
