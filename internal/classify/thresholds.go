package classify

import (
	"fmt"

	apperrors "github.com/ironsheep/heightmesh/internal/errors"
)

// Thresholds are the decision-tree policy constants. They are hand-tuned,
// not learned.
type Thresholds struct {
	// EdgeDensity is the edge-pixel fraction above which an image counts as
	// line art (circuits or trigonometry).
	EdgeDensity float64 `yaml:"edge_density" json:"edge_density"`

	// LineCount is the line count above which line art counts as circuits.
	LineCount int `yaml:"line_count" json:"line_count"`

	// CircleCount is the circle count above which an image counts as
	// circular objects.
	CircleCount int `yaml:"circle_count" json:"circle_count"`

	// EdgeLow and EdgeHigh are the fixed Canny thresholds (0-255) used for
	// the edge density signal.
	EdgeLow  int `yaml:"edge_low" json:"edge_low"`
	EdgeHigh int `yaml:"edge_high" json:"edge_high"`

	// AnalysisMaxSide bounds the working copy the signals are computed on.
	// Zero analyzes the image at full size.
	AnalysisMaxSide int `yaml:"analysis_max_side" json:"analysis_max_side"`
}

// DefaultThresholds returns the tuned defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		EdgeDensity:     0.2,
		LineCount:       15,
		CircleCount:     3,
		EdgeLow:         50,
		EdgeHigh:        150,
		AnalysisMaxSide: 512,
	}
}

// Validate checks that values are sane.
func (t Thresholds) Validate() error {
	if t.EdgeDensity < 0 || t.EdgeDensity > 1 {
		return apperrors.NewValidationError(
			fmt.Sprintf("thresholds.edge_density must be in [0,1], got %v", t.EdgeDensity), nil)
	}
	if t.LineCount < 0 {
		return apperrors.NewValidationError(
			fmt.Sprintf("thresholds.line_count must be >= 0, got %d", t.LineCount), nil)
	}
	if t.CircleCount < 0 {
		return apperrors.NewValidationError(
			fmt.Sprintf("thresholds.circle_count must be >= 0, got %d", t.CircleCount), nil)
	}
	if t.EdgeLow < 0 || t.EdgeHigh > 255 || t.EdgeLow > t.EdgeHigh {
		return apperrors.NewValidationError(
			fmt.Sprintf("thresholds.edge_low/edge_high must satisfy 0 <= low <= high <= 255, got %d/%d", t.EdgeLow, t.EdgeHigh), nil)
	}
	if t.AnalysisMaxSide < 0 {
		return apperrors.NewValidationError(
			fmt.Sprintf("thresholds.analysis_max_side must be >= 0, got %d", t.AnalysisMaxSide), nil)
	}
	return nil
}
