// Package depth estimates a height field from a single image.
//
// A Strategy turns an image into a [0,1] height field of the same size,
// where higher values are closer to the viewer. Category-specific strategies
// are looked up in a Registry; the Generic strategy is the fixed fallback for
// every category without one, and always for classify.General.
package depth

import (
	"image"
	"math"

	"github.com/ironsheep/heightmesh/internal/imaging"
)

// Params are the caller's estimation knobs.
type Params struct {
	// DetailLevel in 1-10. Higher keeps finer detail (less smoothing).
	DetailLevel int

	// Sensitivity in 0-1. Higher picks up weaker edges.
	Sensitivity float64
}

// BlurRadius maps the detail level to a Gaussian blur radius:
// (11 - detail) / 4, so detail 5 blurs with radius 1.5 and detail 10 with 0.25.
func (p Params) BlurRadius() float64 {
	d := p.DetailLevel
	if d < 1 {
		d = 1
	}
	if d > 10 {
		d = 10
	}
	return float64(11-d) / 4
}

// CannyThresholds maps sensitivity to Canny thresholds (0-255):
// low = 20 + 60 × (1 - sensitivity), high = 3 × low. Sensitivity 0.5 gives
// the classic 50/150 pair.
func (p Params) CannyThresholds() (low, high int) {
	s := math.Max(0, math.Min(1, p.Sensitivity))
	low = int(math.Round(20 + 60*(1-s)))
	return low, 3 * low
}

// Strategy estimates depth for one kind of content.
type Strategy interface {
	// Name identifies the strategy in logs and the processing journal.
	Name() string

	// Estimate returns a height field with img's dimensions.
	Estimate(img image.Image, p Params) (*imaging.Field, error)
}
