package depth

import (
	"image"

	"github.com/anthonynsimon/bild/blur"

	"github.com/ironsheep/heightmesh/internal/imaging"
)

// Blend weights of the generic estimate.
const (
	intensityWeight = 0.7
	edgeWeight      = 0.3
)

// Generic is the fallback strategy. It treats brighter pixels as closer and
// lifts edges slightly:
//
//  1. grayscale
//  2. Gaussian blur with radius Params.BlurRadius
//  3. Canny edge map of the blurred image (0 or 1 per pixel)
//  4. min-max normalized raw intensity; a flat image keeps gray/255
//  5. depth = 0.7 × intensity + 0.3 × edges
//  6. bilateral filter, which smooths flat regions but keeps steps sharp
//     so the mesh builder can still cut faces across them
type Generic struct {
	Bilateral imaging.BilateralParams
}

// NewGeneric returns the generic strategy with default bilateral parameters.
func NewGeneric() *Generic {
	return &Generic{Bilateral: imaging.DefaultBilateralParams()}
}

// Name implements Strategy.
func (g *Generic) Name() string { return "generic" }

// Estimate implements Strategy.
func (g *Generic) Estimate(img image.Image, p Params) (*imaging.Field, error) {
	gray := imaging.Grayscale(img)

	blurred := imaging.FieldFromImage(blur.Gaussian(gray.ToGray(), p.BlurRadius()))
	low, high := p.CannyThresholds()
	edges := imaging.Canny(blurred, low, high)

	intensity := gray.Normalize()

	out := imaging.NewField(gray.Width, gray.Height)
	for i := range out.Pix {
		out.Pix[i] = intensityWeight*intensity.Pix[i] + edgeWeight*edges.Pix[i]
	}

	out = imaging.Bilateral(out, g.Bilateral)
	out.Clamp01()
	return out, nil
}
