package depth

import (
	"fmt"
	"image"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/heightmesh/internal/classify"
	"github.com/ironsheep/heightmesh/internal/imaging"
	"github.com/ironsheep/heightmesh/internal/logger"
)

// Result is a height field and the strategy that produced it.
type Result struct {
	Field    *imaging.Field
	Strategy string

	// FellBack is true when the resolved strategy failed and the fallback
	// produced Field instead.
	FellBack bool
}

// Estimator is the height field estimator.
type Estimator struct {
	registry *Registry
}

// NewEstimator creates an Estimator over registry. A nil registry uses a
// registry with only the generic fallback.
func NewEstimator(registry *Registry) *Estimator {
	if registry == nil {
		registry = NewRegistry(nil)
	}
	return &Estimator{registry: registry}
}

// Registry returns the estimator's strategy registry.
func (e *Estimator) Registry() *Registry {
	return e.registry
}

// Estimate resolves the strategy for category and runs it.
func (e *Estimator) Estimate(img image.Image, category classify.Category, detailLevel int, sensitivity float64) (*imaging.Field, error) {
	res, err := e.Run(e.registry.Resolve(category), img, Params{DetailLevel: detailLevel, Sensitivity: sensitivity})
	if err != nil {
		return nil, err
	}
	return res.Field, nil
}

// Run runs an already resolved strategy. If a non-fallback strategy fails or
// returns a field of the wrong size, the fallback runs instead. The result
// is always clamped to [0,1].
func (e *Estimator) Run(s Strategy, img image.Image, p Params) (*Result, error) {
	fallback := e.registry.Fallback()
	if s == nil {
		s = fallback
	}

	field, err := runStrategy(s, img, p)
	if err == nil {
		return &Result{Field: field, Strategy: s.Name()}, nil
	}
	if s == fallback {
		return nil, err
	}

	logger.WithError(err).WithFields(logrus.Fields{
		"strategy": s.Name(),
		"fallback": fallback.Name(),
	}).Warn("depth strategy failed, using fallback")

	field, err = runStrategy(fallback, img, p)
	if err != nil {
		return nil, err
	}
	return &Result{Field: field, Strategy: fallback.Name(), FellBack: true}, nil
}

func runStrategy(s Strategy, img image.Image, p Params) (*imaging.Field, error) {
	field, err := s.Estimate(img, p)
	if err != nil {
		return nil, fmt.Errorf("depth strategy %s: %w", s.Name(), err)
	}
	b := img.Bounds()
	if field == nil || field.Width != b.Dx() || field.Height != b.Dy() || len(field.Pix) != b.Dx()*b.Dy() {
		return nil, fmt.Errorf("depth strategy %s: height field does not match the %dx%d image", s.Name(), b.Dx(), b.Dy())
	}
	out := field.Clone()
	out.Clamp01()
	return out, nil
}
