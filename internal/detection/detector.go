package detection

import (
	"errors"
	"fmt"
	"image"

	apperrors "github.com/ironsheep/heightmesh/internal/errors"
)

// ErrUnavailable marks a detector that cannot run in this process.
var ErrUnavailable = errors.New("detector unavailable")

// Box is an axis-aligned detection in source pixel coordinates.
type Box struct {
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Label      string  `json:"label,omitempty"`
	Confidence float64 `json:"confidence"`
}

// Area returns Width × Height.
func (b Box) Area() int {
	return b.Width * b.Height
}

// Detector finds instances of one feature in an image.
type Detector interface {
	// Name identifies the detector in logs and errors.
	Name() string

	// Detect returns the detections in img. An error wrapping ErrUnavailable
	// means the detector could not run at all.
	Detect(img image.Image) ([]Box, error)
}

// Point represents a 2D coordinate in pixel space.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// IsUnavailable reports whether err means a detector could not run.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable) ||
		apperrors.IsType(err, apperrors.ErrorTypeDetectorUnavailable)
}

// unavailable wraps cause as a DetectorUnavailable error for the named detector.
func unavailable(name string, cause error) error {
	if cause == nil {
		cause = ErrUnavailable
	} else if !errors.Is(cause, ErrUnavailable) {
		cause = fmt.Errorf("%w: %v", ErrUnavailable, cause)
	}
	return apperrors.NewDetectorUnavailable(name, cause)
}

type firstAvailable struct {
	name      string
	detectors []Detector
}

// FirstAvailable returns a Detector that delegates to the first of detectors
// that runs. Unavailable detectors are skipped; any other error is returned
// as is. If none can run the result is unavailable.
func FirstAvailable(name string, detectors ...Detector) Detector {
	return &firstAvailable{name: name, detectors: detectors}
}

func (f *firstAvailable) Name() string { return f.name }

func (f *firstAvailable) Detect(img image.Image) ([]Box, error) {
	var lastErr error
	for _, d := range f.detectors {
		if d == nil {
			continue
		}
		boxes, err := d.Detect(img)
		if err == nil {
			return boxes, nil
		}
		if !IsUnavailable(err) {
			return nil, fmt.Errorf("%s: %w", d.Name(), err)
		}
		lastErr = err
	}
	return nil, unavailable(f.name, lastErr)
}
