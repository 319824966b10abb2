//go:build !gocv

package detection

import (
	"errors"
	"image"
)

// PeopleDetector is unavailable in builds without the gocv tag.
type PeopleDetector struct{}

// NewPeopleDetector returns a PeopleDetector.
func NewPeopleDetector() *PeopleDetector {
	return &PeopleDetector{}
}

// Name implements Detector.
func (d *PeopleDetector) Name() string { return "people" }

// Detect always reports the detector as unavailable.
func (d *PeopleDetector) Detect(img image.Image) ([]Box, error) {
	return nil, unavailable(d.Name(), errors.New("built without OpenCV support (gocv tag)"))
}
