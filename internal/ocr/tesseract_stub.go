//go:build !tesseract

package ocr

import (
	"fmt"
	"image"

	"github.com/ironsheep/heightmesh/internal/detection"
	apperrors "github.com/ironsheep/heightmesh/internal/errors"
)

// Detect always reports the detector as unavailable.
func (d *TextDetector) Detect(img image.Image) ([]detection.Box, error) {
	return nil, apperrors.NewDetectorUnavailable(d.Name(),
		fmt.Errorf("%w: built without tesseract support", detection.ErrUnavailable))
}

// Version returns an empty string when Tesseract is not linked.
func Version() string {
	return ""
}
