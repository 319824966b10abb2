//go:build gocv

package detection

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// PeopleDetector finds standing people with OpenCV's default HOG
// pedestrian model.
type PeopleDetector struct{}

// NewPeopleDetector returns a PeopleDetector.
func NewPeopleDetector() *PeopleDetector {
	return &PeopleDetector{}
}

// Name implements Detector.
func (d *PeopleDetector) Name() string { return "people" }

// Detect implements Detector. The HOG model reports no per-window score
// through DetectMultiScale, so every detection has confidence 1.
func (d *PeopleDetector) Detect(img image.Image) ([]Box, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	defer mat.Close()

	hog := gocv.NewHOGDescriptor()
	defer hog.Close()

	model := gocv.HOGDefaultPeopleDetector()
	defer model.Close()

	if err := hog.SetSVMDetector(model); err != nil {
		return nil, unavailable(d.Name(), err)
	}

	bounds := img.Bounds()
	rects := hog.DetectMultiScale(mat)
	boxes := make([]Box, 0, len(rects))
	for _, r := range rects {
		boxes = append(boxes, Box{
			X:          r.Min.X + bounds.Min.X,
			Y:          r.Min.Y + bounds.Min.Y,
			Width:      r.Dx(),
			Height:     r.Dy(),
			Label:      "person",
			Confidence: 1,
		})
	}
	return boxes, nil
}
