package detection

import (
	"fmt"
	"image"
	"os"
	"sync"

	"github.com/disintegration/imaging"
	pigo "github.com/esimov/pigo/core"
)

// FaceDetector finds frontal faces with a pigo cascade.
//
// The cascade file is read on first use. Without a cascade the detector is
// unavailable rather than failing the caller.
type FaceDetector struct {
	// CascadePath is the pigo "facefinder" cascade file.
	CascadePath string

	// MinSize and MaxSize bound the face size searched, in pixels.
	MinSize int
	MaxSize int

	// ShiftFactor and ScaleFactor control the sliding window step and the
	// scale pyramid ratio.
	ShiftFactor float64
	ScaleFactor float64

	// QualityThreshold drops clustered detections with a lower score.
	QualityThreshold float32

	once       sync.Once
	classifier *pigo.Pigo
	loadErr    error
}

// NewFaceDetector returns a FaceDetector reading its cascade from path.
func NewFaceDetector(cascadePath string) *FaceDetector {
	return &FaceDetector{
		CascadePath:      cascadePath,
		MinSize:          20,
		MaxSize:          1000,
		ShiftFactor:      0.1,
		ScaleFactor:      1.1,
		QualityThreshold: 5.0,
	}
}

// Name implements Detector.
func (d *FaceDetector) Name() string { return "faces" }

func (d *FaceDetector) load() {
	if d.CascadePath == "" {
		d.loadErr = unavailable(d.Name(), fmt.Errorf("no cascade file configured"))
		return
	}
	cascade, err := os.ReadFile(d.CascadePath)
	if err != nil {
		d.loadErr = unavailable(d.Name(), fmt.Errorf("failed to read cascade: %w", err))
		return
	}
	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		d.loadErr = unavailable(d.Name(), fmt.Errorf("failed to unpack cascade: %w", err))
		return
	}
	d.classifier = classifier
}

// Detect implements Detector. Confidence maps the pigo score q to
// q / (q + QualityThreshold), so a detection right at the threshold scores 0.5.
func (d *FaceDetector) Detect(img image.Image) ([]Box, error) {
	d.once.Do(d.load)
	if d.loadErr != nil {
		return nil, d.loadErr
	}

	src := imaging.Clone(img)
	cols, rows := src.Bounds().Dx(), src.Bounds().Dy()

	params := pigo.CascadeParams{
		MinSize:     d.MinSize,
		MaxSize:     d.MaxSize,
		ShiftFactor: d.ShiftFactor,
		ScaleFactor: d.ScaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: pigo.RgbToGrayscale(src),
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	dets := d.classifier.RunCascade(params, 0.0)
	dets = d.classifier.ClusterDetections(dets, 0.2)

	bounds := img.Bounds()
	boxes := make([]Box, 0, len(dets))
	for _, det := range dets {
		if det.Q < d.QualityThreshold {
			continue
		}
		boxes = append(boxes, Box{
			X:          det.Col - det.Scale/2 + bounds.Min.X,
			Y:          det.Row - det.Scale/2 + bounds.Min.Y,
			Width:      det.Scale,
			Height:     det.Scale,
			Label:      "face",
			Confidence: float64(det.Q / (det.Q + d.QualityThreshold)),
		})
	}
	return boxes, nil
}
