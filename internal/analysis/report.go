// Package analysis produces the structured summary that accompanies a mesh:
// image shape, detected features, color statistics and mesh counts.
package analysis

import (
	"image"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/heightmesh/internal/classify"
	"github.com/ironsheep/heightmesh/internal/detection"
	"github.com/ironsheep/heightmesh/internal/imaging"
	"github.com/ironsheep/heightmesh/internal/logger"
	"github.com/ironsheep/heightmesh/internal/mesh"
	"github.com/ironsheep/heightmesh/internal/ocr"
)

// Default reporter values.
const (
	DefaultMinObjectArea      = 100
	DefaultDominantColorCount = 5
)

// ImageInfo is the image section of a report.
type ImageInfo struct {
	Width        int               `json:"width"`
	Height       int               `json:"height"`
	Channels     int               `json:"channels"`
	DetectedType classify.Category `json:"detected_type"`
}

// Object is one reported object region.
type Object struct {
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Area       int     `json:"area"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Analysis is the feature section of a report.
type Analysis struct {
	FacesDetected       int                      `json:"faces_detected"`
	PeopleDetected      int                      `json:"people_detected"`
	ObjectsDetected     int                      `json:"objects_detected"`
	ContoursDetected    int                      `json:"contours_detected"`
	TextRegionsDetected int                      `json:"text_regions_detected"`
	AverageColor        imaging.RGB              `json:"average_color"`
	DominantColors      []imaging.ColorFrequency `json:"dominant_colors"`
	Objects             []Object                 `json:"objects"`
}

// MeshInfo is the mesh section of a report.
type MeshInfo struct {
	VerticesCount int `json:"vertices_count"`
	FacesCount    int `json:"faces_count"`
	DepthWidth    int `json:"depth_width"`
	DepthHeight   int `json:"depth_height"`
}

// Report is the analysis payload.
type Report struct {
	Timestamp string    `json:"timestamp"`
	ImageInfo ImageInfo `json:"image_info"`
	Analysis  Analysis  `json:"analysis"`
	Mesh      MeshInfo  `json:"mesh"`
}

// Detectors are the capabilities a Reporter counts with. Nil entries count
// as zero.
type Detectors struct {
	Faces    detection.Detector
	People   detection.Detector
	Contours detection.Detector
	Text     detection.Detector
}

// DefaultDetectors wires the face cascade at faceCascade, the people
// detector, contour tracing, and OCR text regions falling back to the edge
// heuristic when Tesseract is not available.
func DefaultDetectors(faceCascade, ocrLanguage string) Detectors {
	return Detectors{
		Faces:    detection.NewFaceDetector(faceCascade),
		People:   detection.NewPeopleDetector(),
		Contours: detection.NewContourDetector(),
		Text: detection.FirstAvailable("text",
			ocr.NewTextDetector(ocrLanguage),
			detection.NewTextRegionDetector(),
		),
	}
}

// Reporter builds analysis reports.
type Reporter struct {
	detectors     Detectors
	minObjectArea int
	now           func() time.Time
}

// NewReporter creates a Reporter. Contour boxes with an area at or below
// minObjectArea are not reported as objects; a negative value selects
// DefaultMinObjectArea.
func NewReporter(detectors Detectors, minObjectArea int) *Reporter {
	if minObjectArea < 0 {
		minObjectArea = DefaultMinObjectArea
	}
	return &Reporter{
		detectors:     detectors,
		minObjectArea: minObjectArea,
		now:           time.Now,
	}
}

// Report analyzes img. category is the classifier's verdict and meta the
// metadata of the mesh built from img.
func (r *Reporter) Report(img image.Image, category classify.Category, meta mesh.Metadata) *Report {
	info := imaging.Info(img)

	contours := detection.Safe(r.detectors.Contours, img)
	objects := r.objects(contours, info.Width*info.Height)

	report := &Report{
		Timestamp: r.now().UTC().Format(time.RFC3339),
		ImageInfo: ImageInfo{
			Width:        info.Width,
			Height:       info.Height,
			Channels:     info.Channels,
			DetectedType: category,
		},
		Analysis: Analysis{
			FacesDetected:       len(detection.Safe(r.detectors.Faces, img)),
			PeopleDetected:      len(detection.Safe(r.detectors.People, img)),
			ObjectsDetected:     len(objects),
			ContoursDetected:    len(contours),
			TextRegionsDetected: len(detection.Safe(r.detectors.Text, img)),
			AverageColor:        imaging.AverageColor(img),
			DominantColors:      imaging.DominantColors(img, DefaultDominantColorCount),
			Objects:             objects,
		},
		Mesh: MeshInfo{
			VerticesCount: meta.VerticesCount,
			FacesCount:    meta.FacesCount,
			DepthWidth:    meta.ImageDimensions.DepthWidth,
			DepthHeight:   meta.ImageDimensions.DepthHeight,
		},
	}

	logger.WithFields(logrus.Fields{
		"category": category,
		"objects":  report.Analysis.ObjectsDetected,
		"contours": report.Analysis.ContoursDetected,
		"faces":    report.Analysis.FacesDetected,
		"people":   report.Analysis.PeopleDetected,
		"text":     report.Analysis.TextRegionsDetected,
	}).Debug("analysis complete")

	return report
}

func (r *Reporter) objects(boxes []detection.Box, imageArea int) []Object {
	objects := make([]Object, 0, len(boxes))
	for _, b := range boxes {
		area := b.Area()
		if area <= r.minObjectArea {
			continue
		}
		label := b.Label
		if label == "" {
			label = "object"
		}
		objects = append(objects, Object{
			X:          b.X,
			Y:          b.Y,
			Width:      b.Width,
			Height:     b.Height,
			Area:       area,
			Label:      label,
			Confidence: Confidence(area, imageArea),
		})
	}
	return objects
}

// Confidence scores an object by the share of the image it covers:
// 0.5 + 0.5*sqrt(area/imageArea), capped at 1 and rounded to two decimals.
func Confidence(area, imageArea int) float64 {
	if imageArea <= 0 || area <= 0 {
		return 0.5
	}
	c := 0.5 + 0.5*math.Sqrt(float64(area)/float64(imageArea))
	if c > 1 {
		c = 1
	}
	return math.Round(c*100) / 100
}
