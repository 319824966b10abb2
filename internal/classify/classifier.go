// Package classify assigns an image one content category.
//
// The classifier is a fixed-priority decision tree over cheap signals; the
// first rule that matches wins:
//
//  1. at least one face                      -> faces
//  2. at least one person                    -> people
//  3. more than Thresholds.CircleCount circles -> circular_objects
//  4. edge density above Thresholds.EdgeDensity:
//     more than Thresholds.LineCount lines   -> circuits
//     otherwise                              -> trigonometry
//  5. otherwise                              -> general
//
// Detectors are opaque. One that is unavailable, fails or panics counts as
// zero detections, so classification degrades toward general.
package classify

import (
	"image"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/heightmesh/internal/detection"
	"github.com/ironsheep/heightmesh/internal/imaging"
	"github.com/ironsheep/heightmesh/internal/logger"
)

// Detectors are the opaque capabilities the classifier consults.
type Detectors struct {
	Faces   detection.Detector
	People  detection.Detector
	Circles detection.Detector
	Lines   detection.Detector
}

// DefaultDetectors wires the built-in detectors. An empty faceCascade leaves
// face detection unavailable.
func DefaultDetectors(faceCascade string) Detectors {
	return Detectors{
		Faces:   detection.NewFaceDetector(faceCascade),
		People:  detection.NewPeopleDetector(),
		Circles: detection.NewCircleDetector(),
		Lines:   detection.NewLineDetector(),
	}
}

// Signals are the raw measurements behind a classification. Signals that
// were not needed to reach the decision are left at zero and their
// Evaluated flag false.
type Signals struct {
	Faces       int     `json:"faces"`
	People      int     `json:"people"`
	Circles     int     `json:"circles"`
	EdgeDensity float64 `json:"edge_density"`
	Lines       int     `json:"lines"`

	// Evaluated lists the signals computed, in evaluation order.
	Evaluated []string `json:"evaluated"`
}

// Classifier is the content classifier.
type Classifier struct {
	thresholds Thresholds
	detectors  Detectors
}

// NewClassifier creates a Classifier.
func NewClassifier(thresholds Thresholds, detectors Detectors) *Classifier {
	return &Classifier{thresholds: thresholds, detectors: detectors}
}

// Thresholds returns the classifier's policy constants.
func (c *Classifier) Thresholds() Thresholds {
	return c.thresholds
}

// Classify returns the content category of img.
func (c *Classifier) Classify(img image.Image) Category {
	category, _ := c.ClassifyWithSignals(img)
	return category
}

// ClassifyWithSignals returns the content category of img along with the
// signals evaluated to reach it.
func (c *Classifier) ClassifyWithSignals(img image.Image) (Category, Signals) {
	th := c.thresholds
	work := imaging.FitWithin(img, th.AnalysisMaxSide)

	var s Signals
	category := c.decide(work, &s)

	logger.WithFields(logrus.Fields{
		"category":     category,
		"faces":        s.Faces,
		"people":       s.People,
		"circles":      s.Circles,
		"edge_density": s.EdgeDensity,
		"lines":        s.Lines,
	}).Debug("classified image")

	return category, s
}

func (c *Classifier) decide(work image.Image, s *Signals) Category {
	th := c.thresholds

	s.Faces = c.count("faces", c.detectors.Faces, work, s)
	if s.Faces >= 1 {
		return Faces
	}

	s.People = c.count("people", c.detectors.People, work, s)
	if s.People >= 1 {
		return People
	}

	s.Circles = c.count("circles", c.detectors.Circles, work, s)
	if s.Circles > th.CircleCount {
		return CircularObjects
	}

	s.EdgeDensity = imaging.EdgeDensity(imaging.EdgeMap(work, th.EdgeLow, th.EdgeHigh))
	s.Evaluated = append(s.Evaluated, "edge_density")
	if s.EdgeDensity > th.EdgeDensity {
		s.Lines = c.count("lines", c.detectors.Lines, work, s)
		if s.Lines > th.LineCount {
			return Circuits
		}
		return Trigonometry
	}

	return General
}

func (c *Classifier) count(signal string, d detection.Detector, img image.Image, s *Signals) int {
	s.Evaluated = append(s.Evaluated, signal)
	return len(detection.Safe(d, img))
}
