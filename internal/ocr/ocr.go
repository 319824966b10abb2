package ocr

import (
	"image"

	"github.com/ironsheep/heightmesh/internal/detection"
)

// DefaultLanguage is the Tesseract language used when none is configured.
const DefaultLanguage = "eng"

// TextDetector finds words with Tesseract.
type TextDetector struct {
	// Language is the Tesseract language code, e.g. "eng" or "deu".
	Language string

	// MinConfidence drops words recognized with a lower confidence (0-1).
	MinConfidence float64
}

// NewTextDetector returns a TextDetector for language, defaulting to English.
func NewTextDetector(language string) *TextDetector {
	if language == "" {
		language = DefaultLanguage
	}
	return &TextDetector{Language: language, MinConfidence: 0.3}
}

// Name implements detection.Detector.
func (d *TextDetector) Name() string { return "ocr" }

// word is one recognized word in image-relative coordinates.
type word struct {
	text       string
	confidence float64 // 0-1
	rect       image.Rectangle
}

// wordsToBoxes converts recognized words into detection boxes, dropping empty
// words and those below minConfidence. origin shifts the boxes back into the
// source image's coordinate space.
func wordsToBoxes(words []word, minConfidence float64, origin image.Point) []detection.Box {
	boxes := make([]detection.Box, 0, len(words))
	for _, w := range words {
		if w.text == "" || w.confidence < minConfidence {
			continue
		}
		boxes = append(boxes, detection.Box{
			X:          w.rect.Min.X + origin.X,
			Y:          w.rect.Min.Y + origin.Y,
			Width:      w.rect.Dx(),
			Height:     w.rect.Dy(),
			Label:      w.text,
			Confidence: w.confidence,
		})
	}
	return boxes
}
