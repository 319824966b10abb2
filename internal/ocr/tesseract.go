//go:build tesseract

package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/heightmesh/internal/detection"
	apperrors "github.com/ironsheep/heightmesh/internal/errors"
)

// Detect implements detection.Detector.
//
// The image is handed to Tesseract as an in-memory PNG. A client that cannot
// be configured for the language (missing traineddata) makes the detector
// unavailable; a recognition failure is an ordinary error.
func (d *TextDetector) Detect(img image.Image) ([]detection.Box, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(d.Language); err != nil {
		return nil, apperrors.NewDetectorUnavailable(d.Name(),
			fmt.Errorf("%w: failed to set language: %v", detection.ErrUnavailable, err))
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	words := make([]word, 0, len(boxes))
	for _, box := range boxes {
		words = append(words, word{
			text:       box.Word,
			confidence: float64(box.Confidence) / 100.0,
			rect:       box.Box,
		})
	}
	return wordsToBoxes(words, d.MinConfidence, img.Bounds().Min), nil
}

// Version returns the linked Tesseract version.
func Version() string {
	return gosseract.Version()
}
