// Package ocr detects text with the Tesseract OCR engine.
//
// TextDetector satisfies detection.Detector: it runs Tesseract word-level
// recognition (gosseract/v2, RIL_WORD iterator level) and reports one Box per
// recognized word, labeled with the word itself.
//
// # Build Tags
//
// Tesseract is a cgo dependency. It is compiled in only with the tesseract
// build tag:
//
//	go build -tags tesseract ./...
//
// Without the tag TextDetector reports itself unavailable, and callers fall
// back to the edge-density heuristic in package detection.
//
// # Prerequisites
//
// With the tag, Tesseract and its language data must be installed:
//   - Ubuntu/Debian: apt-get install libtesseract-dev tesseract-ocr-eng
//   - macOS: brew install tesseract
package ocr
