package detection

import (
	"image"
	"math"
	"sort"
)

// TextRegionDetector finds regions likely to contain text without OCR.
//
// It looks for windows with medium edge density and a predominantly
// horizontal edge structure, which is typical of printed text.
type TextRegionDetector struct {
	// MinConfidence drops candidate windows scoring below it.
	MinConfidence float64
}

// NewTextRegionDetector returns a TextRegionDetector with a 0.3 minimum
// confidence.
func NewTextRegionDetector() *TextRegionDetector {
	return &TextRegionDetector{MinConfidence: 0.3}
}

// Name implements Detector.
func (d *TextRegionDetector) Name() string { return "text_heuristic" }

// Detect implements Detector.
func (d *TextRegionDetector) Detect(img image.Image) ([]Box, error) {
	return DetectTextRegions(img, d.MinConfidence), nil
}

// textWindows are the sliding window sizes tried, from small to large text.
var textWindows = []struct{ w, h int }{
	{100, 30}, // Small text
	{150, 40}, // Medium text
	{200, 50}, // Large text
	{80, 25},  // Very small text
}

// DetectTextRegions finds regions likely to contain text.
//
// Windows of several sizes slide over the edge mask at half-window steps.
// A window with edge density in [0.05, 0.4] scores
//
//	horizontalScore × (1 - |density - 0.2| / 0.2)
//
// and is kept when the score reaches minConfidence. Overlapping windows are
// merged and the result is sorted by confidence, highest first.
func DetectTextRegions(img image.Image, minConfidence float64) []Box {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	edges := detectEdges(img)
	candidates := make([]Box, 0)

	for _, ws := range textWindows {
		stepX := ws.w / 2
		stepY := ws.h / 2

		for y := 0; y <= height-ws.h; y += stepY {
			for x := 0; x <= width-ws.w; x += stepX {
				edgeCount := 0
				for wy := 0; wy < ws.h; wy++ {
					for wx := 0; wx < ws.w; wx++ {
						if edges[y+wy][x+wx] {
							edgeCount++
						}
					}
				}

				density := float64(edgeCount) / float64(ws.w*ws.h)

				// Text typically has medium edge density (not too sparse, not too dense)
				if density < 0.05 || density > 0.4 {
					continue
				}
				confidence := calculateHorizontalScore(edges, x, y, ws.w, ws.h) *
					(1.0 - math.Abs(density-0.2)/0.2)
				if confidence < minConfidence {
					continue
				}
				candidates = append(candidates, Box{
					X:          x + bounds.Min.X,
					Y:          y + bounds.Min.Y,
					Width:      ws.w,
					Height:     ws.h,
					Label:      "text",
					Confidence: math.Round(confidence*1000) / 1000,
				})
			}
		}
	}

	merged := mergeOverlappingRegions(candidates)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Confidence > merged[j].Confidence
	})

	return merged
}

// calculateHorizontalScore returns the share of horizontal edge runs among
// all edge runs in the window.
func calculateHorizontalScore(edges [][]bool, x, y, w, h int) float64 {
	horizontalRuns := 0
	verticalRuns := 0

	for row := y; row < y+h; row++ {
		inRun := false
		for col := x; col < x+w; col++ {
			if edges[row][col] {
				if !inRun {
					horizontalRuns++
					inRun = true
				}
			} else {
				inRun = false
			}
		}
	}

	for col := x; col < x+w; col++ {
		inRun := false
		for row := y; row < y+h; row++ {
			if edges[row][col] {
				if !inRun {
					verticalRuns++
					inRun = true
				}
			} else {
				inRun = false
			}
		}
	}

	if horizontalRuns+verticalRuns == 0 {
		return 0
	}
	return float64(horizontalRuns) / float64(horizontalRuns+verticalRuns)
}

// mergeOverlappingRegions combines overlapping boxes into their union,
// keeping the higher confidence.
func mergeOverlappingRegions(regions []Box) []Box {
	merged := make([]Box, 0, len(regions))

	for _, r := range regions {
		foundMerge := false
		for i := range merged {
			if boxesOverlap(r, merged[i]) {
				u := unionBox(r, merged[i])
				u.Confidence = math.Max(r.Confidence, merged[i].Confidence)
				merged[i] = u
				foundMerge = true
				break
			}
		}
		if !foundMerge {
			merged = append(merged, r)
		}
	}

	return merged
}

// boxesOverlap reports whether two boxes share any area.
func boxesOverlap(a, b Box) bool {
	return a.X < b.X+b.Width && a.X+a.Width > b.X &&
		a.Y < b.Y+b.Height && a.Y+a.Height > b.Y
}

// unionBox returns the smallest box containing both a and b, labeled as a.
func unionBox(a, b Box) Box {
	x1 := minInt(a.X, b.X)
	y1 := minInt(a.Y, b.Y)
	x2 := maxInt(a.X+a.Width, b.X+b.Width)
	y2 := maxInt(a.Y+a.Height, b.Y+b.Height)
	return Box{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1, Label: a.Label}
}
