package detection

import (
	"image"
	"math"
	"sort"
)

// Circle represents a detected circular shape.
type Circle struct {
	// Center is the detected center point of the circle.
	Center Point `json:"center"`

	// Radius is the detected radius in pixels.
	Radius int `json:"radius"`

	// Confidence indicates detection quality (0.0 to 1.0).
	// Based on the ratio of edge votes to expected circumference.
	Confidence float64 `json:"confidence"`
}

// CircleDetector finds circles with a Hough circle transform.
type CircleDetector struct {
	// MinRadius is the smallest radius searched, in pixels.
	MinRadius int

	// MaxRadius is the largest radius searched. It is further limited to
	// half the shorter image side.
	MaxRadius int
}

// NewCircleDetector returns a CircleDetector with the defaults used for
// content classification.
func NewCircleDetector() *CircleDetector {
	return &CircleDetector{MinRadius: 8, MaxRadius: 64}
}

// Name implements Detector.
func (d *CircleDetector) Name() string { return "circles" }

// Detect implements Detector. Each circle is reported as its bounding square.
func (d *CircleDetector) Detect(img image.Image) ([]Box, error) {
	circles := DetectCircles(img, d.MinRadius, d.MaxRadius)
	bounds := img.Bounds()
	boxes := make([]Box, 0, len(circles))
	for _, c := range circles {
		boxes = append(boxes, Box{
			X:          c.Center.X - c.Radius + bounds.Min.X,
			Y:          c.Center.Y - c.Radius + bounds.Min.Y,
			Width:      2 * c.Radius,
			Height:     2 * c.Radius,
			Label:      "circle",
			Confidence: c.Confidence,
		})
	}
	return boxes, nil
}

// DetectCircles finds circular shapes in an image using the Hough circle transform.
//
// # Algorithm
//
//  1. Edge Detection: Find edge pixels using gradient thresholds
//  2. Accumulator Voting: For each radius from minRadius to maxRadius, each
//     edge pixel votes for potential centers every 10° around it
//  3. Peak Detection: Local maxima (11x11 neighborhood) in the accumulator
//     with at least 60% of 2×radius votes
//  4. Duplicate Removal: Keep the most confident of circles whose centers
//     are closer than their mean radius
//
// Confidence is votes / (2 × radius), capped at 1.0. Results are sorted by
// confidence (highest first). Coordinates are relative to img.Bounds().Min.
//
// Time complexity is O(edgePixels × radii × 36).
func DetectCircles(img image.Image, minRadius, maxRadius int) []Circle {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if limit := minInt(width, height) / 2; maxRadius > limit {
		maxRadius = limit
	}
	if minRadius < 1 {
		minRadius = 1
	}

	points := edgePoints(detectEdges(img))
	circles := make([]Circle, 0)
	if len(points) == 0 || minRadius > maxRadius {
		return circles
	}

	const angleStep = 10
	cosA := make([]float64, 0, 360/angleStep)
	sinA := make([]float64, 0, 360/angleStep)
	for angle := 0; angle < 360; angle += angleStep {
		rad := float64(angle) * math.Pi / 180
		cosA = append(cosA, math.Cos(rad))
		sinA = append(sinA, math.Sin(rad))
	}

	accumulator := make([]int, width*height)
	for radius := minRadius; radius <= maxRadius; radius++ {
		for i := range accumulator {
			accumulator[i] = 0
		}

		// Vote for circle centers
		for _, p := range points {
			for i := range cosA {
				cx := p.X - int(float64(radius)*cosA[i])
				cy := p.Y - int(float64(radius)*sinA[i])
				if cx >= 0 && cx < width && cy >= 0 && cy < height {
					accumulator[cy*width+cx]++
				}
			}
		}

		// Find local maxima in accumulator
		threshold := int(float64(2*radius) * 0.6) // Require ~60% of circumference
		for y := radius; y < height-radius; y++ {
			for x := radius; x < width-radius; x++ {
				votes := accumulator[y*width+x]
				if votes < threshold || votes == 0 {
					continue
				}
				isMax := true
				for dy := -5; dy <= 5 && isMax; dy++ {
					for dx := -5; dx <= 5 && isMax; dx++ {
						if dy == 0 && dx == 0 {
							continue
						}
						ny, nx := y+dy, x+dx
						if ny >= 0 && ny < height && nx >= 0 && nx < width && accumulator[ny*width+nx] > votes {
							isMax = false
						}
					}
				}
				if isMax {
					circles = append(circles, Circle{
						Center:     Point{X: x, Y: y},
						Radius:     radius,
						Confidence: math.Min(float64(votes)/float64(2*radius), 1.0),
					})
				}
			}
		}
	}

	sort.SliceStable(circles, func(i, j int) bool {
		return circles[i].Confidence > circles[j].Confidence
	})

	return filterDuplicateCircles(circles)
}

// filterDuplicateCircles removes circles with overlapping centers.
//
// Two circles are duplicates if the distance between their centers is less
// than the average of their radii. The earlier circle is kept, so callers
// sort by confidence first.
func filterDuplicateCircles(circles []Circle) []Circle {
	filtered := make([]Circle, 0, len(circles))
	for _, c := range circles {
		isDuplicate := false
		for _, f := range filtered {
			dx := c.Center.X - f.Center.X
			dy := c.Center.Y - f.Center.Y
			dist := math.Sqrt(float64(dx*dx + dy*dy))
			if dist < float64(c.Radius+f.Radius)/2 {
				isDuplicate = true
				break
			}
		}
		if !isDuplicate {
			filtered = append(filtered, c)
		}
	}
	return filtered
}
