package detection

import (
	"image"
	"math"
	"sort"
)

// Line represents a detected line segment
type Line struct {
	Start        Point   `json:"start"`
	End          Point   `json:"end"`
	Length       float64 `json:"length"`
	AngleDegrees float64 `json:"angle_degrees"`
	Votes        int     `json:"votes"`
}

// LineDetector finds straight line segments with a Hough transform.
type LineDetector struct {
	// MinLength is the shortest segment reported, in pixels.
	MinLength int

	// MaxLines caps the number of segments reported.
	MaxLines int
}

// NewLineDetector returns a LineDetector with the defaults used for
// content classification.
func NewLineDetector() *LineDetector {
	return &LineDetector{MinLength: 30, MaxLines: 50}
}

// Name implements Detector.
func (d *LineDetector) Name() string { return "lines" }

// Detect implements Detector. Each segment is reported as its bounding box;
// confidence is the fraction of the segment length backed by edge votes.
func (d *LineDetector) Detect(img image.Image) ([]Box, error) {
	lines := DetectLines(img, d.MinLength, d.MaxLines)
	bounds := img.Bounds()
	boxes := make([]Box, 0, len(lines))
	for _, l := range lines {
		x1, x2 := minInt(l.Start.X, l.End.X), maxInt(l.Start.X, l.End.X)
		y1, y2 := minInt(l.Start.Y, l.End.Y), maxInt(l.Start.Y, l.End.Y)
		boxes = append(boxes, Box{
			X:          x1 + bounds.Min.X,
			Y:          y1 + bounds.Min.Y,
			Width:      x2 - x1 + 1,
			Height:     y2 - y1 + 1,
			Label:      "line",
			Confidence: math.Min(1, float64(l.Votes)/math.Max(l.Length, 1)),
		})
	}
	return boxes, nil
}

// DetectLines finds line segments in an image using the Hough transform.
//
// # Algorithm
//
//  1. Edge detection with detectEdges
//  2. Every edge pixel votes for all (rho, theta) lines through it, with
//     theta in whole degrees
//  3. Accumulator cells with at least minLength/2 votes that are the maximum
//     of their 5x5 neighborhood become candidate lines, strongest first
//  4. Edge pixels within 2px of each candidate give the segment endpoints;
//     segments shorter than minLength are dropped
//
// Coordinates are relative to img.Bounds().Min.
func DetectLines(img image.Image, minLength, maxLines int) []Line {
	edges := detectEdges(img)
	points := edgePoints(edges)
	lines := make([]Line, 0)
	if len(points) == 0 {
		return lines
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	// Hough transform parameters
	maxDist := int(math.Sqrt(float64(width*width + height*height)))
	numAngles := 180
	cosT := make([]float64, numAngles)
	sinT := make([]float64, numAngles)
	for theta := 0; theta < numAngles; theta++ {
		angle := float64(theta) * math.Pi / 180.0
		cosT[theta] = math.Cos(angle)
		sinT[theta] = math.Sin(angle)
	}

	accumulator := make([][]int, maxDist*2)
	for i := range accumulator {
		accumulator[i] = make([]int, numAngles)
	}

	// Vote in Hough space
	for _, p := range points {
		for theta := 0; theta < numAngles; theta++ {
			rho := float64(p.X)*cosT[theta] + float64(p.Y)*sinT[theta]
			rhoIdx := int(rho) + maxDist
			if rhoIdx >= 0 && rhoIdx < maxDist*2 {
				accumulator[rhoIdx][theta]++
			}
		}
	}

	// Find peaks in accumulator
	type peak struct {
		rho   int
		theta int
		votes int
	}
	peaks := make([]peak, 0)
	threshold := minLength / 2
	if threshold < 1 {
		threshold = 1
	}

	for rhoIdx := 0; rhoIdx < maxDist*2; rhoIdx++ {
		for theta := 0; theta < numAngles; theta++ {
			votes := accumulator[rhoIdx][theta]
			if votes < threshold {
				continue
			}
			isMax := true
			for dr := -2; dr <= 2 && isMax; dr++ {
				for dt := -2; dt <= 2 && isMax; dt++ {
					if dr == 0 && dt == 0 {
						continue
					}
					nr := rhoIdx + dr
					nt := (theta + dt + numAngles) % numAngles
					if nr >= 0 && nr < maxDist*2 && accumulator[nr][nt] > votes {
						isMax = false
					}
				}
			}
			if isMax {
				peaks = append(peaks, peak{rho: rhoIdx - maxDist, theta: theta, votes: votes})
			}
		}
	}

	// Strongest first; ties in accumulator order keep the result stable.
	sort.SliceStable(peaks, func(i, j int) bool {
		return peaks[i].votes > peaks[j].votes
	})

	for _, pk := range peaks {
		if maxLines > 0 && len(lines) >= maxLines {
			break
		}

		cosA := cosT[pk.theta]
		sinA := sinT[pk.theta]
		rho := float64(pk.rho)

		// Endpoints are the extreme edge pixels along the line direction.
		var start, end Point
		onLine := 0
		minProj := math.MaxFloat64
		maxProj := -math.MaxFloat64
		for _, p := range points {
			if math.Abs(float64(p.X)*cosA+float64(p.Y)*sinA-rho) >= 2.0 {
				continue
			}
			onLine++
			// Project onto the line direction (-sin, cos).
			d := -float64(p.X)*sinA + float64(p.Y)*cosA
			if d < minProj {
				minProj = d
				start = p
			}
			if d > maxProj {
				maxProj = d
				end = p
			}
		}

		if onLine < minLength {
			continue
		}

		dx := float64(end.X - start.X)
		dy := float64(end.Y - start.Y)
		length := math.Sqrt(dx*dx + dy*dy)
		if length < float64(minLength) {
			continue
		}

		lines = append(lines, Line{
			Start:        start,
			End:          end,
			Length:       math.Round(length*10) / 10,
			AngleDegrees: math.Round(math.Atan2(dy, dx)*180/math.Pi*10) / 10,
			Votes:        pk.votes,
		})
	}

	return lines
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
