package detection

import (
	"image"
	"sort"
)

// minContourSize is the smallest connected edge component kept as a contour.
const minContourSize = 10

// ContourDetector reports the bounding box of every connected edge
// component.
type ContourDetector struct{}

// NewContourDetector returns a ContourDetector.
func NewContourDetector() *ContourDetector {
	return &ContourDetector{}
}

// Name implements Detector.
func (d *ContourDetector) Name() string { return "contours" }

// Detect implements Detector. Boxes are sorted by area, largest first, with
// position as the tie-break. Confidence is left at zero; callers that need
// a score derive one from the box geometry.
func (d *ContourDetector) Detect(img image.Image) ([]Box, error) {
	bounds := img.Bounds()
	edges := detectEdges(img)
	contours := findContours(edges, bounds.Dx(), bounds.Dy())

	boxes := make([]Box, 0, len(contours))
	for _, contour := range contours {
		minX, minY := contour[0].X, contour[0].Y
		maxX, maxY := minX, minY
		for _, p := range contour[1:] {
			minX = minInt(minX, p.X)
			maxX = maxInt(maxX, p.X)
			minY = minInt(minY, p.Y)
			maxY = maxInt(maxY, p.Y)
		}
		boxes = append(boxes, Box{
			X:      minX + bounds.Min.X,
			Y:      minY + bounds.Min.Y,
			Width:  maxX - minX + 1,
			Height: maxY - minY + 1,
			Label:  "contour",
		})
	}

	sort.SliceStable(boxes, func(i, j int) bool {
		if boxes[i].Area() != boxes[j].Area() {
			return boxes[i].Area() > boxes[j].Area()
		}
		if boxes[i].Y != boxes[j].Y {
			return boxes[i].Y < boxes[j].Y
		}
		return boxes[i].X < boxes[j].X
	})
	return boxes, nil
}

// findContours finds connected components (contours) in a binary edge image.
//
// Uses flood-fill to group connected edge pixels into contours.
// Connectivity is 8-connected (includes diagonals).
//
// Contours smaller than minContourSize pixels are discarded as noise.
func findContours(edges [][]bool, width, height int) [][]Point {
	visited := make([][]bool, height)
	for y := 0; y < height; y++ {
		visited[y] = make([]bool, width)
	}

	contours := make([][]Point, 0)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if edges[y][x] && !visited[y][x] {
				contour := make([]Point, 0)
				floodFill(edges, visited, x, y, width, height, &contour)
				if len(contour) >= minContourSize {
					contours = append(contours, contour)
				}
			}
		}
	}

	return contours
}

// floodFill performs iterative flood-fill from a starting point.
//
// Uses a stack rather than recursion so large contours cannot overflow the
// goroutine stack. Marks visited pixels and appends them to the contour.
func floodFill(edges, visited [][]bool, startX, startY, width, height int, contour *[]Point) {
	stack := []Point{{X: startX, Y: startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			continue
		}
		if visited[p.Y][p.X] || !edges[p.Y][p.X] {
			continue
		}

		visited[p.Y][p.X] = true
		*contour = append(*contour, p)

		// 8-connected neighbors
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, Point{X: p.X + dx, Y: p.Y + dy})
			}
		}
	}
}
