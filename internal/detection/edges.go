package detection

import (
	"image"

	"github.com/ironsheep/heightmesh/internal/imaging"
)

// edgeThreshold is the minimum luminance step between neighboring pixels
// that marks an edge, on a [0,1] scale (30 of 255).
const edgeThreshold = 30.0 / 255.0

// detectEdges performs simple gradient-based edge detection.
//
// A pixel is an edge when its luminance differs from its right or lower
// neighbor by more than edgeThreshold. Border pixels are never edges.
//
// Returns a 2D boolean array indexed [y][x].
func detectEdges(img image.Image) [][]bool {
	gray := imaging.Grayscale(img)
	width, height := gray.Width, gray.Height
	edges := make([][]bool, height)

	for y := 0; y < height; y++ {
		edges[y] = make([]bool, width)
		if y == 0 || y == height-1 {
			continue
		}
		for x := 1; x < width-1; x++ {
			c := gray.At(x, y)
			dx := c - gray.At(x+1, y)
			dy := c - gray.At(x, y+1)
			if dx > edgeThreshold || -dx > edgeThreshold || dy > edgeThreshold || -dy > edgeThreshold {
				edges[y][x] = true
			}
		}
	}

	return edges
}

// edgePoints lists the edge pixels in row-major order.
func edgePoints(edges [][]bool) []Point {
	points := make([]Point, 0)
	for y, row := range edges {
		for x, on := range row {
			if on {
				points = append(points, Point{X: x, Y: y})
			}
		}
	}
	return points
}
