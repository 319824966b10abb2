package detection

import (
	"image"
	"image/color"
)

// createTestImage creates a solid color test image
func createTestImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createRectangleImage creates an image with a rectangle outline
func createRectangleImage(width, height int, rectX1, rectY1, rectX2, rectY2 int) *image.RGBA {
	img := createTestImage(width, height, color.White)

	for x := rectX1; x <= rectX2; x++ {
		img.Set(x, rectY1, color.Black)
		img.Set(x, rectY2, color.Black)
	}
	for y := rectY1; y <= rectY2; y++ {
		img.Set(rectX1, y, color.Black)
		img.Set(rectX2, y, color.Black)
	}

	return img
}

// createCircleImage creates an image with a circle outline
func createCircleImage(width, height, cx, cy, radius int) *image.RGBA {
	img := createTestImage(width, height, color.White)

	// Midpoint circle algorithm
	x := radius
	y := 0
	err := 0

	for x >= y {
		img.Set(cx+x, cy+y, color.Black)
		img.Set(cx+y, cy+x, color.Black)
		img.Set(cx-y, cy+x, color.Black)
		img.Set(cx-x, cy+y, color.Black)
		img.Set(cx-x, cy-y, color.Black)
		img.Set(cx-y, cy-x, color.Black)
		img.Set(cx+y, cy-x, color.Black)
		img.Set(cx+x, cy-y, color.Black)

		if err <= 0 {
			y++
			err += 2*y + 1
		}
		if err > 0 {
			x--
			err -= 2*x + 1
		}
	}

	return img
}

// createHorizontalLineImage creates an image with a horizontal line
func createHorizontalLineImage(width, height, y, thickness int) *image.RGBA {
	img := createTestImage(width, height, color.White)

	for t := 0; t < thickness; t++ {
		for x := 0; x < width; x++ {
			if y+t >= 0 && y+t < height {
				img.Set(x, y+t, color.Black)
			}
		}
	}

	return img
}

// createVerticalLineImage creates an image with a vertical line
func createVerticalLineImage(width, height, x, thickness int) *image.RGBA {
	img := createTestImage(width, height, color.White)

	for t := 0; t < thickness; t++ {
		for y := 0; y < height; y++ {
			if x+t >= 0 && x+t < width {
				img.Set(x+t, y, color.Black)
			}
		}
	}

	return img
}

func newEdgeGrid(width, height int) [][]bool {
	edges := make([][]bool, height)
	for y := range edges {
		edges[y] = make([]bool, width)
	}
	return edges
}
