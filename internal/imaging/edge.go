package imaging

import (
	"image"
	"math"
)

// Canny performs Canny-style edge detection on a [0,1] luminance field.
//
// The result is a field of the same size where 1 marks an edge pixel and 0
// marks a non-edge, so it is already normalized to [0,1].
//
// Parameters:
//   - gray: Source luminance in [0,1] (see Grayscale).
//   - thresholdLow: Low threshold (0-255). Gradient magnitudes below this
//     are discarded. Typical value: 50.
//   - thresholdHigh: High threshold (0-255). Magnitudes above this are
//     always kept. Typical value: 150.
//
// # Algorithm
//
//  1. Gaussian blur: 5x5 kernel to reduce noise
//
//  2. Gradient computation: Sobel operators for X and Y gradients
//     magnitude = sqrt(Gx² + Gy²)
//     direction = atan2(Gy, Gx)
//
//  3. Non-maximum suppression: Thin edges to 1-pixel width by keeping only
//     local maxima in the gradient direction
//
//  4. Hysteresis thresholding:
//     - Pixels above thresholdHigh are strong edges (always kept)
//     - Pixels between thresholdLow and thresholdHigh are weak edges
//     (kept only if connected to strong edges)
//     - Pixels below thresholdLow are discarded
func Canny(gray *Field, thresholdLow, thresholdHigh int) *Field {
	width, height := gray.Width, gray.Height
	result := NewField(width, height)
	if width == 0 || height == 0 {
		return result
	}

	blurred := gaussianBlur(gray)

	sobelX := [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY := [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}

	magnitude := NewField(width, height)
	direction := NewField(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					v := blurred.At(clamp(x+kx, 0, width-1), clamp(y+ky, 0, height-1))
					gx += v * sobelX[ky+1][kx+1]
					gy += v * sobelY[ky+1][kx+1]
				}
			}
			magnitude.Set(x, y, math.Sqrt(gx*gx+gy*gy))
			direction.Set(x, y, math.Atan2(gy, gx))
		}
	}

	// Non-maximum suppression
	suppressed := NewField(width, height)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			angle := direction.At(x, y)
			mag := magnitude.At(x, y)

			var n1, n2 float64
			if (angle >= -math.Pi/8 && angle < math.Pi/8) || (angle >= 7*math.Pi/8 || angle < -7*math.Pi/8) {
				n1 = magnitude.At(x-1, y)
				n2 = magnitude.At(x+1, y)
			} else if (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8) {
				n1 = magnitude.At(x+1, y-1)
				n2 = magnitude.At(x-1, y+1)
			} else if (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8) {
				n1 = magnitude.At(x, y-1)
				n2 = magnitude.At(x, y+1)
			} else {
				n1 = magnitude.At(x-1, y-1)
				n2 = magnitude.At(x+1, y+1)
			}

			if mag >= n1 && mag >= n2 {
				suppressed.Set(x, y, mag)
			}
		}
	}

	// Double threshold and edge tracking by hysteresis
	lowThresh := float64(thresholdLow) / 255.0
	highThresh := float64(thresholdHigh) / 255.0

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			val := suppressed.At(x, y)
			if val >= highThresh {
				result.Set(x, y, 1)
			} else if val >= lowThresh && hasStrongNeighbor(suppressed, x, y, highThresh) {
				result.Set(x, y, 1)
			}
		}
	}

	return result
}

// EdgeMap runs Canny on the luminance of img.
func EdgeMap(img image.Image, thresholdLow, thresholdHigh int) *Field {
	return Canny(Grayscale(img), thresholdLow, thresholdHigh)
}

// EdgeDensity returns the fraction of samples in an edge field that are edges.
func EdgeDensity(edges *Field) float64 {
	if len(edges.Pix) == 0 {
		return 0
	}
	count := 0
	for _, v := range edges.Pix {
		if v > 0.5 {
			count++
		}
	}
	return float64(count) / float64(len(edges.Pix))
}

func hasStrongNeighbor(suppressed *Field, x, y int, highThresh float64) bool {
	for ky := -1; ky <= 1; ky++ {
		for kx := -1; kx <= 1; kx++ {
			px := clamp(x+kx, 0, suppressed.Width-1)
			py := clamp(y+ky, 0, suppressed.Height-1)
			if suppressed.At(px, py) >= highThresh {
				return true
			}
		}
	}
	return false
}

// gaussianBlur applies a 5x5 Gaussian blur to reduce noise before edge detection.
//
// Uses a standard 5x5 Gaussian kernel with sigma ≈ 1.4:
//
//	1  4  7  4  1
//	4 16 26 16  4
//	7 26 41 26  7
//	4 16 26 16  4
//	1  4  7  4  1
//
// Total kernel sum = 273, used for normalization.
// Border pixels use clamped (replicated) edge values.
func gaussianBlur(src *Field) *Field {
	kernel := [5][5]float64{
		{1, 4, 7, 4, 1},
		{4, 16, 26, 16, 4},
		{7, 26, 41, 26, 7},
		{4, 16, 26, 16, 4},
		{1, 4, 7, 4, 1},
	}
	kernelSum := 273.0

	result := NewField(src.Width, src.Height)
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			var sum float64
			for ky := -2; ky <= 2; ky++ {
				for kx := -2; kx <= 2; kx++ {
					py := clamp(y+ky, 0, src.Height-1)
					px := clamp(x+kx, 0, src.Width-1)
					sum += src.At(px, py) * kernel[ky+2][kx+2]
				}
			}
			result.Set(x, y, sum/kernelSum)
		}
	}
	return result
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
