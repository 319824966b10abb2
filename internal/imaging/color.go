package imaging

import (
	"image"
	"math"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGB is a color with float components on the 0-255 scale.
type RGB struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// AverageColor returns the per-channel mean over every pixel of img, in RGB
// order, rounded to two decimals.
func AverageColor(img image.Image) RGB {
	bounds := img.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return RGB{}
	}

	var sumR, sumG, sumB float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := NormalizedRGB(img, x, y)
			sumR += c.R
			sumG += c.G
			sumB += c.B
		}
	}

	n := float64(total)
	return RGB{
		R: round2(sumR / n * 255),
		G: round2(sumG / n * 255),
		B: round2(sumB / n * 255),
	}
}

// NormalizedRGB returns the color at (x, y) with components in [0,1].
//
// Fully transparent pixels read as black.
func NormalizedRGB(img image.Image, x, y int) colorful.Color {
	c, ok := colorful.MakeColor(img.At(x, y))
	if !ok {
		return colorful.Color{}
	}
	return c.Clamped()
}

// ColorFrequency represents a color and its occurrence frequency in an image.
type ColorFrequency struct {
	Hex        string  `json:"hex"`        // Hex color "#rrggbb" (quantized)
	Percentage float64 `json:"percentage"` // Percentage of pixels with this color (0-100)
}

// DominantColors extracts the N most common colors from an image.
//
// # Color Quantization
//
// To group similar colors, RGB values are quantized by dividing each
// component by 16 and rounding down, so colors within 16 units of each other
// (per component) are grouped together:
//
//	quantized = (original / 16) * 16
//
// Ties are broken by hex value so the result is stable.
func DominantColors(img image.Image, count int) []ColorFrequency {
	bounds := img.Bounds()
	colorCounts := make(map[string]int)
	totalPixels := 0

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			q := colorful.Color{
				R: float64((r>>8)/16*16) / 255.0,
				G: float64((g>>8)/16*16) / 255.0,
				B: float64((b>>8)/16*16) / 255.0,
			}
			colorCounts[q.Hex()]++
			totalPixels++
		}
	}
	if totalPixels == 0 {
		return []ColorFrequency{}
	}

	colors := make([]ColorFrequency, 0, len(colorCounts))
	for hex, cnt := range colorCounts {
		colors = append(colors, ColorFrequency{
			Hex:        hex,
			Percentage: round2(float64(cnt) / float64(totalPixels) * 100),
		})
	}

	sort.Slice(colors, func(i, j int) bool {
		if colors[i].Percentage != colors[j].Percentage {
			return colors[i].Percentage > colors[j].Percentage
		}
		return colors[i].Hex < colors[j].Hex
	})

	if count >= 0 && len(colors) > count {
		colors = colors[:count]
	}
	return colors
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
