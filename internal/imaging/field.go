package imaging

import (
	"image"
	"image/color"
	"math"
)

// Field is a dense single-channel grid of float64 samples stored row-major.
//
// Height fields, grayscale intensities and edge maps are all Fields. Index
// (x, y) lives at Pix[y*Width+x].
type Field struct {
	Width  int
	Height int
	Pix    []float64
}

// NewField allocates a zeroed width×height field.
func NewField(width, height int) *Field {
	return &Field{
		Width:  width,
		Height: height,
		Pix:    make([]float64, width*height),
	}
}

// At returns the sample at (x, y). No bounds checking is performed.
func (f *Field) At(x, y int) float64 {
	return f.Pix[y*f.Width+x]
}

// Set stores v at (x, y). No bounds checking is performed.
func (f *Field) Set(x, y int, v float64) {
	f.Pix[y*f.Width+x] = v
}

// Clone returns a deep copy.
func (f *Field) Clone() *Field {
	c := NewField(f.Width, f.Height)
	copy(c.Pix, f.Pix)
	return c
}

// MinMax returns the smallest and largest samples. An empty field yields (0, 0).
func (f *Field) MinMax() (float64, float64) {
	if len(f.Pix) == 0 {
		return 0, 0
	}
	lo, hi := f.Pix[0], f.Pix[0]
	for _, v := range f.Pix[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// Normalize returns a min-max rescaled copy in [0,1].
//
// A flat field has no range to stretch; its samples are clamped to [0,1]
// unchanged instead.
func (f *Field) Normalize() *Field {
	out := f.Clone()
	lo, hi := f.MinMax()
	span := hi - lo
	if span <= 1e-12 {
		out.Clamp01()
		return out
	}
	for i, v := range out.Pix {
		out.Pix[i] = (v - lo) / span
	}
	return out
}

// Clamp01 clamps every sample into [0,1] in place.
func (f *Field) Clamp01() {
	for i, v := range f.Pix {
		f.Pix[i] = math.Max(0, math.Min(1, v))
	}
}

// ResizeArea resamples the field to width×height by area averaging.
//
// Every destination sample is the mean of the source area it covers,
// including fractional coverage at the footprint edges. For integer
// downscale factors this is an exact block mean.
func (f *Field) ResizeArea(width, height int) *Field {
	if width == f.Width && height == f.Height {
		return f.Clone()
	}
	xs := areaWeights(f.Width, width)
	ys := areaWeights(f.Height, height)

	// Horizontal pass into a width×f.Height buffer, then vertical.
	tmp := NewField(width, f.Height)
	for y := 0; y < f.Height; y++ {
		row := f.Pix[y*f.Width : (y+1)*f.Width]
		for x := 0; x < width; x++ {
			var sum float64
			for _, s := range xs[x] {
				sum += row[s.idx] * s.weight
			}
			tmp.Pix[y*width+x] = sum
		}
	}

	out := NewField(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sum float64
			for _, s := range ys[y] {
				sum += tmp.Pix[s.idx*width+x] * s.weight
			}
			out.Pix[y*width+x] = sum
		}
	}
	return out
}

type span struct {
	idx    int
	weight float64
}

// areaWeights lists, for each destination index, the source indices it
// covers and their normalized overlap weights.
func areaWeights(src, dst int) [][]span {
	scale := float64(src) / float64(dst)
	out := make([][]span, dst)
	for i := 0; i < dst; i++ {
		start := float64(i) * scale
		end := start + scale
		for j := int(start); j < src && float64(j) < end; j++ {
			lo := math.Max(start, float64(j))
			hi := math.Min(end, float64(j+1))
			if hi > lo {
				out[i] = append(out[i], span{idx: j, weight: (hi - lo) / scale})
			}
		}
	}
	return out
}

// ToGray renders the field as an 8-bit grayscale image, clamping to [0,1].
func (f *Field) ToGray() *image.Gray {
	g := image.NewGray(image.Rect(0, 0, f.Width, f.Height))
	for i, v := range f.Pix {
		g.Pix[i] = uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
	}
	return g
}

// FieldFromImage reads the luminance of every pixel of img into a [0,1] field.
func FieldFromImage(img image.Image) *Field {
	bounds := img.Bounds()
	f := NewField(bounds.Dx(), bounds.Dy())
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			g := color.GrayModel.Convert(img.At(x+bounds.Min.X, y+bounds.Min.Y)).(color.Gray)
			f.Pix[y*f.Width+x] = float64(g.Y) / 255.0
		}
	}
	return f
}
