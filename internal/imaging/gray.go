package imaging

import (
	"image"

	"github.com/disintegration/imaging"
)

// Grayscale converts img to a [0,1] luminance field.
//
// The conversion goes through imaging.Grayscale, which applies the
// ITU-R BT.601 weights (0.299*R + 0.587*G + 0.114*B).
func Grayscale(img image.Image) *Field {
	gray := imaging.Grayscale(img)
	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()
	f := NewField(w, h)
	for y := 0; y < h; y++ {
		row := gray.Pix[y*gray.Stride:]
		for x := 0; x < w; x++ {
			f.Pix[y*w+x] = float64(row[x*4]) / 255.0
		}
	}
	return f
}

// FitWithin returns img unchanged when both sides are within maxSide,
// otherwise a copy scaled down to fit, preserving aspect ratio.
func FitWithin(img image.Image, maxSide int) image.Image {
	b := img.Bounds()
	if maxSide <= 0 || (b.Dx() <= maxSide && b.Dy() <= maxSide) {
		return img
	}
	return imaging.Fit(img, maxSide, maxSide, imaging.Box)
}

// ResizeImage returns an NRGBA copy of img scaled to width×height.
//
// The Box filter averages every source pixel a destination pixel covers,
// which is area averaging for downscales.
func ResizeImage(img image.Image, width, height int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return imaging.Clone(img)
	}
	return imaging.Resize(img, width, height, imaging.Box)
}
