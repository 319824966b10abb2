package imaging

import (
	"math"
	"runtime"
	"sync"
)

// BilateralParams configures Bilateral.
type BilateralParams struct {
	// Radius of the square window in samples (window is 2*Radius+1 wide).
	Radius int

	// SigmaSpace is the spatial Gaussian sigma in samples.
	SigmaSpace float64

	// SigmaRange is the value-difference Gaussian sigma, in field units.
	SigmaRange float64
}

// DefaultBilateralParams smooths flat regions of a [0,1] depth field while
// keeping steps larger than ~0.2 intact.
func DefaultBilateralParams() BilateralParams {
	return BilateralParams{Radius: 4, SigmaSpace: 3.0, SigmaRange: 0.1}
}

// Bilateral applies an edge-preserving bilateral filter.
//
// Each output sample is a weighted mean of its window, where the weight is
// the product of a spatial Gaussian and a Gaussian of the value difference
// to the center sample. Neighbors across a sharp step get near-zero weight,
// so discontinuities survive while noise in flat areas is averaged out.
//
// Rows are processed in parallel horizontal strips; every strip writes only
// its own rows, so the result does not depend on scheduling.
func Bilateral(src *Field, p BilateralParams) *Field {
	out := NewField(src.Width, src.Height)
	if src.Width == 0 || src.Height == 0 {
		return out
	}
	if p.Radius <= 0 || p.SigmaSpace <= 0 || p.SigmaRange <= 0 {
		copy(out.Pix, src.Pix)
		return out
	}

	r := p.Radius
	size := 2*r + 1
	spatial := make([]float64, size*size)
	for ky := -r; ky <= r; ky++ {
		for kx := -r; kx <= r; kx++ {
			d2 := float64(kx*kx + ky*ky)
			spatial[(ky+r)*size+(kx+r)] = math.Exp(-d2 / (2 * p.SigmaSpace * p.SigmaSpace))
		}
	}
	rangeDenom := 2 * p.SigmaRange * p.SigmaRange

	filterRows := func(startY, endY int) {
		for y := startY; y < endY; y++ {
			for x := 0; x < src.Width; x++ {
				center := src.At(x, y)
				var sum, norm float64
				for ky := -r; ky <= r; ky++ {
					py := clamp(y+ky, 0, src.Height-1)
					for kx := -r; kx <= r; kx++ {
						px := clamp(x+kx, 0, src.Width-1)
						v := src.At(px, py)
						diff := v - center
						w := spatial[(ky+r)*size+(kx+r)] * math.Exp(-diff*diff/rangeDenom)
						sum += v * w
						norm += w
					}
				}
				out.Set(x, y, sum/norm)
			}
		}
	}

	numWorkers := runtime.NumCPU()
	if src.Height < numWorkers {
		numWorkers = src.Height
	}
	rowsPerWorker := (src.Height + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		startY := i * rowsPerWorker
		endY := startY + rowsPerWorker
		if endY > src.Height {
			endY = src.Height
		}
		if startY >= endY {
			continue
		}
		wg.Add(1)
		go func(startY, endY int) {
			defer wg.Done()
			filterRows(startY, endY)
		}(startY, endY)
	}
	wg.Wait()

	return out
}
