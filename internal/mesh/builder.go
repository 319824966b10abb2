package mesh

import (
	"fmt"
	"image"
	"math"
	"runtime"
	"sync"

	"github.com/ungerik/go3d/float64/vec3"

	"github.com/ironsheep/heightmesh/internal/classify"
	"github.com/ironsheep/heightmesh/internal/config"
	"github.com/ironsheep/heightmesh/internal/imaging"
)

// Builder is the mesh builder. It holds no state between builds.
type Builder struct{}

// NewBuilder creates a Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Scale returns the integer downsampling factor for a width×height field and
// a polygon budget: max(1, floor(sqrt(width×height / (2×polygons)))).
func Scale(width, height, polygons int) int {
	if polygons <= 0 {
		return 1
	}
	s := int(math.Floor(math.Sqrt(float64(width*height) / float64(2*polygons))))
	if s < 1 {
		return 1
	}
	return s
}

// Build builds the mesh for field, taking vertex colors from colorImg.
//
// field and colorImg must have the same dimensions. Unset settings take
// their defaults. A mesh without faces is a valid result.
//
// # Algorithm
//
//  1. Downsample both inputs by Scale to w×h: the field by exact area
//     averaging, the colors with a box filter.
//  2. Emit one vertex per grid point in row-major order (index y*w+x) at
//     (x/(w-1)*2-1, -(y/(h-1)*2-1), depth*2-1). Interior normals come from
//     central differences as normalize(-dx, -dy, 1); border normals are
//     (0, 0, 1).
//  3. For each 2x2 block with corner indices v0 v1 / v2 v3, emit
//     (v0, v1, v2) and (v1, v3, v2) only if all four edge depth differences
//     are below the discontinuity threshold.
func (b *Builder) Build(field *imaging.Field, colorImg image.Image, settings config.Settings, category classify.Category) (*Mesh, error) {
	settings = settings.WithDefaults()
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	cb := colorImg.Bounds()
	if field.Width != cb.Dx() || field.Height != cb.Dy() {
		return nil, fmt.Errorf("height field %dx%d is not co-registered with the %dx%d color image",
			field.Width, field.Height, cb.Dx(), cb.Dy())
	}
	if field.Width == 0 || field.Height == 0 {
		return nil, fmt.Errorf("height field is empty")
	}

	scale := Scale(field.Width, field.Height, settings.Polygons)
	w := maxInt(1, field.Width/scale)
	h := maxInt(1, field.Height/scale)

	depth := field.ResizeArea(w, h)
	colors := imaging.ResizeImage(colorImg, w, h)

	m := &Mesh{
		Vertices: make([]vec3.T, w*h),
		Normals:  make([]vec3.T, w*h),
		Colors:   make([][3]float64, w*h),
	}

	monochrome := settings.ColorMode == config.ColorModeMonochrome
	parallelRows(h, func(startY, endY int) {
		for y := startY; y < endY; y++ {
			for x := 0; x < w; x++ {
				i := y*w + x
				d := depth.At(x, y)
				m.Vertices[i] = vec3.T{axis(x, w), -axis(y, h), d*2 - 1}
				m.Normals[i] = normalAt(depth, x, y)
				m.Colors[i] = vertexColor(colors, x, y, monochrome)
			}
		}
	})

	m.Faces = buildFaces(depth, settings.DiscontinuityThreshold)

	m.Metadata = Metadata{
		Category:      category,
		VerticesCount: len(m.Vertices),
		FacesCount:    len(m.Faces),
		ImageDimensions: Dimensions{
			Width:       field.Width,
			Height:      field.Height,
			DepthWidth:  w,
			DepthHeight: h,
		},
		SettingsUsed: settings,
	}
	return m, nil
}

// axis maps grid index i of an n-long axis to [-1,1]. A single-sample axis
// maps to 0.
func axis(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(i)/float64(n-1)*2 - 1
}

func normalAt(depth *imaging.Field, x, y int) vec3.T {
	if x == 0 || y == 0 || x == depth.Width-1 || y == depth.Height-1 {
		return vec3.UnitZ
	}
	dx := depth.At(x+1, y) - depth.At(x-1, y)
	dy := depth.At(x, y+1) - depth.At(x, y-1)
	n := vec3.T{-dx, -dy, 1}
	if n.Length() < 1e-12 {
		return vec3.UnitZ
	}
	return n.Normalized()
}

func vertexColor(img *image.NRGBA, x, y int, monochrome bool) [3]float64 {
	c := imaging.NormalizedRGB(img, x+img.Rect.Min.X, y+img.Rect.Min.Y)
	if monochrome {
		l := 0.299*c.R + 0.587*c.G + 0.114*c.B
		return [3]float64{l, l, l}
	}
	return [3]float64{c.R, c.G, c.B}
}

func buildFaces(depth *imaging.Field, threshold float64) [][3]int {
	w, h := depth.Width, depth.Height
	faces := make([][3]int, 0)
	for y := 0; y < h-1; y++ {
		for x := 0; x < w-1; x++ {
			d0 := depth.At(x, y)
			d1 := depth.At(x+1, y)
			d2 := depth.At(x, y+1)
			d3 := depth.At(x+1, y+1)
			if math.Abs(d0-d1) >= threshold || math.Abs(d1-d3) >= threshold ||
				math.Abs(d3-d2) >= threshold || math.Abs(d2-d0) >= threshold {
				continue
			}
			v0 := y*w + x
			v1 := v0 + 1
			v2 := v0 + w
			v3 := v2 + 1
			faces = append(faces, [3]int{v0, v1, v2}, [3]int{v1, v3, v2})
		}
	}
	return faces
}

// parallelRows splits [0, height) into contiguous strips and runs fn on each
// concurrently. Strips are disjoint, so writes keyed by row never race.
func parallelRows(height int, fn func(startY, endY int)) {
	numWorkers := runtime.NumCPU()
	if height < numWorkers {
		numWorkers = height
	}
	if numWorkers <= 1 {
		fn(0, height)
		return
	}
	rowsPerWorker := (height + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		startY := i * rowsPerWorker
		endY := startY + rowsPerWorker
		if endY > height {
			endY = height
		}
		if startY >= endY {
			continue
		}
		wg.Add(1)
		go func(startY, endY int) {
			defer wg.Done()
			fn(startY, endY)
		}(startY, endY)
	}
	wg.Wait()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
