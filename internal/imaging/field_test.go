package imaging

import (
	"image/color"
	"testing"
)

func TestField_AtSet(t *testing.T) {
	f := NewField(3, 2)
	f.Set(2, 1, 0.75)

	if got := f.At(2, 1); got != 0.75 {
		t.Errorf("At(2,1): got %v, want 0.75", got)
	}
	if got := f.Pix[1*3+2]; got != 0.75 {
		t.Errorf("row-major storage: got %v, want 0.75", got)
	}
}

func TestField_Normalize(t *testing.T) {
	f := NewField(3, 1)
	f.Pix = []float64{2, 4, 6}

	n := f.Normalize()

	want := []float64{0, 0.5, 1}
	for i := range want {
		if absFloat(n.Pix[i]-want[i]) > 1e-12 {
			t.Errorf("Pix[%d]: got %v, want %v", i, n.Pix[i], want[i])
		}
	}
	if f.Pix[0] != 2 {
		t.Error("Normalize must not mutate its receiver")
	}
}

func TestField_NormalizeFlat(t *testing.T) {
	f := NewField(4, 4)
	for i := range f.Pix {
		f.Pix[i] = 0.5
	}

	n := f.Normalize()

	for i, v := range n.Pix {
		if v != 0.5 {
			t.Fatalf("flat field Pix[%d]: got %v, want 0.5", i, v)
		}
	}
}

func TestField_ResizeArea_IntegerFactor(t *testing.T) {
	// 4x4 made of four 2x2 blocks with distinct values
	f := NewField(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			f.Set(x, y, float64((y/2)*2+(x/2)))
		}
	}
	// Perturb one block so its mean is not trivially its corner value
	f.Set(0, 0, 1)

	r := f.ResizeArea(2, 2)

	tests := []struct {
		x, y int
		want float64
	}{
		{0, 0, 0.25},
		{1, 0, 1},
		{0, 1, 2},
		{1, 1, 3},
	}
	for _, tt := range tests {
		if got := r.At(tt.x, tt.y); absFloat(got-tt.want) > 1e-12 {
			t.Errorf("(%d,%d): got %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestField_ResizeArea_Fractional(t *testing.T) {
	f := NewField(3, 1)
	f.Pix = []float64{0, 3, 6}

	r := f.ResizeArea(2, 1)

	// dst0 covers [0,1.5): (0*1 + 3*0.5) / 1.5 = 1
	// dst1 covers [1.5,3): (3*0.5 + 6*1) / 1.5 = 5
	if absFloat(r.Pix[0]-1) > 1e-12 || absFloat(r.Pix[1]-5) > 1e-12 {
		t.Errorf("got %v, want [1 5]", r.Pix)
	}
}

func TestField_ResizeArea_FlatStaysFlat(t *testing.T) {
	f := NewField(37, 23)
	for i := range f.Pix {
		f.Pix[i] = 0.3
	}

	r := f.ResizeArea(9, 5)

	for i, v := range r.Pix {
		if absFloat(v-0.3) > 1e-12 {
			t.Fatalf("Pix[%d]: got %v, want 0.3", i, v)
		}
	}
}

func TestField_ToGrayRoundTrip(t *testing.T) {
	f := NewField(2, 1)
	f.Pix = []float64{0, 1.5}

	g := f.ToGray()

	if g.Pix[0] != 0 || g.Pix[1] != 255 {
		t.Errorf("ToGray clamps: got %v", g.Pix)
	}

	back := FieldFromImage(g)
	if back.Pix[1] != 1 {
		t.Errorf("FieldFromImage: got %v, want 1", back.Pix[1])
	}
}

func TestGrayscale(t *testing.T) {
	img := createInMemoryImage(4, 4, color.RGBA{128, 128, 128, 255})

	g := Grayscale(img)

	if g.Width != 4 || g.Height != 4 {
		t.Fatalf("dimensions: got %dx%d", g.Width, g.Height)
	}
	for i, v := range g.Pix {
		if absFloat(v-128.0/255.0) > 1.0/255.0 {
			t.Fatalf("Pix[%d]: got %v, want ~%v", i, v, 128.0/255.0)
		}
	}
}

func TestFitWithin(t *testing.T) {
	small := createInMemoryImage(40, 20, color.White)
	if FitWithin(small, 64) != small {
		t.Error("images within the limit should be returned unchanged")
	}

	big := createInMemoryImage(200, 100, color.White)
	fit := FitWithin(big, 64)
	if fit.Bounds().Dx() != 64 || fit.Bounds().Dy() != 32 {
		t.Errorf("fit: got %dx%d, want 64x32", fit.Bounds().Dx(), fit.Bounds().Dy())
	}
}

func TestResizeImage(t *testing.T) {
	img := createPatternImage(40, 40)

	same := ResizeImage(img, 40, 40)
	if same.Bounds().Dx() != 40 || same.Bounds().Min.X != 0 {
		t.Errorf("same-size resize should be a zero-origin copy, got %v", same.Bounds())
	}

	half := ResizeImage(img, 2, 2)
	if half.Bounds().Dx() != 2 || half.Bounds().Dy() != 2 {
		t.Fatalf("dimensions: got %v", half.Bounds())
	}
	// Each destination pixel averages one solid quadrant
	if c := half.NRGBAAt(0, 0); c.R != 255 || c.G != 0 || c.B != 0 {
		t.Errorf("top-left should stay red, got %v", c)
	}
	if c := half.NRGBAAt(1, 1); c.R != 255 || c.G != 255 || c.B != 255 {
		t.Errorf("bottom-right should stay white, got %v", c)
	}
}
