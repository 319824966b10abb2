package classify

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/heightmesh/internal/detection"
)

// fakeDetector returns a fixed number of boxes and records its calls.
type fakeDetector struct {
	name   string
	n      int
	err    error
	panics bool
	calls  int
	seen   image.Rectangle
}

func (f *fakeDetector) Name() string { return f.name }

func (f *fakeDetector) Detect(img image.Image) ([]detection.Box, error) {
	f.calls++
	f.seen = img.Bounds()
	if f.panics {
		panic("detector crashed")
	}
	if f.err != nil {
		return nil, f.err
	}
	return make([]detection.Box, f.n), nil
}

func fakes(faces, people, circles, lines int) (Detectors, []*fakeDetector) {
	all := []*fakeDetector{
		{name: "faces", n: faces},
		{name: "people", n: people},
		{name: "circles", n: circles},
		{name: "lines", n: lines},
	}
	return Detectors{Faces: all[0], People: all[1], Circles: all[2], Lines: all[3]}, all
}

func createTestImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createStripeImage creates vertical black/white stripes of the given width,
// which gives a Canny edge density far above 0.2.
func createStripeImage(width, height, stripe int) *image.RGBA {
	img := createTestImage(width, height, color.White)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if (x/stripe)%2 == 0 {
				img.Set(x, y, color.Black)
			}
		}
	}
	return img
}

func TestClassify_DecisionTree(t *testing.T) {
	flat := createTestImage(64, 64, color.RGBA{128, 128, 128, 255})
	stripes := createStripeImage(64, 64, 4)

	tests := []struct {
		name                          string
		img                           image.Image
		faces, people, circles, lines int
		want                          Category
	}{
		{"face wins over everything", stripes, 1, 5, 10, 40, Faces},
		{"people before circles", stripes, 0, 2, 10, 40, People},
		{"more than three circles", stripes, 0, 0, 4, 40, CircularObjects},
		{"exactly three circles is not enough", flat, 0, 0, 3, 0, General},
		{"dense edges with many lines", stripes, 0, 0, 0, 16, Circuits},
		{"dense edges with exactly fifteen lines", stripes, 0, 0, 0, 15, Trigonometry},
		{"dense edges with few lines", stripes, 0, 0, 0, 2, Trigonometry},
		{"flat image", flat, 0, 0, 0, 40, General},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := fakes(tt.faces, tt.people, tt.circles, tt.lines)
			c := NewClassifier(DefaultThresholds(), d)
			if got := c.Classify(tt.img); got != tt.want {
				t.Errorf("Classify: got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestClassify_FirstMatchStopsEvaluation(t *testing.T) {
	d, all := fakes(1, 1, 10, 40)
	c := NewClassifier(DefaultThresholds(), d)

	category, signals := c.ClassifyWithSignals(createStripeImage(64, 64, 4))

	if category != Faces {
		t.Fatalf("category: got %s, want faces", category)
	}
	for _, f := range all[1:] {
		if f.calls != 0 {
			t.Errorf("%s detector ran after faces matched", f.name)
		}
	}
	if len(signals.Evaluated) != 1 || signals.Evaluated[0] != "faces" {
		t.Errorf("Evaluated: got %v, want [faces]", signals.Evaluated)
	}
}

func TestClassify_LinesOnlyForDenseEdges(t *testing.T) {
	d, all := fakes(0, 0, 0, 40)
	c := NewClassifier(DefaultThresholds(), d)

	_, signals := c.ClassifyWithSignals(createTestImage(64, 64, color.White))

	if all[3].calls != 0 {
		t.Error("line detector should not run when edge density is low")
	}
	if signals.EdgeDensity != 0 {
		t.Errorf("EdgeDensity: got %v, want 0", signals.EdgeDensity)
	}
}

func TestClassify_SignalsRecorded(t *testing.T) {
	d, _ := fakes(0, 0, 2, 20)
	c := NewClassifier(DefaultThresholds(), d)

	category, s := c.ClassifyWithSignals(createStripeImage(64, 64, 4))

	if category != Circuits {
		t.Fatalf("category: got %s, want circuits", category)
	}
	if s.Circles != 2 || s.Lines != 20 {
		t.Errorf("signals: got %+v", s)
	}
	if s.EdgeDensity <= DefaultThresholds().EdgeDensity {
		t.Errorf("stripe edge density too low: %v", s.EdgeDensity)
	}
	want := []string{"faces", "people", "circles", "edge_density", "lines"}
	if len(s.Evaluated) != len(want) {
		t.Fatalf("Evaluated: got %v, want %v", s.Evaluated, want)
	}
	for i := range want {
		if s.Evaluated[i] != want[i] {
			t.Errorf("Evaluated[%d]: got %s, want %s", i, s.Evaluated[i], want[i])
		}
	}
}

func TestClassify_ConfigurableThresholds(t *testing.T) {
	th := DefaultThresholds()
	th.CircleCount = 0

	d, _ := fakes(0, 0, 1, 0)
	if got := NewClassifier(th, d).Classify(createTestImage(32, 32, color.White)); got != CircularObjects {
		t.Errorf("with CircleCount 0 one circle should suffice, got %s", got)
	}

	th = DefaultThresholds()
	th.EdgeDensity = 1
	d, _ = fakes(0, 0, 0, 40)
	if got := NewClassifier(th, d).Classify(createStripeImage(64, 64, 4)); got != General {
		t.Errorf("with EdgeDensity 1 nothing is line art, got %s", got)
	}
}

func TestClassify_UnavailableDetectorsDegrade(t *testing.T) {
	broken := func(name string) *fakeDetector {
		return &fakeDetector{name: name, err: detection.ErrUnavailable}
	}

	tests := []struct {
		name string
		d    Detectors
	}{
		{"unavailable", Detectors{Faces: broken("faces"), People: broken("people"), Circles: broken("circles"), Lines: broken("lines")}},
		{"failing", Detectors{Faces: &fakeDetector{name: "faces", err: errors.New("boom")}}},
		{"panicking", Detectors{Faces: &fakeDetector{name: "faces", panics: true}, People: &fakeDetector{name: "people", panics: true}}},
		{"nil", Detectors{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier(DefaultThresholds(), tt.d)
			if got := c.Classify(createTestImage(32, 32, color.White)); got != General {
				t.Errorf("Classify: got %s, want general", got)
			}
		})
	}
}

func TestClassify_WorkingCopyBounded(t *testing.T) {
	d, all := fakes(0, 0, 0, 0)
	th := DefaultThresholds()
	th.AnalysisMaxSide = 128

	NewClassifier(th, d).Classify(createTestImage(512, 256, color.White))

	if got := all[0].seen; got.Dx() != 128 || got.Dy() != 64 {
		t.Errorf("detectors should see a 128x64 working copy, got %v", got)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	img := createStripeImage(96, 64, 3)
	c := NewClassifier(DefaultThresholds(), DefaultDetectors(""))

	first, s1 := c.ClassifyWithSignals(img)
	second, s2 := c.ClassifyWithSignals(img)

	if first != second || s1.EdgeDensity != s2.EdgeDensity || s1.Lines != s2.Lines || s1.Circles != s2.Circles {
		t.Errorf("classification differs between runs: %s %+v vs %s %+v", first, s1, second, s2)
	}
}
