package detection

import (
	"errors"
	"image"
	"image/color"
	"testing"

	apperrors "github.com/ironsheep/heightmesh/internal/errors"
)

type stubDetector struct {
	name  string
	boxes []Box
	err   error
	calls int
}

func (s *stubDetector) Name() string { return s.name }

func (s *stubDetector) Detect(img image.Image) ([]Box, error) {
	s.calls++
	return s.boxes, s.err
}

func TestBox_Area(t *testing.T) {
	b := Box{X: 3, Y: 4, Width: 10, Height: 5}
	if b.Area() != 50 {
		t.Errorf("Area: got %d, want 50", b.Area())
	}
}

func TestIsUnavailable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"sentinel", ErrUnavailable, true},
		{"wrapped sentinel", unavailable("x", nil), true},
		{"wrapped cause", unavailable("x", errors.New("no model")), true},
		{"typed only", apperrors.NewDetectorUnavailable("x", nil), true},
		{"other", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUnavailable(tt.err); got != tt.want {
				t.Errorf("IsUnavailable(%v): got %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestFirstAvailable_SkipsUnavailable(t *testing.T) {
	first := &stubDetector{name: "ocr", err: unavailable("ocr", nil)}
	second := &stubDetector{name: "heuristic", boxes: []Box{{Width: 2, Height: 2}}}
	third := &stubDetector{name: "never"}

	d := FirstAvailable("text", first, nil, second, third)
	boxes, err := d.Detect(createTestImage(4, 4, color.White))
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(boxes) != 1 {
		t.Errorf("expected the second detector's boxes, got %v", boxes)
	}
	if third.calls != 0 {
		t.Error("detectors after the first available one must not run")
	}
	if d.Name() != "text" {
		t.Errorf("Name: got %q", d.Name())
	}
}

func TestFirstAvailable_PropagatesFailure(t *testing.T) {
	boom := errors.New("boom")
	d := FirstAvailable("text",
		&stubDetector{name: "broken", err: boom},
		&stubDetector{name: "fallback"},
	)

	_, err := d.Detect(createTestImage(4, 4, color.White))
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
	if IsUnavailable(err) {
		t.Error("a failing detector is not an unavailable one")
	}
}

func TestFirstAvailable_NoneAvailable(t *testing.T) {
	d := FirstAvailable("text",
		&stubDetector{name: "a", err: unavailable("a", nil)},
		&stubDetector{name: "b", err: ErrUnavailable},
	)

	_, err := d.Detect(createTestImage(4, 4, color.White))
	if !IsUnavailable(err) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestFirstAvailable_Empty(t *testing.T) {
	_, err := FirstAvailable("nothing").Detect(createTestImage(4, 4, color.White))
	if !IsUnavailable(err) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestDetectEdges(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 50, 50))
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			if x < 25 {
				img.Set(x, y, color.Black)
			} else {
				img.Set(x, y, color.White)
			}
		}
	}

	edges := detectEdges(img)

	for y := 1; y < 49; y++ {
		if !edges[y][24] {
			t.Fatalf("expected edge at (24,%d)", y)
		}
		if edges[y][10] || edges[y][40] {
			t.Fatalf("unexpected edge away from the step in row %d", y)
		}
	}
	// Border pixels are never edges
	if edges[0][24] || edges[49][24] {
		t.Error("border rows must not be edges")
	}
}

func TestDetectEdges_UniformImage(t *testing.T) {
	edges := detectEdges(createTestImage(50, 50, color.RGBA{128, 128, 128, 255}))

	if n := len(edgePoints(edges)); n != 0 {
		t.Errorf("Uniform image should have 0 edges, got %d", n)
	}
}

func TestEdgePoints_RowMajor(t *testing.T) {
	edges := newEdgeGrid(3, 2)
	edges[1][0] = true
	edges[0][2] = true

	points := edgePoints(edges)

	want := []Point{{X: 2, Y: 0}, {X: 0, Y: 1}}
	if len(points) != 2 || points[0] != want[0] || points[1] != want[1] {
		t.Errorf("edgePoints: got %v, want %v", points, want)
	}
}
