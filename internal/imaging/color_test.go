package imaging

import (
	"image/color"
	"testing"
)

func TestAverageColor(t *testing.T) {
	img := createPatternImage(100, 100)

	avg := AverageColor(img)

	// Quadrants: red, green, blue, white
	want := RGB{R: 127.5, G: 127.5, B: 127.5}
	if avg != want {
		t.Errorf("AverageColor: got %+v, want %+v", avg, want)
	}
}

func TestAverageColor_ChannelOrder(t *testing.T) {
	img := createInMemoryImage(10, 10, color.RGBA{200, 100, 50, 255})

	avg := AverageColor(img)

	if avg.R != 200 || avg.G != 100 || avg.B != 50 {
		t.Errorf("AverageColor must be RGB ordered, got %+v", avg)
	}
}

func TestNormalizedRGB(t *testing.T) {
	img := createInMemoryImage(1, 1, color.RGBA{255, 0, 51, 255})

	c := NormalizedRGB(img, 0, 0)

	if c.R != 1 || c.G != 0 || absFloat(c.B-0.2) > 1e-9 {
		t.Errorf("NormalizedRGB: got %+v", c)
	}
}

func TestDominantColors(t *testing.T) {
	img := createPatternImage(100, 100)

	colors := DominantColors(img, 5)

	if len(colors) != 4 {
		t.Fatalf("expected 4 colors, got %d", len(colors))
	}
	for _, c := range colors {
		if c.Percentage != 25 {
			t.Errorf("%s: got %.2f%%, want 25%%", c.Hex, c.Percentage)
		}
	}
	// Ties sort by hex
	if colors[0].Hex != "#0000f0" {
		t.Errorf("first color: got %s, want #0000f0", colors[0].Hex)
	}
}

func TestDominantColors_Limit(t *testing.T) {
	colors := DominantColors(createPatternImage(10, 10), 2)
	if len(colors) != 2 {
		t.Errorf("expected 2 colors, got %d", len(colors))
	}
}

func TestDominantColors_SingleColor(t *testing.T) {
	colors := DominantColors(createInMemoryImage(10, 10, color.RGBA{255, 0, 0, 255}), 5)

	if len(colors) != 1 || colors[0].Percentage != 100 {
		t.Fatalf("expected one color at 100%%, got %+v", colors)
	}
}
