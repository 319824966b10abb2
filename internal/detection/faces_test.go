package detection

import (
	"image/color"
	"path/filepath"
	"testing"
)

func TestFaceDetector_Unavailable(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"no cascade configured", ""},
		{"missing cascade file", filepath.Join(t.TempDir(), "facefinder")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewFaceDetector(tt.path)
			_, err := d.Detect(createTestImage(20, 20, color.White))
			if !IsUnavailable(err) {
				t.Fatalf("expected unavailable, got %v", err)
			}
			// The load error is sticky
			if _, err := d.Detect(createTestImage(20, 20, color.White)); !IsUnavailable(err) {
				t.Errorf("second call: expected unavailable, got %v", err)
			}
		})
	}
}
