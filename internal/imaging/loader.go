package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder

	apperrors "github.com/ironsheep/heightmesh/internal/errors"
)

// Decode decodes an in-memory raster image.
//
// EXIF orientation is applied for JPEG input. Any failure, including an
// empty buffer, is returned as a DecodeError so the caller can emit the
// error payload without running further stages.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, apperrors.NewDecodeError("failed to decode image", fmt.Errorf("empty input"))
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, apperrors.NewDecodeError("failed to decode image", err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, apperrors.NewDecodeError("failed to decode image", fmt.Errorf("image has no pixels"))
	}
	return img, nil
}

// Load reads and decodes the image file at path.
//
// Read errors are plain wrapped errors; content that is not an image is a
// DecodeError.
func Load(path string) (image.Image, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open image: %w", err)
	}
	img, err := Decode(data)
	if err != nil {
		return nil, nil, err
	}
	return img, data, nil
}

// ImageInfo contains the basic shape of a decoded image.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Channels is 1 for grayscale, 4 when the image carries transparency,
	// 3 otherwise.
	Channels int `json:"channels"`
}

// Info returns the dimensions and channel count of img.
func Info(img image.Image) ImageInfo {
	bounds := img.Bounds()
	return ImageInfo{
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Channels: channels(img),
	}
}

func channels(img image.Image) int {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return 1
	}
	if o, ok := img.(interface{ Opaque() bool }); ok && !o.Opaque() {
		return 4
	}
	return 3
}
