// Package imaging provides the raster primitives the mesh pipeline is built on.
//
// It decodes input bytes, converts images to scalar Fields (grayscale,
// edge maps, height fields), resamples Fields by area averaging, applies
// an edge-preserving bilateral filter and computes color statistics.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner,
// X increasing rightward and Y increasing downward. Field samples are
// stored row-major: (x, y) is Pix[y*Width+x].
//
// # Value Ranges
//
//   - Luminance and edge Fields are in [0,1]
//   - RGB statistics are on the 0-255 scale
//   - NormalizedRGB returns components in [0,1], always in R, G, B order
//
// # Thread Safety
//
// Functions never mutate their inputs and allocate fresh outputs, so they
// can be called concurrently on shared images.
package imaging
