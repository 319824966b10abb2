// Package detection provides the feature detectors the pipeline counts on.
//
// Every detector satisfies the Detector capability: it takes a decoded image
// and returns axis-aligned Boxes in source pixel coordinates. Callers only
// rely on the count and the boxes, never on how a detector works, so a pure
// Go Hough transform and a cgo-backed HOG model are interchangeable.
//
// # Detectors
//
//   - LineDetector: Hough line transform over a gradient edge mask
//   - CircleDetector: Hough circle transform over the same mask
//   - ContourDetector: 8-connected edge components and their bounding boxes
//   - TextRegionDetector: sliding-window edge density heuristic
//   - FaceDetector: pigo pixel-intensity-comparison cascade
//   - PeopleDetector: OpenCV HOG pedestrian model (requires the gocv build tag)
//
// # Availability
//
// A detector that cannot run (missing cascade file, binary built without
// OpenCV) returns an error wrapping ErrUnavailable. FirstAvailable chains
// detectors for the same feature and uses the first one that runs.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// # Limitations
//
// The Hough and contour detectors work best on clean, high-contrast images.
// Their cost grows with the edge pixel count, so callers analyzing photographs
// should downscale first (see imaging.FitWithin).
package detection
