package detection

import (
	"fmt"
	"image"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/heightmesh/internal/logger"
)

// Safe runs d and converts every failure into "no detections".
//
// Unavailable detectors are logged at debug level, other errors and panics
// at warn level. A nil detector finds nothing.
func Safe(d Detector, img image.Image) (boxes []Box) {
	if d == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			logger.WithFields(logrus.Fields{
				"detector": d.Name(),
				"panic":    fmt.Sprint(r),
			}).Warn("detector panicked, treating as zero detections")
			boxes = nil
		}
	}()

	boxes, err := d.Detect(img)
	if err != nil {
		entry := logger.WithError(err).WithField("detector", d.Name())
		if IsUnavailable(err) {
			entry.Debug("detector unavailable, treating as zero detections")
		} else {
			entry.Warn("detector failed, treating as zero detections")
		}
		return nil
	}
	return boxes
}
