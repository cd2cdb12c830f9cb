package common

import (
	"time"

	"github.com/sirupsen/logrus"
)

// TimeAndLog runs f and logs, at debug level, how long the phase took.
func TimeAndLog(logger *logrus.Logger, phase string, f func() error) error {
	start := time.Now()
	err := f()
	entry := logger.WithFields(logrus.Fields{
		"phase":    phase,
		"duration": time.Since(start),
	})
	if err != nil {
		entry.WithError(err).Debug("phase failed")
		return err
	}
	entry.Debug("phase done")
	return nil
}
