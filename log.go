package zkrange

import (
	"github.com/privacybydesign/zkrange/group"
	"github.com/privacybydesign/zkrange/rangeproof"
	"github.com/privacybydesign/zkrange/safeprime"
	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger

func init() {
	SetLogger(logrus.StandardLogger())
}

// SetLogger makes all packages of this module log to logger.
func SetLogger(logger *logrus.Logger) {
	Logger = logger
	group.Logger = logger
	safeprime.Logger = logger
	rangeproof.Logger = logger
}
