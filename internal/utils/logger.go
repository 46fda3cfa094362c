package utils

import (
	"fmt"

	"github.com/sirupsen/logrus" // Logging library
)

// SetupLogger configures the standard logrus logger: text with full timestamps
// in development, JSON in production.
func SetupLogger(level string, prod bool) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	logrus.SetLevel(lvl)
	if prod {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}
