// Package logging wires logrus to the [log] section of the config.
// The CLI calls Setup once; everything else logs through the package
// functions so the session and engines never touch logrus directly.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Setup configures the global logger. An empty file routes logs to
// stderr; an empty level defaults to info.
func Setup(level, file string) error {
	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return err
		}
		f, err := os.OpenFile(file, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		logrus.SetOutput(f)
	} else {
		logrus.SetOutput(os.Stderr)
	}

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)

	return nil
}

// Silence discards all log output. Used by the TUI so log lines do not
// tear the rendered frame, and by tests.
func Silence() {
	logrus.SetOutput(io.Discard)
}

// WithField returns an entry tagged with a single field.
func WithField(key string, value any) *logrus.Entry {
	return logrus.WithField(key, value)
}

func Debugf(format string, args ...any) { logrus.Debugf(format, args...) }
func Infof(format string, args ...any)  { logrus.Infof(format, args...) }
func Warnf(format string, args ...any)  { logrus.Warnf(format, args...) }
func Errorf(format string, args ...any) { logrus.Errorf(format, args...) }
