package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing to stdout. format is "text" or "json"; an
// unknown level falls back to info.
func New(level, format string) *logrus.Logger {
	return NewWithOutput(level, format, os.Stdout)
}

// NewWithOutput is New writing to out
func NewWithOutput(level, format string, out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(ParseLevel(level))

	switch format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}
	return l
}

// ParseLevel is logrus.ParseLevel with info as the fallback
func ParseLevel(level string) logrus.Level {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// SetVerbose switches l to debug while verbose is set and back to base
// otherwise. A base already at debug or trace is kept.
func SetVerbose(l *logrus.Logger, base logrus.Level, verbose bool) {
	if verbose && base < logrus.DebugLevel {
		l.SetLevel(logrus.DebugLevel)
		return
	}
	l.SetLevel(base)
}
