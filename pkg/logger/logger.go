package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger wraps logrus.Logger so packages depend on one logging type
type Logger struct {
	*logrus.Logger
}

// Entry wraps logrus.Entry for chained field logging
type Entry = logrus.Entry

// NewLogger creates a configured logger. Format is "json" or "text",
// level one of debug/info/warn/error.
func NewLogger(level, format string) *Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	parsedLevel, err := logrus.ParseLevel(level)
	if err != nil {
		parsedLevel = logrus.InfoLevel
	}
	log.SetLevel(parsedLevel)

	if format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05Z07:00",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02T15:04:05Z07:00",
		})
	}

	return &Logger{Logger: log}
}

// WithField returns an entry with a single field attached
func (l *Logger) WithField(key string, value interface{}) *Entry {
	return l.Logger.WithField(key, value)
}

// WithFields returns an entry with multiple fields attached
func (l *Logger) WithFields(fields map[string]interface{}) *Entry {
	return l.Logger.WithFields(logrus.Fields(fields))
}

// WithError returns an entry with the error attached under the "error" key
func (l *Logger) WithError(err error) *Entry {
	return l.Logger.WithError(err)
}
