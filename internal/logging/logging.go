// Package logging builds the structured logger shared by the session and the command.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// DefaultFile is where logs go when LOG_FILE is unset. The terminal belongs to tcell.
const DefaultFile = "shadowgrid.log"

// Options configures a logger.
type Options struct {
	Level  string    // logrus level name; "info" when empty or invalid
	Format string    // "json" or "text"
	Output io.Writer // defaults to io.Discard
}

// New creates a logger from opts.
func New(opts Options) *logrus.Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if strings.ToLower(opts.Format) == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			DisableColors: true,
		})
	}

	out := opts.Output
	if out == nil {
		out = io.Discard
	}
	log.SetOutput(out)
	return log
}

// FromEnv builds a logger from LOG_LEVEL, LOG_FORMAT and LOG_FILE.
// The returned closer releases the log file.
func FromEnv() (*logrus.Logger, io.Closer, error) {
	path := os.Getenv("LOG_FILE")
	if path == "" {
		path = DefaultFile
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file %s: %w", path, err)
	}

	level, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		level = "info"
	}
	return New(Options{
		Level:  level,
		Format: os.Getenv("LOG_FORMAT"),
		Output: f,
	}), f, nil
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *logrus.Logger {
	return New(Options{Level: "panic"})
}
