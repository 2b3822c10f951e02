// Package logging provides component-scoped loggers for the catalog CLI.
//
// Basic usage:
//
//	logging.Init("info")
//	logger := logging.Get("scanner")
//	logger.Warn("walk error", "path", p, "error", err)
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// ErrInvalidLevel is returned when an invalid log level string is provided.
var ErrInvalidLevel = errors.New("invalid log level")

var (
	mu      sync.Mutex
	level   = log.InfoLevel
	output  io.Writer = os.Stderr
	loggers = make(map[string]*log.Logger)
)

// ParseLevel parses a level string into a charmbracelet log level.
func ParseLevel(s string) (log.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return log.DebugLevel, nil
	case "info":
		return log.InfoLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	default:
		return log.InfoLevel, fmt.Errorf("%w: %s", ErrInvalidLevel, s)
	}
}

// Init configures the shared logging level. Loggers created before Init
// are updated in place.
func Init(levelStr string) error {
	lvl, err := ParseLevel(levelStr)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	level = lvl
	for _, l := range loggers {
		l.SetLevel(level)
	}
	return nil
}

// SetOutput redirects all loggers to w. Intended for tests and for TUI
// mode, where stderr is owned by the terminal program.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	for _, l := range loggers {
		l.SetOutput(output)
	}
}

// Get returns the logger for a component, creating it on first use.
// Loggers are cached; repeated calls with the same component return the
// same instance.
func Get(component string) *log.Logger {
	mu.Lock()
	defer mu.Unlock()

	if l, ok := loggers[component]; ok {
		return l
	}

	l := log.NewWithOptions(output, log.Options{
		ReportTimestamp: true,
		Prefix:          component,
	})
	l.SetLevel(level)
	loggers[component] = l
	return l
}
