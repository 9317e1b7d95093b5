// Package logging builds the structured loggers used by the persistence
// binaries.
//
// Output goes to stderr by default so that stdout stays reserved for search
// results and the line protocol. Text format is the default; JSON is meant
// for machine collection.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options configures New. The zero value logs Info and above as text to
// stderr.
type Options struct {
	// Level is the minimum level emitted.
	Level slog.Level

	// JSON switches the handler from text to JSON.
	JSON bool

	// Writer overrides the destination. Default: os.Stderr.
	Writer io.Writer

	// Service, when set, is attached to every record as "service".
	Service string
}

// New returns a logger configured by opts.
func New(opts Options) *slog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{Level: opts.Level}
	var h slog.Handler
	if opts.JSON {
		h = slog.NewJSONHandler(w, handlerOpts)
	} else {
		h = slog.NewTextHandler(w, handlerOpts)
	}

	logger := slog.New(h)
	if opts.Service != "" {
		logger = logger.With("service", opts.Service)
	}
	return logger
}

// ParseLevel maps "debug", "info", "warn" and "error" (any case) to a
// slog.Level. The empty string is Info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
