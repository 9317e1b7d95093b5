// Package report persists search results.
package report

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"persistence"
)

// FileReporter appends each result to <Dir>/result.<steps>.txt, one number
// per line, and echoes "<steps> steps: <number>" to Out.
type FileReporter struct {
	Dir    string
	Out    io.Writer
	Logger *slog.Logger

	mu sync.Mutex
}

// NewFileReporter returns a reporter writing under dir. out and logger may
// be nil.
func NewFileReporter(dir string, out io.Writer, logger *slog.Logger) *FileReporter {
	return &FileReporter{Dir: dir, Out: out, Logger: logger}
}

// Path returns the result file used for the given persistence.
func (r *FileReporter) Path(steps int) string {
	return filepath.Join(r.Dir, fmt.Sprintf("result.%d.txt", steps))
}

// Report implements persistence.Reporter.
func (r *FileReporter) Report(steps int, n *persistence.Number) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	text := n.String()
	if r.Out != nil {
		fmt.Fprintf(r.Out, "%d steps: %s\n", steps, text)
	}

	path := r.Path(steps)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("unable to open %s to report result: %w", path, err)
	}
	if _, err := fmt.Fprintln(f, text); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	if r.Logger != nil {
		r.Logger.Info("result recorded", "steps", steps, "digits", n.DigitCount(), "file", path)
	}
	return nil
}
