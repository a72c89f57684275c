// Package emit writes generated artifacts to disk without clobbering
// existing files.
package emit

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// Outcome is the result of one write attempt.
type Outcome string

const (
	Written       Outcome = "written"
	SkippedExists Outcome = "skipped-exists"
	Failed        Outcome = "failed"
)

// Result describes what happened to one target path. Err is set only when
// Outcome is Failed.
type Result struct {
	Path    string  `json:"path" yaml:"path"`
	Outcome Outcome `json:"outcome" yaml:"outcome"`
	Err     error   `json:"-" yaml:"-"`
}

// Message returns the failure message, if any.
func (r Result) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Writer emits files and logs each outcome.
type Writer struct {
	logger *slog.Logger
}

// NewWriter creates a Writer.
func NewWriter(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{logger: logger}
}

// WriteNew creates path with content, creating parent directories as needed.
// If path already exists its bytes are left untouched and the outcome is
// SkippedExists. The existence check and the create are one O_EXCL open, so a
// concurrent writer that wins is reported as a skip rather than clobbered.
func (w *Writer) WriteNew(path string, content []byte) Result {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return w.fail(path, fmt.Errorf("create directory for %s: %w", path, err))
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			w.logger.Info("artifact exists, skipping", "path", path)
			return Result{Path: path, Outcome: SkippedExists}
		}
		return w.fail(path, fmt.Errorf("create %s: %w", path, err))
	}

	if _, err := f.Write(content); err != nil {
		f.Close()
		// Don't leave a truncated artifact behind that later runs would skip.
		os.Remove(path)
		return w.fail(path, fmt.Errorf("write %s: %w", path, err))
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return w.fail(path, fmt.Errorf("close %s: %w", path, err))
	}

	w.logger.Info("artifact written", "path", path, "bytes", len(content))
	return Result{Path: path, Outcome: Written}
}

// Overwrite writes path unconditionally, replacing any existing file. Only
// used when the caller explicitly asked to force.
func (w *Writer) Overwrite(path string, content []byte) Result {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return w.fail(path, fmt.Errorf("create directory for %s: %w", path, err))
	}
	if err := os.WriteFile(path, content, filePerm); err != nil {
		return w.fail(path, fmt.Errorf("write %s: %w", path, err))
	}
	w.logger.Info("artifact overwritten", "path", path, "bytes", len(content))
	return Result{Path: path, Outcome: Written}
}

func (w *Writer) fail(path string, err error) Result {
	w.logger.Error("artifact write failed", "path", path, "error", err)
	return Result{Path: path, Outcome: Failed, Err: err}
}
