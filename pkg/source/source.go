// Package source reads component source files into immutable blobs and
// memoizes per-file analysis results.
package source

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/edsrzf/mmap-go"
)

// Source is the text of one component file. It is only ever pattern-scanned,
// never validated as code.
type Source struct {
	Path string
	Text []byte
}

// FromString wraps in-memory text, e.g. source pasted into an MCP request.
func FromString(path, text string) Source {
	return Source{Path: path, Text: []byte(text)}
}

// String returns the source text.
func (s Source) String() string {
	return string(s.Text)
}

// Read loads filePath through a read-only memory map and copies the bytes out
// before unmapping, so the returned Source never aliases the file.
// Falls back to os.ReadFile if mmap fails. A missing file yields an error
// matching os.ErrNotExist.
func Read(filePath string, logger *slog.Logger) (Source, error) {
	if logger == nil {
		logger = slog.Default()
	}

	file, err := os.Open(filePath)
	if err != nil {
		return Source{}, fmt.Errorf("open source %q: %w", filePath, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return Source{}, fmt.Errorf("stat source %q: %w", filePath, err)
	}
	if stat.IsDir() {
		return Source{}, fmt.Errorf("source %q is a directory", filePath)
	}

	// Can't mmap zero bytes.
	if stat.Size() == 0 {
		return Source{Path: filePath, Text: []byte{}}, nil
	}

	mapped, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		logger.Warn("mmap failed, using fallback", "file", filePath, "size", stat.Size(), "error", err)
		data, readErr := os.ReadFile(filePath)
		if readErr != nil {
			return Source{}, fmt.Errorf("read source %q: %w", filePath, readErr)
		}
		return Source{Path: filePath, Text: data}, nil
	}

	text := make([]byte, len(mapped))
	copy(text, mapped)
	if err := mapped.Unmap(); err != nil {
		logger.Warn("unmap failed", "file", filePath, "error", err)
	}

	return Source{Path: filePath, Text: text}, nil
}
