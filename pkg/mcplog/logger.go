// Package mcplog records MCP tool calls as JSON lines.
package mcplog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Entry is one JSON line, written per tool call.
type Entry struct {
	Ts            string         `json:"ts"`
	Tool          string         `json:"tool"`
	Component     string         `json:"component,omitempty"`
	Params        map[string]any `json:"params"`
	DurationMs    int64          `json:"duration_ms"`
	ResponseBytes int            `json:"response_bytes"`
	ToolError     bool           `json:"tool_error"`
	Error         *string        `json:"error"`
}

// Rotation limits for the call log.
const (
	maxSizeMB  = 10
	maxBackups = 3
	maxAgeDays = 28
)

// Logger appends entries to a size-rotated file. Safe for concurrent use.
type Logger struct {
	mu  sync.Mutex
	out io.WriteCloser
	enc *json.Encoder
	now func() time.Time
}

// NewLogger opens path for appending, creating parent directories.
// An empty path returns nil, nil; a nil Logger discards writes.
func NewLogger(path string) (*Logger, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mcplog: create log directory: %w", err)
	}
	out := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
	}
	return newLogger(out, time.Now), nil
}

func newLogger(out io.WriteCloser, now func() time.Time) *Logger {
	return &Logger{out: out, enc: json.NewEncoder(out), now: now}
}

// Now returns the logger's clock reading.
func (l *Logger) Now() time.Time {
	if l == nil {
		return time.Now()
	}
	return l.now()
}

// Write appends one entry. Callers ignore the error so that logging never
// changes a tool result.
func (l *Logger) Write(entry Entry) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enc.Encode(entry)
}

// Close closes the log file.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.out.Close()
}

// Record builds the entry for one finished call.
func (l *Logger) Record(start time.Time, req mcp.CallToolRequest, result *mcp.CallToolResult, err error) Entry {
	args := req.GetArguments()
	entry := Entry{
		Ts:            start.UTC().Format(time.RFC3339),
		Tool:          req.Params.Name,
		Params:        SanitizeParams(args),
		DurationMs:    l.Now().Sub(start).Milliseconds(),
		ResponseBytes: ResponseBytes(result),
		ToolError:     result != nil && result.IsError,
	}
	if name, ok := args["name"].(string); ok {
		entry.Component = name
	}
	if err != nil {
		msg := err.Error()
		entry.Error = &msg
	}
	return entry
}

// shortStringMax bounds the string parameters copied into the log.
const shortStringMax = 64

// SanitizeParams copies args for logging. Long strings, such as pasted
// component source, are replaced by a "<key>_len" entry.
func SanitizeParams(args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		if s, ok := v.(string); ok && len(s) > shortStringMax {
			out[k+"_len"] = len(s)
		} else {
			out[k] = v
		}
	}
	return out
}

// ResponseBytes is the encoded size of a result's content, 0 for nil.
func ResponseBytes(result *mcp.CallToolResult) int {
	if result == nil {
		return 0
	}
	b, err := json.Marshal(result.Content)
	if err != nil {
		return 0
	}
	return len(b)
}
