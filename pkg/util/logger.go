// Package util holds process-wide helpers shared by the CLI and packages:
// logger construction and worker sizing.
package util

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevel is a level name accepted on the command line.
type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

// LogFormat selects the slog handler.
type LogFormat string

const (
	FormatJSON LogFormat = "json"
	FormatText LogFormat = "text"
)

// Rotation limits for log files, in megabytes, files and days.
const (
	LogMaxSize    = 10
	LogMaxBackups = 3
	LogMaxAge     = 28
)

// LoggerConfig holds the configuration for the logger.
type LoggerConfig struct {
	Level  LogLevel
	Format LogFormat
	Output io.Writer
}

// DefaultLoggerConfig logs warnings and above as text to stderr, keeping
// stdout free for command output and the MCP transport.
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Level:  LevelWarn,
		Format: FormatText,
		Output: os.Stderr,
	}
}

// NewLogger creates a structured logger with the given configuration.
func NewLogger(config LoggerConfig) *slog.Logger {
	out := config.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(string(config.Level), slog.LevelWarn)}

	var handler slog.Handler
	switch config.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(out, opts)
	default:
		handler = slog.NewTextHandler(out, opts)
	}
	return slog.New(handler)
}

// RotatingFile returns a size-rotated writer for path. The file is created
// on first write.
func RotatingFile(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    LogMaxSize,
		MaxBackups: LogMaxBackups,
		MaxAge:     LogMaxAge,
		Compress:   true,
	}
}

// ParseLevel converts a level name, or a numeric slog level such as -4,
// into a slog.Level. Unknown values yield def.
func ParseLevel(value string, def slog.Level) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return def
	case string(LevelDebug):
		return slog.LevelDebug
	case string(LevelInfo):
		return slog.LevelInfo
	case string(LevelWarn), "warning":
		return slog.LevelWarn
	case string(LevelError):
		return slog.LevelError
	}
	if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
		return slog.Level(n)
	}
	return def
}
