package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger creates a new structured logger with JSON format on stdout.
// The level comes from LOG_LEVEL (default: INFO).
func NewLogger(serviceName string) *slog.Logger {
	return NewLoggerWithWriter(serviceName, os.Stdout, getLogLevel(os.Getenv("LOG_LEVEL")))
}

// NewLoggerWithWriter is NewLogger with an explicit sink and level.
// Tests point it at a bytes.Buffer to assert on emitted records.
func NewLoggerWithWriter(serviceName string, w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})

	// Add service name to all log entries
	return slog.New(handler).With(slog.String("service", serviceName))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func getLogLevel(levelStr string) slog.Level {
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
