package common

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogLevel represents logging verbosity levels
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LogLevelError:
		return "error"
	case LogLevelWarn:
		return "warn"
	case LogLevelInfo:
		return "info"
	case LogLevelDebug:
		return "debug"
	default:
		return "info"
	}
}

// ToSlogLevel converts LogLevel to slog.Level
func (l LogLevel) ToSlogLevel() slog.Level {
	switch l {
	case LogLevelError:
		return slog.LevelError
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelDebug:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// ParseLogLevel maps the --log-level flag value to a LogLevel.
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return LogLevelError, nil
	case "warn", "warning":
		return LogLevelWarn, nil
	case "info", "":
		return LogLevelInfo, nil
	case "debug":
		return LogLevelDebug, nil
	}
	return LogLevelInfo, fmt.Errorf("invalid log level %q (want error, warn, info or debug)", s)
}

// LogFormat selects how diagnostics are encoded.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// ParseLogFormat maps the --log-format flag value to a LogFormat.
func ParseLogFormat(s string) (LogFormat, error) {
	switch f := LogFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case LogFormatText, LogFormatJSON:
		return f, nil
	case "":
		return LogFormatText, nil
	}
	return LogFormatText, fmt.Errorf("invalid log format %q (want text or json)", s)
}

// Logger provides a centralized logging interface for crs diagnostics.
// Diagnostics never go to stdout, which carries the rendered headers.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a colorized structured logger writing to w
func NewLogger(level LogLevel, w io.Writer) *Logger {
	opts := &slog.HandlerOptions{
		Level: level.ToSlogLevel(),
	}
	return &Logger{Logger: slog.New(NewColorHandler(w, opts))}
}

// NewJSONLogger creates a structured logger with JSON output. Attributes are
// masked the same way as in the text handler.
func NewJSONLogger(level LogLevel, w io.Writer) *Logger {
	masker := NewMasker()
	opts := &slog.HandlerOptions{
		Level: level.ToSlogLevel(),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && (a.Key == slog.TimeKey || a.Key == slog.LevelKey || a.Key == slog.MessageKey) {
				return a
			}
			return masker.MaskAttr(a)
		},
	}
	return &Logger{Logger: slog.New(slog.NewJSONHandler(w, opts))}
}

// NewFormatLogger creates a logger for the given format.
func NewFormatLogger(format LogFormat, level LogLevel, w io.Writer) *Logger {
	if format == LogFormatJSON {
		return NewJSONLogger(level, w)
	}
	return NewLogger(level, w)
}

// WithComponent returns a logger with component context
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{Logger: l.Logger.WithGroup(component)}
}

// WithRequest returns a logger with HTTP request context
func (l *Logger) WithRequest(method, url string) *Logger {
	return &Logger{Logger: l.Logger.With("method", method, "url", url)}
}

// Global default logger instance
var defaultLogger = NewLogger(LogLevelWarn, os.Stderr)

// SetDefaultLogger sets the global default logger
func SetDefaultLogger(logger *Logger) {
	defaultLogger = logger
}

// GetLogger returns the default logger
func GetLogger() *Logger {
	return defaultLogger
}
