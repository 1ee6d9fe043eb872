package appshell

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// Logger defines the interface for application logging.
// appshell uses structured logging with key-value pairs so the host
// application decides how dispatcher and lifecycle logs appear.
//
// The Logger interface uses variadic arguments in key-value pairs:
//
//	logger.Warn("Quit ignored", "state", "quitting")
//
// Any structured logging library (slog, zap, logrus) can be adapted to it.
type Logger interface {
	// Info logs an informational message with optional key-value pairs.
	Info(msg string, args ...any)

	// Error logs an error message with optional key-value pairs.
	// Used for failing deferred callbacks and observer errors.
	Error(msg string, args ...any)

	// Warn logs a warning message with optional key-value pairs.
	// Used for non-fatal races such as a second concurrent Quit.
	Warn(msg string, args ...any)

	// Debug logs a debug message with optional key-value pairs.
	Debug(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Debug(string, ...any) {}

// SlogLogger adapts a *slog.Logger to the Logger interface.
type SlogLogger struct {
	logger *slog.Logger
	level  *slog.LevelVar // nil unless built by NewSlogLoggerFromConfig
}

// NewSlogLogger wraps l. A nil l uses slog.Default().
func NewSlogLogger(l *slog.Logger) *SlogLogger {
	if l == nil {
		l = slog.Default()
	}
	return &SlogLogger{logger: l}
}

// NewSlogLoggerFromConfig builds a text logger writing to w at cfg.LogLevel.
// Its level can be changed later with SetLevel.
func NewSlogLoggerFromConfig(cfg *Config, w io.Writer) *SlogLogger {
	level := new(slog.LevelVar)
	if cfg != nil {
		level.Set(parseLogLevel(cfg.LogLevel))
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return &SlogLogger{logger: slog.New(h), level: level}
}

// SetLevel changes the minimum level of a logger built from config and
// reports whether it could. Loggers wrapping a caller-supplied *slog.Logger
// keep the level of their handler.
func (l *SlogLogger) SetLevel(level string) bool {
	if l.level == nil {
		return false
	}
	l.level.Set(parseLogLevel(level))
	return true
}

func (l *SlogLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *SlogLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }
func (l *SlogLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *SlogLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }

// Enabled reports whether the underlying handler emits records at level.
func (l *SlogLogger) Enabled(level slog.Level) bool {
	return l.logger.Enabled(context.Background(), level)
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ComponentLoggerDecorator tags every record with a component name.
type ComponentLoggerDecorator struct {
	inner     Logger
	component string
}

// NewComponentLoggerDecorator wraps inner so every call carries
// "component", component as its first key-value pair.
func NewComponentLoggerDecorator(inner Logger, component string) *ComponentLoggerDecorator {
	if inner == nil {
		inner = nopLogger{}
	}
	return &ComponentLoggerDecorator{inner: inner, component: component}
}

// GetInnerLogger returns the wrapped logger
func (d *ComponentLoggerDecorator) GetInnerLogger() Logger {
	return d.inner
}

func (d *ComponentLoggerDecorator) Info(msg string, args ...any) {
	d.inner.Info(msg, d.withComponent(args)...)
}

func (d *ComponentLoggerDecorator) Error(msg string, args ...any) {
	d.inner.Error(msg, d.withComponent(args)...)
}

func (d *ComponentLoggerDecorator) Warn(msg string, args ...any) {
	d.inner.Warn(msg, d.withComponent(args)...)
}

func (d *ComponentLoggerDecorator) Debug(msg string, args ...any) {
	d.inner.Debug(msg, d.withComponent(args)...)
}

func (d *ComponentLoggerDecorator) withComponent(args []any) []any {
	out := make([]any, 0, len(args)+2)
	out = append(out, "component", d.component)
	return append(out, args...)
}
