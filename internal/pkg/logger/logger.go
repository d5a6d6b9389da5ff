package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// levelDisabled sits above every level slog emits, so nothing passes it.
const levelDisabled = slog.Level(1 << 10)

var (
	defaultLogger *slog.Logger
	once          sync.Once

	level       = new(slog.LevelVar)
	mu          sync.Mutex
	activeLevel = slog.LevelInfo
	disabled    bool
	output      io.Writer = os.Stderr
)

// Initialize sets up the structured logger. The initial level is taken from
// the LOG_LEVEL environment variable when present.
func Initialize() {
	once.Do(func() {
		if lvl, ok := ParseLevel(os.Getenv("LOG_LEVEL")); ok {
			activeLevel = lvl
		}
		level.Set(activeLevel)
		handler := slog.NewJSONHandler(output, &slog.HandlerOptions{
			Level:     level,
			AddSource: false,
		})
		defaultLogger = slog.New(handler)
	})
}

// Get returns the default structured logger
func Get() *slog.Logger {
	Initialize() // sync.Once ensures it only runs once
	return defaultLogger
}

// ParseLevel maps "debug", "info", "warn" and "error" to slog levels.
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// SetLevel changes the minimum level of the default logger.
func SetLevel(l slog.Level) {
	Initialize()
	mu.Lock()
	defer mu.Unlock()
	activeLevel = l
	if !disabled {
		level.Set(l)
	}
}

// Disable suppresses all log output until Enable is called.
func Disable() {
	Initialize()
	mu.Lock()
	defer mu.Unlock()
	disabled = true
	level.Set(levelDisabled)
}

// Enable restores log output at the last configured level.
func Enable() {
	Initialize()
	mu.Lock()
	defer mu.Unlock()
	disabled = false
	level.Set(activeLevel)
}

// Enabled reports whether messages at l would currently be written.
func Enabled(l slog.Level) bool {
	return Get().Enabled(context.Background(), l)
}

// Info logs an info level message
func Info(msg string, args ...any) {
	Get().Info(msg, args...)
}

// InfoContext logs an info level message with context
func InfoContext(ctx context.Context, msg string, args ...any) {
	Get().InfoContext(ctx, msg, args...)
}

// Warn logs a warning level message
func Warn(msg string, args ...any) {
	Get().Warn(msg, args...)
}

// WarnContext logs a warning level message with context
func WarnContext(ctx context.Context, msg string, args ...any) {
	Get().WarnContext(ctx, msg, args...)
}

// Error logs an error level message
func Error(msg string, args ...any) {
	Get().Error(msg, args...)
}

// ErrorContext logs an error level message with context
func ErrorContext(ctx context.Context, msg string, args ...any) {
	Get().ErrorContext(ctx, msg, args...)
}

// Debug logs a debug level message
func Debug(msg string, args ...any) {
	Get().Debug(msg, args...)
}

// DebugContext logs a debug level message with context
func DebugContext(ctx context.Context, msg string, args ...any) {
	Get().DebugContext(ctx, msg, args...)
}

// With returns a logger with the given attributes
func With(args ...any) *slog.Logger {
	return Get().With(args...)
}

// WithGroup returns a logger with the given group name
func WithGroup(name string) *slog.Logger {
	return Get().WithGroup(name)
}
