package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config controls how the service logs.
type Config struct {
	Level       string // debug, info, warn, error
	Format      string // json, text
	Output      string // stdout, stderr, discard, or a file path
	Component   string
	Environment string
}

// Logger wraps slog.Logger with component scoping.
type Logger struct {
	*slog.Logger
	output io.Writer
}

func DefaultConfig() Config {
	return Config{
		Level:       "info",
		Format:      "json",
		Output:      "stdout",
		Environment: "development",
	}
}

func New(cfg Config) *Logger {
	var output io.Writer
	switch cfg.Output {
	case "", "stdout":
		output = os.Stdout
	case "stderr":
		output = os.Stderr
	case "discard":
		output = io.Discard
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			output = os.Stdout
		} else {
			output = f
		}
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(output, opts)
	} else {
		handler = slog.NewJSONHandler(output, opts)
	}

	l := slog.New(handler)
	if cfg.Component != "" {
		l = l.With("component", cfg.Component)
	}
	if cfg.Environment != "" {
		l = l.With("environment", cfg.Environment)
	}

	return &Logger{Logger: l, output: output}
}

// Nop returns a logger that drops everything. Used by tests.
func Nop() *Logger {
	return New(Config{Output: "discard"})
}

// With returns a logger carrying extra attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...), output: l.output}
}

func (l *Logger) WithComponent(component string) *Logger {
	return l.With("component", component)
}

// Close releases a file output, if any.
func (l *Logger) Close() error {
	if c, ok := l.output.(io.Closer); ok && l.output != os.Stdout && l.output != os.Stderr {
		return c.Close()
	}
	return nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
