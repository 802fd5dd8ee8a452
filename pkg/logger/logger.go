// Package logger builds structured slog loggers and provides attribute helpers
// shared by relay components.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ErrInvalidOptions is returned by New for unknown level or format.
var ErrInvalidOptions = errors.New("logger: invalid options")

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Options describes logger output.
type Options struct {
	Level  string    // debug | info | warn | error
	Format string    // text | json
	Output io.Writer // os.Stdout when nil
}

// ParseLevel converts level name into slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%w: unknown level %q", ErrInvalidOptions, level)
}

// New builds slog.Logger with text or JSON handler.
func New(opts Options) (*slog.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(opts.Format) {
	case "", FormatText:
		handler = slog.NewTextHandler(out, handlerOpts)
	case FormatJSON:
		handler = slog.NewJSONHandler(out, handlerOpts)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrInvalidOptions, opts.Format)
	}
	return slog.New(handler), nil
}

// Discard returns logger which drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// OrDiscard returns l or the discarding logger when l is nil.
func OrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
