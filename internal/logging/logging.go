// Package logging builds the relay's zerolog logger.
//
// Production deployments log JSON lines; local runs use zerolog's console
// writer. Every entry carries the service name.
package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ServiceName is attached to every log entry.
const ServiceName = "meetingrelay"

// Config holds logger configuration.
type Config struct {
	// Level sets the minimum level (debug, info, warn, error).
	Level string

	// JSON enables JSON output when true, human-readable when false.
	JSON bool

	// Output defaults to os.Stderr so stdout stays free for CLI and MCP
	// output.
	Output io.Writer
}

// New returns a logger for cfg.
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if !cfg.JSON {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("service_name", ServiceName).
		Logger()
}

// Nop returns a logger that discards everything. Used by tests.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// ParseLevel converts a level name to a zerolog.Level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// FromContext returns the logger stored in ctx, or a disabled logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithRequestID returns a child of l tagged with id and a context
// carrying it.
func WithRequestID(ctx context.Context, l zerolog.Logger, id string) (context.Context, zerolog.Logger) {
	child := l.With().Str("request_id", id).Logger()
	return child.WithContext(ctx), child
}
