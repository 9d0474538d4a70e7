// Package logger holds the module-wide structured logger.
package logger

import (
	"io"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
)

// L is the global logger instance. It's initialized to discard all output by default.
// Call Init() to enable logging.
var L *slog.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Format selects the log encoding.
type Format string

const (
	FormatText Format = "text" // human-readable, charmbracelet/log styled
	FormatJSON Format = "json" // one JSON object per record
)

// Options configures the logger initialization.
type Options struct {
	Enabled bool       // If false, all logging is discarded
	Output  io.Writer  // Destination. Default: os.Stderr
	Format  Format     // Default: FormatText
	Level   slog.Level // Minimum log level. Default: LevelInfo when enabled
	Prefix  string     // Text format only
}

// Init configures logging. Call from main() before any log calls.
// If opts.Enabled is false, all log output is discarded.
func Init(opts Options) {
	L = New(opts)
}

// New builds a logger from opts without touching L.
func New(opts Options) *slog.Logger {
	if !opts.Enabled {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	level := opts.Level
	if level == 0 {
		level = slog.LevelInfo
	}

	if opts.Format == FormatJSON {
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
	}

	handler := charmlog.NewWithOptions(out, charmlog.Options{
		Level:           charmlog.Level(level),
		Prefix:          opts.Prefix,
		ReportTimestamp: true,
	})
	return slog.New(handler)
}
