// Package logging sets up the structured loggers used throughout
// goalnav. Loggers are plain *slog.Logger values; library code accepts
// one explicitly and uses Discard when none is given.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format is the output format of a logger
type Format string

const (
	Text Format = "text"
	JSON Format = "json"
)

// Config configures a logger
type Config struct {
	// Level is one of debug, info, warn or error. Empty means info.
	Level string `json:"level" yaml:"level"`

	// Format is text or json. Empty means text.
	Format Format `json:"format" yaml:"format"`

	// Output defaults to os.Stderr
	Output io.Writer `json:"-" yaml:"-"`
}

// Validate returns an error if the configuration is invalid
func (c Config) Validate() error {
	if _, err := ParseLevel(c.Level); err != nil {
		return err
	}
	switch c.Format {
	case "", Text, JSON:
		return nil
	default:
		return fmt.Errorf("unknown log format %q", c.Format)
	}
}

// ParseLevel converts a level name to a slog.Level
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("parseLevel: unknown log level %q",
			level)
	}
}

// New returns a new logger described by c
func New(c Config) (*slog.Logger, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}
	level, _ := ParseLevel(c.Level)

	out := c.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.Format == JSON {
		return slog.New(slog.NewJSONHandler(out, opts)), nil
	}
	return slog.New(slog.NewTextHandler(out, opts)), nil
}

// Discard returns a logger that drops every record
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError + 1,
	}))
}

// OrDiscard returns logger, or Discard() if logger is nil
func OrDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return Discard()
	}
	return logger
}
