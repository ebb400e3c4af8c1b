// Package logging builds the zerolog logger shared by the CLI and engine.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Config selects level and output format.
type Config struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error, disabled
	Format string `mapstructure:"format" yaml:"format"` // console or json
}

// DefaultConfig logs warnings and above in console format.
func DefaultConfig() Config {
	return Config{Level: "warn", Format: "console"}
}

// Validate reports an unknown level or format.
func (c Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}
	if c.Format != "console" && c.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be console or json)", c.Format)
	}
	return nil
}

// New creates a logger writing to stderr.
func New(cfg Config) (zerolog.Logger, error) {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter creates a logger writing to w.
func NewWithWriter(cfg Config, w io.Writer) (zerolog.Logger, error) {
	if err := cfg.Validate(); err != nil {
		return zerolog.Nop(), err
	}
	level, _ := zerolog.ParseLevel(cfg.Level)

	out := w
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05", NoColor: true}
	}

	return zerolog.New(out).Level(level).With().
		Timestamp().
		Str("app", "phonorm").
		Logger(), nil
}
