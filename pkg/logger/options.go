package logger

import (
	"io"
	"log/slog"
)

// Option adjusts how New builds a logger.
type Option func(*config)

// WithDebug lowers the level to Debug. False keeps Info.
func WithDebug(debug bool) Option {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return func(c *config) { c.level = level }
}

// WithPretty selects the colored charmbracelet/log handler used for the
// relay's terminal output.
func WithPretty(pretty bool) Option {
	return func(c *config) { c.pretty = pretty }
}

// WithJSON selects one JSON object per record. It wins over WithPretty.
func WithJSON(json bool) Option {
	return func(c *config) { c.json = json }
}

// WithWriter sends output to w instead of stdout.
func WithWriter(w io.Writer) Option {
	return WithWriters(w)
}

// WithWriters duplicates output to every w.
func WithWriters(w ...io.Writer) Option {
	return func(c *config) { c.writers = w }
}
