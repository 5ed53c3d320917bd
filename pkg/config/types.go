package config

import (
	"fmt"
	"strconv"
	"time"
)

// Config represents the persistent chatrelay configuration stored as
// config.toml in the .chatrelay/ directory.
type Config struct {
	Version int         `toml:"version"`
	Relay   RelayConfig `toml:"relay"`
	Log     LogConfig   `toml:"log"`
}

// RelayConfig holds the relay server settings.
type RelayConfig struct {
	Listen   string `toml:"listen,omitempty"`
	Upstream string `toml:"upstream,omitempty"`

	// Timeout bounds each upstream call, as a Go duration string (e.g. "60s").
	Timeout string `toml:"timeout,omitempty"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// File, when set, receives a JSON copy of every log record.
	File string `toml:"file,omitempty"`
	JSON bool   `toml:"json,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"relay.listen": {
		get: func(c *Config) string { return c.Relay.Listen },
		set: func(c *Config, v string) error { c.Relay.Listen = v; return nil },
	},
	"relay.upstream": {
		get: func(c *Config) string { return c.Relay.Upstream },
		set: func(c *Config, v string) error { c.Relay.Upstream = v; return nil },
	},
	"relay.timeout": {
		get: func(c *Config) string { return c.Relay.Timeout },
		set: func(c *Config, v string) error {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid value for relay.timeout: %w", err)
			}
			if d <= 0 {
				return fmt.Errorf("invalid value for relay.timeout: must be positive, got %s", v)
			}
			c.Relay.Timeout = v
			return nil
		},
	},
	"log.file": {
		get: func(c *Config) string { return c.Log.File },
		set: func(c *Config, v string) error { c.Log.File = v; return nil },
	},
	"log.json": {
		get: func(c *Config) string { return strconv.FormatBool(c.Log.JSON) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for log.json: %w", err)
			}
			c.Log.JSON = b
			return nil
		},
	},
}
