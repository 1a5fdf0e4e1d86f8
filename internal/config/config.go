// Package config loads the bridge host's optional YAML configuration file.
//
// Example bridge.yaml:
//
//	format: json
//	verbose: true
//	listener:
//	  delay: 3s
//	  payload: "System event triggered!"
//
// Unknown fields are rejected. Omitted fields keep their defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/littletreezlx/learn-x/internal/callback"
)

// Formats lists the accepted output formats.
var Formats = []string{"text", "json"}

// Config is the host configuration.
type Config struct {
	// Format is the CLI output format ("text" or "json").
	Format string `yaml:"format"`

	// Verbose enables debug logging.
	Verbose bool `yaml:"verbose"`

	// Listener configures the asynchronous notification scheduler.
	Listener ListenerConfig `yaml:"listener"`
}

// ListenerConfig configures the asynchronous notification scheduler.
type ListenerConfig struct {
	Delay   time.Duration `yaml:"delay"`
	Payload string        `yaml:"payload"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Format: "text",
		Listener: ListenerConfig{
			Delay:   callback.DefaultDelay,
			Payload: callback.DefaultPayload,
		},
	}
}

// Load reads the YAML file at path over Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over Default and validates the result. Empty input
// yields Default.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks field values.
func (c Config) Validate() error {
	if !ValidFormat(c.Format) {
		return fmt.Errorf("format %q must be one of %v", c.Format, Formats)
	}
	if c.Listener.Delay <= 0 {
		return fmt.Errorf("listener.delay must be positive, got %s", c.Listener.Delay)
	}
	return nil
}

// SchedulerOptions converts the listener section into scheduler options.
func (c Config) SchedulerOptions() []callback.Option {
	return []callback.Option{
		callback.WithDelay(c.Listener.Delay),
		callback.WithPayload(c.Listener.Payload),
	}
}

// ValidFormat reports whether format is one of Formats.
func ValidFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}
