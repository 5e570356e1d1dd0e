// Package config loads the flashc167 configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "flashc167.yaml"

// Config is the on-disk configuration.
type Config struct {
	LogLevel string         `yaml:"log_level"`
	Serial   SerialConfig   `yaml:"serial"`
	Payloads PayloadsConfig `yaml:"payloads"`
	Engine   EngineConfig   `yaml:"engine"`
	Result   ResultConfig   `yaml:"result"`
}

// SerialConfig controls the serial bridge.
type SerialConfig struct {
	// PortTemplate is a printf template with one %d; empty selects the platform default
	PortTemplate string `yaml:"port_template"`

	// ReadTimeout bounds each single-byte receive
	ReadTimeout Duration `yaml:"read_timeout"`
}

// PayloadsConfig selects where payloads come from.
type PayloadsConfig struct {
	// Dir overrides the embedded bundle when set
	Dir string `yaml:"dir"`

	// ValidateStages checks stages are well-formed Intel HEX before handoff
	ValidateStages bool `yaml:"validate_stages"`
}

// EngineConfig names the engine library.
type EngineConfig struct {
	// Library is the logical payload name of the engine library
	Library string `yaml:"library"`

	// FileName is where the library is materialized; empty selects the platform name
	FileName string `yaml:"file_name"`
}

// ResultConfig controls what happens after the result file is written.
type ResultConfig struct {
	Pause bool `yaml:"pause"`
}

// Duration is a time.Duration written as a Go duration string.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		Serial: SerialConfig{
			ReadTimeout: Duration(20 * time.Millisecond),
		},
		Payloads: PayloadsConfig{
			ValidateStages: true,
		},
		Engine: EngineConfig{
			Library: "FlashSourcesDLL",
		},
	}
}

// Load reads the file at path over the defaults. An empty path tries
// DefaultFile and falls back to the defaults when it does not exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := Parse(bytes.NewReader(raw))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a configuration document over the defaults and validates it.
// Unknown keys are rejected.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values the decoder cannot.
func (c Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q: must be debug, info, warn or error", c.LogLevel)
	}

	if c.Serial.ReadTimeout <= 0 {
		return fmt.Errorf("serial.read_timeout must be positive, got %s", c.Serial.ReadTimeout.Std())
	}
	if t := c.Serial.PortTemplate; t != "" && strings.Count(t, "%d") != 1 {
		return fmt.Errorf("serial.port_template %q must contain exactly one %%d", t)
	}

	if c.Engine.Library == "" {
		return errors.New("engine.library cannot be empty")
	}
	return nil
}
