// Package config loads the settings of the go-scattering command from an
// hjson file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/hjson/hjson-go"
)

// ErrInvalidConfig is returned when a setting is out of range
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the command settings
type Config struct {
	Library   string    `json:"library"`   // Material library file; empty uses the built-in library
	Materials []string  `json:"materials"` // Materials to inspect; empty inspects all
	Samples   int       `json:"samples"`   // Furnace samples per material and angle
	Workers   int       `json:"workers"`   // 0 uses one worker per CPU
	Seed      int64     `json:"seed"`
	Angles    []float64 `json:"angles"`  // Outgoing angles from the normal, in degrees
	Profile   string    `json:"profile"` // "", "cpu" or "mem"
}

// DefaultConfig returns the settings used when no file is given
func DefaultConfig() Config {
	return Config{
		Samples: 20000,
		Seed:    42,
		Angles:  []float64{0, 30, 60, 85},
	}
}

// LoadConfig reads an hjson file. Keys missing from the file keep their
// default values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	conf, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return conf, nil
}

// ParseConfig decodes hjson data over the defaults
func ParseConfig(data []byte) (Config, error) {
	var mdat map[string]interface{}
	if err := hjson.Unmarshal(data, &mdat); err != nil {
		return Config{}, fmt.Errorf("failed to parse hjson: %w", err)
	}

	// hjson decodes into generic values; json maps them onto the struct
	bytes, err := json.Marshal(mdat)
	if err != nil {
		return Config{}, err
	}
	conf := DefaultConfig()
	if err := json.Unmarshal(bytes, &conf); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return conf, conf.Validate()
}

// Validate checks that settings are in range
func (c Config) Validate() error {
	if c.Samples <= 0 {
		return fmt.Errorf("%w: samples must be positive, got %d", ErrInvalidConfig, c.Samples)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	}
	if len(c.Angles) == 0 {
		return fmt.Errorf("%w: at least one angle is required", ErrInvalidConfig)
	}
	for _, a := range c.Angles {
		if a < 0 || a >= 90 {
			return fmt.Errorf("%w: angle %g outside [0, 90)", ErrInvalidConfig, a)
		}
	}
	switch c.Profile {
	case "", "cpu", "mem":
	default:
		return fmt.Errorf("%w: unknown profile mode %q", ErrInvalidConfig, c.Profile)
	}
	return nil
}
