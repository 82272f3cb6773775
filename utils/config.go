package utils

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"
)

// ErrInvalidConfig is returned by Validate for unusable settings
var ErrInvalidConfig = errors.New("invalid config")

// MaxGridSide bounds rows and columns so a configured grid stays renderable in a terminal
const MaxGridSide = 4096

// Config holds the configuration for the game
type Config struct {
	Rows                int     `json:"rows"`
	Columns             int     `json:"columns"`
	TickIntervalMS      int     `json:"tick_interval_ms"`
	AutoRestart         bool    `json:"auto_restart"`
	StagnationThreshold int     `json:"stagnation_threshold"`
	UseMemoryPool       bool    `json:"use_memory_pool"`
	MaxGenerations      int     `json:"max_generations"`
	RandomDensity       float64 `json:"random_density"`
	MarkedFraction      float64 `json:"marked_fraction"`
	InjectionCount      int     `json:"injection_count"`
	Interactive         bool    `json:"interactive"`
	Seed                int64   `json:"seed"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Rows:                40,
		Columns:             40,
		TickIntervalMS:      250,
		AutoRestart:         true,
		StagnationThreshold: 5,
		UseMemoryPool:       true,
		MaxGenerations:      1000,
		RandomDensity:       0.15,
		MarkedFraction:      0.1,
		InjectionCount:      3,
		Interactive:         false,
	}
}

// TickInterval returns the delay between generations while running
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMS) * time.Millisecond
}

// Validate checks that the configuration can drive a game
func (c Config) Validate() error {
	switch {
	case c.Rows <= 0 || c.Columns <= 0:
		return errors.Wrapf(ErrInvalidConfig, "[Validate] grid must be positive, got %dx%d", c.Rows, c.Columns)
	case c.Rows > MaxGridSide || c.Columns > MaxGridSide:
		return errors.Wrapf(ErrInvalidConfig, "[Validate] grid must be at most %dx%d, got %dx%d",
			MaxGridSide, MaxGridSide, c.Rows, c.Columns)
	case c.TickIntervalMS <= 0:
		return errors.Wrapf(ErrInvalidConfig, "[Validate] tick_interval_ms must be positive, got %d", c.TickIntervalMS)
	case c.RandomDensity < 0 || c.RandomDensity > 1:
		return errors.Wrapf(ErrInvalidConfig, "[Validate] random_density must be in [0, 1], got %v", c.RandomDensity)
	case c.MarkedFraction < 0 || c.MarkedFraction > 1:
		return errors.Wrapf(ErrInvalidConfig, "[Validate] marked_fraction must be in [0, 1], got %v", c.MarkedFraction)
	case c.StagnationThreshold < 0 || c.InjectionCount < 0 || c.MaxGenerations < 0:
		return errors.Wrap(ErrInvalidConfig, "[Validate] counts must not be negative")
	}
	return nil
}

// LoadConfig loads configuration from JSON file
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	if err = json.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	if err = config.Validate(); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] file: %+v", filename)
	}

	return config, nil
}
