// Package config loads heatsim settings from YAML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"heatsim/internal/heat"
	"heatsim/internal/parallel"
)

// Config is the top-level settings file.
type Config struct {
	// Simulation sizes the grid and tunes the update.
	Simulation SimulationConfig `yaml:"simulation"`

	// Window controls the on-screen harness.
	Window WindowConfig `yaml:"window"`

	// Observability controls logging and metrics.
	Observability ObservabilityConfig `yaml:"observability"`
}

// SimulationConfig mirrors heat.Config.
type SimulationConfig struct {
	Dim            int     `yaml:"dim"`
	MaxTemperature float32 `yaml:"max_temperature"`
	MinTemperature float32 `yaml:"min_temperature"`
	Speed          float32 `yaml:"speed"`
	StepsPerFrame  int     `yaml:"steps_per_frame"`
	TileSize       int     `yaml:"tile_size"`
	Workers        int     `yaml:"workers"`
	Heaters        bool    `yaml:"heaters"`

	// Device memory budget in cells, 0 for unlimited.
	DeviceBudget int `yaml:"device_budget"`
}

type WindowConfig struct {
	Title       string `yaml:"title"`
	Scale       int    `yaml:"scale"`
	PaletteSize int    `yaml:"palette_size"`
}

type ObservabilityConfig struct {
	LogLevel    string `yaml:"log_level"`
	MetricsAddr string `yaml:"metrics_addr"`
}

// Default returns the stock settings: a 1024x1024 grid, speed 0.2 and
// 50 sub-steps per frame with the default heaters.
func Default() Config {
	return Config{
		Simulation: SimulationConfig{
			Dim:            heat.DefaultDim,
			MaxTemperature: heat.DefaultMaxTemperature,
			MinTemperature: heat.DefaultMinTemperature,
			Speed:          heat.DefaultSpeed,
			StepsPerFrame:  heat.DefaultStepsPerFrame,
			TileSize:       parallel.DefaultTileSize,
			Heaters:        true,
		},
		Window: WindowConfig{
			Title:       "Heat",
			Scale:       1,
			PaletteSize: 1000,
		},
		Observability: ObservabilityConfig{
			LogLevel: "info",
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings that cannot describe a run. It does not look at
// Speed; a value above heat.StabilityLimit diverges but is allowed.
func (c Config) Validate() error {
	var errs []error
	s := c.Simulation
	if s.Dim <= 0 {
		errs = append(errs, fmt.Errorf("simulation.dim must be positive, got %d", s.Dim))
	}
	if s.StepsPerFrame < 0 {
		errs = append(errs, fmt.Errorf("simulation.steps_per_frame must not be negative, got %d", s.StepsPerFrame))
	}
	if s.MaxTemperature <= s.MinTemperature {
		errs = append(errs, fmt.Errorf("simulation.max_temperature (%g) must exceed min_temperature (%g)", s.MaxTemperature, s.MinTemperature))
	}
	if s.DeviceBudget < 0 {
		errs = append(errs, fmt.Errorf("simulation.device_budget must not be negative, got %d", s.DeviceBudget))
	}
	if c.Window.Scale <= 0 {
		errs = append(errs, fmt.Errorf("window.scale must be positive, got %d", c.Window.Scale))
	}
	if _, err := ParseLevel(c.Observability.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Heat converts the simulation section into a heat.Config.
func (c Config) Heat() heat.Config {
	s := c.Simulation
	return heat.Config{
		Dim:            s.Dim,
		MaxTemperature: s.MaxTemperature,
		MinTemperature: s.MinTemperature,
		Speed:          s.Speed,
		StepsPerFrame:  s.StepsPerFrame,
		TileSize:       s.TileSize,
		Workers:        s.Workers,
	}
}

// Layout returns the heater layout the settings ask for.
func (c Config) Layout() heat.Layout {
	s := c.Simulation
	if !s.Heaters {
		return heat.EmptyLayout()
	}
	return heat.DefaultLayout(s.Dim, s.MaxTemperature, s.MinTemperature)
}

// ParseLevel maps debug, info, warn and error onto slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
