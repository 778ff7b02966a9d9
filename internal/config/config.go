// Package config handles terrain simulator configuration loading and management.
package config

import (
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/heatcore/frozen-worlds/internal/terrain"
	"github.com/heatcore/frozen-worlds/internal/terrain/stream"
)

// Config holds all settings.
type Config struct {
	Terrain TerrainConfig       `yaml:"terrain"`
	Noise   terrain.NoiseParams `yaml:"noise"`
	Profile terrain.ProfileSpec `yaml:"profile"`
	Sim     SimConfig           `yaml:"sim"`
	Logging LoggingConfig       `yaml:"logging"`
}

// TerrainConfig holds the streaming settings.
type TerrainConfig struct {
	Radius      int     `yaml:"radius"`
	Workers     int     `yaml:"workers"`
	TaskBudget  int     `yaml:"task_budget"`
	ChunkSize   int     `yaml:"chunk_size"`
	WorldScale  float32 `yaml:"world_scale"`
	HeightScale float32 `yaml:"height_scale"`
	Seed        uint64  `yaml:"seed"`
}

// SimConfig drives the headless flight used by cmd/terrainsim.
type SimConfig struct {
	Ticks      int           `yaml:"ticks"`       // Frames to simulate
	Path       string        `yaml:"path"`        // circle or line
	Speed      float32       `yaml:"speed"`       // World units per tick
	FrameTime  time.Duration `yaml:"frame_time"`  // Sleep between ticks; 0 runs flat out
	StatsEvery int           `yaml:"stats_every"` // Log stats every N ticks; 0 disables
	Dump       string        `yaml:"dump"`        // JSON snapshot path written at exit
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`
	LogFile string `yaml:"log_file"`
}

// Paths the simulated ship can fly.
const (
	PathCircle = "circle"
	PathLine   = "line"
)

// Default returns a Config with sensible default values.
func Default() *Config {
	sc := stream.DefaultConfig(1)
	return &Config{
		Terrain: TerrainConfig{
			Radius:      sc.Radius,
			Workers:     sc.Workers,
			TaskBudget:  sc.TaskBudget,
			ChunkSize:   sc.ChunkSize,
			WorldScale:  sc.WorldScale,
			HeightScale: sc.HeightScale,
			Seed:        sc.Seed,
		},
		Noise:   sc.Noise,
		Profile: sc.Profile,
		Sim: SimConfig{
			Ticks:      600,
			Path:       PathCircle,
			Speed:      2,
			FrameTime:  16 * time.Millisecond,
			StatsEvery: 60,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Format:  "console",
			LogFile: "",
		},
	}
}

// ManagerConfig assembles the settings the chunk manager needs.
func (c *Config) ManagerConfig() stream.Config {
	return stream.Config{
		Radius:      c.Terrain.Radius,
		Workers:     c.Terrain.Workers,
		TaskBudget:  c.Terrain.TaskBudget,
		ChunkSize:   c.Terrain.ChunkSize,
		WorldScale:  c.Terrain.WorldScale,
		HeightScale: c.Terrain.HeightScale,
		Seed:        c.Terrain.Seed,
		Noise:       c.Noise,
		Profile:     c.Profile,
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	err := c.ManagerConfig().Validate()

	if c.Sim.Ticks < 0 {
		err = multierr.Append(err, fmt.Errorf("sim ticks %d must be >= 0: %w", c.Sim.Ticks, terrain.ErrInvalidParameter))
	}
	if c.Sim.Path != PathCircle && c.Sim.Path != PathLine {
		err = multierr.Append(err, fmt.Errorf("sim path %q must be %s or %s: %w", c.Sim.Path, PathCircle, PathLine, terrain.ErrInvalidParameter))
	}
	if !(c.Sim.Speed >= 0) {
		err = multierr.Append(err, fmt.Errorf("sim speed %v must be >= 0: %w", c.Sim.Speed, terrain.ErrInvalidParameter))
	}
	if c.Sim.FrameTime < 0 || c.Sim.StatsEvery < 0 {
		err = multierr.Append(err, fmt.Errorf("sim frame time and stats interval must be >= 0: %w", terrain.ErrInvalidParameter))
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		err = multierr.Append(err, fmt.Errorf("log level %q unknown: %w", c.Logging.Level, terrain.ErrInvalidParameter))
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		err = multierr.Append(err, fmt.Errorf("log format %q must be console or json: %w", c.Logging.Format, terrain.ErrInvalidParameter))
	}

	return err
}
