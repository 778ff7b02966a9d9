// Package stream keeps a bounded, LOD-graded set of terrain chunk meshes
// alive around a moving player, generating them on a worker pool.
package stream

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/heatcore/frozen-worlds/internal/terrain"
)

// MaxRadius caps the active radius, in chunks.
const MaxRadius = 128

// Config holds everything needed to stream one planet's terrain.
type Config struct {
	Radius      int                 `yaml:"radius"`      // Active radius in chunks
	Workers     int                 `yaml:"workers"`     // Concurrent generation jobs
	TaskBudget  int                 `yaml:"task_budget"` // New jobs dispatched per tick
	ChunkSize   int                 `yaml:"chunk_size"`  // Lattice cells per chunk side, power of two
	WorldScale  float32             `yaml:"world_scale"`
	HeightScale float32             `yaml:"height_scale"`
	Seed        uint64              `yaml:"seed"` // Overrides Noise.Seed
	Noise       terrain.NoiseParams `yaml:"noise"`
	Profile     terrain.ProfileSpec `yaml:"profile"`
}

// DefaultConfig returns the reference streaming settings for seed.
func DefaultConfig(seed uint64) Config {
	return Config{
		Radius:      10,
		Workers:     12,
		TaskBudget:  2,
		ChunkSize:   terrain.DefaultChunkSize,
		WorldScale:  1,
		HeightScale: 1,
		Seed:        seed,
		Noise:       terrain.DefaultNoiseParams(seed),
		Profile:     terrain.DefaultProfileSpec(),
	}
}

// Validate reports every invalid setting, each wrapping
// terrain.ErrInvalidParameter.
func (c Config) Validate() error {
	_, err := c.source()
	return err
}

// source validates c and builds the shared sampling source.
func (c Config) source() (*terrain.Source, error) {
	var err error

	if c.Radius < 1 || c.Radius > MaxRadius {
		err = multierr.Append(err, fmt.Errorf("radius %d must be in [1,%d]: %w", c.Radius, MaxRadius, terrain.ErrInvalidParameter))
	}
	if c.Workers < 1 {
		err = multierr.Append(err, fmt.Errorf("workers %d must be >= 1: %w", c.Workers, terrain.ErrInvalidParameter))
	}
	if c.TaskBudget < 0 {
		err = multierr.Append(err, fmt.Errorf("task budget %d must be >= 0: %w", c.TaskBudget, terrain.ErrInvalidParameter))
	}

	grid, gerr := terrain.NewGrid(c.ChunkSize, c.WorldScale)
	err = multierr.Append(err, gerr)

	noiseParams := c.Noise
	noiseParams.Seed = c.Seed
	noise, nerr := terrain.NewNoiseField(noiseParams)
	err = multierr.Append(err, nerr)

	profile, perr := c.Profile.Build()
	err = multierr.Append(err, perr)

	if err != nil {
		return nil, err
	}
	return terrain.NewSource(grid, noise, profile, c.HeightScale)
}
