package terrain

import (
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
	"go.uber.org/multierr"
)

// NoiseBackend selects the scalar field behind a NoiseField.
type NoiseBackend string

const (
	BackendPerlin   NoiseBackend = "perlin"   // aquilax/go-perlin fractal sum
	BackendSimplex  NoiseBackend = "simplex"  // OpenSimplex octaves
	BackendConstant NoiseBackend = "constant" // Same value everywhere
)

// NoiseParams describes a fractal noise field.
type NoiseParams struct {
	Backend     NoiseBackend `yaml:"backend"`
	Seed        uint64       `yaml:"-"`           // Set from the planet seed, never from YAML
	Scale       float64      `yaml:"scale"`       // World units per noise unit
	Octaves     int          `yaml:"octaves"`     // Number of summed layers
	Persistence float64      `yaml:"persistence"` // Amplitude falloff per octave
	Lacunarity  float64      `yaml:"lacunarity"`  // Frequency gain per octave
	Constant    float32      `yaml:"constant"`    // Only read by BackendConstant
}

// DefaultNoiseParams returns the rolling ice-plain field used by new planets.
func DefaultNoiseParams(seed uint64) NoiseParams {
	return NoiseParams{
		Backend:     BackendPerlin,
		Seed:        seed,
		Scale:       96,
		Octaves:     5,
		Persistence: 0.5,
		Lacunarity:  2,
	}
}

// Validate reports every out-of-range parameter.
func (p NoiseParams) Validate() error {
	var err error
	switch p.Backend {
	case BackendPerlin, BackendSimplex:
		if !(p.Scale > 0) || math.IsInf(p.Scale, 0) {
			err = multierr.Append(err, fmt.Errorf("noise scale %v must be > 0: %w", p.Scale, ErrInvalidParameter))
		}
		if p.Octaves < 1 {
			err = multierr.Append(err, fmt.Errorf("noise octaves %d must be >= 1: %w", p.Octaves, ErrInvalidParameter))
		}
		if !(p.Persistence > 0 && p.Persistence < 1) {
			err = multierr.Append(err, fmt.Errorf("noise persistence %v must be in (0,1): %w", p.Persistence, ErrInvalidParameter))
		}
		if !(p.Lacunarity > 1) || math.IsInf(p.Lacunarity, 0) {
			err = multierr.Append(err, fmt.Errorf("noise lacunarity %v must be > 1: %w", p.Lacunarity, ErrInvalidParameter))
		}
	case BackendConstant:
		if !(p.Constant >= 0 && p.Constant <= 1) {
			err = multierr.Append(err, fmt.Errorf("constant noise %v must be in [0,1]: %w", p.Constant, ErrInvalidParameter))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("unknown noise backend %q: %w", p.Backend, ErrInvalidParameter))
	}
	return err
}

// NoiseField is an immutable, seedable 2-D scalar field in [0,1].
// Sample is safe for concurrent use.
type NoiseField struct {
	params   NoiseParams
	renorm   float64
	invScale float64

	perlin  *perlin.Perlin
	simplex opensimplex.Noise
}

// NewNoiseField validates p and builds the selected backend.
func NewNoiseField(p NoiseParams) (*NoiseField, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	f := &NoiseField{params: p}
	if p.Backend == BackendConstant {
		return f, nil
	}

	f.renorm = math.Max(0.5, 0.42/float64(p.Octaves)+0.44)
	f.invScale = 1 / p.Scale

	// Bit-preserving so every uint64 seed maps to a distinct generator.
	seed := int64(p.Seed)
	switch p.Backend {
	case BackendPerlin:
		f.perlin = perlin.NewPerlin(1/p.Persistence, p.Lacunarity, p.Octaves, seed)
	case BackendSimplex:
		f.simplex = opensimplex.New(seed)
	}
	return f, nil
}

// Seed returns the field seed.
func (f *NoiseField) Seed() uint64 {
	return f.params.Seed
}

// Sample returns the field value at world lattice position (x, z).
func (f *NoiseField) Sample(x, z float32) float32 {
	var raw float64
	switch f.params.Backend {
	case BackendConstant:
		return f.params.Constant
	case BackendPerlin:
		raw = f.perlin.Noise2D(float64(x)*f.invScale, float64(z)*f.invScale)
	case BackendSimplex:
		raw = f.fractalSimplex(float64(x)*f.invScale, float64(z)*f.invScale)
	}

	v := (raw/f.renorm + 1) / 2
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return float32(v)
}

func (f *NoiseField) fractalSimplex(x, z float64) float64 {
	var sum float64
	amp, freq := 1.0, 1.0
	for o := 0; o < f.params.Octaves; o++ {
		sum += amp * f.simplex.Eval2(x*freq, z*freq)
		amp *= f.params.Persistence
		freq *= f.params.Lacunarity
	}
	return sum
}
