package terrain

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Source bundles everything a chunk needs to sample itself. It is immutable
// after construction and shared read-only by every worker.
type Source struct {
	grid        Grid
	noise       *NoiseField
	profile     *Profile
	heightScale float32
}

// NewSource combines a grid, noise field and profile. heightScale multiplies
// profile heights before the world scale is applied.
func NewSource(grid Grid, noise *NoiseField, profile *Profile, heightScale float32) (*Source, error) {
	if noise == nil || profile == nil {
		return nil, fmt.Errorf("source needs a noise field and a profile: %w", ErrInvalidParameter)
	}
	if grid.size == 0 {
		return nil, fmt.Errorf("source grid is uninitialised: %w", ErrInvalidParameter)
	}
	if !(heightScale > 0) || math32.IsInf(heightScale, 0) {
		return nil, fmt.Errorf("height scale %v must be > 0: %w", heightScale, ErrInvalidParameter)
	}
	return &Source{
		grid:        grid,
		noise:       noise,
		profile:     profile,
		heightScale: heightScale,
	}, nil
}

// Grid returns the chunk grid.
func (s *Source) Grid() Grid { return s.grid }

// Noise returns the noise field.
func (s *Source) Noise() *NoiseField { return s.noise }

// Profile returns the terrain profile.
func (s *Source) Profile() *Profile { return s.profile }

// HeightScale returns the profile height multiplier.
func (s *Source) HeightScale() float32 { return s.heightScale }

// SampleLattice evaluates the world lattice point (wx, wz) and returns its
// scaled world position and material id. The result depends only on the
// lattice point and the source, so neighbouring chunks agree on borders.
func (s *Source) SampleLattice(wx, wz int64) (mgl32.Vec3, uint8) {
	fx, fz := float32(wx), float32(wz)
	n := s.noise.Sample(fx, fz)
	h := s.profile.HeightOf(n) * s.heightScale
	return mgl32.Vec3{fx, h, fz}.Mul(s.grid.scale), s.profile.MaterialOf(n)
}

// HeightAt returns the terrain height at world position (x, z), bilinearly
// interpolated between the four surrounding lattice points.
func (s *Source) HeightAt(x, z float32) float32 {
	lx := x / s.grid.scale
	lz := z / s.grid.scale

	x0 := math32.Floor(lx)
	z0 := math32.Floor(lz)
	fracX := clampf(lx-x0, 0, 1)
	fracZ := clampf(lz-z0, 0, 1)

	ix, iz := int64(x0), int64(z0)
	h00 := s.latticeHeight(ix, iz)
	h10 := s.latticeHeight(ix+1, iz)
	h01 := s.latticeHeight(ix, iz+1)
	h11 := s.latticeHeight(ix+1, iz+1)

	south := h00*(1-fracX) + h10*fracX
	north := h01*(1-fracX) + h11*fracX
	return south*(1-fracZ) + north*fracZ
}

func (s *Source) latticeHeight(wx, wz int64) float32 {
	pos, _ := s.SampleLattice(wx, wz)
	return pos.Y()
}
