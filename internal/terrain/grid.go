package terrain

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultChunkSize is the lattice cells per chunk side.
const DefaultChunkSize = 16

// ChunkCoord addresses one chunk on the horizontal plane.
type ChunkCoord struct {
	X int32 `json:"x"`
	Z int32 `json:"z"`
}

func (c ChunkCoord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Z)
}

// Grid partitions the world plane into square chunks of Size lattice cells.
// It is a value type with no mutable state.
type Grid struct {
	size  int
	lg2   int
	scale float32
}

// NewGrid returns a grid of chunkSize cells per side (a power of two, at
// least 2) scaled by worldScale world units per cell.
func NewGrid(chunkSize int, worldScale float32) (Grid, error) {
	if chunkSize < 2 || chunkSize&(chunkSize-1) != 0 {
		return Grid{}, fmt.Errorf("chunk size %d must be a power of two >= 2: %w", chunkSize, ErrInvalidParameter)
	}
	if !(worldScale > 0) || math32.IsInf(worldScale, 0) {
		return Grid{}, fmt.Errorf("world scale %v must be > 0: %w", worldScale, ErrInvalidParameter)
	}
	return Grid{
		size:  chunkSize,
		lg2:   bits.TrailingZeros(uint(chunkSize)),
		scale: worldScale,
	}, nil
}

// Size returns the chunk side length in lattice cells.
func (g Grid) Size() int { return g.size }

// Log2Size returns log2(Size).
func (g Grid) Log2Size() int { return g.lg2 }

// WorldScale returns world units per lattice cell.
func (g Grid) WorldScale() float32 { return g.scale }

// ChunkSpace converts a world position to continuous chunk units.
func (g Grid) ChunkSpace(pos mgl32.Vec3) (float32, float32) {
	span := float32(g.size) * g.scale
	return pos.X() / span, pos.Z() / span
}

// WorldToChunk returns the chunk containing pos.
func (g Grid) WorldToChunk(pos mgl32.Vec3) ChunkCoord {
	px, pz := g.ChunkSpace(pos)
	return ChunkCoord{X: chunkIndex(px), Z: chunkIndex(pz)}
}

// chunkIndex floors v, saturating at the int32 range. NaN maps to 0.
func chunkIndex(v float32) int32 {
	f := math32.Floor(v)
	switch {
	case f != f:
		return 0
	case f >= math.MaxInt32:
		return math.MaxInt32
	case f <= math.MinInt32:
		return math.MinInt32
	}
	return int32(f)
}

// ChunkOrigin returns the world position of the chunk's minimum corner.
func (g Grid) ChunkOrigin(c ChunkCoord) mgl32.Vec3 {
	span := float32(g.size) * g.scale
	return mgl32.Vec3{float32(c.X) * span, 0, float32(c.Z) * span}
}

// CenterDistSq returns the squared distance, in chunk units, from the point
// (px, pz) to the centre of c.
func (g Grid) CenterDistSq(c ChunkCoord, px, pz float32) float32 {
	dx := px - float32(c.X) - 0.5
	dz := pz - float32(c.Z) - 0.5
	return dx*dx + dz*dz
}

// ClampLOD maps lod into [0,1]. NaN is treated as the coarsest level.
func ClampLOD(lod float32) float32 {
	if lod != lod {
		return 1
	}
	return clampf(lod, 0, 1)
}

// Level quantizes lod to an integer in [0, Log2Size].
func (g Grid) Level(lod float32) int {
	lvl := int(math32.Floor(float32(g.lg2) * ClampLOD(lod)))
	if lvl > g.lg2 {
		lvl = g.lg2
	}
	return lvl
}

// Step returns the lattice stride sampled at lod.
func (g Grid) Step(lod float32) int {
	return 1 << g.Level(lod)
}

// Cells returns the cells per side meshed at lod.
func (g Grid) Cells(lod float32) int {
	return g.size / g.Step(lod)
}

// SameLevel reports whether a and b quantize to the same step.
func (g Grid) SameLevel(a, b float32) bool {
	return g.Level(a) == g.Level(b)
}
