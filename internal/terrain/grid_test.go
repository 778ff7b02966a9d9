package terrain

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewGrid_Invalid(t *testing.T) {
	tests := []struct {
		size  int
		scale float32
	}{
		{0, 1},
		{1, 1},
		{12, 1},
		{-16, 1},
		{16, 0},
		{16, -1},
		{16, float32(math.Inf(1))},
	}
	for _, tt := range tests {
		if _, err := NewGrid(tt.size, tt.scale); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("NewGrid(%d, %v) error = %v, want ErrInvalidParameter", tt.size, tt.scale, err)
		}
	}
}

func TestGrid_WorldToChunk(t *testing.T) {
	g, err := NewGrid(16, 2)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}

	tests := []struct {
		pos  mgl32.Vec3
		want ChunkCoord
	}{
		{mgl32.Vec3{0, 0, 0}, ChunkCoord{0, 0}},
		{mgl32.Vec3{31.9, 100, 31.9}, ChunkCoord{0, 0}},
		{mgl32.Vec3{32, 0, 64}, ChunkCoord{1, 2}},
		{mgl32.Vec3{-0.5, 0, -33}, ChunkCoord{-1, -2}},
		// Far beyond the coordinate space: saturate instead of wrapping.
		{mgl32.Vec3{1e12, 0, -1e12}, ChunkCoord{math.MaxInt32, math.MinInt32}},
		{mgl32.Vec3{float32(math.NaN()), 0, 2}, ChunkCoord{0, 0}},
	}
	for _, tt := range tests {
		if got := g.WorldToChunk(tt.pos); got != tt.want {
			t.Errorf("WorldToChunk(%v) = %v, want %v", tt.pos, got, tt.want)
		}
	}

	if got := g.ChunkOrigin(ChunkCoord{-1, 3}); got != (mgl32.Vec3{-32, 0, 96}) {
		t.Errorf("ChunkOrigin = %v", got)
	}
}

func TestGrid_LODQuantization(t *testing.T) {
	g, _ := NewGrid(16, 1)

	tests := []struct {
		lod   float32
		step  int
		cells int
	}{
		{0, 1, 16},
		{0.125, 1, 16},
		{0.25, 2, 8},
		{0.625, 4, 4},
		{0.99, 8, 2},
		{1, 16, 1},
		{-3, 1, 16},
		{7, 16, 1},
		{float32(math.NaN()), 16, 1},
	}
	for _, tt := range tests {
		if got := g.Step(tt.lod); got != tt.step {
			t.Errorf("Step(%v) = %d, want %d", tt.lod, got, tt.step)
		}
		if got := g.Cells(tt.lod); got != tt.cells {
			t.Errorf("Cells(%v) = %d, want %d", tt.lod, got, tt.cells)
		}
	}

	if !g.SameLevel(0.26, 0.49) {
		t.Error("0.26 and 0.49 should share a level")
	}
	if g.SameLevel(0.24, 0.26) {
		t.Error("0.24 and 0.26 should not share a level")
	}
}
