package terrain

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// Chunk owns the lattice samples of one chunk. Samples are filled lazily as
// the chunk is refined and, once written, never change.
//
// A Chunk is not safe for concurrent use; it belongs to exactly one
// goroutine at a time.
type Chunk struct {
	src   *Source
	coord ChunkCoord
	side  int // lattice points per side (Size+1)

	vertices []mgl32.Vec3
	ids      []uint8
	set      []bool

	detail    float32
	hasDetail bool
	populated int
}

// NewChunk returns an empty chunk at coord.
func NewChunk(src *Source, coord ChunkCoord) *Chunk {
	side := src.grid.size + 1
	return &Chunk{
		src:      src,
		coord:    coord,
		side:     side,
		vertices: make([]mgl32.Vec3, side*side),
		ids:      make([]uint8, side*side),
		set:      make([]bool, side*side),
	}
}

// Coord returns the chunk coordinate.
func (c *Chunk) Coord() ChunkCoord { return c.coord }

// Source returns the shared sampling source.
func (c *Chunk) Source() *Source { return c.src }

// Detail returns the finest LOD generated so far; ok is false while empty.
func (c *Chunk) Detail() (lod float32, ok bool) {
	return c.detail, c.hasDetail
}

// Populated returns the number of lattice points sampled so far.
func (c *Chunk) Populated() int { return c.populated }

// At returns the sample at lattice position (x, y); ok is false if it has
// not been generated or lies outside the chunk.
func (c *Chunk) At(x, y int) (pos mgl32.Vec3, id uint8, ok bool) {
	if x < 0 || y < 0 || x >= c.side || y >= c.side {
		return mgl32.Vec3{}, 0, false
	}
	i := y*c.side + x
	if !c.set[i] {
		return mgl32.Vec3{}, 0, false
	}
	return c.vertices[i], c.ids[i], true
}

// RefineTo samples every missing lattice point at lod's step. It never
// coarsens the chunk and never overwrites an existing sample.
func (c *Chunk) RefineTo(lod float32) {
	lod = ClampLOD(lod)
	g := c.src.grid
	lvl := g.Level(lod)

	if c.hasDetail && g.Level(c.detail) <= lvl {
		if lod < c.detail {
			c.detail = lod
		}
		return
	}

	step := 1 << lvl
	baseX := int64(c.coord.X) * int64(g.size)
	baseZ := int64(c.coord.Z) * int64(g.size)

	for y := 0; y <= g.size; y += step {
		row := y * c.side
		for x := 0; x <= g.size; x += step {
			i := row + x
			if c.set[i] {
				continue
			}
			c.vertices[i], c.ids[i] = c.src.SampleLattice(baseX+int64(x), baseZ+int64(y))
			c.set[i] = true
			c.populated++
		}
	}

	c.detail = lod
	c.hasDetail = true
}

// reset clears c for reuse at coord, keeping its buffers.
func (c *Chunk) reset(coord ChunkCoord) {
	c.coord = coord
	clear(c.set)
	c.detail = 0
	c.hasDetail = false
	c.populated = 0
}

// ChunkPool recycles chunk sample buffers for one Source.
type ChunkPool struct {
	src  *Source
	pool sync.Pool
}

// NewChunkPool returns a pool producing chunks bound to src.
func NewChunkPool(src *Source) *ChunkPool {
	p := &ChunkPool{src: src}
	p.pool.New = func() any {
		return NewChunk(src, ChunkCoord{})
	}
	return p
}

// Get returns an empty chunk at coord.
func (p *ChunkPool) Get(coord ChunkCoord) *Chunk {
	c := p.pool.Get().(*Chunk)
	c.reset(coord)
	return c
}

// Put returns c to the pool. c must not be used afterwards.
func (p *ChunkPool) Put(c *Chunk) {
	if c == nil || c.src != p.src {
		return
	}
	p.pool.Put(c)
}
