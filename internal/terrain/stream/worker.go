package stream

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/heatcore/frozen-worlds/internal/terrain"
)

// job hands a chunk to a worker. The worker owns the chunk until it sends
// the matching result.
type job struct {
	seq   uint64
	chunk *terrain.Chunk
	lod   float32
}

// result carries a finished (or failed) job back to the render goroutine.
type result struct {
	seq   uint64
	coord terrain.ChunkCoord
	chunk *terrain.Chunk
	mesh  *terrain.Mesh
	lod   float32
	err   error
}

// buildFunc refines and meshes one chunk.
type buildFunc func(c *terrain.Chunk, lod float32) *terrain.Mesh

func (m *Manager) worker() {
	defer m.wg.Done()
	for j := range m.jobs {
		m.results <- m.run(j)
	}
}

func (m *Manager) run(j job) (res result) {
	res = result{
		seq:   j.seq,
		coord: j.chunk.Coord(),
		chunk: j.chunk,
		lod:   j.lod,
	}

	defer func() {
		if r := recover(); r != nil {
			res.mesh = nil
			res.err = fmt.Errorf("chunk %v: %v: %w", res.coord, r, terrain.ErrWorkerFailure)
			m.log.Warn("chunk job failed",
				zap.Stringer("coord", res.coord),
				zap.Float32("lod", j.lod),
				zap.Error(res.err))
		}
	}()

	res.mesh = m.build(j.chunk, j.lod)
	return res
}
