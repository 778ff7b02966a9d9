package stream

import (
	"cmp"
	"math"
	"slices"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/heatcore/frozen-worlds/internal/terrain"
)

// Option customises a Manager.
type Option func(*Manager)

// WithLogger sets the manager's logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// Visible is one renderable mesh in a snapshot.
type Visible struct {
	Coord terrain.ChunkCoord
	Mesh  *terrain.Mesh
	LOD   float32
}

// Stats is a point-in-time view of the manager's bookkeeping.
type Stats struct {
	Ticks           uint64 `json:"ticks"`
	Meshes          int    `json:"meshes"`
	Pending         int    `json:"pending"`
	InFlight        int    `json:"in_flight"`
	Dispatched      uint64 `json:"dispatched"`
	Completed       uint64 `json:"completed"`
	Failed          uint64 `json:"failed"`
	Discarded       uint64 `json:"discarded"`
	Evicted         uint64 `json:"evicted"`
	ChunksAllocated uint64 `json:"chunks_allocated"`
	ChunksFreed     uint64 `json:"chunks_freed"`
}

// entry is a chunk the manager currently owns. chunk is nil while a worker
// holds it; mesh stays renderable meanwhile.
type entry struct {
	chunk *terrain.Chunk
	mesh  *terrain.Mesh
	lod   float32
	seq   uint64
}

// Manager streams terrain meshes around the player.
//
// Tick, ForEachVisibleMesh, Meshes, Stats and Shutdown must all be called
// from the same goroutine (the render loop). Workers only ever see jobs and
// send results; every map below is owned by the render goroutine.
type Manager struct {
	cfg    Config
	src    *terrain.Source
	grid   terrain.Grid
	pool   *terrain.ChunkPool
	log    *zap.Logger
	build  buildFunc
	radius float32

	entries  map[terrain.ChunkCoord]*entry
	inFlight map[terrain.ChunkCoord]uint64
	pending  map[terrain.ChunkCoord]float32

	jobs    chan job
	results chan result
	wg      sync.WaitGroup

	px, pz  float32 // last player position in chunk units
	nextSeq uint64
	stats   Stats
	closed  bool
}

// New validates cfg and starts the worker pool.
func New(cfg Config, opts ...Option) (*Manager, error) {
	src, err := cfg.source()
	if err != nil {
		return nil, err
	}

	m := &Manager{
		cfg:      cfg,
		src:      src,
		grid:     src.Grid(),
		pool:     terrain.NewChunkPool(src),
		log:      zap.NewNop(),
		build:    terrain.BuildMesh,
		radius:   float32(cfg.Radius),
		entries:  make(map[terrain.ChunkCoord]*entry),
		inFlight: make(map[terrain.ChunkCoord]uint64),
		pending:  make(map[terrain.ChunkCoord]float32),
		jobs:     make(chan job, cfg.Workers),
		results:  make(chan result, 2*cfg.Workers),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.wg.Add(cfg.Workers)
	for w := 0; w < cfg.Workers; w++ {
		go m.worker()
	}

	m.log.Info("terrain streaming started",
		zap.Uint64("seed", cfg.Seed),
		zap.Int("radius", cfg.Radius),
		zap.Int("workers", cfg.Workers),
		zap.Int("task_budget", cfg.TaskBudget),
		zap.Int("chunk_size", cfg.ChunkSize))

	return m, nil
}

// Config returns the configuration the manager was built with.
func (m *Manager) Config() Config { return m.cfg }

// Source returns the shared sampling source.
func (m *Manager) Source() *terrain.Source { return m.src }

// HeightAt returns the terrain height under world position (x, z).
func (m *Manager) HeightAt(x, z float32) float32 {
	return m.src.HeightAt(x, z)
}

// Tick reconciles the active set with the player position, dispatches up to
// TaskBudget new jobs and collects finished meshes. It never blocks.
func (m *Manager) Tick(player mgl32.Vec3) {
	if m.closed {
		return
	}
	m.stats.Ticks++
	m.px, m.pz = m.grid.ChunkSpace(player)

	m.evict()
	m.reconcile(m.grid.WorldToChunk(player))
	m.dispatch()
	m.drain()
}

// active reports whether c lies inside the radius around the last player
// position. Admission and eviction share this predicate.
func (m *Manager) active(c terrain.ChunkCoord) bool {
	return m.grid.CenterDistSq(c, m.px, m.pz) <= m.radius*m.radius
}

func (m *Manager) evict() {
	for c, e := range m.entries {
		if m.active(c) {
			continue
		}
		m.release(e.chunk)
		delete(m.entries, c)
		m.stats.Evicted++
	}
	for c := range m.pending {
		if !m.active(c) {
			delete(m.pending, c)
		}
	}
}

func (m *Manager) reconcile(center terrain.ChunkCoord) {
	r := int64(m.cfg.Radius)
	r2 := m.radius * m.radius

	// Bounds in int64 so the scan stops at the edge of the coordinate space.
	x0, x1 := max(int64(center.X)-r, math.MinInt32), min(int64(center.X)+r, math.MaxInt32)
	z0, z1 := max(int64(center.Z)-r, math.MinInt32), min(int64(center.Z)+r, math.MaxInt32)

	for i := x0; i <= x1; i++ {
		for j := z0; j <= z1; j++ {
			c := terrain.ChunkCoord{X: int32(i), Z: int32(j)}
			d2 := m.grid.CenterDistSq(c, m.px, m.pz)
			if d2 > r2 {
				continue
			}
			if _, busy := m.inFlight[c]; busy {
				continue
			}

			lod := terrain.ClampLOD(d2 / r2)
			if e, ok := m.entries[c]; ok && e.mesh != nil && m.grid.SameLevel(lod, e.lod) {
				delete(m.pending, c)
				continue
			}
			m.pending[c] = lod
		}
	}
}

func (m *Manager) dispatch() {
	slots := min(m.cfg.Workers-len(m.inFlight), m.cfg.TaskBudget)
	if slots <= 0 || len(m.pending) == 0 {
		return
	}

	// Nearest first; coordinates break ties so runs are reproducible.
	queue := make([]terrain.ChunkCoord, 0, len(m.pending))
	for c := range m.pending {
		queue = append(queue, c)
	}
	slices.SortFunc(queue, func(a, b terrain.ChunkCoord) int {
		da := m.grid.CenterDistSq(a, m.px, m.pz)
		db := m.grid.CenterDistSq(b, m.px, m.pz)
		if c := cmp.Compare(da, db); c != 0 {
			return c
		}
		if c := cmp.Compare(a.X, b.X); c != 0 {
			return c
		}
		return cmp.Compare(a.Z, b.Z)
	})

	for _, c := range queue[:min(slots, len(queue))] {
		lod := m.pending[c]
		delete(m.pending, c)

		var chunk *terrain.Chunk
		if e, ok := m.entries[c]; ok && e.chunk != nil {
			chunk = e.chunk
			e.chunk = nil
		} else {
			chunk = m.pool.Get(c)
			m.stats.ChunksAllocated++
		}

		m.nextSeq++
		m.inFlight[c] = m.nextSeq
		m.jobs <- job{seq: m.nextSeq, chunk: chunk, lod: lod}
		m.stats.Dispatched++

		m.log.Debug("chunk dispatched",
			zap.Stringer("coord", c),
			zap.Float32("lod", lod),
			zap.Int("step", m.grid.Step(lod)))
	}
}

func (m *Manager) drain() {
	for {
		select {
		case r, ok := <-m.results:
			if !ok {
				m.log.Debug("result channel closed", zap.Error(terrain.ErrChannelClosed))
				return
			}
			m.accept(r)
		default:
			return
		}
	}
}

func (m *Manager) accept(r result) {
	if seq, ok := m.inFlight[r.coord]; ok && seq == r.seq {
		delete(m.inFlight, r.coord)
	}
	m.stats.Completed++

	if r.err != nil {
		// The chunk may be half refined; start over next time.
		m.stats.Failed++
		m.release(r.chunk)
		return
	}

	if !m.active(r.coord) {
		m.stats.Discarded++
		m.release(r.chunk)
		if e, ok := m.entries[r.coord]; ok {
			m.release(e.chunk)
			delete(m.entries, r.coord)
		}
		m.log.Debug("discarded result for evicted chunk", zap.Stringer("coord", r.coord))
		return
	}

	e, ok := m.entries[r.coord]
	if !ok {
		e = &entry{}
		m.entries[r.coord] = e
	}
	if e.chunk != nil && e.chunk != r.chunk {
		m.release(e.chunk)
	}
	e.chunk = r.chunk
	if r.seq > e.seq {
		e.mesh = r.mesh
		e.lod = r.lod
		e.seq = r.seq
	}
}

func (m *Manager) release(c *terrain.Chunk) {
	if c == nil {
		return
	}
	m.pool.Put(c)
	m.stats.ChunksFreed++
}

// ForEachVisibleMesh calls fn for every renderable mesh, in no particular
// order. Meshes are immutable; fn must not retain them past Shutdown.
func (m *Manager) ForEachVisibleMesh(fn func(coord terrain.ChunkCoord, mesh *terrain.Mesh, lod float32)) {
	for c, e := range m.entries {
		if e.mesh != nil {
			fn(c, e.mesh, e.lod)
		}
	}
}

// Meshes returns a snapshot of the renderable meshes sorted by coordinate.
func (m *Manager) Meshes() []Visible {
	out := make([]Visible, 0, len(m.entries))
	m.ForEachVisibleMesh(func(c terrain.ChunkCoord, mesh *terrain.Mesh, lod float32) {
		out = append(out, Visible{Coord: c, Mesh: mesh, LOD: lod})
	})
	slices.SortFunc(out, func(a, b Visible) int {
		if c := cmp.Compare(a.Coord.X, b.Coord.X); c != 0 {
			return c
		}
		return cmp.Compare(a.Coord.Z, b.Coord.Z)
	})
	return out
}

// Stats returns the current counters.
func (m *Manager) Stats() Stats {
	s := m.stats
	s.Pending = len(m.pending)
	s.InFlight = len(m.inFlight)
	for _, e := range m.entries {
		if e.mesh != nil {
			s.Meshes++
		}
	}
	return s
}

// Idle reports whether no job is pending or running.
func (m *Manager) Idle() bool {
	return len(m.pending) == 0 && len(m.inFlight) == 0
}

// Shutdown stops the workers, waits for running jobs and releases every
// chunk and mesh. It is safe to call more than once.
func (m *Manager) Shutdown() {
	if m.closed {
		return
	}
	m.closed = true

	close(m.jobs)
	m.wg.Wait()
	close(m.results)

	for r := range m.results {
		m.stats.Completed++
		m.release(r.chunk)
	}
	for _, e := range m.entries {
		m.release(e.chunk)
	}

	clear(m.entries)
	clear(m.inFlight)
	clear(m.pending)

	m.log.Info("terrain streaming stopped",
		zap.Uint64("dispatched", m.stats.Dispatched),
		zap.Uint64("completed", m.stats.Completed),
		zap.Uint64("failed", m.stats.Failed),
		zap.Uint64("chunks_allocated", m.stats.ChunksAllocated),
		zap.Uint64("chunks_freed", m.stats.ChunksFreed))
}
