package terrain

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// VertexSize is the packed byte size of one vertex: position, normal, id.
const VertexSize = 3*4 + 3*4 + 1

// Vertex is one corner of a mesh triangle.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	ID       uint8
}

// Bounds holds the axis-aligned bounding box of a mesh.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Mesh is a flat triangle list: every three consecutive vertices form one
// triangle sharing a face normal and a material id. A Mesh is never
// modified after BuildMesh returns it.
type Mesh struct {
	Coord    ChunkCoord
	LOD      float32
	Step     int
	Vertices []Vertex
	Bounds   Bounds
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.Vertices) / 3
}

// Bytes returns the vertices in the packed little-endian upload layout.
func (m *Mesh) Bytes() []byte {
	buf := make([]byte, 0, len(m.Vertices)*VertexSize)
	for i := range m.Vertices {
		v := &m.Vertices[i]
		for _, f := range v.Position {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
		}
		for _, f := range v.Normal {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
		}
		buf = append(buf, v.ID)
	}
	return buf
}

// BuildMesh triangulates c at lod. The chunk is refined first when its
// samples are coarser than lod requires.
func BuildMesh(c *Chunk, lod float32) *Mesh {
	lod = ClampLOD(lod)
	g := c.src.grid
	if d, ok := c.Detail(); !ok || g.Level(d) > g.Level(lod) {
		c.RefineTo(lod)
	}

	step := g.Step(lod)
	cells := g.size / step
	vertices := make([]Vertex, 0, 6*cells*cells)

	bounds := Bounds{
		Min: mgl32.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		Max: mgl32.Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
	}

	side := c.side
	for y := 0; y < g.size; y += step {
		for x := 0; x < g.size; x += step {
			// Cell corners: A=(x,y) B=(x+step,y) C=(x,y+step) D=(x+step,y+step)
			a := y*side + x
			b := a + step
			cc := a + step*side
			d := cc + step

			for _, i := range [4]int{a, b, cc, d} {
				updateBounds(&bounds, c.vertices[i])
			}

			// Alternate the split diagonal in a checkerboard. Both layouts
			// wind counter-clockwise seen from +y.
			if ((x/step)+(y/step))%2 == 0 {
				vertices = appendTriangle(vertices, c, a, cc, b)
				vertices = appendTriangle(vertices, c, d, b, cc)
			} else {
				vertices = appendTriangle(vertices, c, a, cc, d)
				vertices = appendTriangle(vertices, c, b, a, d)
			}
		}
	}

	return &Mesh{
		Coord:    c.coord,
		LOD:      lod,
		Step:     step,
		Vertices: vertices,
		Bounds:   bounds,
	}
}

func appendTriangle(dst []Vertex, c *Chunk, i0, i1, i2 int) []Vertex {
	p0, p1, p2 := c.vertices[i0], c.vertices[i1], c.vertices[i2]
	n := faceNormal(p0, p1, p2)
	id := max(c.ids[i0], c.ids[i1], c.ids[i2])
	return append(dst,
		Vertex{Position: p0, Normal: n, ID: id},
		Vertex{Position: p1, Normal: n, ID: id},
		Vertex{Position: p2, Normal: n, ID: id},
	)
}

// faceNormal returns the unit normal of triangle (p0, p1, p2) by the
// right-hand rule. Degenerate triangles face straight up.
func faceNormal(p0, p1, p2 mgl32.Vec3) mgl32.Vec3 {
	n := p1.Sub(p0).Cross(p2.Sub(p0))
	l := n.Len()
	if l < 1e-12 {
		return mgl32.Vec3{0, 1, 0}
	}
	return n.Mul(1 / l)
}

func updateBounds(b *Bounds, p mgl32.Vec3) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}
