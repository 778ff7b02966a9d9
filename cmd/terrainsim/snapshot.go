package main

import (
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	jsoniter "github.com/json-iterator/go"

	"github.com/heatcore/frozen-worlds/internal/terrain"
	"github.com/heatcore/frozen-worlds/internal/terrain/stream"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// snapshot is the JSON dump of what a renderer would draw.
type snapshot struct {
	Seed   uint64         `json:"seed"`
	Player mgl32.Vec3     `json:"player"`
	Stats  stream.Stats   `json:"stats"`
	Meshes []meshSnapshot `json:"meshes"`
}

type meshSnapshot struct {
	Coord     terrain.ChunkCoord `json:"coord"`
	LOD       float32            `json:"lod"`
	Step      int                `json:"step"`
	Vertices  int                `json:"vertices"`
	Triangles int                `json:"triangles"`
	Min       mgl32.Vec3         `json:"min"`
	Max       mgl32.Vec3         `json:"max"`
}

func takeSnapshot(m *stream.Manager, player mgl32.Vec3) snapshot {
	s := snapshot{
		Seed:   m.Config().Seed,
		Player: player,
		Stats:  m.Stats(),
	}
	for _, v := range m.Meshes() {
		s.Meshes = append(s.Meshes, meshSnapshot{
			Coord:     v.Coord,
			LOD:       v.LOD,
			Step:      v.Mesh.Step,
			Vertices:  len(v.Mesh.Vertices),
			Triangles: v.Mesh.TriangleCount(),
			Min:       v.Mesh.Bounds.Min,
			Max:       v.Mesh.Bounds.Max,
		})
	}
	return s
}

func writeSnapshot(path string, s snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
