package main

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/heatcore/frozen-worlds/internal/config"
)

// cruiseAltitude keeps the ship above the ground it samples.
const cruiseAltitude = 6

// flight yields the ship's ground track, one point per tick.
type flight struct {
	path   string
	speed  float32
	radius float32 // Circle radius in world units
}

func newFlight(sim config.SimConfig, orbit float32) flight {
	if orbit <= 0 {
		orbit = 1
	}
	return flight{path: sim.Path, speed: sim.Speed, radius: orbit}
}

// at returns the ground position after tick ticks.
func (f flight) at(tick int) (x, z float32) {
	dist := f.speed * float32(tick)
	if f.path == config.PathLine {
		// Diagonal so both chunk axes change.
		return dist * 0.8, dist * 0.6
	}
	sin, cos := math32.Sincos(dist / f.radius)
	return f.radius * cos, f.radius * sin
}

// position lifts the ground track to cruise altitude over height.
func position(x, z float32, height func(x, z float32) float32) mgl32.Vec3 {
	return mgl32.Vec3{x, height(x, z) + cruiseAltitude, z}
}
