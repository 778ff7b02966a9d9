package terrain

import (
	"fmt"
	"sort"

	"go.uber.org/multierr"
)

// MaxControlPoints bounds the height curve so lookups stay cheap.
const MaxControlPoints = 16

// CurveKind selects how the height curve interpolates its control points.
type CurveKind string

const (
	CurveLinear CurveKind = "linear"
	CurveSpline CurveKind = "spline"
)

// ControlPoint is one (noise, height) pair on the height curve.
type ControlPoint struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
}

// Material is one rung of the material ladder.
type Material struct {
	Threshold float32 `yaml:"threshold"`
	ID        uint8   `yaml:"id"`
}

// ProfileSpec is the serializable form of a Profile.
type ProfileSpec struct {
	Curve  CurveKind      `yaml:"curve"`
	Points []ControlPoint `yaml:"points"`
	Ladder []Material     `yaml:"ladder"`
}

// Build validates the spec and returns the profile.
func (s ProfileSpec) Build() (*Profile, error) {
	return NewProfile(s.Curve, s.Points, s.Ladder)
}

// Profile maps a noise value to a height and a material id.
// It is immutable and safe for concurrent use.
type Profile struct {
	kind   CurveKind
	xs     []float32
	ys     []float32
	spline *cubicSpline
	ladder []Material
}

// NewProfile builds a profile from a height curve and a material ladder.
func NewProfile(kind CurveKind, points []ControlPoint, ladder []Material) (*Profile, error) {
	var err error

	switch kind {
	case CurveLinear, CurveSpline:
	default:
		err = multierr.Append(err, fmt.Errorf("unknown curve kind %q: %w", kind, ErrInvalidParameter))
	}

	if len(points) < 2 || len(points) > MaxControlPoints {
		err = multierr.Append(err, fmt.Errorf("height curve needs 2..%d points, got %d: %w",
			MaxControlPoints, len(points), ErrInvalidParameter))
	}
	for i := 1; i < len(points); i++ {
		if !(points[i].X > points[i-1].X) {
			err = multierr.Append(err, fmt.Errorf("control point %d x=%v not above x=%v: %w",
				i, points[i].X, points[i-1].X, ErrInvalidParameter))
		}
	}

	if len(ladder) == 0 {
		err = multierr.Append(err, fmt.Errorf("material ladder is empty: %w", ErrInvalidParameter))
	}
	for i := 1; i < len(ladder); i++ {
		if !(ladder[i].Threshold > ladder[i-1].Threshold) {
			err = multierr.Append(err, fmt.Errorf("ladder threshold %d (%v) not above %v: %w",
				i, ladder[i].Threshold, ladder[i-1].Threshold, ErrInvalidParameter))
		}
	}

	if err != nil {
		return nil, err
	}

	p := &Profile{
		kind:   kind,
		xs:     make([]float32, len(points)),
		ys:     make([]float32, len(points)),
		ladder: append([]Material(nil), ladder...),
	}
	for i, cp := range points {
		p.xs[i] = cp.X
		p.ys[i] = cp.Y
	}
	if kind == CurveSpline {
		p.spline = newCubicSpline(p.xs, p.ys)
	}
	return p, nil
}

// DefaultProfile returns the frozen-world profile: ice sheets in the lows,
// snow fields, exposed rock and basalt ridges, glazed summits.
func DefaultProfile() *Profile {
	p, err := DefaultProfileSpec().Build()
	if err != nil {
		panic(err) // static data
	}
	return p
}

// DefaultProfileSpec returns the spec behind DefaultProfile.
func DefaultProfileSpec() ProfileSpec {
	return ProfileSpec{
		Curve: CurveLinear,
		Points: []ControlPoint{
			{X: 0, Y: 0},
			{X: 0.35, Y: 0.5},
			{X: 0.55, Y: 4},
			{X: 0.75, Y: 14},
			{X: 1, Y: 32},
		},
		Ladder: []Material{
			{Threshold: 0.30, ID: MaterialIceSheet},
			{Threshold: 0.45, ID: MaterialSnow},
			{Threshold: 0.60, ID: MaterialPackedSnow},
			{Threshold: 0.75, ID: MaterialRock},
			{Threshold: 0.90, ID: MaterialBasalt},
			{Threshold: 1.00, ID: MaterialSummitIce},
		},
	}
}

// Palette ids of the default profile. Zero is left free for callers that
// want an "empty" colour.
const (
	MaterialIceSheet uint8 = iota + 1
	MaterialSnow
	MaterialPackedSnow
	MaterialRock
	MaterialBasalt
	MaterialSummitIce
)

// Spec returns the serializable form of p.
func (p *Profile) Spec() ProfileSpec {
	points := make([]ControlPoint, len(p.xs))
	for i := range p.xs {
		points[i] = ControlPoint{X: p.xs[i], Y: p.ys[i]}
	}
	return ProfileSpec{
		Curve:  p.kind,
		Points: points,
		Ladder: append([]Material(nil), p.ladder...),
	}
}

// HeightOf maps a noise value to an unscaled height.
// Inputs outside the control-point range hold the end values.
func (p *Profile) HeightOf(n float32) float32 {
	if n != n {
		n = 0
	}
	n = clampf(n, 0, 1)

	last := len(p.xs) - 1
	if n <= p.xs[0] {
		return p.ys[0]
	}
	if n >= p.xs[last] {
		return p.ys[last]
	}

	// First index with xs[i] > n; the segment is [i-1, i].
	i := sort.Search(len(p.xs), func(k int) bool { return p.xs[k] > n })

	if p.spline != nil {
		return p.spline.eval(i-1, n)
	}

	x0, x1 := p.xs[i-1], p.xs[i]
	t := (n - x0) / (x1 - x0)
	return p.ys[i-1] + (p.ys[i]-p.ys[i-1])*t
}

// MaterialOf returns the id of the first ladder rung whose threshold is at
// least n, or the last rung when none is.
func (p *Profile) MaterialOf(n float32) uint8 {
	i := sort.Search(len(p.ladder), func(k int) bool { return p.ladder[k].Threshold >= n })
	if i == len(p.ladder) {
		return p.ladder[len(p.ladder)-1].ID
	}
	return p.ladder[i].ID
}

// HasMaterial reports whether id appears on the ladder.
func (p *Profile) HasMaterial(id uint8) bool {
	for _, m := range p.ladder {
		if m.ID == id {
			return true
		}
	}
	return false
}

func clampf(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
