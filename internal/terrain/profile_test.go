package terrain

import (
	"errors"
	"math"
	"math/rand"
	"slices"
	"testing"
)

func TestProfile_MaterialOf(t *testing.T) {
	p, err := NewProfile(CurveLinear,
		[]ControlPoint{{0, 0}, {1, 1}},
		[]Material{{Threshold: 0.5, ID: 7}, {Threshold: 1.0, ID: 42}})
	if err != nil {
		t.Fatalf("NewProfile: %v", err)
	}

	tests := []struct {
		n    float32
		want uint8
	}{
		{0, 7},
		{0.25, 7},
		{0.5, 7}, // first threshold >= n wins
		{0.5001, 42},
		{1.0, 42},
		{1.5, 42}, // beyond every threshold: last material
	}
	for _, tt := range tests {
		if got := p.MaterialOf(tt.n); got != tt.want {
			t.Errorf("MaterialOf(%v) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestProfile_HeightOfLinear(t *testing.T) {
	p, err := NewProfile(CurveLinear,
		[]ControlPoint{{0, 0}, {0.5, 10}, {1, 12}},
		[]Material{{Threshold: 1, ID: 1}})
	if err != nil {
		t.Fatalf("NewProfile: %v", err)
	}

	tests := []struct {
		n    float32
		want float32
	}{
		{-1, 0},
		{0, 0},
		{0.25, 5},
		{0.5, 10},
		{0.75, 11},
		{1, 12},
		{2, 12},
	}
	for _, tt := range tests {
		got := p.HeightOf(tt.n)
		if math.Abs(float64(got-tt.want)) > 1e-5 {
			t.Errorf("HeightOf(%v) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestProfile_SplineInterpolatesControlPoints(t *testing.T) {
	points := []ControlPoint{{0, 0}, {0.2, 1}, {0.5, 1.5}, {0.7, 6}, {1, 9}}
	p, err := NewProfile(CurveSpline, points, []Material{{Threshold: 1, ID: 1}})
	if err != nil {
		t.Fatalf("NewProfile: %v", err)
	}
	for _, cp := range points {
		got := p.HeightOf(cp.X)
		if math.Abs(float64(got-cp.Y)) > 1e-4 {
			t.Errorf("HeightOf(%v) = %v, want %v", cp.X, got, cp.Y)
		}
	}
}

func TestProfile_SplineOfLineIsLine(t *testing.T) {
	p, err := NewProfile(CurveSpline,
		[]ControlPoint{{0, 0}, {0.3, 3}, {0.6, 6}, {1, 10}},
		[]Material{{Threshold: 1, ID: 1}})
	if err != nil {
		t.Fatalf("NewProfile: %v", err)
	}
	for i := 0; i <= 100; i++ {
		n := float32(i) / 100
		got := p.HeightOf(n)
		if math.Abs(float64(got-10*n)) > 1e-4 {
			t.Fatalf("HeightOf(%v) = %v, want %v", n, got, 10*n)
		}
	}
}

func TestProfile_SplineNonMonotoneIsNatural(t *testing.T) {
	p, err := NewProfile(CurveSpline,
		[]ControlPoint{{0, 0}, {0.3, 1}, {1, 0}},
		[]Material{{Threshold: 1, ID: 1}})
	if err != nil {
		t.Fatalf("NewProfile: %v", err)
	}

	// Worked by hand: M1 = -100/7, zero curvature at both ends.
	tests := []struct {
		n    float32
		want float64
	}{
		{0.2, 0.746032},
		{0.5, 1.122449},
		{0.7, 0.836735},
	}
	for _, tt := range tests {
		got := p.HeightOf(tt.n)
		if math.Abs(float64(got)-tt.want) > 1e-4 {
			t.Errorf("HeightOf(%v) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestProfile_MonotoneCurves(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	for _, kind := range []CurveKind{CurveLinear, CurveSpline} {
		for trial := 0; trial < 50; trial++ {
			count := 2 + rng.Intn(MaxControlPoints-1)
			xs := make([]float32, 0, count)
			for len(xs) < count {
				x := rng.Float32()
				if !slices.Contains(xs, x) {
					xs = append(xs, x)
				}
			}
			slices.Sort(xs)

			points := make([]ControlPoint, count)
			var y float32
			for i, x := range xs {
				// Flat runs included on purpose.
				if rng.Intn(4) != 0 {
					y += rng.Float32() * 10
				}
				points[i] = ControlPoint{X: x, Y: y}
			}

			p, err := NewProfile(kind, points, []Material{{Threshold: 1, ID: 1}})
			if err != nil {
				t.Fatalf("NewProfile: %v", err)
			}

			prev := p.HeightOf(0)
			for i := 1; i <= 2000; i++ {
				n := float32(i) / 2000
				h := p.HeightOf(n)
				if h < prev-1e-4 {
					t.Fatalf("%s trial %d: HeightOf(%v)=%v < HeightOf(prev)=%v (points %v)",
						kind, trial, n, h, prev, points)
				}
				prev = h
			}
		}
	}
}

func TestNewProfile_Invalid(t *testing.T) {
	ladder := []Material{{Threshold: 1, ID: 1}}
	line := []ControlPoint{{0, 0}, {1, 1}}

	tests := []struct {
		name   string
		kind   CurveKind
		points []ControlPoint
		ladder []Material
	}{
		{"unknown kind", "bezier", line, ladder},
		{"one point", CurveLinear, []ControlPoint{{0, 0}}, ladder},
		{"too many points", CurveLinear, make([]ControlPoint, MaxControlPoints+1), ladder},
		{"unsorted points", CurveSpline, []ControlPoint{{0.5, 0}, {0.2, 1}}, ladder},
		{"duplicate x", CurveLinear, []ControlPoint{{0, 0}, {0, 1}}, ladder},
		{"empty ladder", CurveLinear, line, nil},
		{"non-increasing ladder", CurveLinear, line, []Material{{Threshold: 0.5, ID: 1}, {Threshold: 0.5, ID: 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProfile(tt.kind, tt.points, tt.ladder)
			if !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("expected ErrInvalidParameter, got %v", err)
			}
		})
	}
}

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile()

	if got := p.MaterialOf(0); got != MaterialIceSheet {
		t.Errorf("MaterialOf(0) = %d, want ice sheet", got)
	}
	if got := p.MaterialOf(1); got != MaterialSummitIce {
		t.Errorf("MaterialOf(1) = %d, want summit ice", got)
	}
	if p.HasMaterial(0) {
		t.Error("default palette should not use id 0")
	}

	spec := p.Spec()
	again, err := spec.Build()
	if err != nil {
		t.Fatalf("rebuilding from spec: %v", err)
	}
	for i := 0; i <= 10; i++ {
		n := float32(i) / 10
		if p.HeightOf(n) != again.HeightOf(n) || p.MaterialOf(n) != again.MaterialOf(n) {
			t.Errorf("rebuilt profile differs at %v", n)
		}
	}
}
