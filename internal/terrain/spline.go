package terrain

import "math"

// cubicSpline is a natural cubic spline stored in Hermite form. Knot
// tangents come from the natural spline (zero curvature at both ends).
// When the control values are monotone the tangents are limited with the
// Fritsch-Carlson rule so the curve cannot overshoot; otherwise the curve
// is the natural spline unchanged.
type cubicSpline struct {
	xs []float64
	ys []float64
	ms []float64 // dy/dx at each knot
}

func newCubicSpline(xs, ys []float32) *cubicSpline {
	n := len(xs)
	s := &cubicSpline{
		xs: make([]float64, n),
		ys: make([]float64, n),
		ms: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		s.xs[i] = float64(xs[i])
		s.ys[i] = float64(ys[i])
	}

	h := make([]float64, n-1)
	delta := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		h[i] = s.xs[i+1] - s.xs[i]
		delta[i] = (s.ys[i+1] - s.ys[i]) / h[i]
	}

	// Second derivatives M with M[0] = M[n-1] = 0 (Thomas algorithm).
	m2 := make([]float64, n)
	if n > 2 {
		sub := make([]float64, n)
		diag := make([]float64, n)
		sup := make([]float64, n)
		rhs := make([]float64, n)
		for i := 1; i < n-1; i++ {
			sub[i] = h[i-1]
			diag[i] = 2 * (h[i-1] + h[i])
			sup[i] = h[i]
			rhs[i] = 6 * (delta[i] - delta[i-1])
		}
		for i := 2; i < n-1; i++ {
			w := sub[i] / diag[i-1]
			diag[i] -= w * sup[i-1]
			rhs[i] -= w * rhs[i-1]
		}
		m2[n-2] = rhs[n-2] / diag[n-2]
		for i := n - 3; i >= 1; i-- {
			m2[i] = (rhs[i] - sup[i]*m2[i+1]) / diag[i]
		}
	}

	for i := 0; i < n-1; i++ {
		s.ms[i] = delta[i] - h[i]*(2*m2[i]+m2[i+1])/6
	}
	s.ms[n-1] = delta[n-2] + h[n-2]*(m2[n-2]+2*m2[n-1])/6

	if !monotone(s.ys) {
		return s
	}
	for k := 0; k < n-1; k++ {
		d := delta[k]
		if d == 0 {
			s.ms[k] = 0
			s.ms[k+1] = 0
			continue
		}
		if math.Signbit(s.ms[k]) != math.Signbit(d) {
			s.ms[k] = 0
		}
		if math.Signbit(s.ms[k+1]) != math.Signbit(d) {
			s.ms[k+1] = 0
		}
		a := s.ms[k] / d
		b := s.ms[k+1] / d
		if r := a*a + b*b; r > 9 {
			t := 3 / math.Sqrt(r)
			s.ms[k] = t * a * d
			s.ms[k+1] = t * b * d
		}
	}
	return s
}

// monotone reports whether ys never rises or never falls.
func monotone(ys []float64) bool {
	up, down := true, true
	for i := 1; i < len(ys); i++ {
		if ys[i] < ys[i-1] {
			up = false
		}
		if ys[i] > ys[i-1] {
			down = false
		}
	}
	return up || down
}

// eval interpolates segment i (between knots i and i+1) at x.
func (s *cubicSpline) eval(i int, x float32) float32 {
	x0, x1 := s.xs[i], s.xs[i+1]
	h := x1 - x0
	t := (float64(x) - x0) / h
	t2 := t * t
	t3 := t2 * t

	h00 := 2*t3 - 3*t2 + 1
	h10 := t3 - 2*t2 + t
	h01 := -2*t3 + 3*t2
	h11 := t3 - t2

	y := h00*s.ys[i] + h10*h*s.ms[i] + h01*s.ys[i+1] + h11*h*s.ms[i+1]
	return float32(y)
}
