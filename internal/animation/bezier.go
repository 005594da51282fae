package animation

import "math"

// bezierTolerance is the x residual at which YAt stops bisecting.
const bezierTolerance = 0.0001

// minBisectionWidth stops YAt once the search interval can no longer shrink,
// so x values the curve never reaches still terminate.
const minBisectionWidth = 1e-12

// CubicBezier is an easing curve from (0, 0) to (1, 1) shaped by two free
// control points.
type CubicBezier struct {
	c1, c2 Vec2

	// power-basis coefficients, highest degree first
	p [4]Vec2
}

func NewCubicBezier(c1, c2 Vec2) *CubicBezier {
	b := &CubicBezier{c1: c1, c2: c2}
	b.updatePolynomial()
	return b
}

func (b *CubicBezier) C1() Vec2 { return b.c1 }
func (b *CubicBezier) C2() Vec2 { return b.c2 }

func (b *CubicBezier) SetC1(c1 Vec2) {
	if c1 != b.c1 {
		b.c1 = c1
		b.updatePolynomial()
	}
}

func (b *CubicBezier) SetC2(c2 Vec2) {
	if c2 != b.c2 {
		b.c2 = c2
		b.updatePolynomial()
	}
}

// PosAt evaluates the curve at parameter t.
func (b *CubicBezier) PosAt(t float64) Vec2 {
	return Vec2{
		X: ((b.p[0].X*t+b.p[1].X)*t+b.p[2].X)*t + b.p[3].X,
		Y: ((b.p[0].Y*t+b.p[1].Y)*t+b.p[2].Y)*t + b.p[3].Y,
	}
}

// YAt returns the y coordinate of the point whose x coordinate is x. The
// parameter is found by bisection, which assumes x is monotonic in t.
func (b *CubicBezier) YAt(x float64) float64 {
	lo, hi := 0.0, 1.0
	s := 0.5
	a := b.PosAt(s).X

	for math.Abs(x-a) > bezierTolerance && hi-lo > minBisectionWidth {
		if x > a {
			lo = s
		} else {
			hi = s
		}
		s = (lo + hi) * 0.5
		a = b.PosAt(s).X
	}

	return b.PosAt(s).Y
}

// With c0 = (0, 0) and c3 = (1, 1):
//
//	B(t) = (3c1 - 3c2 + 1)t³ + (3c2 - 6c1)t² + 3c1·t
func (b *CubicBezier) updatePolynomial() {
	c1, c2 := b.c1, b.c2
	b.p = [4]Vec2{
		{X: 3*(c1.X-c2.X) + 1, Y: 3*(c1.Y-c2.Y) + 1},
		{X: 3 * (c2.X - 2*c1.X), Y: 3 * (c2.Y - 2*c1.Y)},
		{X: 3 * c1.X, Y: 3 * c1.Y},
		{},
	}
}
