package timing

import "math"

// Point is a control point of a timing curve.
type Point struct {
	X, Y float64
}

// Curve is a cubic Bézier timing curve from (0,0) to (1,1), given by its
// inner control points.
type Curve struct {
	P1, P2 Point
}

// Coefficients of the polynomial form of a timing curve:
//
//     X(t) = ((ax·t + bx)·t + cx)·t
//     Y(t) = ((ay·t + by)·t + cy)·t
//
type polynomial struct {
	ax, bx, cx float64
	ay, by, cy float64
}

const (
	newtonIterations   = 8
	bisectionLimit     = 64   // halvings of [0,1] before float64 runs out of bits
	derivativeEpsilon  = 1e-6 // Newton is abandoned for flatter slopes
	fallbackEpsilon    = 1e-6 // precision for non-positive cycle durations
	precisionPerSecond = 200.0
)

func compile(c Curve) polynomial {
	var poly polynomial
	poly.cx = 3 * c.P1.X
	poly.bx = 3*(c.P2.X-c.P1.X) - poly.cx
	poly.ax = 1 - poly.cx - poly.bx
	poly.cy = 3 * c.P1.Y
	poly.by = 3*(c.P2.Y-c.P1.Y) - poly.cy
	poly.ay = 1 - poly.cy - poly.by
	return poly
}

func (poly polynomial) x(t float64) float64 {
	return ((poly.ax*t+poly.bx)*t + poly.cx) * t
}

func (poly polynomial) y(t float64) float64 {
	return ((poly.ay*t+poly.by)*t + poly.cy) * t
}

func (poly polynomial) dx(t float64) float64 {
	return (3*poly.ax*t+2*poly.bx)*t + poly.cx
}

// epsilon returns the precision to solve for. Longer cycles need more
// precision to avoid visible jumps.
func epsilon(cycleSeconds float64) float64 {
	if cycleSeconds <= 0 || math.IsNaN(cycleSeconds) {
		return fallbackEpsilon
	}
	return 1.0 / (precisionPerSecond * cycleSeconds)
}

// solve finds t with X(t) = x, within eps.
func (poly polynomial) solve(x, eps float64) float64 {
	t := x
	for i := 0; i < newtonIterations; i++ {
		x2 := poly.x(t) - x
		if math.Abs(x2) < eps {
			return t
		}
		d := poly.dx(t)
		if math.Abs(d) < derivativeEpsilon {
			break
		}
		t -= x2 / d
	}
	// Newton did not converge, bisect
	t0, t1 := 0.0, 1.0
	t = x
	if t < t0 {
		return t0
	}
	if t > t1 {
		return t1
	}
	for i := 0; i < bisectionLimit && t0 < t1; i++ {
		x2 := poly.x(t)
		if math.Abs(x2-x) < eps {
			return t
		}
		if x > x2 {
			t0 = t
		} else {
			t1 = t
		}
		t = (t1-t0)/2 + t0
	}
	tracer().Debugf("bisection for x=%g stopped at t=%g", x, t)
	return t
}

// at returns the eased progress for the elapsed fraction x.
func (poly polynomial) at(x, eps float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	return poly.y(poly.solve(x, eps))
}

// At evaluates a curve for an elapsed fraction x, solving with the precision
// suitable for a cycle of the given length (in seconds).
func (c Curve) At(x float64, cycleSeconds float64) float64 {
	return compile(c).at(x, epsilon(cycleSeconds))
}
