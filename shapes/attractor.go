package shapes

import (
	"math"

	"github.com/pthm-cable/penframe/geom"
)

type vec3 [3]float64

func addv(a, b vec3) vec3 { return vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]} }
func scalev(a vec3, s float64) vec3 { return vec3{a[0] * s, a[1] * s, a[2] * s} }

// derivFn computes the ODE's time derivative at state.
type derivFn func(s vec3) vec3

// rk4Step advances state by dt using classic 4th-order Runge-Kutta:
// state + (dt/6)*(k1 + 2*k2 + 2*k3 + k4).
func rk4Step(s vec3, dt float64, f derivFn) vec3 {
	k1 := f(s)
	k2 := f(addv(s, scalev(k1, dt/2)))
	k3 := f(addv(s, scalev(k2, dt/2)))
	k4 := f(addv(s, scalev(k3, dt)))
	sum := addv(addv(k1, scalev(k2, 2)), addv(scalev(k3, 2), k4))
	return addv(s, scalev(sum, dt/6))
}

func lorenz(sigma, rho, beta float64) derivFn {
	return func(s vec3) vec3 {
		x, y, z := s[0], s[1], s[2]
		return vec3{sigma * (y - x), x*(rho-z) - y, x*y - beta*z}
	}
}

func rossler(a, b, c float64) derivFn {
	return func(s vec3) vec3 {
		x, y, z := s[0], s[1], s[2]
		return vec3{-y - z, x + a*y, b + z*(x-c)}
	}
}

func aizawa(a, b, c, d float64) derivFn {
	const e = 0.25
	const f0 = 0.1
	return func(s vec3) vec3 {
		x, y, z := s[0], s[1], s[2]
		dx := (z-b)*x - d*y
		dy := d*x + (z-b)*y
		dz := c + a*z - z*z*z/3 - (x*x+y*y)*(1+e*z) + f0*z*x*x*x
		return vec3{dx, dy, dz}
	}
}

func threeScroll(a, b, c, d, e float64) derivFn {
	return func(s vec3) vec3 {
		x, y, z := s[0], s[1], s[2]
		dx := a*(y-x) + d*x*z
		dy := b*x - x*z + c*y
		dz := x*y - e*z
		return vec3{dx, dy, dz}
	}
}

func deJongMap(a, b, c, d, x, y float64) (float64, float64) {
	return math.Sin(a*y) - math.Cos(b*x), math.Sin(c*x) - math.Cos(d*y)
}

// Attractor integrates one of the named continuous systems with fixed-step
// RK4, or iterates the De Jong 2-D map directly (no integration). system is
// one of {lorenz, rossler, aizawa, three_scroll, dejong}. When scale==1.0
// (the default), the output trajectory is recentered and rescaled to the
// unit cube.
func Attractor(p Params) (*geom.Buffer, error) {
	system := getString(p, "system", "lorenz")
	steps := clampInt(getInt(p, "steps", 2000), 2, -1)
	dt := getFloat(p, "dt", 0.01)
	scale := getFloat(p, "scale", 1.0)

	var pts []geom.Point
	switch system {
	case "lorenz":
		pts = integrate(steps, dt, vec3{0.1, 0, 0}, lorenz(10, 28, 8.0/3.0))
	case "rossler":
		pts = integrate(steps, dt, vec3{0.1, 0, 0}, rossler(0.2, 0.2, 5.7))
	case "aizawa":
		pts = integrate(steps, dt, vec3{0.1, 0, 0}, aizawa(0.95, 0.7, 0.6, 3.5))
	case "three_scroll":
		pts = integrate(steps, dt, vec3{0.1, 0, 0}, threeScroll(40, 0.833, 0.5, 0.5, 0.65))
	case "dejong":
		pts = dejongTrajectory(steps, scale)
	default:
		return nil, ErrInvalidParameter{Shape: "attractor", Param: "system", Msg: "unknown system " + system}
	}

	if scale == 1.0 {
		pts = normalizeVertices(pts)
	}

	return geom.FromPolylines([][]geom.Point{pts}), nil
}

func integrate(steps int, dt float64, start vec3, f derivFn) []geom.Point {
	pts := make([]geom.Point, 0, steps)
	s := start
	for i := 0; i < steps; i++ {
		pts = append(pts, geom.Point{float32(s[0]), float32(s[1]), float32(s[2])})
		s = rk4Step(s, dt, f)
	}
	return pts
}

// dejongTrajectory is an iterated 2-D map, not an ODE — z is derived from
// the step index rather than integrated.
func dejongTrajectory(steps int, scale float64) []geom.Point {
	const a, b, c, d = 1.4, -2.3, 2.4, -2.1
	x, y := 0.1, 0.0
	pts := make([]geom.Point, 0, steps)
	for i := 0; i < steps; i++ {
		z := float64(i) * scale * 0.001
		pts = append(pts, geom.Point{float32(x), float32(y), float32(z)})
		x, y = deJongMap(a, b, c, d, x, y)
	}
	return pts
}

func normalizeVertices(pts []geom.Point) []geom.Point {
	if len(pts) == 0 {
		return pts
	}
	min, max := pts[0], pts[0]
	for _, p := range pts {
		for k := 0; k < 3; k++ {
			if p[k] < min[k] {
				min[k] = p[k]
			}
			if p[k] > max[k] {
				max[k] = p[k]
			}
		}
	}
	center := geom.Point{(min[0] + max[0]) / 2, (min[1] + max[1]) / 2, (min[2] + max[2]) / 2}
	span := float32(0)
	for k := 0; k < 3; k++ {
		if d := max[k] - min[k]; d > span {
			span = d
		}
	}
	if span == 0 {
		span = 1
	}
	out := make([]geom.Point, len(pts))
	for i, p := range pts {
		out[i] = geom.Point{
			(p[0] - center[0]) / span,
			(p[1] - center[1]) / span,
			(p[2] - center[2]) / span,
		}
	}
	return out
}
