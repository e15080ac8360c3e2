package shapes

import (
	"math"

	"github.com/pthm-cable/penframe/geom"
)

// Torus returns a wireframe of a torus: ring-direction circles and
// tube-direction circles, built from major_radius/minor_radius/segments.
func Torus(p Params) (*geom.Buffer, error) {
	majorR := getFloat(p, "major_radius", 0.35)
	minorR := getFloat(p, "minor_radius", 0.12)
	segs := clampInt(getInt(p, "segments", 16), 3, -1)
	rings := clampInt(getInt(p, "rings", 12), 3, -1)

	var lines [][]geom.Point
	for r := 0; r < rings; r++ {
		phi := 2 * math.Pi * float64(r) / float64(rings)
		line := make([]geom.Point, 0, segs+1)
		for s := 0; s <= segs; s++ {
			theta := 2 * math.Pi * float64(s) / float64(segs)
			line = append(line, torusPoint(majorR, minorR, theta, phi))
		}
		lines = append(lines, line)
	}
	for s := 0; s < segs; s++ {
		theta := 2 * math.Pi * float64(s) / float64(segs)
		line := make([]geom.Point, 0, rings+1)
		for r := 0; r <= rings; r++ {
			phi := 2 * math.Pi * float64(r) / float64(rings)
			line = append(line, torusPoint(majorR, minorR, theta, phi))
		}
		lines = append(lines, line)
	}
	return geom.FromPolylines(lines), nil
}

func torusPoint(majorR, minorR, theta, phi float64) geom.Point {
	x := (majorR + minorR*math.Cos(phi)) * math.Cos(theta)
	y := (majorR + minorR*math.Cos(phi)) * math.Sin(theta)
	z := minorR * math.Sin(phi)
	return geom.Point{float32(x), float32(y), float32(z)}
}

// revolutionWireframe builds a wireframe of a solid of revolution: for each
// ring along the axis (rings+1 rings), a circle of the given radius at that
// height, plus `segments` longitudinal lines connecting corresponding points
// across all rings.
func revolutionWireframe(segments, rings int, height float64, radiusAt func(t float64) float64) [][]geom.Point {
	var lines [][]geom.Point
	ringPoints := make([][]geom.Point, rings+1)
	for r := 0; r <= rings; r++ {
		t := float64(r) / float64(rings)
		z := -height/2 + height*t
		radius := radiusAt(t)
		line := make([]geom.Point, 0, segments+1)
		for s := 0; s <= segments; s++ {
			theta := 2 * math.Pi * float64(s) / float64(segments)
			line = append(line, geom.Point{
				float32(radius * math.Cos(theta)),
				float32(radius * math.Sin(theta)),
				float32(z),
			})
		}
		ringPoints[r] = line
		lines = append(lines, line)
	}
	for s := 0; s < segments; s++ {
		longitude := make([]geom.Point, 0, rings+1)
		for r := 0; r <= rings; r++ {
			longitude = append(longitude, ringPoints[r][s])
		}
		lines = append(lines, longitude)
	}
	return lines
}

// Cylinder returns a wireframe cylinder of constant radius.
func Cylinder(p Params) (*geom.Buffer, error) {
	radius := getFloat(p, "radius", 0.3)
	height := getFloat(p, "height", 0.6)
	segs := clampInt(getInt(p, "segments", 16), 3, -1)
	rings := clampInt(getInt(p, "rings", 1), 1, -1)

	lines := revolutionWireframe(segs, rings, height, func(t float64) float64 { return radius })
	return geom.FromPolylines(lines), nil
}

// Cone returns a wireframe cone: radius shrinks linearly from base to apex.
func Cone(p Params) (*geom.Buffer, error) {
	radius := getFloat(p, "radius", 0.3)
	height := getFloat(p, "height", 0.6)
	segs := clampInt(getInt(p, "segments", 16), 3, -1)
	rings := clampInt(getInt(p, "rings", 8), 1, -1)

	lines := revolutionWireframe(segs, rings, height, func(t float64) float64 { return radius * (1 - t) })
	return geom.FromPolylines(lines), nil
}

// Capsule returns a wireframe capsule: a cylindrical barrel capped by two
// hemispherical rings, approximated with a cosine radius profile at the
// caps.
func Capsule(p Params) (*geom.Buffer, error) {
	radius := getFloat(p, "radius", 0.2)
	height := getFloat(p, "height", 0.6)
	segs := clampInt(getInt(p, "segments", 16), 3, -1)
	rings := clampInt(getInt(p, "rings", 12), 2, -1)

	capFrac := 0.25
	profile := func(t float64) float64 {
		switch {
		case t < capFrac:
			angle := math.Pi / 2 * (t / capFrac)
			return radius * math.Sin(angle)
		case t > 1-capFrac:
			angle := math.Pi / 2 * ((t - (1 - capFrac)) / capFrac)
			return radius * math.Cos(angle)
		default:
			return radius
		}
	}
	lines := revolutionWireframe(segs, rings, height, profile)
	return geom.FromPolylines(lines), nil
}
