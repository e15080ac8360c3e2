package shapes

import (
	"math"

	"github.com/pthm-cable/penframe/geom"
)

const sphereMaxSubdivisions = 5

// Sphere approximates the unit sphere with one of several polyline styles.
// subdivisions is clamped to [0, sphereMaxSubdivisions] and controls segment
// density for every style.
func Sphere(p Params) (*geom.Buffer, error) {
	subdiv := clampInt(getInt(p, "subdivisions", 2), 0, sphereMaxSubdivisions)
	style := getString(p, "style", "latlon")

	switch style {
	case "latlon":
		return geom.FromPolylines(sphereLatLon(subdiv)), nil
	case "wireframe":
		return geom.FromPolylines(sphereWireframe(subdiv)), nil
	case "zigzag":
		return geom.FromPolylines(sphereZigzag(subdiv)), nil
	case "icosphere":
		return geom.FromPolylines(sphereIcosphere(subdiv)), nil
	case "rings":
		return geom.FromPolylines(sphereRings(subdiv)), nil
	default:
		return nil, ErrInvalidParameter{Shape: "sphere", Param: "style", Msg: "unknown style " + style}
	}
}

func spherePoint(theta, phi float64) geom.Point {
	const r = 0.5
	return geom.Point{
		float32(r * math.Sin(phi) * math.Cos(theta)),
		float32(r * math.Sin(phi) * math.Sin(theta)),
		float32(r * math.Cos(phi)),
	}
}

// sphereLatLon traces meridians and parallels: (4+2*subdiv) meridians and
// (2+subdiv) parallels, each a closed or open polyline.
func sphereLatLon(subdiv int) [][]geom.Point {
	meridians := 4 + 2*subdiv
	parallels := 2 + subdiv
	segments := 16 + 8*subdiv

	var lines [][]geom.Point
	for m := 0; m < meridians; m++ {
		theta := 2 * math.Pi * float64(m) / float64(meridians)
		line := make([]geom.Point, 0, segments+1)
		for s := 0; s <= segments; s++ {
			phi := math.Pi * float64(s) / float64(segments)
			line = append(line, spherePoint(theta, phi))
		}
		lines = append(lines, line)
	}
	for k := 1; k <= parallels; k++ {
		phi := math.Pi * float64(k) / float64(parallels+1)
		line := make([]geom.Point, 0, segments+1)
		for s := 0; s <= segments; s++ {
			theta := 2 * math.Pi * float64(s) / float64(segments)
			line = append(line, spherePoint(theta, phi))
		}
		lines = append(lines, line)
	}
	return lines
}

// sphereWireframe is a coarser lat/long mesh: a fixed 6 meridians and
// (3+subdiv/2) parallels, each sampled with (8+2*subdiv) segments instead of
// the "latlon" style's (16+8*subdiv). At subdiv 0 and 1 it has at least as
// many lines as "latlon"; from subdiv 2 on it has fewer meridians.
func sphereWireframe(subdiv int) [][]geom.Point {
	meridians := 6
	parallels := 3 + subdiv/2
	segments := 8 + 2*subdiv

	var lines [][]geom.Point
	for m := 0; m < meridians; m++ {
		theta := 2 * math.Pi * float64(m) / float64(meridians)
		line := make([]geom.Point, 0, segments+1)
		for s := 0; s <= segments; s++ {
			phi := math.Pi * float64(s) / float64(segments)
			line = append(line, spherePoint(theta, phi))
		}
		lines = append(lines, line)
	}
	for k := 1; k <= parallels; k++ {
		phi := math.Pi * float64(k) / float64(parallels+1)
		line := make([]geom.Point, 0, segments+1)
		for s := 0; s <= segments; s++ {
			theta := 2 * math.Pi * float64(s) / float64(segments)
			line = append(line, spherePoint(theta, phi))
		}
		lines = append(lines, line)
	}
	return lines
}

// sphereZigzag traces a single continuous polyline spiraling pole to pole,
// winding (6+subdiv) full turns around the axis at a constant rate.
func sphereZigzag(subdiv int) [][]geom.Point {
	steps := 24 + 12*subdiv
	line := make([]geom.Point, 0, steps+1)
	turns := 6 + subdiv
	for s := 0; s <= steps; s++ {
		t := float64(s) / float64(steps)
		phi := math.Pi * t
		theta := 2 * math.Pi * float64(turns) * t
		line = append(line, spherePoint(theta, phi))
	}
	return [][]geom.Point{line}
}

// sphereRings traces only latitude circles (no meridians).
func sphereRings(subdiv int) [][]geom.Point {
	rings := 3 + subdiv
	segments := 16 + 8*subdiv
	var lines [][]geom.Point
	for k := 1; k <= rings; k++ {
		phi := math.Pi * float64(k) / float64(rings+1)
		line := make([]geom.Point, 0, segments+1)
		for s := 0; s <= segments; s++ {
			theta := 2 * math.Pi * float64(s) / float64(segments)
			line = append(line, spherePoint(theta, phi))
		}
		lines = append(lines, line)
	}
	return lines
}

// sphereIcosphere draws the edge set of an icosahedron, subdivided subdiv
// times by recursive midpoint splitting of each edge and renormalizing onto
// the sphere. Each subdivided edge becomes its own 2-point polyline.
func sphereIcosphere(subdiv int) [][]geom.Point {
	verts, edges := icosahedron()
	for i := 0; i < subdiv; i++ {
		verts, edges = subdivideEdges(verts, edges)
	}

	lines := make([][]geom.Point, 0, len(edges))
	for _, e := range edges {
		lines = append(lines, []geom.Point{verts[e[0]], verts[e[1]]})
	}
	return lines
}

func normalizeTo(p geom.Point, radius float32) geom.Point {
	l := float32(math.Sqrt(float64(p[0]*p[0] + p[1]*p[1] + p[2]*p[2])))
	if l == 0 {
		return p
	}
	return geom.Point{p[0] / l * radius, p[1] / l * radius, p[2] / l * radius}
}

func subdivideEdges(verts []geom.Point, edges [][2]int) ([]geom.Point, [][2]int) {
	midpoint := make(map[[2]int]int)
	newVerts := append([]geom.Point(nil), verts...)
	var newEdges [][2]int

	mid := func(a, b int) int {
		key := [2]int{a, b}
		if a > b {
			key = [2]int{b, a}
		}
		if idx, ok := midpoint[key]; ok {
			return idx
		}
		m := geom.Point{
			(verts[a][0] + verts[b][0]) / 2,
			(verts[a][1] + verts[b][1]) / 2,
			(verts[a][2] + verts[b][2]) / 2,
		}
		m = normalizeTo(m, 0.5)
		idx := len(newVerts)
		newVerts = append(newVerts, m)
		midpoint[key] = idx
		return idx
	}

	for _, e := range edges {
		m := mid(e[0], e[1])
		newEdges = append(newEdges, [2]int{e[0], m}, [2]int{m, e[1]})
	}
	return newVerts, newEdges
}
