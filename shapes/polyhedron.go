package shapes

import (
	"math"

	"github.com/pthm-cable/penframe/geom"
)

// Polyhedron returns the edge set of the named Platonic solid, kind in
// {tetra, cube, octa, dodeca, icosa}, each polyline a single 2-point edge.
func Polyhedron(p Params) (*geom.Buffer, error) {
	kind := getString(p, "kind", "cube")

	var verts []geom.Point
	var edges [][2]int
	switch kind {
	case "tetra":
		verts, edges = tetrahedron()
	case "cube":
		verts, edges = cube()
	case "octa":
		verts, edges = octahedron()
	case "dodeca":
		verts, edges = dodecahedron()
	case "icosa":
		verts, edges = icosahedron()
	default:
		return nil, ErrInvalidParameter{Shape: "polyhedron", Param: "kind", Msg: "unknown kind " + kind}
	}

	lines := make([][]geom.Point, 0, len(edges))
	for _, e := range edges {
		lines = append(lines, []geom.Point{verts[e[0]], verts[e[1]]})
	}
	return geom.FromPolylines(lines), nil
}

func tetrahedron() ([]geom.Point, [][2]int) {
	const s = 0.35
	verts := []geom.Point{
		{s, s, s}, {s, -s, -s}, {-s, s, -s}, {-s, -s, s},
	}
	edges := [][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}
	return verts, edges
}

func cube() ([]geom.Point, [][2]int) {
	const h = 0.35
	verts := []geom.Point{
		{-h, -h, -h}, {h, -h, -h}, {h, h, -h}, {-h, h, -h},
		{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h},
	}
	edges := [][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
	return verts, edges
}

func octahedron() ([]geom.Point, [][2]int) {
	const r = 0.5
	verts := []geom.Point{
		{r, 0, 0}, {-r, 0, 0}, {0, r, 0}, {0, -r, 0}, {0, 0, r}, {0, 0, -r},
	}
	edges := [][2]int{
		{0, 2}, {0, 3}, {0, 4}, {0, 5},
		{1, 2}, {1, 3}, {1, 4}, {1, 5},
		{2, 4}, {4, 3}, {3, 5}, {5, 2},
	}
	return verts, edges
}

func icosahedron() ([]geom.Point, [][2]int) {
	phi := (1 + math.Sqrt(5)) / 2
	raw := [][3]float64{
		{-1, phi, 0}, {1, phi, 0}, {-1, -phi, 0}, {1, -phi, 0},
		{0, -1, phi}, {0, 1, phi}, {0, -1, -phi}, {0, 1, -phi},
		{phi, 0, -1}, {phi, 0, 1}, {-phi, 0, -1}, {-phi, 0, 1},
	}
	verts := make([]geom.Point, len(raw))
	for i, v := range raw {
		p := geom.Point{float32(v[0]), float32(v[1]), float32(v[2])}
		verts[i] = normalizeTo(p, 0.5)
	}
	edges := [][2]int{
		{0, 1}, {0, 5}, {0, 7}, {0, 10}, {0, 11},
		{1, 5}, {1, 7}, {1, 8}, {1, 9},
		{2, 3}, {2, 4}, {2, 6}, {2, 10}, {2, 11},
		{3, 4}, {3, 6}, {3, 8}, {3, 9},
		{4, 5}, {4, 9}, {4, 11},
		{5, 9}, {5, 11},
		{6, 7}, {6, 8}, {6, 10},
		{7, 8}, {7, 10},
		{8, 9},
		{10, 11},
	}
	return verts, edges
}

func dodecahedron() ([]geom.Point, [][2]int) {
	// Dual of the icosahedron: one vertex per icosahedron face, one edge per
	// pair of faces sharing an icosahedron edge.
	iv, ie := icosahedron()
	faces := icosahedronFaces()

	centroid := func(f [3]int) geom.Point {
		return geom.Point{
			(iv[f[0]][0] + iv[f[1]][0] + iv[f[2]][0]) / 3,
			(iv[f[0]][1] + iv[f[1]][1] + iv[f[2]][1]) / 3,
			(iv[f[0]][2] + iv[f[1]][2] + iv[f[2]][2]) / 3,
		}
	}

	verts := make([]geom.Point, len(faces))
	for i, f := range faces {
		verts[i] = normalizeTo(centroid(f), 0.5)
	}

	faceOfEdge := func(a, b int) []int {
		var result []int
		for i, f := range faces {
			has := func(v int) bool { return f[0] == v || f[1] == v || f[2] == v }
			if has(a) && has(b) {
				result = append(result, i)
			}
		}
		return result
	}

	var edges [][2]int
	seen := make(map[[2]int]bool)
	for _, e := range ie {
		fs := faceOfEdge(e[0], e[1])
		if len(fs) != 2 {
			continue
		}
		key := [2]int{fs[0], fs[1]}
		if key[0] > key[1] {
			key = [2]int{fs[1], fs[0]}
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		edges = append(edges, key)
	}
	return verts, edges
}

// icosahedronFaces lists the 20 triangular faces as vertex-index triples,
// derived from the edge set in icosahedron().
func icosahedronFaces() [][3]int {
	return [][3]int{
		{0, 1, 5}, {0, 5, 11}, {0, 11, 10}, {0, 10, 7}, {0, 7, 1},
		{1, 9, 5}, {5, 4, 11}, {11, 2, 10}, {10, 6, 7}, {7, 8, 1},
		{3, 4, 9}, {3, 2, 4}, {3, 6, 2}, {3, 8, 6}, {3, 9, 8},
		{4, 5, 9}, {2, 11, 4}, {6, 10, 2}, {8, 7, 6}, {9, 1, 8},
	}
}
