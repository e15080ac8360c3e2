package shapes

import (
	"math"
	"math/rand"
	"sort"

	"github.com/pthm-cable/penframe/geom"
)

// asemicConfig mirrors the original generator's tunable defaults.
type asemicConfig struct {
	minDistance        float64
	snapAngleDegrees   float64
	smoothingPoints    int
	walkMinSteps       int
	walkMaxSteps       int
	poissonRadiusDivisor float64
	poissonTrials      int
	diacriticProb      float64
}

func defaultAsemicConfig() asemicConfig {
	return asemicConfig{
		minDistance:          0.1,
		snapAngleDegrees:     60.0,
		smoothingPoints:      5,
		walkMinSteps:         2,
		walkMaxSteps:         4,
		poissonRadiusDivisor: 8.0,
		poissonTrials:        30,
		diacriticProb:        0.15,
	}
}

type region struct{ x0, y0, x1, y1 float64 }

// AsemicGlyph generates emergent script-like polylines within a rectangular
// region: place nodes, build a Relative Neighborhood Graph over them, carve
// random-walk strokes consuming edges, snap directions, smooth corners, and
// attach diacritics. Deterministic given (region, seed, params).
func AsemicGlyph(p Params) (*geom.Buffer, error) {
	cfg := defaultAsemicConfig()
	reg := region{
		x0: getFloat(p, "x0", 0), y0: getFloat(p, "y0", 0),
		x1: getFloat(p, "x1", 1), y1: getFloat(p, "y1", 1),
	}
	seed := int64(getInt(p, "seed", 0))
	smoothingRadius := getFloat(p, "smoothing_radius", 0.05)
	placementMode := getString(p, "placement_mode", "poisson")
	cellMargin := getFloat(p, "cell_margin", 0.08)
	cfg.diacriticProb = getFloat(p, "diacritic_probability", cfg.diacriticProb)

	rng := rand.New(rand.NewSource(seed))

	nodes := generateNodes(reg, cellMargin, placementMode, cfg, rng)
	if len(nodes) < 2 {
		return geom.Empty(), nil
	}

	adjacency := relativeNeighborhoodGraph(nodes, cfg)
	strokesIdx := randomWalkStrokes(adjacency, cfg, rng)

	var polylines [][]geom.Point
	usedNodes := make(map[int]bool)
	for _, strokeIdx := range strokesIdx {
		stroke := make([]geom.Point, len(strokeIdx))
		for i, ni := range strokeIdx {
			stroke[i] = nodes[ni]
			usedNodes[ni] = true
		}
		snapped := snapStroke(stroke, cfg.snapAngleDegrees)
		smoothed := smoothPolyline(snapped, smoothingRadius, cfg.smoothingPoints)
		polylines = append(polylines, smoothed)
	}

	usedNodeIDs := make([]int, 0, len(usedNodes))
	for ni := range usedNodes {
		usedNodeIDs = append(usedNodeIDs, ni)
	}
	sort.Ints(usedNodeIDs)
	for _, ni := range usedNodeIDs {
		if rng.Float64() < cfg.diacriticProb {
			polylines = append(polylines, diacritic(nodes[ni], rng))
		}
	}

	return geom.FromPolylines(polylines), nil
}

// --- Node placement -------------------------------------------------------

func generateNodes(r region, margin float64, mode string, cfg asemicConfig, rng *rand.Rand) []geom.Point {
	switch mode {
	case "grid":
		return gridNodes(r, margin, rng)
	case "hexagon":
		return hexagonNodes(r, margin)
	case "poisson":
		return poissonNodes(r, margin, cfg, rng)
	case "spiral":
		return spiralNodes(r, margin)
	case "radial":
		return radialNodes(r, margin)
	case "concentric":
		return concentricNodes(r, margin)
	default:
		return gridNodes(r, margin, rng)
	}
}

func gridNodes(r region, margin float64, rng *rand.Rand) []geom.Point {
	n := 2 + rng.Intn(2)
	var nodes []geom.Point
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			x := r.x0 + margin + (r.x1-r.x0-2*margin)*float64(col)/float64(n-1)
			y := r.y0 + margin + (r.y1-r.y0-2*margin)*float64(row)/float64(n-1)
			nodes = append(nodes, geom.Point{float32(x), float32(y), 0})
		}
	}
	return nodes
}

func hexagonNodes(r region, margin float64) []geom.Point {
	const cols, rows = 3, 3
	spacingX := (r.x1 - r.x0 - 2*margin) / (cols - 1)
	spacingY := (r.y1 - r.y0 - 2*margin) / (rows - 1)
	var nodes []geom.Point
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			offset := 0.0
			if row%2 == 1 {
				offset = spacingX / 2
			}
			x := r.x0 + margin + float64(col)*spacingX + offset
			y := r.y0 + margin + float64(row)*spacingY*0.866
			nodes = append(nodes, geom.Point{float32(x), float32(y), 0})
		}
	}
	return nodes
}

func poissonNodes(r region, margin float64, cfg asemicConfig, rng *rand.Rand) []geom.Point {
	xMin, xMax := r.x0+margin, r.x1-margin
	yMin, yMax := r.y0+margin, r.y1-margin
	radius := math.Min(xMax-xMin, yMax-yMin) / cfg.poissonRadiusDivisor
	if radius <= 0 {
		return nil
	}

	type pt struct{ x, y float64 }
	var samples, active []pt
	p0 := pt{xMin + rng.Float64()*(xMax-xMin), yMin + rng.Float64()*(yMax-yMin)}
	samples = append(samples, p0)
	active = append(active, p0)

	for len(active) > 0 {
		idx := rng.Intn(len(active))
		base := active[idx]
		found := false
		for t := 0; t < cfg.poissonTrials; t++ {
			angle := rng.Float64() * 2 * math.Pi
			dist := radius + rng.Float64()*radius
			cand := pt{base.x + dist*math.Cos(angle), base.y + dist*math.Sin(angle)}
			if cand.x < xMin || cand.x > xMax || cand.y < yMin || cand.y > yMax {
				continue
			}
			ok := true
			for _, s := range samples {
				if math.Hypot(cand.x-s.x, cand.y-s.y) < radius {
					ok = false
					break
				}
			}
			if ok {
				samples = append(samples, cand)
				active = append(active, cand)
				found = true
				break
			}
		}
		if !found {
			active = append(active[:idx], active[idx+1:]...)
		}
	}

	nodes := make([]geom.Point, len(samples))
	for i, s := range samples {
		nodes[i] = geom.Point{float32(s.x), float32(s.y), 0}
	}
	return nodes
}

func spiralNodes(r region, margin float64) []geom.Point {
	cx, cy := (r.x0+r.x1)/2, (r.y0+r.y1)/2
	maxRadius := math.Min(r.x1-r.x0, r.y1-r.y0)/2 - margin
	const numNodes = 12
	deltaAngle := 2 * math.Pi / 12
	nodes := make([]geom.Point, 0, numNodes)
	for i := 0; i < numNodes; i++ {
		angle := float64(i) * deltaAngle
		radius := maxRadius * float64(i) / float64(numNodes-1)
		x := cx + radius*math.Cos(angle)
		y := cy + radius*math.Sin(angle)
		nodes = append(nodes, geom.Point{float32(x), float32(y), 0})
	}
	return nodes
}

func radialNodes(r region, margin float64) []geom.Point {
	cx, cy := (r.x0+r.x1)/2, (r.y0+r.y1)/2
	maxRadius := math.Min(r.x1-r.x0, r.y1-r.y0)/2 - margin
	const numRays, nodesPerRay = 3, 3
	var nodes []geom.Point
	for ray := 0; ray < numRays; ray++ {
		angle := float64(ray) * (2 * math.Pi / numRays)
		for i := 1; i <= nodesPerRay; i++ {
			rr := maxRadius * float64(i) / float64(nodesPerRay+1)
			x := cx + rr*math.Cos(angle)
			y := cy + rr*math.Sin(angle)
			nodes = append(nodes, geom.Point{float32(x), float32(y), 0})
		}
	}
	return nodes
}

func concentricNodes(r region, margin float64) []geom.Point {
	cx, cy := (r.x0+r.x1)/2, (r.y0+r.y1)/2
	maxRadius := math.Min(r.x1-r.x0, r.y1-r.y0)/2 - margin
	const nodesPerCircle = 5
	var nodes []geom.Point
	for j := 0; j < nodesPerCircle; j++ {
		angle := float64(j) * (2 * math.Pi / nodesPerCircle)
		x := cx + maxRadius*math.Cos(angle)
		y := cy + maxRadius*math.Sin(angle)
		nodes = append(nodes, geom.Point{float32(x), float32(y), 0})
	}
	nodes = append(nodes, geom.Point{float32(cx), float32(cy), 0})
	return nodes
}

// --- Relative Neighborhood Graph ------------------------------------------

func dist2D(a, b geom.Point) float64 {
	dx := float64(a[0] - b[0])
	dy := float64(a[1] - b[1])
	return math.Hypot(dx, dy)
}

// relativeNeighborhoodGraph builds edge (i,j) iff no third node k satisfies
// d(i,k)<d(i,j) and d(j,k)<d(i,j). Brute-force O(n^3) candidate check
// (no k-d tree dependency is available in this module's stack);
// acceptable at the node counts this generator produces.
func relativeNeighborhoodGraph(nodes []geom.Point, cfg asemicConfig) map[int][]int {
	n := len(nodes)
	adjacency := make(map[int][]int, n)

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dij := dist2D(nodes[i], nodes[j])
			if dij < cfg.minDistance {
				continue
			}
			blocked := false
			for k := 0; k < n; k++ {
				if k == i || k == j {
					continue
				}
				if dist2D(nodes[i], nodes[k]) < dij && dist2D(nodes[j], nodes[k]) < dij {
					blocked = true
					break
				}
			}
			if !blocked {
				adjacency[i] = append(adjacency[i], j)
				adjacency[j] = append(adjacency[j], i)
			}
		}
	}
	return adjacency
}

// --- Stroke generation -----------------------------------------------------

// randomWalkStrokes repeatedly walks a random remaining edge from a random
// node with nonempty adjacency, removing each traversed edge bidirectionally,
// and yields the walk as a stroke if it has at least 2 nodes. Stops when no
// node has any remaining adjacency.
func randomWalkStrokes(adjacency map[int][]int, cfg asemicConfig, rng *rand.Rand) [][]int {
	remaining := make(map[int]map[int]bool, len(adjacency))
	var nodeIDs []int
	for n, neighbors := range adjacency {
		set := make(map[int]bool, len(neighbors))
		for _, nb := range neighbors {
			set[nb] = true
		}
		remaining[n] = set
		nodeIDs = append(nodeIDs, n)
	}
	sort.Ints(nodeIDs)

	hasEdges := func() []int {
		var out []int
		for _, n := range nodeIDs {
			if len(remaining[n]) > 0 {
				out = append(out, n)
			}
		}
		return out
	}

	var strokes [][]int
	for {
		active := hasEdges()
		if len(active) == 0 {
			break
		}
		start := active[rng.Intn(len(active))]
		steps := cfg.walkMinSteps + rng.Intn(cfg.walkMaxSteps-cfg.walkMinSteps+1)

		walk := []int{start}
		current := start
		for s := 0; s < steps; s++ {
			neighbors := remaining[current]
			if len(neighbors) == 0 {
				break
			}
			var choices []int
			for nb := range neighbors {
				choices = append(choices, nb)
			}
			sort.Ints(choices)
			next := choices[rng.Intn(len(choices))]

			delete(remaining[current], next)
			delete(remaining[next], current)

			walk = append(walk, next)
			current = next
		}
		if len(walk) >= 2 {
			strokes = append(strokes, walk)
		}
	}
	return strokes
}

// --- Direction snap --------------------------------------------------------

func snapPoint(lastX, lastY, px, py, snapAngleDeg float64) (float64, float64) {
	dx, dy := px-lastX, py-lastY
	l := math.Hypot(dx, dy)
	if l < 1e-10 {
		return lastX, lastY
	}
	thetaDeg := math.Atan2(dy, dx) * 180 / math.Pi
	snappedDeg := math.Round(thetaDeg/snapAngleDeg) * snapAngleDeg
	snapped := snappedDeg * math.Pi / 180
	return lastX + l*math.Cos(snapped), lastY + l*math.Sin(snapped)
}

// snapStroke snaps each segment's direction to the nearest multiple of
// snapAngleDeg, preserving segment length; consecutive duplicate points are
// dropped.
func snapStroke(original []geom.Point, snapAngleDeg float64) []geom.Point {
	if len(original) < 2 {
		return original
	}
	snapped := []geom.Point{original[0]}
	for _, p := range original[1:] {
		last := snapped[len(snapped)-1]
		nx, ny := snapPoint(float64(last[0]), float64(last[1]), float64(p[0]), float64(p[1]), snapAngleDeg)
		if math.Abs(nx-float64(last[0])) < 1e-10 && math.Abs(ny-float64(last[1])) < 1e-10 {
			continue
		}
		snapped = append(snapped, geom.Point{float32(nx), float32(ny), 0})
	}
	return snapped
}

// --- Smoothing --------------------------------------------------------------

// smoothPolyline replaces each interior corner with a quadratic Bézier of
// radius min(smoothingRadius, |BA|/2, |BC|/2), sampled at numArcPoints
// interior t-values.
func smoothPolyline(polyline []geom.Point, smoothingRadius float64, numArcPoints int) []geom.Point {
	if len(polyline) < 3 {
		return polyline
	}
	out := []geom.Point{polyline[0]}

	for i := 1; i < len(polyline)-1; i++ {
		a, b, c := polyline[i-1], polyline[i], polyline[i+1]
		vecBA := geom.Point{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
		vecBC := geom.Point{c[0] - b[0], c[1] - b[1], c[2] - b[2]}
		dAB := float64(math.Sqrt(float64(vecBA[0]*vecBA[0] + vecBA[1]*vecBA[1] + vecBA[2]*vecBA[2])))
		dBC := float64(math.Sqrt(float64(vecBC[0]*vecBC[0] + vecBC[1]*vecBC[1] + vecBC[2]*vecBC[2])))
		if dAB < 1e-10 || dBC < 1e-10 {
			continue
		}

		d := math.Min(smoothingRadius, math.Min(dAB/2, dBC/2))
		uBA := geom.Point{float32(float64(vecBA[0]) / dAB), float32(float64(vecBA[1]) / dAB), float32(float64(vecBA[2]) / dAB)}
		uBC := geom.Point{float32(float64(vecBC[0]) / dBC), float32(float64(vecBC[1]) / dBC), float32(float64(vecBC[2]) / dBC)}

		aPrime := geom.Point{b[0] + uBA[0]*float32(d), b[1] + uBA[1]*float32(d), b[2] + uBA[2]*float32(d)}
		cPrime := geom.Point{b[0] - uBC[0]*float32(d), b[1] - uBC[1]*float32(d), b[2] - uBC[2]*float32(d)}

		if dist2D(out[len(out)-1], aPrime) > 0.1 {
			out = append(out, aPrime)
		}
		for s := 1; s <= numArcPoints; s++ {
			t := float64(s) / float64(numArcPoints+1)
			out = append(out, bezierQuad(t, aPrime, b, cPrime))
		}
		out = append(out, cPrime)
	}
	out = append(out, polyline[len(polyline)-1])
	return out
}

func bezierQuad(t float64, a, b, c geom.Point) geom.Point {
	u := 1 - t
	w0, w1, w2 := u*u, 2*u*t, t*t
	return geom.Point{
		float32(w0)*a[0] + float32(w1)*b[0] + float32(w2)*c[0],
		float32(w0)*a[1] + float32(w1)*b[1] + float32(w2)*c[1],
		float32(w0)*a[2] + float32(w1)*b[2] + float32(w2)*c[2],
	}
}

// --- Diacritics -------------------------------------------------------------

var diacriticKinds = []string{"circle", "tilde", "grave", "umlaut", "acute", "circumflex", "caron", "cedilla"}

// diacritic attaches a small mark near node, shape depending on the chosen
// kind; returned as its own polyline, offset from the node by a small
// random jitter.
func diacritic(node geom.Point, rng *rand.Rand) []geom.Point {
	kind := diacriticKinds[rng.Intn(len(diacriticKinds))]
	const r = 0.02
	offX := (rng.Float64()*2 - 1) * 0.03
	offY := r*2 + rng.Float64()*0.02
	cx, cy := node[0]+float32(offX), node[1]+float32(offY)

	switch kind {
	case "circle":
		const segs = 10
		pts := make([]geom.Point, segs+1)
		for i := 0; i <= segs; i++ {
			theta := 2 * math.Pi * float64(i) / segs
			pts[i] = geom.Point{cx + float32(r*math.Cos(theta)), cy + float32(r*math.Sin(theta)), 0}
		}
		return pts
	case "tilde":
		return []geom.Point{
			{cx - r, cy, 0}, {cx - r/3, cy + r/2, 0}, {cx + r/3, cy - r/2, 0}, {cx + r, cy, 0},
		}
	case "grave":
		return []geom.Point{{cx - r/2, cy - r, 0}, {cx + r/2, cy + r, 0}}
	case "acute":
		return []geom.Point{{cx - r/2, cy + r, 0}, {cx + r/2, cy - r, 0}}
	case "circumflex":
		return []geom.Point{{cx - r, cy - r/2, 0}, {cx, cy + r, 0}, {cx + r, cy - r/2, 0}}
	case "caron":
		return []geom.Point{{cx - r, cy + r/2, 0}, {cx, cy - r, 0}, {cx + r, cy + r/2, 0}}
	case "cedilla":
		return []geom.Point{{cx, cy, 0}, {cx, cy - r, 0}, {cx + r/2, cy - r*1.5, 0}}
	case "umlaut":
		fallthrough
	default:
		return []geom.Point{{cx - r/2, cy, 0}, {cx - r/2, cy, 0}, {cx + r/2, cy, 0}, {cx + r/2, cy, 0}}
	}
}
