package effects

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/penframe/geom"
)

// Translation offsets every point by (offset_x, offset_y, offset_z).
func Translation(g *geom.Buffer, p Params) (*geom.Buffer, error) {
	dx := getFloat(p, "offset_x", 0)
	dy := getFloat(p, "offset_y", 0)
	dz := getFloat(p, "offset_z", 0)
	return g.Transform(geom.Translation(float32(dx), float32(dy), float32(dz))), nil
}

func eulerToMatrix(rx, ry, rz float64) [9]float32 {
	cx, sx := math.Cos(rx), math.Sin(rx)
	cy, sy := math.Cos(ry), math.Sin(ry)
	cz, sz := math.Cos(rz), math.Sin(rz)

	// The r values below are the entries of the transpose of R = Rz * Ry * Rx.
	// Stored row-major, that transpose is the matrix M for which coords*M
	// (row-vector convention) applies R to every point.
	r00 := cy * cz
	r01 := cy * sz
	r02 := -sy
	r10 := sx*sy*cz - cx*sz
	r11 := sx*sy*sz + cx*cz
	r12 := sx * cy
	r20 := cx*sy*cz + sx*sz
	r21 := cx*sy*sz - sx*cz
	r22 := cx * cy

	return [9]float32{
		float32(r00), float32(r01), float32(r02),
		float32(r10), float32(r11), float32(r12),
		float32(r20), float32(r21), float32(r22),
	}
}

// aroundCenter builds the affine for p' = (p - center)*R + center, i.e.
// applying R about an arbitrary center instead of the origin.
func aroundCenter(r [9]float32, center [3]float64) geom.Affine {
	cx, cy, cz := float32(center[0]), float32(center[1]), float32(center[2])
	// center*R
	rcx := cx*r[0] + cy*r[3] + cz*r[6]
	rcy := cx*r[1] + cy*r[4] + cz*r[7]
	rcz := cx*r[2] + cy*r[5] + cz*r[8]
	return geom.Affine{R: r, T: [3]float32{cx - rcx, cy - rcy, cz - rcz}}
}

// Rotation rotates about center by Euler angles rotate=(rx,ry,rz) radians.
// Fusing multiple rotation steps by summing angles (as the pipeline's
// optimization pass does) is only exact when every fused rotation shares an
// axis — see SPEC_FULL.md D.
func Rotation(g *geom.Buffer, p Params) (*geom.Buffer, error) {
	center := getFloat3(p, "center", [3]float64{0, 0, 0})
	rotate := getFloat3(p, "rotate", [3]float64{0, 0, 0})
	r := eulerToMatrix(rotate[0], rotate[1], rotate[2])
	return g.Transform(aroundCenter(r, center)), nil
}

// Scaling scales about center by per-axis factors.
func Scaling(g *geom.Buffer, p Params) (*geom.Buffer, error) {
	center := getFloat3(p, "center", [3]float64{0, 0, 0})
	scale := getFloat3(p, "scale", [3]float64{1, 1, 1})
	r := [9]float32{
		float32(scale[0]), 0, 0,
		0, float32(scale[1]), 0,
		0, 0, float32(scale[2]),
	}
	return g.Transform(aroundCenter(r, center)), nil
}

// Transform is the compound affine: scale, then rotate, then translate
// about an optional shared center, each defaulting to identity/zero.
func Transform(g *geom.Buffer, p Params) (*geom.Buffer, error) {
	center := getFloat3(p, "center", [3]float64{0, 0, 0})
	scale := getFloat3(p, "scale", [3]float64{1, 1, 1})
	rotate := getFloat3(p, "rotate", [3]float64{0, 0, 0})
	translate := getFloat3(p, "translate", [3]float64{0, 0, 0})

	scaleR := [9]float32{float32(scale[0]), 0, 0, 0, float32(scale[1]), 0, 0, 0, float32(scale[2])}
	rotR := eulerToMatrix(rotate[0], rotate[1], rotate[2])
	combined := matMul(scaleR, rotR)

	a := aroundCenter(combined, center)
	a.T[0] += float32(translate[0])
	a.T[1] += float32(translate[1])
	a.T[2] += float32(translate[2])
	return g.Transform(a), nil
}

// matMul composes two row-major 3x3 matrices as a applied first, then b:
// out = a*b, so that coords*out == (coords*a)*b.
func matMul(a, b [9]float32) [9]float32 {
	var out [9]float32
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var sum float32
			for k := 0; k < 3; k++ {
				sum += a[i*3+k] * b[k*3+j]
			}
			out[i*3+j] = sum
		}
	}
	return out
}

// Noise displaces every vertex by 3-D OpenSimplex noise, one independent
// evaluation per axis (each axis samples its own generator, seeded 1, 2 and
// 3, so the three axes don't move in lockstep), scaled by intensity.
func Noise(g *geom.Buffer, p Params) (*geom.Buffer, error) {
	intensity := getFloat(p, "intensity", 0.5)
	freq := getFloat3(p, "frequency", [3]float64{0.5, 0.5, 0.5})
	t := getFloat(p, "t", 0)

	nx := opensimplex.New(1)
	ny := opensimplex.New(2)
	nz := opensimplex.New(3)

	out := make([]float32, len(g.Coords))
	copy(out, g.Coords)
	for i := 0; i < len(out); i += 3 {
		x, y, z := float64(out[i]), float64(out[i+1]), float64(out[i+2])
		out[i+0] += float32(intensity * nx.Eval3(x*freq[0], y*freq[0], z*freq[0]+t))
		out[i+1] += float32(intensity * ny.Eval3(x*freq[1], y*freq[1], z*freq[1]+t))
		out[i+2] += float32(intensity * nz.Eval3(x*freq[2], y*freq[2], z*freq[2]+t))
	}
	return geom.FromFlat(out, append([]int32(nil), g.Offsets...)), nil
}

// Subdivision inserts midpoints along every segment, n_divisions (rounded,
// clamped >= 0) times — each pass doubles the segment count of every
// polyline.
func Subdivision(g *geom.Buffer, p Params) (*geom.Buffer, error) {
	passes := int(math.Round(getFloat(p, "n_divisions", 0.5)))
	if passes < 0 {
		passes = 0
	}

	var polylines [][]geom.Point
	for i := 0; i < g.NumPolylines(); i++ {
		flat := g.Polyline(i)
		pts := toPoints(flat)
		for pass := 0; pass < passes; pass++ {
			pts = subdivideOnce(pts)
		}
		polylines = append(polylines, pts)
	}
	return geom.FromPolylines(polylines), nil
}

func toPoints(flat []float32) []geom.Point {
	pts := make([]geom.Point, len(flat)/3)
	for i := range pts {
		pts[i] = geom.Point{flat[i*3], flat[i*3+1], flat[i*3+2]}
	}
	return pts
}

func subdivideOnce(pts []geom.Point) []geom.Point {
	if len(pts) < 2 {
		return pts
	}
	out := make([]geom.Point, 0, len(pts)*2-1)
	for i := 0; i < len(pts)-1; i++ {
		out = append(out, pts[i])
		mid := geom.Point{
			(pts[i][0] + pts[i+1][0]) / 2,
			(pts[i][1] + pts[i+1][1]) / 2,
			(pts[i][2] + pts[i+1][2]) / 2,
		}
		out = append(out, mid)
	}
	out = append(out, pts[len(pts)-1])
	return out
}

// Extrude offsets a copy of every polyline along direction*distance and
// connects corresponding points with rungs (one rung per point), producing a
// ribbon-like wireframe. The subdivisions and scale params are not read: no
// intermediate rungs are added and the offset copy is not scaled.
func Extrude(g *geom.Buffer, p Params) (*geom.Buffer, error) {
	direction := getFloat3(p, "direction", [3]float64{0, 0, 1})
	distance := getFloat(p, "distance", 0.5)
	offset := geom.Point{
		float32(direction[0] * distance),
		float32(direction[1] * distance),
		float32(direction[2] * distance),
	}

	var polylines [][]geom.Point
	for i := 0; i < g.NumPolylines(); i++ {
		base := toPoints(g.Polyline(i))
		top := make([]geom.Point, len(base))
		for j, pt := range base {
			top[j] = geom.Point{pt[0] + offset[0], pt[1] + offset[1], pt[2] + offset[2]}
		}
		polylines = append(polylines, base, top)
		for j := range base {
			polylines = append(polylines, []geom.Point{base[j], top[j]})
		}
	}
	return geom.FromPolylines(polylines), nil
}

// Buffer offsets each polyline outward in the XY plane by distance, using
// the averaged normal of the two segments meeting at each interior point
// (the endpoints use their single adjacent segment's normal). A 2-D analogue
// of the source's polygon-buffer effect; join_style/resolution are accepted
// for interface compatibility with the registered param set but do not
// affect this straight-normal-offset approximation.
func Buffer(g *geom.Buffer, p Params) (*geom.Buffer, error) {
	distance := getFloat(p, "distance", 0.5)

	var polylines [][]geom.Point
	for i := 0; i < g.NumPolylines(); i++ {
		pts := toPoints(g.Polyline(i))
		if len(pts) < 2 {
			polylines = append(polylines, pts)
			continue
		}
		out := make([]geom.Point, len(pts))
		for j := range pts {
			var nx, ny float64
			count := 0
			if j > 0 {
				dx, dy := float64(pts[j][0]-pts[j-1][0]), float64(pts[j][1]-pts[j-1][1])
				l := math.Hypot(dx, dy)
				if l > 1e-9 {
					nx += -dy / l
					ny += dx / l
					count++
				}
			}
			if j < len(pts)-1 {
				dx, dy := float64(pts[j+1][0]-pts[j][0]), float64(pts[j+1][1]-pts[j][1])
				l := math.Hypot(dx, dy)
				if l > 1e-9 {
					nx += -dy / l
					ny += dx / l
					count++
				}
			}
			if count > 0 {
				nx /= float64(count)
				ny /= float64(count)
			}
			out[j] = geom.Point{
				pts[j][0] + float32(nx*distance),
				pts[j][1] + float32(ny*distance),
				pts[j][2],
			}
		}
		polylines = append(polylines, out)
	}
	return geom.FromPolylines(polylines), nil
}

// Array instances n_duplicates copies of g, each the previous copy further
// transformed by offset/rotate/scale about center (cumulative, like a
// transform repeatedly applied), all concatenated into one buffer.
func Array(g *geom.Buffer, p Params) (*geom.Buffer, error) {
	n := int(math.Round(getFloat(p, "n_duplicates", 1)))
	if n < 1 {
		n = 1
	}
	offset := getFloat3(p, "offset", [3]float64{0, 0, 0})
	rotate := getFloat3(p, "rotate", [3]float64{0, 0, 0})
	scale := getFloat3(p, "scale", [3]float64{1, 1, 1})
	center := getFloat3(p, "center", [3]float64{0, 0, 0})

	scaleR := [9]float32{float32(scale[0]), 0, 0, 0, float32(scale[1]), 0, 0, 0, float32(scale[2])}
	rotR := eulerToMatrix(rotate[0], rotate[1], rotate[2])
	step := matMul(scaleR, rotR)

	result := g
	current := g
	for i := 1; i < n; i++ {
		a := aroundCenter(step, center)
		a.T[0] += float32(offset[0])
		a.T[1] += float32(offset[1])
		a.T[2] += float32(offset[2])
		current = current.Transform(a)
		result = geom.Concat(result, current)
	}
	return result, nil
}

// Filling draws parallel hatch lines across g's bounding box at the given
// angle and density (lines per unit length), approximating a fill pattern
// without true polygon containment testing.
func Filling(g *geom.Buffer, p Params) (*geom.Buffer, error) {
	pattern := getString(p, "pattern", "lines")
	density := getFloat(p, "density", 0.5)
	angle := getFloat(p, "angle", 0)
	_ = pattern // only "lines" is implemented; other patterns fall back to it

	min, max, ok := g.Bounds()
	if !ok || density <= 0 {
		return g, nil
	}

	spacing := float32(1.0 / density)
	if spacing <= 0 {
		spacing = 0.1
	}
	cos, sin := math.Cos(angle), math.Sin(angle)

	width := max[0] - min[0]
	height := max[1] - min[1]
	diag := float32(math.Hypot(float64(width), float64(height)))
	cx, cy := (min[0]+max[0])/2, (min[1]+max[1])/2

	var hatch [][]geom.Point
	for off := -diag; off <= diag; off += spacing {
		// A hatch line through (cx,cy)+off*normal, spanning +/-diag along
		// the hatch direction; no polygon-containment clipping.
		nx, ny := float32(-sin), float32(cos)
		dx, dy := float32(cos), float32(sin)
		px, py := cx+nx*off, cy+ny*off
		hatch = append(hatch, []geom.Point{
			{px - dx*diag, py - dy*diag, 0},
			{px + dx*diag, py + dy*diag, 0},
		})
	}

	filled := geom.FromPolylines(hatch)
	return geom.Concat(g, filled), nil
}
