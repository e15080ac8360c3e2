package shapes

import (
	"math"

	"github.com/pthm-cable/penframe/geom"
)

// Polygon returns a closed regular polygon of n_sides inscribed in the
// unit circle of diameter 1 (radius 0.5). n_sides below 3 is clamped to 3.
// The last point repeats the first, closing the loop.
func Polygon(p Params) (*geom.Buffer, error) {
	n := clampInt(getInt(p, "n_sides", 3), 3, -1)

	pts := make([]geom.Point, 0, n+1)
	const radius = 0.5
	for i := 0; i <= n; i++ {
		theta := 2 * math.Pi * float64(i%n) / float64(n)
		pts = append(pts, geom.Point{
			float32(radius * math.Cos(theta)),
			float32(radius * math.Sin(theta)),
			0,
		})
	}
	return geom.FromPolylines([][]geom.Point{pts}), nil
}

// Grid returns nx+ny axis-aligned lines spanning the unit square [0,1]x[0,1]:
// nx vertical lines and ny horizontal lines, each a 2-point polyline at z=0.
func Grid(p Params) (*geom.Buffer, error) {
	nx := clampInt(getInt(p, "nx", getInt(p, "divisions_x", 4)), 1, -1)
	ny := clampInt(getInt(p, "ny", getInt(p, "divisions_y", 4)), 1, -1)

	lines := make([][]geom.Point, 0, nx+ny)
	for i := 0; i < nx; i++ {
		x := float32(i) / float32(nx-1)
		if nx == 1 {
			x = 0
		}
		lines = append(lines, []geom.Point{{x, 0, 0}, {x, 1, 0}})
	}
	for j := 0; j < ny; j++ {
		y := float32(j) / float32(ny-1)
		if ny == 1 {
			y = 0
		}
		lines = append(lines, []geom.Point{{0, y, 0}, {1, y, 0}})
	}
	return geom.FromPolylines(lines), nil
}
