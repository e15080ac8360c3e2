package shapes

import (
	"math"

	"github.com/pthm-cable/penframe/geom"
)

// Lissajous samples a 3-D Lissajous curve into one open polyline.
// freq is (fx, fy, fz); phase is a scalar phase offset applied to fy.
func Lissajous(p Params) (*geom.Buffer, error) {
	freq := getFloat3(p, "freq", [3]float64{3, 2, 1})
	phase := getFloat(p, "phase", math.Pi / 2)
	samples := clampInt(getInt(p, "samples", 360), 2, -1)
	amplitude := getFloat(p, "amplitude", 0.4)

	line := make([]geom.Point, 0, samples)
	for i := 0; i < samples; i++ {
		t := 2 * math.Pi * float64(i) / float64(samples-1)
		x := amplitude * math.Sin(freq[0]*t)
		y := amplitude * math.Sin(freq[1]*t+phase)
		z := amplitude * math.Sin(freq[2]*t)
		line = append(line, geom.Point{float32(x), float32(y), float32(z)})
	}
	return geom.FromPolylines([][]geom.Point{line}), nil
}
