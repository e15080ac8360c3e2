// Package geom implements the flat polyline geometry representation that
// every shape generator produces and every effect transforms: a single
// contiguous float32 coordinate array plus an offsets index, chosen so the
// whole buffer can be handed to a GPU as one vertex-buffer memcpy.
package geom

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
)

// Point is a convenience 3-D point used at construction boundaries; internally
// everything lives flattened in Buffer.Coords.
type Point [3]float32

// Buffer is the universal geometry value: M polylines packed into one flat
// coords array. Treated as immutable by every consumer once it leaves the
// call that produced it — every operation below returns a new Buffer.
type Buffer struct {
	// Coords is row-major x,y,z float32 triples, length 3*N.
	Coords []float32
	// Offsets has length M+1, strictly non-decreasing, Offsets[0]==0,
	// Offsets[M] == N (point count). Polyline i spans
	// Coords[3*Offsets[i] : 3*Offsets[i+1]].
	Offsets []int32

	id ID
}

// ID returns the buffer's opaque identity token.
func (b *Buffer) ID() ID { return b.id }

// Empty returns a zero-polyline buffer with a fresh identity.
func Empty() *Buffer {
	return &Buffer{Offsets: []int32{0}, id: newID()}
}

// FromPolylines builds a buffer from a list of polylines, each a sequence of
// 2- or 3-element points (2-element points get z=0). An empty input yields
// Empty().
func FromPolylines(polylines [][]Point) *Buffer {
	if len(polylines) == 0 {
		return Empty()
	}
	offsets := make([]int32, len(polylines)+1)
	n := int32(0)
	for i, pl := range polylines {
		offsets[i] = n
		n += int32(len(pl))
	}
	offsets[len(polylines)] = n

	coords := make([]float32, 0, n*3)
	for _, pl := range polylines {
		for _, p := range pl {
			coords = append(coords, p[0], p[1], p[2])
		}
	}
	return &Buffer{Coords: coords, Offsets: offsets, id: newID()}
}

// FromFlat builds a buffer directly from an already-flat coords/offsets
// pair, taking ownership of both slices. Used by shape generators that build
// their flat arrays incrementally rather than through []Point polylines.
func FromFlat(coords []float32, offsets []int32) *Buffer {
	if len(offsets) == 0 {
		offsets = []int32{0}
	}
	return &Buffer{Coords: coords, Offsets: offsets, id: newID()}
}

// NumPolylines returns M, the number of polylines in the buffer.
func (b *Buffer) NumPolylines() int {
	if b == nil || len(b.Offsets) == 0 {
		return 0
	}
	return len(b.Offsets) - 1
}

// NumPoints returns N, the total point count across all polylines.
func (b *Buffer) NumPoints() int {
	return len(b.Coords) / 3
}

// IsEmpty reports whether the buffer has zero points.
func (b *Buffer) IsEmpty() bool {
	return b == nil || len(b.Coords) == 0
}

// Polyline returns the i-th polyline as a slice view into Coords — no copy.
// The length of the returned slice is 3*(Offsets[i+1]-Offsets[i]); callers
// index it in (x,y,z) triples.
func (b *Buffer) Polyline(i int) []float32 {
	start := b.Offsets[i] * 3
	end := b.Offsets[i+1] * 3
	return b.Coords[start:end]
}

// Polylines returns a lazy iterator over polyline slices, in order.
func (b *Buffer) Polylines(yield func(int, []float32) bool) {
	for i := 0; i < b.NumPolylines(); i++ {
		if !yield(i, b.Polyline(i)) {
			return
		}
	}
}

// Concat appends b's coords after a's, shifting b's offsets by a's point
// count. Concat(Empty(), x) == x structurally (same coords/offsets content,
// new id). Associative in content, not in id.
func Concat(a, b *Buffer) *Buffer {
	if a.IsEmpty() {
		return &Buffer{Coords: append([]float32(nil), b.Coords...), Offsets: append([]int32(nil), b.Offsets...), id: newID()}
	}
	if b.IsEmpty() {
		return &Buffer{Coords: append([]float32(nil), a.Coords...), Offsets: append([]int32(nil), a.Offsets...), id: newID()}
	}

	coords := make([]float32, len(a.Coords)+len(b.Coords))
	copy(coords, a.Coords)
	copy(coords[len(a.Coords):], b.Coords)

	shift := int32(a.NumPoints())
	offsets := make([]int32, len(a.Offsets)+len(b.Offsets)-1)
	copy(offsets, a.Offsets)
	for i, o := range b.Offsets[1:] {
		offsets[len(a.Offsets)+i] = o + shift
	}

	return &Buffer{Coords: coords, Offsets: offsets, id: newID()}
}

// Affine is a 3x3 linear map plus a translation, applied as coords*R + t.
type Affine struct {
	R [9]float32 // row-major 3x3
	T [3]float32
}

// Identity returns the affine identity transform.
func Identity() Affine {
	return Affine{R: [9]float32{1, 0, 0, 0, 1, 0, 0, 0, 1}}
}

// Translation builds a pure-translation affine.
func Translation(dx, dy, dz float32) Affine {
	a := Identity()
	a.T = [3]float32{dx, dy, dz}
	return a
}

// Transform applies the affine to every point, returning a new buffer that
// shares Offsets structurally (same length sequence, copied so callers can't
// mutate the original) with a fresh id. Uses gonum's blas32 Sgemm so the
// coords*R product is computed as one vectorized matrix multiply rather than
// a scalar loop over N points.
func (b *Buffer) Transform(a Affine) *Buffer {
	n := b.NumPoints()
	offsets := append([]int32(nil), b.Offsets...)
	if n == 0 {
		return &Buffer{Offsets: offsets, id: newID()}
	}

	out := make([]float32, len(b.Coords))
	impl := blas32.Implementation()
	impl.Sgemm(blas.NoTrans, blas.NoTrans, n, 3, 3, 1,
		b.Coords, 3,
		a.R[:], 3,
		0, out, 3)

	for i := 0; i < n; i++ {
		out[i*3+0] += a.T[0]
		out[i*3+1] += a.T[1]
		out[i*3+2] += a.T[2]
	}

	return &Buffer{Coords: out, Offsets: offsets, id: newID()}
}

// Bounds returns the axis-aligned min/max corners. ok is false for an empty
// buffer.
func (b *Buffer) Bounds() (min, max Point, ok bool) {
	if b.IsEmpty() {
		return Point{}, Point{}, false
	}
	min = Point{b.Coords[0], b.Coords[1], b.Coords[2]}
	max = min
	for i := 0; i < len(b.Coords); i += 3 {
		for k := 0; k < 3; k++ {
			v := b.Coords[i+k]
			if v < min[k] {
				min[k] = v
			}
			if v > max[k] {
				max[k] = v
			}
		}
	}
	return min, max, true
}
