package geom

import "testing"

func TestFromPolylines_Empty(t *testing.T) {
	b := FromPolylines(nil)
	if !b.IsEmpty() {
		t.Fatalf("expected empty buffer")
	}
	if len(b.Offsets) != 1 || b.Offsets[0] != 0 {
		t.Fatalf("expected offsets=[0], got %v", b.Offsets)
	}
}

func TestFromPolylines_OffsetsMatchCoords(t *testing.T) {
	b := FromPolylines([][]Point{
		{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}},
		{{2, 2, 0}, {3, 3, 0}},
	})
	if got, want := len(b.Coords), int(b.Offsets[len(b.Offsets)-1])*3; got != want {
		t.Fatalf("len(coords)=%d, offsets[-1]*3=%d", got, want)
	}
	for i := 1; i < len(b.Offsets); i++ {
		if b.Offsets[i] < b.Offsets[i-1] {
			t.Fatalf("offsets not non-decreasing: %v", b.Offsets)
		}
	}
	if b.NumPolylines() != 2 {
		t.Fatalf("expected 2 polylines, got %d", b.NumPolylines())
	}
}

func TestConcat_EmptyIdentity(t *testing.T) {
	x := FromPolylines([][]Point{{{1, 2, 3}, {4, 5, 6}}})
	got := Concat(Empty(), x)
	if len(got.Coords) != len(x.Coords) {
		t.Fatalf("concat(empty,x) coords mismatch")
	}
	for i := range got.Coords {
		if got.Coords[i] != x.Coords[i] {
			t.Fatalf("concat(empty,x) != x at %d", i)
		}
	}
}

func TestConcat_Associative(t *testing.T) {
	a := FromPolylines([][]Point{{{0, 0, 0}, {1, 1, 1}}})
	b := FromPolylines([][]Point{{{2, 2, 2}}})
	c := FromPolylines([][]Point{{{3, 3, 3}, {4, 4, 4}, {5, 5, 5}}})

	left := Concat(Concat(a, b), c)
	right := Concat(a, Concat(b, c))

	if len(left.Coords) != len(right.Coords) {
		t.Fatalf("coords length mismatch")
	}
	for i := range left.Coords {
		if left.Coords[i] != right.Coords[i] {
			t.Fatalf("coords diverge at %d: %v vs %v", i, left.Coords[i], right.Coords[i])
		}
	}
	if len(left.Offsets) != len(right.Offsets) {
		t.Fatalf("offsets length mismatch")
	}
	for i := range left.Offsets {
		if left.Offsets[i] != right.Offsets[i] {
			t.Fatalf("offsets diverge at %d", i)
		}
	}
}

func TestTransform_Translation(t *testing.T) {
	b := FromPolylines([][]Point{{{0, 0, 0}}})
	out := b.Transform(Translation(2, 3, 4))
	if out.Coords[0] != 2 || out.Coords[1] != 3 || out.Coords[2] != 4 {
		t.Fatalf("translate(0,0,0) by (2,3,4) = %v, want (2,3,4)", out.Coords)
	}
	if out.ID() == b.ID() {
		t.Fatalf("transform must produce a fresh id")
	}
}

func TestBounds(t *testing.T) {
	b := FromPolylines([][]Point{{{-1, 2, 0}, {3, -5, 1}}})
	min, max, ok := b.Bounds()
	if !ok {
		t.Fatalf("expected ok=true for non-empty buffer")
	}
	if min != (Point{-1, -5, 0}) || max != (Point{3, 2, 1}) {
		t.Fatalf("bounds = %v..%v", min, max)
	}
}

func TestBounds_Empty(t *testing.T) {
	if _, _, ok := Empty().Bounds(); ok {
		t.Fatalf("expected ok=false for empty buffer")
	}
}
