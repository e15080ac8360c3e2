package effects

import (
	"math"
	"testing"

	"github.com/pthm-cable/penframe/geom"
)

func square() *geom.Buffer {
	return geom.FromPolylines([][]geom.Point{{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}})
}

func TestTranslation_OffsetsEveryPoint(t *testing.T) {
	g := square()
	out, err := Translation(g, Params{"offset_x": 2.0, "offset_y": -1.0})
	if err != nil {
		t.Fatalf("Translation() error = %v", err)
	}
	for i := 0; i < out.NumPoints(); i++ {
		wantX := g.Coords[i*3] + 2
		wantY := g.Coords[i*3+1] - 1
		if out.Coords[i*3] != wantX || out.Coords[i*3+1] != wantY {
			t.Errorf("point %d = (%v,%v), want (%v,%v)", i, out.Coords[i*3], out.Coords[i*3+1], wantX, wantY)
		}
	}
}

func TestRotation_AroundOriginQuarterTurn(t *testing.T) {
	g := geom.FromPolylines([][]geom.Point{{{1, 0, 0}}})
	out, err := Rotation(g, Params{"rotate": [3]float64{0, 0, math.Pi / 2}})
	if err != nil {
		t.Fatalf("Rotation() error = %v", err)
	}
	if math.Abs(float64(out.Coords[0])) > 1e-5 || math.Abs(float64(out.Coords[1])-1) > 1e-5 {
		t.Errorf("rotated point = (%v,%v), want ~(0,1)", out.Coords[0], out.Coords[1])
	}
}

func TestScaling_AroundCenter(t *testing.T) {
	g := geom.FromPolylines([][]geom.Point{{{2, 2, 0}}})
	out, err := Scaling(g, Params{"center": [3]float64{1, 1, 0}, "scale": [3]float64{2, 2, 1}})
	if err != nil {
		t.Fatalf("Scaling() error = %v", err)
	}
	// (2,2) is 1 unit from center (1,1); scaled by 2 it should land at (3,3).
	if math.Abs(float64(out.Coords[0])-3) > 1e-5 || math.Abs(float64(out.Coords[1])-3) > 1e-5 {
		t.Errorf("scaled point = (%v,%v), want ~(3,3)", out.Coords[0], out.Coords[1])
	}
}

func TestSubdivision_DoublesSegmentCount(t *testing.T) {
	g := geom.FromPolylines([][]geom.Point{{{0, 0, 0}, {2, 0, 0}}})
	out, err := Subdivision(g, Params{"n_divisions": 1.0})
	if err != nil {
		t.Fatalf("Subdivision() error = %v", err)
	}
	if out.NumPoints() != 3 {
		t.Fatalf("NumPoints() = %d, want 3", out.NumPoints())
	}
	if out.Coords[3] != 1 {
		t.Errorf("midpoint x = %v, want 1", out.Coords[3])
	}
}

func TestSubdivision_ZeroPassesIsNoop(t *testing.T) {
	g := geom.FromPolylines([][]geom.Point{{{0, 0, 0}, {2, 0, 0}}})
	out, err := Subdivision(g, Params{"n_divisions": 0.0})
	if err != nil {
		t.Fatalf("Subdivision() error = %v", err)
	}
	if out.NumPoints() != 2 {
		t.Fatalf("NumPoints() = %d, want 2 (no-op)", out.NumPoints())
	}
}

func TestArray_DuplicatesAndConcatenates(t *testing.T) {
	g := geom.FromPolylines([][]geom.Point{{{0, 0, 0}}})
	out, err := Array(g, Params{"n_duplicates": 3.0, "offset": [3]float64{1, 0, 0}})
	if err != nil {
		t.Fatalf("Array() error = %v", err)
	}
	if out.NumPoints() != 3 {
		t.Fatalf("NumPoints() = %d, want 3", out.NumPoints())
	}
	if out.Coords[2*3] != 2 {
		t.Errorf("third copy x = %v, want 2 (cumulative offset)", out.Coords[2*3])
	}
}

func TestArray_SingleDuplicateIsIdentity(t *testing.T) {
	g := geom.FromPolylines([][]geom.Point{{{5, 5, 5}}})
	out, err := Array(g, Params{"n_duplicates": 1.0})
	if err != nil {
		t.Fatalf("Array() error = %v", err)
	}
	if out.NumPoints() != 1 || out.Coords[0] != 5 {
		t.Errorf("Array(n=1) = %v, want unchanged single point", out.Coords)
	}
}

func TestNoise_DeterministicForSameParams(t *testing.T) {
	g := square()
	a, err := Noise(g, Params{"intensity": 0.3, "t": 1.5})
	if err != nil {
		t.Fatalf("Noise() error = %v", err)
	}
	b, err := Noise(g, Params{"intensity": 0.3, "t": 1.5})
	if err != nil {
		t.Fatalf("Noise() error = %v", err)
	}
	for i := range a.Coords {
		if a.Coords[i] != b.Coords[i] {
			t.Fatalf("Noise() not deterministic at index %d: %v != %v", i, a.Coords[i], b.Coords[i])
		}
	}
}

func TestFilling_AddsHatchPolylines(t *testing.T) {
	g := square()
	out, err := Filling(g, Params{"density": 2.0, "angle": 0.0})
	if err != nil {
		t.Fatalf("Filling() error = %v", err)
	}
	if out.NumPolylines() <= g.NumPolylines() {
		t.Errorf("Filling() produced %d polylines, want more than input's %d", out.NumPolylines(), g.NumPolylines())
	}
}

func TestExtrude_ConnectsRungs(t *testing.T) {
	g := geom.FromPolylines([][]geom.Point{{{0, 0, 0}, {1, 0, 0}}})
	out, err := Extrude(g, Params{"direction": [3]float64{0, 0, 1}, "distance": 2.0})
	if err != nil {
		t.Fatalf("Extrude() error = %v", err)
	}
	// base polyline + top polyline + one rung per base point.
	if out.NumPolylines() != 4 {
		t.Fatalf("NumPolylines() = %d, want 4", out.NumPolylines())
	}
}
