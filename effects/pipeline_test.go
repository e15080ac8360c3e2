package effects

import (
	"testing"

	"github.com/pthm-cable/penframe/geom"
)

func testRegistry() *Registry {
	r := NewRegistry()
	r.RegisterDefaults()
	return r
}

func TestPipeline_Apply(t *testing.T) {
	r := testRegistry()
	pl := NewPipeline(r).AddStep("translation", Params{"offset_x": 1.0})
	g := geom.FromPolylines([][]geom.Point{{{0, 0, 0}}})

	out, err := pl.Apply(g)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if out.Coords[0] != 1 {
		t.Errorf("Coords[0] = %v, want 1", out.Coords[0])
	}
}

func TestPipeline_OptimizeMovesAffineToEnd(t *testing.T) {
	r := testRegistry()
	pl := NewPipeline(r).
		AddStep("rotation", Params{}).
		AddStep("subdivision", Params{"n_divisions": 1.0}).
		AddStep("translation", Params{})

	optimized := pl.Optimize().Steps()
	want := []string{"subdivision", "rotation", "translation"}
	if len(optimized) != len(want) {
		t.Fatalf("Steps() = %v, want %v", optimized, want)
	}
	for i := range want {
		if optimized[i] != want[i] {
			t.Errorf("Steps()[%d] = %q, want %q", i, optimized[i], want[i])
		}
	}
}

func TestPipeline_OptimizeFusesAdjacentTranslations(t *testing.T) {
	r := testRegistry()
	pl := NewPipeline(r).
		AddStep("translation", Params{"offset_x": 1.0}).
		AddStep("translation", Params{"offset_x": 2.0})

	optimized := pl.Optimize()
	if len(optimized.Steps()) != 1 {
		t.Fatalf("Steps() = %v, want single fused step", optimized.Steps())
	}

	g := geom.FromPolylines([][]geom.Point{{{0, 0, 0}}})
	out, err := optimized.Apply(g)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if out.Coords[0] != 3 {
		t.Errorf("fused translation x = %v, want 3 (1+2)", out.Coords[0])
	}
}

func TestPipeline_OptimizeFusesTranslationsMadeAdjacentByReorder(t *testing.T) {
	r := testRegistry()
	pl := NewPipeline(r).
		AddStep("translation", Params{"offset_x": 1.0}).
		AddStep("subdivision", Params{"n_divisions": 1.0}).
		AddStep("translation", Params{"offset_x": 2.0})

	optimized := pl.Optimize().Steps()
	// subdivision (non-affine) stays first, the two translations land
	// adjacent at the end and fuse into one.
	want := []string{"subdivision", "translation"}
	if len(optimized) != len(want) {
		t.Fatalf("Steps() = %v, want %v", optimized, want)
	}
}

func TestPipeline_DocumentRoundTrip(t *testing.T) {
	r := testRegistry()
	pl := NewPipeline(r).
		AddStep("noise", Params{"intensity": 0.5}).
		AddStep("rotation", Params{"rotate": [3]float64{0, 0, 1}})

	doc := pl.ToDocument()
	restored, err := FromDocument(r, doc)
	if err != nil {
		t.Fatalf("FromDocument() error = %v", err)
	}
	if len(restored.Steps()) != 2 {
		t.Fatalf("restored Steps() = %v, want 2 entries", restored.Steps())
	}
}

func TestPipeline_FromDocumentRejectsUnknownEffect(t *testing.T) {
	r := testRegistry()
	doc := Document{Steps: []StepDocument{{Name: "nonexistent"}}}
	if _, err := FromDocument(r, doc); err == nil {
		t.Fatal("FromDocument() error = nil, want error for unregistered effect name")
	}
}

func TestPipeline_ApplyBatchPreservesOrder(t *testing.T) {
	r := testRegistry()
	pl := NewPipeline(r).AddStep("translation", Params{"offset_x": 1.0})

	geoms := make([]*geom.Buffer, 20)
	for i := range geoms {
		geoms[i] = geom.FromPolylines([][]geom.Point{{{float32(i), 0, 0}}})
	}

	out, err := pl.ApplyBatch(geoms)
	if err != nil {
		t.Fatalf("ApplyBatch() error = %v", err)
	}
	for i, g := range out {
		want := float32(i) + 1
		if g.Coords[0] != want {
			t.Errorf("out[%d].Coords[0] = %v, want %v", i, g.Coords[0], want)
		}
	}
}

func TestCompose_ConcatenatesSteps(t *testing.T) {
	r := testRegistry()
	a := NewPipeline(r).AddStep("translation", Params{})
	b := NewPipeline(r).AddStep("rotation", Params{}).AddStep("noise", Params{})

	combined := Compose(r, a, b)
	want := []string{"translation", "rotation", "noise"}
	got := combined.Steps()
	if len(got) != len(want) {
		t.Fatalf("Steps() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Steps()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
