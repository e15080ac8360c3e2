package effects

import (
	"sync/atomic"
	"testing"

	"github.com/pthm-cable/penframe/geom"
)

func baseGeom() *geom.Buffer {
	return geom.FromPolylines([][]geom.Point{{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}}})
}

func TestChain_CacheHitAvoidsRecompute(t *testing.T) {
	r := NewRegistry()
	var calls int32
	r.Register("counted", func(g *geom.Buffer, p Params) (*geom.Buffer, error) {
		atomic.AddInt32(&calls, 1)
		return g, nil
	})

	g := baseGeom()
	chain := NewChain(r, g).AddStep("counted", Params{"x": 1})
	for i := 0; i < 5; i++ {
		if _, err := chain.Result(); err != nil {
			t.Fatalf("Result() error = %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("effect called %d times, want 1", calls)
	}
}

func TestChain_IndependentIdenticalChainsShareCache(t *testing.T) {
	r := NewRegistry()
	var calls int32
	r.Register("counted", func(g *geom.Buffer, p Params) (*geom.Buffer, error) {
		atomic.AddInt32(&calls, 1)
		return g, nil
	})

	g := baseGeom()
	first, err := NewChain(r, g).AddStep("counted", Params{"x": 1}).Result()
	if err != nil {
		t.Fatalf("Result() error = %v", err)
	}
	second, err := NewChain(r, g).AddStep("counted", Params{"x": 1}).Result()
	if err != nil {
		t.Fatalf("Result() error = %v", err)
	}

	if calls != 1 {
		t.Fatalf("effect called %d times, want 1 (second chain should hit the shared cache)", calls)
	}
	if first != second {
		t.Fatalf("Result() returned different instances for two independently built identical chains")
	}
}

func TestChain_DistinctBaseIDsMiss(t *testing.T) {
	r := NewRegistry()
	var calls int32
	r.Register("counted", func(g *geom.Buffer, p Params) (*geom.Buffer, error) {
		atomic.AddInt32(&calls, 1)
		return g, nil
	})

	a, b := baseGeom(), baseGeom()
	NewChain(r, a).AddStep("counted", Params{"x": 1}).Result()
	NewChain(r, b).AddStep("counted", Params{"x": 1}).Result()
	if calls != 2 {
		t.Fatalf("effect called %d times, want 2 (distinct base identities)", calls)
	}
}

func TestChain_UnknownEffectWraps(t *testing.T) {
	r := NewRegistry()
	chain := NewChain(r, baseGeom()).AddStep("nonexistent", Params{})
	_, err := chain.Result()
	if err == nil {
		t.Fatal("Result() error = nil, want unknown-effect error")
	}
}

func TestChain_StepFailureWrapsEffectFailure(t *testing.T) {
	r := NewRegistry()
	r.Register("broken", func(g *geom.Buffer, p Params) (*geom.Buffer, error) {
		return nil, errBoom
	})
	chain := NewChain(r, baseGeom()).AddStep("noop", Params{}).AddStep("broken", Params{})
	r.Register("noop", func(g *geom.Buffer, p Params) (*geom.Buffer, error) { return g, nil })

	_, err := chain.Result()
	var failure EffectFailure
	if err == nil {
		t.Fatal("Result() error = nil, want EffectFailure")
	}
	if fe, ok := err.(EffectFailure); ok {
		failure = fe
	} else {
		t.Fatalf("Result() error type = %T, want EffectFailure", err)
	}
	if failure.StepIndex != 1 || failure.StepName != "broken" {
		t.Errorf("failure = %+v, want StepIndex=1 StepName=broken", failure)
	}
}

func TestChain_AddStepDoesNotMutateParent(t *testing.T) {
	r := NewRegistry()
	r.Register("noop", func(g *geom.Buffer, p Params) (*geom.Buffer, error) { return g, nil })

	base := NewChain(r, baseGeom())
	child := base.AddStep("noop", Params{})

	if len(base.Steps()) != 0 {
		t.Errorf("parent chain mutated: Steps() = %v", base.Steps())
	}
	if len(child.Steps()) != 1 {
		t.Errorf("child Steps() = %v, want 1 entry", child.Steps())
	}
}

type boomError struct{}

func (boomError) Error() string { return "boom" }

var errBoom = boomError{}
