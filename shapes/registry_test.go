package shapes

import (
	"errors"
	"testing"

	"github.com/pthm-cable/penframe/geom"
)

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("nonexistent")
	var want ErrUnknownShape
	if !errors.As(err, &want) {
		t.Fatalf("Get() error = %v, want ErrUnknownShape", err)
	}
}

func TestRegistry_RegisterDefaults(t *testing.T) {
	r := NewRegistry()
	r.RegisterDefaults()

	want := []string{
		"asemic_glyph", "attractor", "capsule", "cone", "cylinder",
		"grid", "lissajous", "polygon", "polyhedron", "sphere", "text", "torus",
	}
	got := r.Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRegistry_RegisterOverrides(t *testing.T) {
	r := NewRegistry()
	calls := 0
	r.Register("custom", func(p Params) (*geom.Buffer, error) {
		calls++
		return geom.FromPolylines(nil), nil
	})
	r.Register("custom", func(p Params) (*geom.Buffer, error) {
		calls += 10
		return geom.FromPolylines(nil), nil
	})

	f, err := r.Get("custom")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if _, err := f(nil); err != nil {
		t.Fatalf("factory() error = %v", err)
	}
	if calls != 10 {
		t.Fatalf("calls = %d, want 10 (second registration should win)", calls)
	}
	if len(r.Names()) != 1 {
		t.Fatalf("Names() = %v, want single entry", r.Names())
	}
}
