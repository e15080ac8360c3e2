package engine

import "testing"

type fakeDevice struct {
	name   string
	values map[string]float64
}

func (d fakeDevice) Name() string               { return d.name }
func (d fakeDevice) Poll() map[string]float64 { return d.values }

func TestInputSampler_MergesAcrossDevices(t *testing.T) {
	s := NewInputSampler(
		fakeDevice{name: "a", values: map[string]float64{"x": 1}},
		fakeDevice{name: "b", values: map[string]float64{"y": 2}},
	)
	s.Tick(0.016)
	snap := s.Snapshot()
	if snap["x"] != 1 || snap["y"] != 2 {
		t.Fatalf("snapshot = %v, want x=1 y=2", snap)
	}
}

func TestInputSampler_FirstWinsOnConflict(t *testing.T) {
	s := NewInputSampler(
		fakeDevice{name: "a", values: map[string]float64{"x": 1}},
		fakeDevice{name: "b", values: map[string]float64{"x": 99}},
	)
	s.Tick(0.016)
	if got := s.Snapshot()["x"]; got != 1 {
		t.Fatalf("snapshot[x] = %v, want 1 (first device wins)", got)
	}
}

func TestInputSampler_SnapshotImmutableAcrossTicks(t *testing.T) {
	values := map[string]float64{"x": 1}
	s := NewInputSampler(fakeDevice{name: "a", values: values})
	s.Tick(0.016)
	first := s.Snapshot()

	values["x"] = 2
	s.Tick(0.016)

	if first["x"] != 1 {
		t.Fatalf("earlier snapshot mutated: x = %v, want 1", first["x"])
	}
}
