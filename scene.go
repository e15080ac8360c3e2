package main

import (
	"github.com/pthm-cable/penframe/effects"
	"github.com/pthm-cable/penframe/engine"
	"github.com/pthm-cable/penframe/geom"
	"github.com/pthm-cable/penframe/shapes"
)

// demoScene builds the default engine.Callback: a polygon whose vertex
// count is derived from seed, rotated continuously and perturbed by noise,
// with the mouse's horizontal position (when available) driving the
// rotation's phase. It exists to exercise the frame pipeline end to end;
// real users of this module supply their own callback.
func demoScene(cache *shapes.Cache, reg *effects.Registry, seed int64) engine.Callback {
	sides := int(3 + seed%9) // 3..11 sides, deterministic per seed

	return func(t float64, input engine.Snapshot) (*geom.Buffer, error) {
		base, err := cache.Produce("polygon", shapes.Params{"n_sides": sides})
		if err != nil {
			return nil, err
		}

		phase := t
		if mx, ok := input["mouse_x"]; ok {
			phase += mx * 0.001
		}

		pipeline := effects.NewPipeline(reg).
			AddStep("scaling", effects.Params{"scale": [3]float64{80, 80, 1}}).
			AddStep("rotation", effects.Params{"rotate": [3]float64{0, 0, phase}}).
			AddStep("noise", effects.Params{"intensity": 1.5, "frequency": [3]float64{0.05, 0.05, 0.05}, "t": t}).
			Optimize()

		return pipeline.Apply(base)
	}
}
