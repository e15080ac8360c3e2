package engine

import "fmt"

// Tickable is any component the FrameClock drives once per interval. A
// non-nil error is fatal to the run (currently only FrameReceiver re-raising
// a WorkerFault does this); every other component reports nil.
type Tickable interface {
	Tick(dt float64) error
}

// namedTickable pairs a Tickable with the phase name its Tick represents,
// so an observer can attribute per-tick timing to it without the clock
// itself depending on any telemetry package.
type namedTickable struct {
	name string
	t    Tickable
}

// FrameClock holds an ordered list of tickables and invokes Tick(dt) on
// each in registration order at a fixed interval. Single-threaded,
// cooperative, no preemption — the ordering is part of the contract, chosen
// so each frame sees consistent inputs and the freshest available geometry
// (sampler, then worker pool, then receiver, then renderer).
type FrameClock struct {
	tickables []namedTickable
	dt        float64
}

// NewFrameClock builds a clock with a fixed per-tick interval dt (seconds).
func NewFrameClock(dt float64) *FrameClock {
	return &FrameClock{dt: dt}
}

// Register appends t to the ordered tick list under name, used to attribute
// per-phase timing when Tick is given an onPhase observer.
func (c *FrameClock) Register(name string, t Tickable) {
	c.tickables = append(c.tickables, namedTickable{name: name, t: t})
}

// Tick drives every registered tickable once, in order, stopping and
// returning the first fatal error encountered. If onPhase is given, it is
// called with each tickable's registered name immediately before that
// tickable's Tick runs, so a caller can mark phase boundaries (e.g.
// telemetry.PerfCollector.StartPhase) without FrameClock depending on any
// telemetry package.
func (c *FrameClock) Tick(onPhase ...func(name string)) error {
	var observe func(name string)
	if len(onPhase) > 0 {
		observe = onPhase[0]
	}
	for i, nt := range c.tickables {
		if observe != nil {
			observe(nt.name)
		}
		if err := nt.t.Tick(c.dt); err != nil {
			return fmt.Errorf("engine: tickable %d (%s): %w", i, nt.name, err)
		}
	}
	return nil
}

// Interval returns the clock's fixed per-tick dt in seconds.
func (c *FrameClock) Interval() float64 {
	return c.dt
}
