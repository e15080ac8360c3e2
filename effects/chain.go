package effects

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pthm-cable/penframe/geom"
)

// Step is one named, deterministic transformation in a chain, with params
// canonicalized up front so chain keys are cheap to build.
type Step struct {
	Name       string
	Params     Params
	ParamsHash uint64
}

// NewStep builds a Step, computing its params hash.
func NewStep(name string, params Params) Step {
	return Step{Name: name, Params: params, ParamsHash: hashParams(params)}
}

// EffectFailure wraps a panic/error raised by an effect kernel mid-chain.
type EffectFailure struct {
	StepIndex int
	StepName  string
	Cause     error
}

func (e EffectFailure) Error() string {
	return fmt.Sprintf("effects: step %d (%s) failed: %v", e.StepIndex, e.StepName, e.Cause)
}

func (e EffectFailure) Unwrap() error { return e.Cause }

// chainKey identifies a chain's cached result: the base buffer's identity
// plus the ordered tuple of step param hashes (and names, since two
// different effects could coincidentally hash to the same params value).
type chainKey struct {
	base  geom.ID
	steps string
}

func buildChainKey(base *geom.Buffer, steps []Step) chainKey {
	var sb strings.Builder
	for i, s := range steps {
		if i > 0 {
			sb.WriteByte('|')
		}
		fmt.Fprintf(&sb, "%s:%x", s.Name, s.ParamsHash)
	}
	return chainKey{base: base.ID(), steps: sb.String()}
}

// resultCache is shared by every Chain built from the same Registry (it
// lives on the Registry itself, not on any one Chain), so structurally
// identical chains on the same base buffer hit the same entry regardless
// of which Chain value computed it first — including two chains built
// independently rather than via AddStep off a common parent. The map has no
// capacity bound and no eviction: an entry stays until Registry.Register
// replaces one of the effects its steps name.
type resultCache struct {
	mu      sync.Mutex
	entries map[chainKey]*geom.Buffer
}

func newResultCache() *resultCache {
	return &resultCache{entries: make(map[chainKey]*geom.Buffer)}
}

// Chain is an immutable, persistent list of Steps applied to a base buffer.
// AddStep returns a new Chain holding a fresh copy of its parent's steps plus
// the new one — appending never mutates an existing chain's steps.
type Chain struct {
	reg   *Registry
	base  *geom.Buffer
	steps []Step
}

// NewChain starts a chain over base using reg's effect factories and
// result cache.
func NewChain(reg *Registry, base *geom.Buffer) *Chain {
	return &Chain{reg: reg, base: base, steps: nil}
}

// AddStep returns a new chain with step appended; the receiver is untouched.
func (c *Chain) AddStep(name string, params Params) *Chain {
	next := make([]Step, len(c.steps)+1)
	copy(next, c.steps)
	next[len(c.steps)] = NewStep(name, params)
	return &Chain{reg: c.reg, base: c.base, steps: next}
}

// Steps lists the effect names applied by this chain, in order.
func (c *Chain) Steps() []string {
	names := make([]string, len(c.steps))
	for i, s := range c.steps {
		names[i] = s.Name
	}
	return names
}

// Result computes the chain's output, caching only the final buffer keyed
// by (base.id, step hashes). Intermediate buffers are not cached here — a
// registered effect is free to memoize its own intermediates.
func (c *Chain) Result() (*geom.Buffer, error) {
	key := buildChainKey(c.base, c.steps)
	cache := c.reg.cache

	cache.mu.Lock()
	if buf, ok := cache.entries[key]; ok {
		cache.mu.Unlock()
		return buf, nil
	}
	cache.mu.Unlock()

	current := c.base
	for i, step := range c.steps {
		factory, err := c.reg.Get(step.Name)
		if err != nil {
			return nil, err
		}
		out, err := factory(current, step.Params)
		if err != nil {
			return nil, EffectFailure{StepIndex: i, StepName: step.Name, Cause: err}
		}
		current = out
	}

	cache.mu.Lock()
	cache.entries[key] = current
	cache.mu.Unlock()

	return current, nil
}

// Convenience builders for the standard effect family, mirroring the
// source's fluent chain.noise(...).rotation(...) style with Go-shaped
// defaults applied at the call site instead of dynamic kwargs.

func (c *Chain) Noise(intensity float64, frequency [3]float64, t float64) *Chain {
	return c.AddStep("noise", Params{"intensity": intensity, "frequency": frequency, "t": t})
}

func (c *Chain) Filling(pattern string, density, angle float64) *Chain {
	return c.AddStep("filling", Params{"pattern": pattern, "density": density, "angle": angle})
}

func (c *Chain) Rotation(center, rotate [3]float64) *Chain {
	return c.AddStep("rotation", Params{"center": center, "rotate": rotate})
}

func (c *Chain) Scaling(center, scale [3]float64) *Chain {
	return c.AddStep("scaling", Params{"center": center, "scale": scale})
}

func (c *Chain) Translation(dx, dy, dz float64) *Chain {
	return c.AddStep("translation", Params{"offset_x": dx, "offset_y": dy, "offset_z": dz})
}

func (c *Chain) Subdivision(nDivisions float64) *Chain {
	return c.AddStep("subdivision", Params{"n_divisions": nDivisions})
}

func (c *Chain) Extrude(direction [3]float64, distance, scale float64) *Chain {
	return c.AddStep("extrude", Params{"direction": direction, "distance": distance, "scale": scale})
}

func (c *Chain) Buffer(distance, joinStyle, resolution float64) *Chain {
	return c.AddStep("buffer", Params{"distance": distance, "join_style": joinStyle, "resolution": resolution})
}

func (c *Chain) Array(nDuplicates float64, offset, rotate, scale, center [3]float64) *Chain {
	return c.AddStep("array", Params{
		"n_duplicates": nDuplicates, "offset": offset, "rotate": rotate, "scale": scale, "center": center,
	})
}
