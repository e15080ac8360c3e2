package effects

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/pthm-cable/penframe/geom"
)

// Factory applies a named effect to a geometry buffer deterministically.
type Factory func(g *geom.Buffer, params Params) (*geom.Buffer, error)

// ErrUnknownEffect is returned when a chain step names an unregistered effect.
type ErrUnknownEffect struct{ Name string }

func (e ErrUnknownEffect) Error() string { return fmt.Sprintf("effects: unknown effect %q", e.Name) }

// Registry maps effect names to factories, mutated only at init time before
// the FrameClock starts. Re-registering a name replaces its function and
// drops every cached chain result whose steps include that name, so chain
// callers pick up the new behavior.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	order     []string

	cache *resultCache
}

// NewRegistry returns an empty registry. Its resultCache is shared by every
// Chain built from it, so structurally identical chains over the same base
// buffer hit the same cache entry regardless of which Chain computed it
// first.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory), cache: newResultCache()}
}

// Register binds name to factory, replacing any existing binding.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; !exists {
		r.order = append(r.order, name)
	} else {
		r.cache.mu.Lock()
		for key := range r.cache.entries {
			for _, s := range strings.Split(key.steps, "|") {
				if i := strings.LastIndexByte(s, ':'); i >= 0 && s[:i] == name {
					delete(r.cache.entries, key)
					break
				}
			}
		}
		r.cache.mu.Unlock()
	}
	r.factories[name] = f
}

// Get looks up the factory for name.
func (r *Registry) Get(name string) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	if !ok {
		return nil, ErrUnknownEffect{Name: name}
	}
	return f, nil
}

// Names returns all registered effect names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	sort.Strings(out)
	return out
}

// affineKinds are the step names treated as affine transforms by the
// pipeline's optimization pass (fusable, movable to the end of the chain).
var affineKinds = map[string]bool{
	"translation": true,
	"rotation":    true,
	"scaling":     true,
	"transform":   true,
}

// RegisterDefaults registers the built-in effect family from SPEC_FULL.md:
// noise, filling, rotation, scaling, translation, transform, subdivision,
// extrude, buffer, array.
func (r *Registry) RegisterDefaults() {
	r.Register("noise", Noise)
	r.Register("filling", Filling)
	r.Register("rotation", Rotation)
	r.Register("scaling", Scaling)
	r.Register("translation", Translation)
	r.Register("transform", Transform)
	r.Register("subdivision", Subdivision)
	r.Register("extrude", Extrude)
	r.Register("buffer", Buffer)
	r.Register("array", Array)
}
