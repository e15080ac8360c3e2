package shapes

import (
	"fmt"
	"sort"
	"sync"

	"github.com/pthm-cable/penframe/geom"
)

// Factory produces a GeometryBuffer deterministically from params. Must not
// consult hidden global RNG state — seeds are explicit parameters, a
// correctness requirement for cache keys to stay sound.
type Factory func(params Params) (*geom.Buffer, error)

// Registry maps shape names to factories. Registration happens once at
// init time, before the FrameClock starts; mutating it after the first tick
// is disallowed by contract (not enforced here, matching the rest of this
// codebase's "process-wide registries, configured once" convention).
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	order     []string
}

// NewRegistry returns an empty registry. Use RegisterDefaults to populate it
// with the built-in shape family.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register binds name to factory, replacing any existing binding.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; !exists {
		r.order = append(r.order, name)
	}
	r.factories[name] = f
}

// ErrUnknownShape is returned when a name has no registered factory.
type ErrUnknownShape struct{ Name string }

func (e ErrUnknownShape) Error() string { return fmt.Sprintf("shapes: unknown shape %q", e.Name) }

// Get looks up the factory for name.
func (r *Registry) Get(name string) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	if !ok {
		return nil, ErrUnknownShape{Name: name}
	}
	return f, nil
}

// Names returns all registered shape names, sorted alphabetically.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	sort.Strings(out)
	return out
}

// RegisterDefaults registers the built-in shape family listed in
// DESIGN.md: polygon, sphere, grid, polyhedron, torus, cylinder, cone,
// capsule, lissajous, attractor, text, asemic_glyph.
func (r *Registry) RegisterDefaults() {
	r.Register("polygon", Polygon)
	r.Register("sphere", Sphere)
	r.Register("grid", Grid)
	r.Register("polyhedron", Polyhedron)
	r.Register("torus", Torus)
	r.Register("cylinder", Cylinder)
	r.Register("cone", Cone)
	r.Register("capsule", Capsule)
	r.Register("lissajous", Lissajous)
	r.Register("attractor", Attractor)
	r.Register("text", Text)
	r.Register("asemic_glyph", AsemicGlyph)
}
