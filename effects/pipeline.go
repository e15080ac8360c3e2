package effects

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/pthm-cable/penframe/geom"
)

// Pipeline is a reusable, compiled chain template applicable to many inputs:
// Apply(g) builds a fresh Chain on g with the pipeline's steps and resolves
// it; the chain-level cache means repeated Apply calls on the same buffer
// with the same steps are cheap.
type Pipeline struct {
	reg   *Registry
	steps []Step
}

// NewPipeline starts an empty pipeline bound to reg.
func NewPipeline(reg *Registry) *Pipeline {
	return &Pipeline{reg: reg}
}

// AddStep returns a new pipeline with step appended (persistent, like Chain).
func (pl *Pipeline) AddStep(name string, params Params) *Pipeline {
	next := make([]Step, len(pl.steps)+1)
	copy(next, pl.steps)
	next[len(pl.steps)] = NewStep(name, params)
	return &Pipeline{reg: pl.reg, steps: next}
}

// Steps lists the effect names in this pipeline, in order.
func (pl *Pipeline) Steps() []string {
	names := make([]string, len(pl.steps))
	for i, s := range pl.steps {
		names[i] = s.Name
	}
	return names
}

// Apply runs the pipeline's steps over g.
func (pl *Pipeline) Apply(g *geom.Buffer) (*geom.Buffer, error) {
	chain := NewChain(pl.reg, g)
	for _, s := range pl.steps {
		chain = chain.AddStep(s.Name, s.Params)
	}
	return chain.Result()
}

// ApplyBatch maps Apply over geoms in parallel, using optimalWorkers(geoms)
// worker goroutines. Results preserve input order; the first error
// encountered is returned once every in-flight item has finished.
func (pl *Pipeline) ApplyBatch(geoms []*geom.Buffer) ([]*geom.Buffer, error) {
	if len(geoms) == 0 {
		return nil, nil
	}
	workers := optimalWorkers(geoms)

	results := make([]*geom.Buffer, len(geoms))
	errs := make([]error, len(geoms))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i], errs[i] = pl.Apply(geoms[i])
			}
		}()
	}
	for i := range geoms {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

// optimalWorkers picks a batch-apply worker count from available
// parallelism, current memory pressure, and a sampled complexity estimate —
// ported from the source's _calculate_optimal_workers, substituting
// runtime.MemStats for the original's psutil-based system memory reading
// (there is no process-memory-percentage library in this module's
// dependency set, and heap-pressure is the closest signal available without
// one). Complexity is the average point count of the first 10 inputs.
func optimalWorkers(geoms []*geom.Buffer) int {
	base := runtime.GOMAXPROCS(0)
	if base > 4 {
		base = 4
	}
	if base < 1 {
		base = 1
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	pressure := 0.0
	if mem.HeapSys > 0 {
		pressure = float64(mem.HeapAlloc) / float64(mem.HeapSys)
	}
	switch {
	case pressure > 0.8:
		base = base / 2
	case pressure > 0.6:
		base = int(float64(base) * 0.75)
	}

	sampleN := len(geoms)
	if sampleN > 10 {
		sampleN = 10
	}
	total := 0
	for i := 0; i < sampleN; i++ {
		total += geoms[i].NumPoints()
	}
	avg := 0.0
	if sampleN > 0 {
		avg = float64(total) / float64(sampleN)
	}
	switch {
	case avg > 1000:
		base = base / 2
	case avg < 100:
		base = base * 2
	}

	if base < 1 {
		base = 1
	}
	return base
}

// Optimize returns a new pipeline with steps reordered and fused:
// (a) partition into topology-changing steps and affine-transform steps
// (translation/rotation/scaling/transform), moving the affine partition to
// the end while preserving relative order within each partition;
// (b) fuse adjacent steps of the same fusable kind (translation, rotation,
// scaling, noise, subdivision) by composing their parameters. Fusion is
// only exact for the kinds with a defined merge rule; everything else keeps
// its steps distinct even when adjacent and same-named.
func (pl *Pipeline) Optimize() *Pipeline {
	var affine, other []Step
	for _, s := range pl.steps {
		if affineKinds[s.Name] {
			affine = append(affine, s)
		} else {
			other = append(other, s)
		}
	}
	reordered := make([]Step, 0, len(pl.steps))
	reordered = append(reordered, other...)
	reordered = append(reordered, affine...)

	return &Pipeline{reg: pl.reg, steps: fuseAdjacent(reordered)}
}

var mergeFns = map[string]func(a, b Params) Params{
	"translation": mergeTranslation,
	"rotation":    mergeRotation,
	"scaling":     mergeScaling,
	"noise":       mergeNoise,
	"subdivision": mergeSubdivision,
}

func fuseAdjacent(steps []Step) []Step {
	if len(steps) == 0 {
		return steps
	}
	out := []Step{steps[0]}
	for _, s := range steps[1:] {
		last := &out[len(out)-1]
		if last.Name == s.Name {
			if fn, ok := mergeFns[s.Name]; ok {
				*last = NewStep(s.Name, fn(last.Params, s.Params))
				continue
			}
		}
		out = append(out, s)
	}
	return out
}

func mergeTranslation(a, b Params) Params {
	return Params{
		"offset_x": getFloat(a, "offset_x", 0) + getFloat(b, "offset_x", 0),
		"offset_y": getFloat(a, "offset_y", 0) + getFloat(b, "offset_y", 0),
		"offset_z": getFloat(a, "offset_z", 0) + getFloat(b, "offset_z", 0),
	}
}

func mergeRotation(a, b Params) Params {
	ra := getFloat3(a, "rotate", [3]float64{0, 0, 0})
	rb := getFloat3(b, "rotate", [3]float64{0, 0, 0})
	return Params{
		"rotate": [3]float64{ra[0] + rb[0], ra[1] + rb[1], ra[2] + rb[2]},
		"center": getFloat3(b, "center", [3]float64{0, 0, 0}), // last-encountered wins
	}
}

func mergeScaling(a, b Params) Params {
	sa := getFloat3(a, "scale", [3]float64{1, 1, 1})
	sb := getFloat3(b, "scale", [3]float64{1, 1, 1})
	return Params{
		"scale":  [3]float64{sa[0] * sb[0], sa[1] * sb[1], sa[2] * sb[2]},
		"center": getFloat3(b, "center", [3]float64{0, 0, 0}),
	}
}

func mergeNoise(a, b Params) Params {
	ia := getFloat(a, "intensity", 0.5)
	ib := getFloat(b, "intensity", 0.5)
	return Params{
		"intensity": (ia + ib) / 2,
		"frequency": getFloat3(b, "frequency", [3]float64{0.5, 0.5, 0.5}),
		"t":         getFloat(b, "t", 0),
	}
}

func mergeSubdivision(a, b Params) Params {
	na := getFloat(a, "n_divisions", 0.5)
	nb := getFloat(b, "n_divisions", 0.5)
	if nb > na {
		na = nb
	}
	return Params{"n_divisions": na}
}

// Compose concatenates pipelines' steps in argument order into one pipeline
// (a CompositePipeline applying each input pipeline sequentially).
func Compose(reg *Registry, pipelines ...*Pipeline) *Pipeline {
	var steps []Step
	for _, p := range pipelines {
		steps = append(steps, p.steps...)
	}
	return &Pipeline{reg: reg, steps: steps}
}

// --- Serialization ----------------------------------------------------------

// StepDocument is one step's self-describing document form.
type StepDocument struct {
	Name   string `json:"name" yaml:"name"`
	Params Params `json:"params" yaml:"params"`
}

// Document is a pipeline's round-trippable form: {steps: [{name, params}]}.
type Document struct {
	Steps []StepDocument `json:"steps" yaml:"steps"`
}

// ToDocument renders the pipeline to its serializable form.
func (pl *Pipeline) ToDocument() Document {
	doc := Document{Steps: make([]StepDocument, len(pl.steps))}
	for i, s := range pl.steps {
		doc.Steps[i] = StepDocument{Name: s.Name, Params: s.Params}
	}
	return doc
}

// FromDocument rebuilds a pipeline from doc, validating every step's effect
// name against reg before accepting it.
func FromDocument(reg *Registry, doc Document) (*Pipeline, error) {
	pl := NewPipeline(reg)
	for _, sd := range doc.Steps {
		if _, err := reg.Get(sd.Name); err != nil {
			return nil, fmt.Errorf("effects: loading pipeline: %w", err)
		}
		pl = pl.AddStep(sd.Name, sd.Params)
	}
	return pl, nil
}
