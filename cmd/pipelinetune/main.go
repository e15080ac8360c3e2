// Pipeline tune searches the worker-pool's worker count for the smallest
// pool that sustains a target frame rate against a synthetic workload,
// using gonum's CMA-ES optimizer over a one-dimensional parameter.
//
// Usage: go run ./cmd/pipelinetune -target-fps 60 -task-cost 2ms -max-evals 40
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"runtime"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/penframe/engine"
	"github.com/pthm-cable/penframe/geom"
)

func main() {
	targetFPS := flag.Int("target-fps", 60, "Sustained frame rate to hold")
	taskCost := flag.Duration("task-cost", 2*time.Millisecond, "Synthetic per-frame callback cost")
	ticks := flag.Int("ticks", 300, "Ticks to simulate per evaluation")
	maxEvals := flag.Int("max-evals", 30, "Maximum optimizer evaluations")
	maxWorkers := flag.Int("max-workers", int(2*runtime.GOMAXPROCS(0)), "Upper bound on workers considered")
	flag.Parse()

	dt := 1.0 / float64(*targetFPS)

	evaluator := func(x []float64) float64 {
		workers := denormalizeWorkers(x[0], *maxWorkers)
		dropRate := runSyntheticWorkload(workers, *taskCost, dt, *ticks)
		// Penalize both drops and worker count, so the optimizer favors the
		// smallest pool that keeps drop rate near zero.
		return dropRate*100 + float64(workers)*0.01
	}

	problem := optimize.Problem{Func: evaluator}
	settings := &optimize.Settings{FuncEvaluations: *maxEvals}
	method := &optimize.CmaEsChol{InitStepSize: 0.3, Population: 8}

	result, err := optimize.Minimize(problem, []float64{0.3}, settings, method)
	if err != nil {
		log.Fatalf("optimize: %v", err)
	}

	bestWorkers := denormalizeWorkers(result.X[0], *maxWorkers)
	finalDropRate := runSyntheticWorkload(bestWorkers, *taskCost, dt, *ticks)
	fmt.Printf("recommended workers: %d (queue capacity %d)\n", bestWorkers, 2*bestWorkers)
	fmt.Printf("drop rate at recommendation: %.4f\n", finalDropRate)
	fmt.Printf("evaluations: %d\n", result.Stats.FuncEvaluations)
}

// denormalizeWorkers maps x in roughly [0,1] to an integer worker count in
// [1, maxWorkers], clamping outside that range for points CMA-ES explores
// beyond the initial simplex.
func denormalizeWorkers(x float64, maxWorkers int) int {
	w := int(math.Round(x * float64(maxWorkers)))
	if w < 1 {
		w = 1
	}
	if w > maxWorkers {
		w = maxWorkers
	}
	return w
}

// runSyntheticWorkload drives a real engine.WorkerPool for the given number
// of ticks with a callback that sleeps for taskCost, returning the fraction
// of ticks whose task was dropped due to a full queue.
func runSyntheticWorkload(workers int, taskCost time.Duration, dt float64, ticks int) float64 {
	sampler := engine.NewInputSampler()
	cb := func(t float64, input engine.Snapshot) (*geom.Buffer, error) {
		time.Sleep(taskCost)
		return geom.Empty(), nil
	}

	pool := engine.NewWorkerPool(workers, sampler, cb, nil)
	defer pool.Shutdown(time.Second)

	tickInterval := time.Duration(dt * float64(time.Second))
	for i := 0; i < ticks; i++ {
		_ = pool.Tick(dt)
		_ = pool.DrainResults(0)
		time.Sleep(tickInterval)
	}

	return float64(pool.Dropped()) / float64(ticks)
}
