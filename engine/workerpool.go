package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pthm-cable/penframe/geom"
)

// Callback is the user frame function: given elapsed time and an input
// snapshot, produce the frame's geometry. Must be safe to call from
// multiple worker goroutines concurrently — it must not hold references to
// main-thread-only resources.
type Callback func(t float64, input Snapshot) (*geom.Buffer, error)

// WorkerPool runs W goroutines, each with its own invocation of Callback,
// pulling RenderTasks from a bounded queue (capacity 2W) and publishing
// RenderPackets to an unbounded result queue drained once per tick.
type WorkerPool struct {
	callback Callback
	sampler  *InputSampler
	workers  int
	tasks    chan RenderTask
	wg       sync.WaitGroup
	logger   *slog.Logger

	resultsMu sync.Mutex
	results   []RenderPacket

	frameID uint64
	elapsed float64
	dropped atomic.Uint64
}

// NewWorkerPool starts workers goroutines (clamped to at least 1) invoking
// cb, reading each tick's input snapshot from sampler, and returns the
// running pool. A nil logger falls back to slog.Default().
func NewWorkerPool(workers int, sampler *InputSampler, cb Callback, logger *slog.Logger) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	wp := &WorkerPool{
		callback: cb,
		sampler:  sampler,
		workers:  workers,
		tasks:    make(chan RenderTask, 2*workers),
		logger:   logger,
	}
	for i := 0; i < workers; i++ {
		wp.wg.Add(1)
		go wp.workerLoop()
	}
	return wp
}

func (wp *WorkerPool) workerLoop() {
	defer wp.wg.Done()
	for task := range wp.tasks {
		packet := wp.invoke(task)
		wp.resultsMu.Lock()
		wp.results = append(wp.results, packet)
		wp.resultsMu.Unlock()
	}
}

// invoke calls the callback, recovering a panic into a WorkerFault packet
// rather than crashing the worker goroutine.
func (wp *WorkerPool) invoke(task RenderTask) (packet RenderPacket) {
	defer func() {
		if r := recover(); r != nil {
			packet = RenderPacket{
				FrameID: task.FrameID,
				Err:     WorkerFault{FrameID: task.FrameID, Cause: fmt.Errorf("panic: %v", r)},
			}
		}
	}()
	g, err := wp.callback(task.T, task.Input)
	if err != nil {
		return RenderPacket{FrameID: task.FrameID, Err: WorkerFault{FrameID: task.FrameID, Cause: err}}
	}
	return RenderPacket{FrameID: task.FrameID, Geometry: g}
}

// Tick advances the frame counter and elapsed time, builds a RenderTask
// from the sampler's current snapshot, and attempts a non-blocking enqueue.
// If workers are behind and the queue is full, the task is dropped — Tick
// never blocks the caller. Satisfies Tickable; never returns an error
// itself (a dropped frame is not a fault).
func (wp *WorkerPool) Tick(dt float64) error {
	wp.frameID++
	wp.elapsed += dt
	task := RenderTask{FrameID: wp.frameID, T: wp.elapsed, Input: wp.sampler.Snapshot()}
	select {
	case wp.tasks <- task:
	default:
		wp.dropped.Add(1)
		wp.logger.Debug("dropped render task, queue full", "frame_id", task.FrameID)
	}
	return nil
}

// QueueDepth reports the number of tasks currently pending in the bounded
// queue, for telemetry sampling.
func (wp *WorkerPool) QueueDepth() int {
	return len(wp.tasks)
}

// QueueCapacity reports the bounded queue's fixed capacity (2*workers).
func (wp *WorkerPool) QueueCapacity() int {
	return cap(wp.tasks)
}

// Dropped returns the total count of tasks dropped because the queue was
// full at enqueue time.
func (wp *WorkerPool) Dropped() uint64 {
	return wp.dropped.Load()
}

// DrainResults removes and returns up to max pending packets (all of them
// if max<=0), in completion order (which may not match frame_id order —
// FrameReceiver is responsible for reimposing monotonicity).
func (wp *WorkerPool) DrainResults(max int) []RenderPacket {
	wp.resultsMu.Lock()
	defer wp.resultsMu.Unlock()
	if max <= 0 || max > len(wp.results) {
		max = len(wp.results)
	}
	out := append([]RenderPacket(nil), wp.results[:max]...)
	wp.results = wp.results[max:]
	return out
}

// Shutdown closes the task queue — standing in for a per-worker sentinel
// value, since a closed channel unblocks every receiving goroutine at once
// — and waits up to timeout for workers to drain and exit. Workers still
// running past timeout are abandoned to the process's own exit.
func (wp *WorkerPool) Shutdown(timeout time.Duration) {
	close(wp.tasks)
	done := make(chan struct{})
	go func() {
		wp.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}
