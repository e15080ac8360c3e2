// Package engine wires the shape/effect layer into the real-time frame
// pipeline: a worker pool invokes the user callback every tick, results
// flow through a swap buffer to the renderer, and an input sampler and
// frame clock drive the whole loop at a fixed interval.
package engine

import (
	"errors"
	"fmt"
)

// WorkerFault packages a user-callback panic or error for delivery across
// the result queue to the main thread, where FrameReceiver re-raises it.
type WorkerFault struct {
	FrameID uint64
	Cause   error
}

func (f WorkerFault) Error() string {
	return fmt.Sprintf("engine: worker fault on frame %d: %v", f.FrameID, f.Cause)
}

func (f WorkerFault) Unwrap() error { return f.Cause }

// ErrResourceExhaustion marks a non-fatal disk/quota/memory failure, e.g.
// persisting input-sampler state.
var ErrResourceExhaustion = errors.New("engine: resource exhaustion")

// ErrShutdownRequested marks a graceful-shutdown-in-progress condition.
var ErrShutdownRequested = errors.New("engine: shutdown requested")
