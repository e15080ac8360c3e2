package engine

import "github.com/pthm-cable/penframe/geom"

// Snapshot is the immutable control-value map a RenderTask carries to the
// user callback: ControlId -> value in [0,1].
type Snapshot map[string]float64

// RenderTask is one unit of work handed to a worker: the frame identity, the
// elapsed simulation time, and the input snapshot the callback should see.
type RenderTask struct {
	FrameID uint64
	T       float64
	Input   Snapshot
}

// RenderPacket is a worker's result, or an error sentinel if the user
// callback failed.
type RenderPacket struct {
	FrameID  uint64
	Geometry *geom.Buffer
	Err      error
}
