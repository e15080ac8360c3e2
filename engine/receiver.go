package engine

import (
	"log/slog"
	"sync/atomic"
)

// DefaultDrainPerTick is K, the default packet-drain limit per tick.
const DefaultDrainPerTick = 2

// FrameReceiver drains up to K packets per tick from a WorkerPool's result
// queue, publishing each to a SwapBuffer if its frame_id is newer than the
// latest one already accepted (out-of-order completions from W>1 workers
// are legal and simply dropped), so the sequence observed downstream is
// strictly monotonically increasing.
type FrameReceiver struct {
	pool           *WorkerPool
	swap           *SwapBuffer
	drainPerTick   int
	latestAccepted uint64
	logger         *slog.Logger
	stale          atomic.Uint64
}

// NewFrameReceiver builds a receiver draining up to drainPerTick packets per
// tick (DefaultDrainPerTick if <= 0) from pool into swap. A nil logger falls
// back to slog.Default().
func NewFrameReceiver(pool *WorkerPool, swap *SwapBuffer, drainPerTick int, logger *slog.Logger) *FrameReceiver {
	if drainPerTick <= 0 {
		drainPerTick = DefaultDrainPerTick
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FrameReceiver{pool: pool, swap: swap, drainPerTick: drainPerTick, logger: logger}
}

// Tick drains pending packets and publishes the freshest. A WorkerFault
// packet is returned immediately — fatal, re-raised to the caller (the main
// thread owns the FrameClock loop and is expected to stop it).
func (r *FrameReceiver) Tick(dt float64) error {
	for _, p := range r.pool.DrainResults(r.drainPerTick) {
		if p.Err != nil {
			r.logger.Error("worker fault", "frame_id", p.FrameID, "error", p.Err)
			return p.Err
		}
		if p.FrameID > r.latestAccepted {
			r.swap.Push(p.Geometry)
			r.latestAccepted = p.FrameID
		} else {
			r.stale.Add(1)
			r.logger.Debug("dropped stale frame", "frame_id", p.FrameID, "latest", r.latestAccepted)
		}
	}
	return nil
}

// LatestAccepted returns the most recent frame_id published to the swap
// buffer.
func (r *FrameReceiver) LatestAccepted() uint64 {
	return r.latestAccepted
}

// Stale returns the total count of packets dropped because a newer frame_id
// had already been accepted (legal reordering across W>1 workers).
func (r *FrameReceiver) Stale() uint64 {
	return r.stale.Load()
}
