package engine

import (
	"testing"

	"github.com/pthm-cable/penframe/geom"
)

func TestFrameReceiver_DropsOutOfOrderPackets(t *testing.T) {
	swap := NewSwapBuffer()
	pool := &WorkerPool{} // Tick/DrainResults unused; seed results directly.
	pool.results = []RenderPacket{
		{FrameID: 5, Geometry: geom.FromPolylines(nil)},
		{FrameID: 3, Geometry: geom.FromPolylines(nil)}, // stale, arrives after 5
	}
	r := NewFrameReceiver(pool, swap, 2, nil)

	if err := r.Tick(0.016); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if r.LatestAccepted() != 5 {
		t.Fatalf("LatestAccepted() = %d, want 5", r.LatestAccepted())
	}
	if swap.Version() != 1 {
		t.Fatalf("Version() = %d, want 1 (stale packet must not publish)", swap.Version())
	}
}

func TestFrameReceiver_DrainLimitAmortizes(t *testing.T) {
	swap := NewSwapBuffer()
	pool := &WorkerPool{}
	for i := uint64(1); i <= 10; i++ {
		pool.results = append(pool.results, RenderPacket{FrameID: i, Geometry: geom.FromPolylines(nil)})
	}
	r := NewFrameReceiver(pool, swap, 2, nil)
	r.Tick(0.016)

	if r.LatestAccepted() != 2 {
		t.Fatalf("LatestAccepted() = %d, want 2 after draining K=2", r.LatestAccepted())
	}
	if len(pool.results) != 8 {
		t.Fatalf("remaining queued results = %d, want 8", len(pool.results))
	}
}

func TestFrameReceiver_WorkerFaultIsFatal(t *testing.T) {
	swap := NewSwapBuffer()
	pool := &WorkerPool{}
	pool.results = []RenderPacket{{FrameID: 1, Err: WorkerFault{FrameID: 1}}}
	r := NewFrameReceiver(pool, swap, 2, nil)

	if err := r.Tick(0.016); err == nil {
		t.Fatal("Tick() error = nil, want the WorkerFault re-raised")
	}
}

func TestFrameReceiver_MonotonicAcrossTicks(t *testing.T) {
	swap := NewSwapBuffer()
	pool := &WorkerPool{}
	r := NewFrameReceiver(pool, swap, 2, nil)

	pool.results = []RenderPacket{{FrameID: 2, Geometry: geom.FromPolylines(nil)}}
	r.Tick(0.016)
	pool.results = []RenderPacket{{FrameID: 1, Geometry: geom.FromPolylines(nil)}}
	r.Tick(0.016)

	if r.LatestAccepted() != 2 {
		t.Fatalf("LatestAccepted() = %d, want 2 (must not regress)", r.LatestAccepted())
	}
}
