package telemetry

import (
	"math"
	"testing"
	"time"

	"github.com/pthm-cable/penframe/engine"
	"github.com/pthm-cable/penframe/geom"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestFrameStatsCollector_EmptyWindowIsZero(t *testing.T) {
	sampler := engine.NewInputSampler()
	pool := engine.NewWorkerPool(1, sampler, func(t float64, input engine.Snapshot) (*geom.Buffer, error) {
		return geom.FromPolylines(nil), nil
	}, nil)
	defer pool.Shutdown(time.Second)
	swap := engine.NewSwapBuffer()
	receiver := engine.NewFrameReceiver(pool, swap, 2, nil)

	c := NewFrameStatsCollector(pool, receiver)
	stats := c.Window(1, 1.0/60, 0)

	if stats.FramesDropped != 0 || stats.FramesStale != 0 {
		t.Errorf("stats = %+v, want zero drop/stale counts with no activity", stats)
	}
	if stats.QueueDepthMean != 0 {
		t.Errorf("QueueDepthMean = %v, want 0 with no samples", stats.QueueDepthMean)
	}
}

func TestFrameStatsCollector_WindowResetsBetweenCalls(t *testing.T) {
	sampler := engine.NewInputSampler()
	release := make(chan struct{})
	pool := engine.NewWorkerPool(1, sampler, func(t float64, input engine.Snapshot) (*geom.Buffer, error) {
		<-release
		return geom.FromPolylines(nil), nil
	}, nil)
	defer func() {
		close(release)
		pool.Shutdown(time.Second)
	}()
	swap := engine.NewSwapBuffer()
	receiver := engine.NewFrameReceiver(pool, swap, 2, nil)

	c := NewFrameStatsCollector(pool, receiver)

	// Capacity is 2*workers = 2; the worker blocks on the first task, so the
	// next three ticks fill the queue and then drop.
	for i := 0; i < 4; i++ {
		pool.Tick(0.016)
		c.Sample()
	}
	first := c.Window(1, 4.0/60, 4)
	if first.FramesDropped == 0 {
		t.Fatalf("first window FramesDropped = 0, want > 0 after overfilling the queue")
	}

	second := c.Window(2, 5.0/60, 1)
	if second.FramesDropped != 0 {
		t.Errorf("second window FramesDropped = %d, want 0 (counters should reset after Window)", second.FramesDropped)
	}
}
