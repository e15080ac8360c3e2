package telemetry

import (
	"log/slog"
	"sort"

	"github.com/pthm-cable/penframe/engine"
)

// FrameStats holds aggregated per-window frame-pipeline statistics: how many
// render tasks the worker pool produced, how many were dropped at enqueue
// (queue full) or discarded as stale at the receiver (drained after a result
// with a newer frame_id was already accepted), and the task queue's
// occupancy profile.
type FrameStats struct {
	WindowEndTick int32   `csv:"window_end"`
	SimTimeSec    float64 `csv:"sim_time"`

	FramesProduced uint64  `csv:"frames_produced"`
	FramesDropped  uint64  `csv:"frames_dropped"`
	FramesStale    uint64  `csv:"frames_stale"`
	DropRate       float64 `csv:"drop_rate"`
	StaleRate      float64 `csv:"stale_rate"`

	QueueDepthMean float64 `csv:"queue_depth_mean"`
	QueueDepthP50  float64 `csv:"queue_depth_p50"`
	QueueDepthP90  float64 `csv:"queue_depth_p90"`
	QueueDepthMax  float64 `csv:"queue_depth_max"`
	QueueCapacity  int     `csv:"queue_capacity"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// FrameStatsCollector samples a WorkerPool and FrameReceiver's cumulative
// counters once per tick and reduces them into a FrameStats window on
// demand, the way PerfCollector reduces tick-duration samples.
type FrameStatsCollector struct {
	pool     *engine.WorkerPool
	receiver *engine.FrameReceiver

	depths []float64

	baseDropped, baseStale uint64
}

// NewFrameStatsCollector builds a collector reading from pool and receiver,
// with counters baselined at the current tick so the first window reports
// deltas from construction time, not process start.
func NewFrameStatsCollector(pool *engine.WorkerPool, receiver *engine.FrameReceiver) *FrameStatsCollector {
	return &FrameStatsCollector{
		pool:        pool,
		receiver:    receiver,
		baseDropped: pool.Dropped(),
		baseStale:   receiver.Stale(),
	}
}

// Sample records the current queue depth. Call once per tick.
func (c *FrameStatsCollector) Sample() {
	c.depths = append(c.depths, float64(c.pool.QueueDepth()))
}

// Window reduces the samples collected since the last Window call (or
// construction) into a FrameStats record and resets for the next window.
func (c *FrameStatsCollector) Window(windowEndTick int32, simTimeSec float64, framesProduced uint64) FrameStats {
	dropped := c.pool.Dropped()
	stale := c.receiver.Stale()

	windowDropped := dropped - c.baseDropped
	windowStale := stale - c.baseStale
	c.baseDropped = dropped
	c.baseStale = stale

	sorted := append([]float64(nil), c.depths...)
	sort.Float64s(sorted)

	var mean, max float64
	for i, d := range sorted {
		mean += d
		if i == 0 || d > max {
			max = d
		}
	}
	if len(sorted) > 0 {
		mean /= float64(len(sorted))
	}

	var dropRate, staleRate float64
	if framesProduced > 0 {
		dropRate = float64(windowDropped) / float64(framesProduced)
		staleRate = float64(windowStale) / float64(framesProduced)
	}

	stats := FrameStats{
		WindowEndTick:  windowEndTick,
		SimTimeSec:     simTimeSec,
		FramesProduced: framesProduced,
		FramesDropped:  windowDropped,
		FramesStale:    windowStale,
		DropRate:       dropRate,
		StaleRate:      staleRate,
		QueueDepthMean: mean,
		QueueDepthP50:  Percentile(sorted, 0.50),
		QueueDepthP90:  Percentile(sorted, 0.90),
		QueueDepthMax:  max,
		QueueCapacity:  c.pool.QueueCapacity(),
	}

	c.depths = c.depths[:0]
	return stats
}

// LogValue implements slog.LogValuer for structured logging.
func (s FrameStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Uint64("frames_produced", s.FramesProduced),
		slog.Uint64("frames_dropped", s.FramesDropped),
		slog.Uint64("frames_stale", s.FramesStale),
		slog.Float64("drop_rate", s.DropRate),
		slog.Float64("stale_rate", s.StaleRate),
		slog.Float64("queue_depth_mean", s.QueueDepthMean),
		slog.Float64("queue_depth_p50", s.QueueDepthP50),
		slog.Float64("queue_depth_p90", s.QueueDepthP90),
		slog.Float64("queue_depth_max", s.QueueDepthMax),
		slog.Int("queue_capacity", s.QueueCapacity),
	)
}

// LogStats logs the window's frame-pipeline stats via slog.
func (s FrameStats) LogStats() {
	slog.Info("frame_stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"frames_produced", s.FramesProduced,
		"frames_dropped", s.FramesDropped,
		"frames_stale", s.FramesStale,
		"drop_rate", s.DropRate,
		"stale_rate", s.StaleRate,
		"queue_depth_mean", s.QueueDepthMean,
		"queue_depth_p90", s.QueueDepthP90,
		"queue_capacity", s.QueueCapacity,
	)
}
