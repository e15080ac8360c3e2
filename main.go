package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/pthm-cable/penframe/config"
	"github.com/pthm-cable/penframe/effects"
	"github.com/pthm-cable/penframe/engine"
	"github.com/pthm-cable/penframe/renderer"
	"github.com/pthm-cable/penframe/shapes"
	"github.com/pthm-cable/penframe/telemetry"
)

var (
	configPath = flag.String("config", "", "Path to a YAML config overlay (embedded defaults are used otherwise)")
	headless   = flag.Bool("headless", false, "Run the frame pipeline without opening a window")
	maxTicks   = flag.Int("max-ticks", 0, "Stop after N ticks (0 = run forever, useful with -headless)")
	logLevel   = flag.String("log-level", "", "Override the configured log level (debug, info, warn, error)")
	seed       = flag.Int64("seed", 1, "Seed for the demo scene")
	outputDir  = flag.String("output", "", "Directory to write telemetry CSVs to (overrides telemetry.csv_output_path)")
)

func main() {
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "penframe: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	shapeReg := shapes.NewRegistry()
	shapeReg.RegisterDefaults()
	shapeCache := shapes.NewCache(shapeReg, cfg.Caches.ShapeCacheCapacity)

	effectReg := effects.NewRegistry()
	effectReg.RegisterDefaults()

	workers := cfg.Pipeline.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var devices []engine.Device
	if !*headless {
		devices = append(devices, renderer.MouseDevice{})
	}
	sampler := engine.NewInputSampler(devices...)

	pool := engine.NewWorkerPool(workers, sampler, demoScene(shapeCache, effectReg, *seed), logger)
	defer pool.Shutdown(time.Second)

	swap := engine.NewSwapBuffer()
	receiver := engine.NewFrameReceiver(pool, swap, cfg.Frame.DrainPerTick, logger)

	clock := engine.NewFrameClock(cfg.Derived.DT)
	clock.Register(telemetry.PhaseSampler, sampler)
	clock.Register(telemetry.PhaseWorkerPool, pool)
	clock.Register(telemetry.PhaseReceiver, receiver)

	outDir := *outputDir
	if outDir == "" {
		outDir = cfg.Telemetry.CSVOutputPath
	}
	if !cfg.Telemetry.Enabled {
		outDir = ""
	}

	windowSize := cfg.Telemetry.WindowSize
	if windowSize <= 0 {
		windowSize = 120
	}

	var om *telemetry.OutputManager
	var perf *telemetry.PerfCollector
	var frameStats *telemetry.FrameStatsCollector
	if outDir != "" {
		var err error
		om, err = telemetry.NewOutputManager(outDir)
		if err != nil {
			logger.Error("failed to open telemetry output", "error", err)
			os.Exit(1)
		}
		defer om.Close()
		if err := om.WriteConfig(cfg); err != nil {
			logger.Warn("failed to write effective config", "error", err)
		}
		perf = telemetry.NewPerfCollector(windowSize)
		frameStats = telemetry.NewFrameStatsCollector(pool, receiver)
	}

	if *headless {
		runHeadless(clock, perf, frameStats, om, cfg, windowSize, logger)
		return
	}

	renderer.InitWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, cfg.Window.TargetFPS, cfg.Window.MSAA4x, cfg.Window.VSync)
	defer renderer.CloseWindow()

	rend := renderer.New(swap, cfg.Canvas.WidthMM, cfg.Canvas.HeightMM, logger)
	clock.Register(telemetry.PhaseRenderer, rend)

	tick := 0
	for !renderer.WindowShouldClose() {
		if perf != nil {
			perf.StartTick()
		}
		if err := tickClock(clock, perf); err != nil {
			logger.Error("fatal pipeline error, stopping", "error", err)
			break
		}
		if perf != nil {
			perf.EndTick()
			perf.RecordFrame()
		}
		if frameStats != nil {
			frameStats.Sample()
		}
		tick++

		if om != nil && tick%windowSize == 0 {
			writeTelemetryWindow(om, perf, frameStats, int32(tick), float64(tick)*cfg.Derived.DT, uint64(windowSize), logger)
		}
		if *maxTicks > 0 && tick >= *maxTicks {
			break
		}
	}
}

// newLogger builds the process-wide slog.Logger from cfg.Logging.Level,
// overridden by -log-level if set.
func newLogger(cfg *config.Config) *slog.Logger {
	levelStr := cfg.Logging.Level
	if *logLevel != "" {
		levelStr = *logLevel
	}
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// tickClock drives one FrameClock tick, wiring each registered tickable's
// phase boundary into perf.StartPhase when telemetry is enabled.
func tickClock(clock *engine.FrameClock, perf *telemetry.PerfCollector) error {
	if perf != nil {
		return clock.Tick(perf.StartPhase)
	}
	return clock.Tick()
}

// runHeadless drives the FrameClock for a fixed tick count (or forever, if
// maxTicks is 0) without opening a window, for benchmarking and CI-free
// verification of pipeline behavior.
func runHeadless(clock *engine.FrameClock, perf *telemetry.PerfCollector, frameStats *telemetry.FrameStatsCollector, om *telemetry.OutputManager, cfg *config.Config, windowSize int, logger *slog.Logger) {
	logger.Info("starting headless run", "max_ticks", *maxTicks, "workers", cfg.Pipeline.Workers)

	start := time.Now()
	lastReport := start
	reportInterval := 10 * time.Second

	tick := 0
	for {
		if *maxTicks > 0 && tick >= *maxTicks {
			logger.Info("reached max ticks, stopping", "max_ticks", *maxTicks)
			break
		}

		if perf != nil {
			perf.StartTick()
		}
		if err := tickClock(clock, perf); err != nil {
			logger.Error("fatal pipeline error, stopping", "error", err)
			break
		}
		if perf != nil {
			perf.EndTick()
		}
		if frameStats != nil {
			frameStats.Sample()
		}
		tick++

		if om != nil && tick%windowSize == 0 {
			writeTelemetryWindow(om, perf, frameStats, int32(tick), float64(tick)*cfg.Derived.DT, uint64(windowSize), logger)
		}

		if time.Since(lastReport) >= reportInterval {
			elapsed := time.Since(start)
			ticksPerSec := float64(tick) / elapsed.Seconds()
			logger.Info("progress", "tick", tick, "ticks_per_sec", ticksPerSec, "elapsed", elapsed.Round(time.Second))
			lastReport = time.Now()
		}
	}

	elapsed := time.Since(start)
	logger.Info("headless run complete", "total_ticks", tick, "elapsed", elapsed.Round(time.Millisecond),
		"avg_ticks_per_sec", float64(tick)/elapsed.Seconds())
}

// writeTelemetryWindow reduces the perf and frame-pipeline collectors into
// one window's CSV rows.
func writeTelemetryWindow(om *telemetry.OutputManager, perf *telemetry.PerfCollector, frameStats *telemetry.FrameStatsCollector, windowEnd int32, simTime float64, framesProduced uint64, logger *slog.Logger) {
	if perf != nil {
		stats := perf.Stats()
		stats.LogStats()
		if err := om.WritePerf(stats, windowEnd); err != nil {
			logger.Warn("failed to write perf window", "error", err)
		}
	}
	if frameStats != nil {
		fs := frameStats.Window(windowEnd, simTime, framesProduced)
		fs.LogStats()
		if err := om.WriteFrameStats(fs); err != nil {
			logger.Warn("failed to write frame stats window", "error", err)
		}
	}
}
