// Package config provides configuration loading and access for the runtime.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all runtime configuration parameters.
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Caches    CachesConfig    `yaml:"caches"`
	Frame     FrameConfig     `yaml:"frame"`
	Canvas    CanvasConfig    `yaml:"canvas"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WindowConfig holds window-host settings.
type WindowConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Title     string `yaml:"title"`
	TargetFPS int    `yaml:"target_fps"`
	VSync     bool   `yaml:"vsync"`
	MSAA4x    bool   `yaml:"msaa_4x"`
}

// PipelineConfig holds the worker pool's sizing parameters.
type PipelineConfig struct {
	Workers int `yaml:"workers"` // 0 = runtime.GOMAXPROCS(0)
}

// CachesConfig holds the shape cache's bounded-LRU size.
type CachesConfig struct {
	ShapeCacheCapacity int `yaml:"shape_cache_capacity"`
}

// FrameConfig holds FrameReceiver tuning.
type FrameConfig struct {
	DrainPerTick int `yaml:"drain_per_tick"` // K, default 2
}

// CanvasConfig holds the orthographic projection's millimetre canvas size.
type CanvasConfig struct {
	WidthMM  float64 `yaml:"width_mm"`
	HeightMM float64 `yaml:"height_mm"`
}

// TelemetryConfig holds performance-collector and CSV export parameters.
type TelemetryConfig struct {
	Enabled        bool   `yaml:"enabled"`
	WindowSize     int    `yaml:"window_size"`
	CSVOutputPath  string `yaml:"csv_output_path"`
}

// LoggingConfig holds structured-logging parameters.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT         float64 // 1 / Window.TargetFPS
	DT32       float32 // DT as float32
	CanvasAspect float64
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// WriteYAML marshals c to the given path, for dumping the effective config
// (defaults plus overrides) alongside a run's telemetry output. Derived is
// tagged yaml:"-", so the computed derived values are not written.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// Compute derived values
	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	fps := c.Window.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	c.Derived.DT = 1.0 / float64(fps)
	c.Derived.DT32 = float32(c.Derived.DT)
	if c.Canvas.HeightMM > 0 {
		c.Derived.CanvasAspect = c.Canvas.WidthMM / c.Canvas.HeightMM
	}
}
