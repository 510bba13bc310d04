// Package config provides configuration loading and access for the lighting
// demo and its subsystems.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all tunable parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	World     WorldConfig     `yaml:"world"`
	Lighting  LightingConfig  `yaml:"lighting"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds world dimensions.
// The world can differ from the screen; the demo letterboxes as needed.
type WorldConfig struct {
	Width    int `yaml:"width"`     // World width in pixels (0 = use screen width)
	Height   int `yaml:"height"`    // World height in pixels (0 = use screen height)
	TileSize int `yaml:"tile_size"` // Tile edge length in pixels
}

// LightingConfig holds compositor parameters.
type LightingConfig struct {
	AmbientDarkness float64       `yaml:"ambient_darkness"` // Darkness fill alpha, clamped to [0.2, 1] at draw time
	AmbientLight    float64       `yaml:"ambient_light"`    // Base light level for discovery sampling
	BlockerOpacity  float64       `yaml:"blocker_opacity"`  // How much of ambient a blocker swallows
	EvalsPerSecond  float64       `yaml:"evals_per_second"` // Light layer content refresh rate
	GlowRadius      float64       `yaml:"glow_radius"`      // Self-glow halo radius in pixels
	GlowAlpha       float64       `yaml:"glow_alpha"`       // Self-glow halo opacity
	FalloffMidStop  float64       `yaml:"falloff_mid_stop"` // Radial erase gradient stops as radius fractions
	FalloffFarStop  float64       `yaml:"falloff_far_stop"`
	Flicker         FlickerConfig `yaml:"flicker"` // Fallback for lights without their own flicker
}

// FlickerConfig holds the global flicker fallback parameters.
type FlickerConfig struct {
	Speed  float64 `yaml:"speed"`
	Amount float64 `yaml:"amount"`
}

// DiscoveryConfig holds fog-of-war sampling parameters.
type DiscoveryConfig struct {
	CellSize           int     `yaml:"cell_size"`           // Grid cell edge length in pixels
	DebounceMs         int     `yaml:"debounce_ms"`         // Coalescing window for sampling submissions
	IntensityThreshold float64 `yaml:"intensity_threshold"` // Light level at which a cell counts as seen
	Workers            int     `yaml:"workers"`             // Bounded parallelism inside one sampling pass
}

// TelemetryConfig holds performance instrumentation parameters.
type TelemetryConfig struct {
	PerfWindow     int     `yaml:"perf_window"`      // Sliding window size in frames
	LogIntervalSec float64 `yaml:"log_interval_sec"` // Seconds between stats log lines (0 = never)
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	WorldW, WorldH float64       // Effective world size in pixels
	Cols, Rows     int           // Discovery grid dimensions
	Debounce       time.Duration // DiscoveryConfig.DebounceMs as a duration
	EvalInterval   time.Duration // Time between light layer refreshes
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if
// path is empty. Must be called before Cfg().
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

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

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

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.Screen.TargetFPS <= 0 {
		c.Screen.TargetFPS = 60
	}

	worldW := c.World.Width
	if worldW == 0 {
		worldW = c.Screen.Width
	}
	worldH := c.World.Height
	if worldH == 0 {
		worldH = c.Screen.Height
	}
	c.Derived.WorldW = float64(worldW)
	c.Derived.WorldH = float64(worldH)

	cell := c.Discovery.CellSize
	if cell <= 0 {
		cell = 32
		c.Discovery.CellSize = cell
	}
	c.Derived.Cols = int(math.Ceil(c.Derived.WorldW / float64(cell)))
	c.Derived.Rows = int(math.Ceil(c.Derived.WorldH / float64(cell)))

	if c.Discovery.Workers < 1 {
		c.Discovery.Workers = 1
	}
	c.Derived.Debounce = time.Duration(c.Discovery.DebounceMs) * time.Millisecond

	evals := c.Lighting.EvalsPerSecond
	if evals <= 0 {
		evals = 30
		c.Lighting.EvalsPerSecond = evals
	}
	c.Derived.EvalInterval = time.Duration(float64(time.Second) / evals)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
