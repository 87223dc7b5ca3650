// Package config provides configuration loading and access for the
// simulator binaries.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Simulation SimulationConfig `yaml:"simulation"`
	Boundary   *BoundaryConfig  `yaml:"boundary"`
	Materials  []MaterialConfig `yaml:"materials"`
	Scene      SceneConfig      `yaml:"scene"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds viewer display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// SimulationConfig holds the tick pipeline parameters.
type SimulationConfig struct {
	DT         float64 `yaml:"dt"`         // seconds per tick
	Iterations int     `yaml:"iterations"` // substeps per tick
	GravityX   float64 `yaml:"gravity_x"`  // velocity delta per tick
	GravityY   float64 `yaml:"gravity_y"`
}

// BoundaryConfig holds the optional world boundary. A nil section leaves
// the world unbounded.
type BoundaryConfig struct {
	MinX float64 `yaml:"min_x"`
	MinY float64 `yaml:"min_y"`
	MaxX float64 `yaml:"max_x"`
	MaxY float64 `yaml:"max_y"`
}

// MaterialConfig declares an extra material to register on startup, after
// the builtin set is seeded.
type MaterialConfig struct {
	Name            string  `yaml:"name"`
	Density         float64 `yaml:"density"`
	Restitution     float64 `yaml:"restitution"`
	StaticFriction  float64 `yaml:"static_friction"`
	DynamicFriction float64 `yaml:"dynamic_friction"`
	FrictionCombine string  `yaml:"friction_combine"` // average, minimum, maximum, multiply
	LinearDrag      float64 `yaml:"linear_drag"`
	AngularDrag     float64 `yaml:"angular_drag"`
}

// SceneConfig holds the generated demo scene parameters.
type SceneConfig struct {
	Type     string  `yaml:"type"`   // stack, rain, container, mixed
	Bodies   int     `yaml:"bodies"` // dynamic body count
	Material string  `yaml:"material"`
	Spread   float64 `yaml:"spread"` // horizontal spawn range
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // seconds per stats window
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	TicksPerWindow int // Telemetry.StatsWindow / Simulation.DT, at least 1
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults
// if path is empty. Must be called before Cfg().
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

// Load loads configuration from a YAML file, merging with embedded
// defaults. If path is empty, only embedded defaults are used.
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
		// Unmarshal into the same struct - only overwrites fields present
		// in the file.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.Simulation.DT <= 0 {
		c.Simulation.DT = 1.0 / 60.0
	}
	ticks := int(c.Telemetry.StatsWindow / c.Simulation.DT)
	if ticks < 1 {
		ticks = 1
	}
	c.Derived.TicksPerWindow = ticks
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
