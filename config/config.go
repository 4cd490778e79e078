// Package config provides configuration loading and access for the simulation.
package config

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

//go:embed presets/*.yaml
var presetFS embed.FS

// Restitution policy kinds.
const (
	RestitutionFixed      = "fixed"
	RestitutionRandomized = "randomized"
)

// Field kinds and targets.
const (
	FieldVortex = "vortex"
	FieldRadial = "radial"

	TargetWind     = "wind"
	TargetVelocity = "velocity"
)

// Config holds all simulation configuration parameters.
type Config struct {
	Preset      string            `yaml:"preset,omitempty"`
	Screen      ScreenConfig      `yaml:"screen"`
	Physics     PhysicsConfig     `yaml:"physics"`
	Restitution RestitutionConfig `yaml:"restitution"`
	Particle    ParticleConfig    `yaml:"particle"`
	Spawn       SpawnConfig       `yaml:"spawn"`
	Wind        WindConfig        `yaml:"wind"`
	Fields      []FieldConfig     `yaml:"fields"`
	Audio       AudioConfig       `yaml:"audio"`
	Headless    HeadlessConfig    `yaml:"headless"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// Vec2 is a 2D point or vector in world units.
type Vec2 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Color is an 8-bit RGBA colour.
type Color struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
	A uint8 `yaml:"a"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// PhysicsConfig holds the integrator constants.
type PhysicsConfig struct {
	Gravity    float64 `yaml:"gravity"`     // Downward acceleration (units/s^2)
	FadeWindow float64 `yaml:"fade_window"` // Lifespan at which alpha starts dropping
	AlphaScale float64 `yaml:"alpha_scale"` // Alpha at lifespan == fade_window (clamped to 255)
	ShrinkRate float64 `yaml:"shrink_rate"` // Radius lost per second
	DT         float64 `yaml:"dt"`          // Fixed step for headless runs
	MaxDT      float64 `yaml:"max_dt"`      // Wall-clock dt clamp for graphical runs (0 = none)
}

// RestitutionConfig selects and parameterizes the bounce policy.
type RestitutionConfig struct {
	Kind     string  `yaml:"kind"`      // fixed | randomized
	Coeff    float64 `yaml:"coeff"`     // fixed: axis velocity *= -coeff
	Min      int     `yaml:"min"`       // randomized: integer draw lower bound (inclusive)
	Max      int     `yaml:"max"`       // randomized: integer draw upper bound (inclusive)
	Offset   float64 `yaml:"offset"`    // randomized: coefficient = draw + offset
	BothAxes bool    `yaml:"both_axes"` // randomized: scale both components
}

// ParticleConfig holds the state every particle spawns with.
type ParticleConfig struct {
	Lifespan float64 `yaml:"lifespan"`
	Size     float64 `yaml:"size"`
	Color    Color   `yaml:"color"`
}

// SpawnConfig holds spawn policy parameters.
type SpawnConfig struct {
	Burst BurstConfig `yaml:"burst"`
}

// BurstConfig parameterizes randomized key-triggered spawns.
// Position is anchor + U(offset_min, offset_max), velocity is U(velocity_min, velocity_max).
type BurstConfig struct {
	Anchor      Vec2 `yaml:"anchor"`
	OffsetMin   Vec2 `yaml:"offset_min"`
	OffsetMax   Vec2 `yaml:"offset_max"`
	VelocityMin Vec2 `yaml:"velocity_min"`
	VelocityMax Vec2 `yaml:"velocity_max"`
}

// WindConfig holds ambient wind parameters.
type WindConfig struct {
	Step          float64 `yaml:"step"`           // Added per frame per held direction
	Decay         float64 `yaml:"decay"`          // Per-frame multiplier
	GustAmplitude float64 `yaml:"gust_amplitude"` // Perlin gust magnitude (0 = off)
	GustFrequency float64 `yaml:"gust_frequency"` // Gust noise samples per second
	GustSeed      int64   `yaml:"gust_seed"`
}

// FieldConfig describes one named force field emitter.
type FieldConfig struct {
	Name         string  `yaml:"name"`
	Kind         string  `yaml:"kind"`          // vortex | radial
	Center       Vec2    `yaml:"center"`        // Ignored when follow_center is set
	FollowCenter bool    `yaml:"follow_center"` // Track the centre of the bounds
	Strength     float64 `yaml:"strength"`
	Scale        float64 `yaml:"scale"`  // radial: distance divisor
	Target       string  `yaml:"target"` // wind | velocity
	Key          string  `yaml:"key"`    // Hold-to-activate key name
}

// AudioConfig holds audio-reactive mode parameters.
type AudioConfig struct {
	Path       string  `yaml:"path"`
	FakeSample float64 `yaml:"fake_sample"`
	TapSize    int     `yaml:"tap_size"`
	Volume     float64 `yaml:"volume"`
}

// HeadlessConfig scripts input for runs without a window.
type HeadlessConfig struct {
	BurstInterval   float64      `yaml:"burst_interval"`
	PointerInterval float64      `yaml:"pointer_interval"`
	Pointer         Vec2         `yaml:"pointer"`
	Duty            []DutyConfig `yaml:"duty"`
}

// DutyConfig holds a field active for the first `active` seconds of every `period`.
type DutyConfig struct {
	Field  string  `yaml:"field"`
	Period float64 `yaml:"period"`
	Active float64 `yaml:"active"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW    float64        // Screen.Width as float64
	ScreenH    float64        // Screen.Height as float64
	FieldIndex map[string]int // name -> index into Fields
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path and preset, or uses embedded
// defaults if both are empty. Must be called before Cfg().
func Init(path, preset string) error {
	cfg, err := Load(path, preset)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path, preset string) {
	if err := Init(path, preset); err != nil {
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

// Load builds a configuration in three layers: embedded defaults, then the
// named preset (the preset argument wins over a `preset:` key in the file),
// then the user file at path. Lists such as fields are replaced, not merged.
func Load(path, preset string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	var user []byte
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		user = data

		if preset == "" {
			var head struct {
				Preset string `yaml:"preset"`
			}
			if err := yaml.Unmarshal(user, &head); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
			preset = head.Preset
		}
	}

	if preset != "" {
		data, err := PresetYAML(preset)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing preset %q: %w", preset, err)
		}
		cfg.Preset = preset
	}

	if user != nil {
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(user, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
		cfg.Preset = preset
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.computeDerived()

	return cfg, nil
}

// PresetYAML returns the raw YAML of an embedded preset.
func PresetYAML(name string) ([]byte, error) {
	data, err := presetFS.ReadFile(path.Join("presets", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("unknown preset %q: %w", name, err)
	}
	return data, nil
}

// Presets lists the embedded preset names.
func Presets() []string {
	entries, err := presetFS.ReadDir("presets")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name()[:len(e.Name())-len(path.Ext(e.Name()))])
	}
	return names
}

// Validate reports the first parameter that would break the integrator.
func (c *Config) Validate() error {
	var errs []error

	if c.Particle.Lifespan <= 0 {
		errs = append(errs, fmt.Errorf("particle.lifespan must be positive, got %v", c.Particle.Lifespan))
	}
	if c.Particle.Size < 0 {
		errs = append(errs, fmt.Errorf("particle.size must not be negative, got %v", c.Particle.Size))
	}
	if c.Physics.FadeWindow <= 0 {
		errs = append(errs, fmt.Errorf("physics.fade_window must be positive, got %v", c.Physics.FadeWindow))
	}
	if c.Physics.ShrinkRate < 0 {
		errs = append(errs, fmt.Errorf("physics.shrink_rate must not be negative, got %v", c.Physics.ShrinkRate))
	}
	if c.Physics.DT <= 0 {
		errs = append(errs, fmt.Errorf("physics.dt must be positive, got %v", c.Physics.DT))
	}

	switch c.Restitution.Kind {
	case RestitutionFixed:
	case RestitutionRandomized:
		if c.Restitution.Min > c.Restitution.Max {
			errs = append(errs, fmt.Errorf("restitution.min (%d) exceeds restitution.max (%d)", c.Restitution.Min, c.Restitution.Max))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown restitution.kind %q", c.Restitution.Kind))
	}

	seen := make(map[string]bool, len(c.Fields))
	for i, f := range c.Fields {
		if f.Name == "" {
			errs = append(errs, fmt.Errorf("fields[%d]: name is required", i))
		} else if seen[f.Name] {
			errs = append(errs, fmt.Errorf("fields[%d]: duplicate name %q", i, f.Name))
		}
		seen[f.Name] = true

		switch f.Kind {
		case FieldVortex:
		case FieldRadial:
			if f.Scale <= 0 {
				errs = append(errs, fmt.Errorf("fields[%d] (%s): radial scale must be positive, got %v", i, f.Name, f.Scale))
			}
		default:
			errs = append(errs, fmt.Errorf("fields[%d] (%s): unknown kind %q", i, f.Name, f.Kind))
		}

		if f.Target != TargetWind && f.Target != TargetVelocity {
			errs = append(errs, fmt.Errorf("fields[%d] (%s): unknown target %q", i, f.Name, f.Target))
		}
	}

	for i, d := range c.Headless.Duty {
		if !seen[d.Field] {
			errs = append(errs, fmt.Errorf("headless.duty[%d]: unknown field %q", i, d.Field))
		}
	}

	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW = float64(c.Screen.Width)
	c.Derived.ScreenH = float64(c.Screen.Height)

	if c.Audio.TapSize < 1 {
		c.Audio.TapSize = 1024
	}
	if c.Telemetry.PerfCollectorWindow < 1 {
		c.Telemetry.PerfCollectorWindow = 120
	}

	c.Derived.FieldIndex = make(map[string]int, len(c.Fields))
	for i, f := range c.Fields {
		c.Derived.FieldIndex[f.Name] = i
	}
}

// Field returns the named field definition.
func (c *Config) Field(name string) (FieldConfig, bool) {
	i, ok := c.Derived.FieldIndex[name]
	if !ok {
		return FieldConfig{}, false
	}
	return c.Fields[i], true
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
