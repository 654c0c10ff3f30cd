// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/mire/params"
	"github.com/pthm-cable/mire/rule"
	"github.com/pthm-cable/mire/sim"
	"github.com/pthm-cable/mire/vec"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	World     WorldConfig     `yaml:"world"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Rule      RuleConfig      `yaml:"rule"`
	Render    RenderConfig    `yaml:"render"`
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

// WorldConfig holds world scaling and agent lifecycle settings. Size is
// the single knob driving both population (600000 per unit) and canvas
// resolution (1024 * sqrt(size)); Population overrides the derived
// count when nonzero.
type WorldConfig struct {
	Size       float64 `yaml:"size"`
	Population int     `yaml:"population"`
	Boundary   string  `yaml:"boundary"`  // bounce, reset, wrap
	Placement  string  `yaml:"placement"` // grid, random, ring
}

// PhysicsConfig holds the per-tick physics parameters. Every Setting
// carries its slider range and optional sweep axes alongside the value,
// so a saved file round-trips the full UI state.
type PhysicsConfig struct {
	SensorGain     params.Setting `yaml:"sensor_gain"`
	SensorAngle    params.Setting `yaml:"sensor_angle"`
	SensorDistance params.Setting `yaml:"sensor_distance"`
	MutationScale  params.Setting `yaml:"mutation_scale"`
	Drag           params.Setting `yaml:"drag"`
	StrafePower    params.Setting `yaml:"strafe_power"`
	AxialForce     params.Setting `yaml:"axial_force"`
	LateralForce   params.Setting `yaml:"lateral_force"`
	GlobalForce    params.Setting `yaml:"global_force"`
	HazardRate     params.Setting `yaml:"hazard_rate"`

	TrailPersistence params.Setting `yaml:"trail_persistence"`
	TrailDiffusion   params.Setting `yaml:"trail_diffusion"`

	DisableSymmetry     bool    `yaml:"disable_symmetry"`
	AbsoluteOrientation string  `yaml:"absolute_orientation"` // off, y_axis, radial
	OrientationMix      float64 `yaml:"orientation_mix"`
}

// RuleConfig holds the behavior rule. An empty Centers list means the
// rule is generated from Seed at runtime.
type RuleConfig struct {
	Seed    float64        `yaml:"seed"`
	Cohorts int            `yaml:"cohorts"`
	Centers []CenterConfig `yaml:"centers"`
}

// CenterConfig is one Fourier center as four frequency and four
// amplitude components.
type CenterConfig struct {
	Freq [4]float32 `yaml:"freq"`
	Amp  [4]float32 `yaml:"amp"`
}

// RenderConfig holds display tuning for the canvas view.
type RenderConfig struct {
	Exposure   float64 `yaml:"exposure"`    // Brightness multiplier for the field texture
	PointSize  float64 `yaml:"point_size"`  // Agent dot radius in pixels
	ShowAgents bool    `yaml:"show_agents"` // Overlay agent points on the canvas
	ShowBrush  bool    `yaml:"show_brush"`  // Show the staging buffer instead of the canvas
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	OutputDir           string  `yaml:"output_dir"`
	FlushInterval       int     `yaml:"flush_interval"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Population int     // Effective population after the override
	CanvasDim  int     // Canvas resolution in texels
	ScreenW32  float32 // Screen.Width as float32
	ScreenH32  float32 // Screen.Height as float32
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

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Save writes the configuration back out as YAML, preserving any live
// edits made through the UI.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// validate rejects values the core has no sensible interpretation for.
// The physics settings themselves are deliberately unvalidated: a wild
// slider value degrades the picture, never the process.
func (c *Config) validate() error {
	if c.World.Size <= 0 {
		return fmt.Errorf("config: world.size must be positive, got %g", c.World.Size)
	}
	if c.World.Population < 0 {
		return fmt.Errorf("config: world.population must be non-negative, got %d", c.World.Population)
	}
	if _, err := parseBoundary(c.World.Boundary); err != nil {
		return err
	}
	if _, err := parsePlacement(c.World.Placement); err != nil {
		return err
	}
	if _, err := parseOrientation(c.Physics.AbsoluteOrientation); err != nil {
		return err
	}
	if len(c.Rule.Centers) != 0 && len(c.Rule.Centers) != rule.NumCenters {
		return fmt.Errorf("config: rule.centers must have %d entries or be absent, got %d",
			rule.NumCenters, len(c.Rule.Centers))
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	pop := c.World.Population
	if pop == 0 {
		pop = int(sim.EntitiesPerUnit * c.World.Size)
	}
	c.Derived.Population = pop
	c.Derived.CanvasDim = int(sim.CanvasBaseDim * math.Sqrt(c.World.Size))
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
}

// Settings converts the loaded configuration into a core settings
// snapshot. Call again after editing to produce a fresh snapshot; the
// core never sees the Config itself.
func (c *Config) Settings() (*sim.Settings, error) {
	boundary, err := parseBoundary(c.World.Boundary)
	if err != nil {
		return nil, err
	}
	placement, err := parsePlacement(c.World.Placement)
	if err != nil {
		return nil, err
	}
	orientation, err := parseOrientation(c.Physics.AbsoluteOrientation)
	if err != nil {
		return nil, err
	}

	st := &sim.Settings{
		RuleSeed: float32(c.Rule.Seed),
		Cohorts:  c.Rule.Cohorts,

		SensorGain:     c.Physics.SensorGain,
		SensorAngle:    c.Physics.SensorAngle,
		SensorDistance: c.Physics.SensorDistance,
		MutationScale:  c.Physics.MutationScale,
		Drag:           c.Physics.Drag,
		StrafePower:    c.Physics.StrafePower,
		AxialForce:     c.Physics.AxialForce,
		LateralForce:   c.Physics.LateralForce,
		GlobalForce:    c.Physics.GlobalForce,
		HazardRate:     c.Physics.HazardRate,

		TrailPersistence: c.Physics.TrailPersistence,
		TrailDiffusion:   c.Physics.TrailDiffusion,

		Boundary:  boundary,
		Placement: placement,

		DisableSymmetry:     c.Physics.DisableSymmetry,
		AbsoluteOrientation: orientation,
		OrientationMix:      float32(c.Physics.OrientationMix),
	}

	for i, center := range c.Rule.Centers {
		st.Rule[i] = rule.Center{
			Freq: vec.Vec4{X: center.Freq[0], Y: center.Freq[1], Z: center.Freq[2], W: center.Freq[3]},
			Amp:  vec.Vec4{X: center.Amp[0], Y: center.Amp[1], Z: center.Amp[2], W: center.Amp[3]},
		}
	}
	return st, nil
}

// SetRule writes an explicit rule back into the config so a Save
// captures the generated centers, not just the seed.
func (c *Config) SetRule(r rule.Rule) {
	c.Rule.Centers = make([]CenterConfig, rule.NumCenters)
	for i, center := range r {
		c.Rule.Centers[i] = CenterConfig{
			Freq: [4]float32{center.Freq.X, center.Freq.Y, center.Freq.Z, center.Freq.W},
			Amp:  [4]float32{center.Amp.X, center.Amp.Y, center.Amp.Z, center.Amp.W},
		}
	}
}

func parseBoundary(s string) (sim.BoundaryMode, error) {
	switch s {
	case "", "bounce":
		return sim.BoundaryBounce, nil
	case "reset":
		return sim.BoundaryReset, nil
	case "wrap":
		return sim.BoundaryWrap, nil
	}
	return 0, fmt.Errorf("config: unknown boundary mode %q", s)
}

func parsePlacement(s string) (sim.PlacementMode, error) {
	switch s {
	case "", "grid":
		return sim.PlacementGrid, nil
	case "random":
		return sim.PlacementRandom, nil
	case "ring":
		return sim.PlacementRing, nil
	}
	return 0, fmt.Errorf("config: unknown placement mode %q", s)
}

func parseOrientation(s string) (sim.OrientationMode, error) {
	switch s {
	case "", "off":
		return sim.OrientationOff, nil
	case "y_axis":
		return sim.OrientationYAxis, nil
	case "radial":
		return sim.OrientationRadial, nil
	}
	return 0, fmt.Errorf("config: unknown absolute orientation %q", s)
}
