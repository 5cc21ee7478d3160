// Package config provides configuration loading and access for the trace engine.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all engine configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Engine    EngineConfig    `yaml:"engine"`
	Hexagon   ModeConfig      `yaml:"hexagon"`
	Chip      ModeConfig      `yaml:"chip"`
	Palette   PaletteConfig   `yaml:"palette"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Director  DirectorConfig  `yaml:"director"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// EngineConfig holds frame driver settings.
type EngineConfig struct {
	InitialShape string `yaml:"initial_shape"` // "hexagon" or "chip"
	StartPaused  bool   `yaml:"start_paused"`
}

// ModeConfig is the fixed parameter set of one visual mode.
// Lengths are in pixels, durations in ticks, chances are per-event probabilities.
type ModeConfig struct {
	UnitLength           float64 `yaml:"unit_length"`            // px per grid unit
	PopulationCap        int     `yaml:"population_cap"`         // max live traces
	PhaseBaseDuration    float64 `yaml:"phase_base_duration"`    // ticks
	PhaseAddedDuration   float64 `yaml:"phase_added_duration"`   // ticks, scaled by U[0,1)
	DeathChance          float64 `yaml:"death_chance"`           // per phase
	SpawnChance          float64 `yaml:"spawn_chance"`           // per frame while under cap
	SparkChance          float64 `yaml:"spark_chance"`           // per step
	SparkDistance        float64 `yaml:"spark_distance"`         // px jitter per axis
	SparkSize            float64 `yaml:"spark_size"`             // px
	ShadowBlurMultiplier float64 `yaml:"shadow_blur_multiplier"` // blur at full phase progress
	TrailFadeAlpha       float64 `yaml:"trail_fade_alpha"`       // alpha of the per-frame black wash

	// Chip only
	BoundarySize float64 `yaml:"boundary_size,omitempty"` // px side of the chip square
	MinSegments  int     `yaml:"min_segments,omitempty"`
	MaxSegments  int     `yaml:"max_segments,omitempty"`
}

// PaletteConfig holds hex color strings.
type PaletteConfig struct {
	Traces       []string `yaml:"traces"`
	ChipOutline  string   `yaml:"chip_outline"`
	ChipMarker   string   `yaml:"chip_marker"`
	OutlineWidth float64  `yaml:"outline_width"`
	MarkerWidth  float64  `yaml:"marker_width"`
	MarkerSize   float64  `yaml:"marker_size"`
	ClearColor   string   `yaml:"clear_color"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow   int `yaml:"stats_window"`   // ticks per stats window
	SnapshotEvery int `yaml:"snapshot_every"` // ticks between PNG snapshots (0 = off)
}

// DirectorConfig holds the scripted stand-in for the page's visibility observers.
type DirectorConfig struct {
	Enabled    bool            `yaml:"enabled"`
	LoopFrames int             `yaml:"loop_frames"` // repeat period in frames (0 = play once)
	Events     []DirectorEvent `yaml:"events"`
}

// DirectorEvent is one scripted control call, keyed on the display frame count.
type DirectorEvent struct {
	Frame  int    `yaml:"frame"`
	Action string `yaml:"action"` // shape, pause, resume, reset
	Shape  string `yaml:"shape,omitempty"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	TraceColors  []color.RGBA
	OutlineColor color.RGBA
	MarkerColor  color.RGBA
	ClearColor   color.RGBA
}

// Shape names accepted by Mode and the engine's ChangeShape.
const (
	ShapeHexagon = "hexagon"
	ShapeChip    = "chip"
)

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

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
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

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Mode returns the parameter set for a shape name, or nil for an unknown name.
func (c *Config) Mode(shape string) *ModeConfig {
	switch shape {
	case ShapeHexagon:
		return &c.Hexagon
	case ShapeChip:
		return &c.Chip
	}
	return nil
}

// Validate checks ranges that the engine relies on.
func (c *Config) Validate() error {
	var errs []error
	if c.Mode(c.Engine.InitialShape) == nil {
		errs = append(errs, fmt.Errorf("engine.initial_shape: unknown shape %q", c.Engine.InitialShape))
	}
	if err := c.Hexagon.validate(false); err != nil {
		errs = append(errs, fmt.Errorf("hexagon: %w", err))
	}
	if err := c.Chip.validate(true); err != nil {
		errs = append(errs, fmt.Errorf("chip: %w", err))
	}
	if len(c.Palette.Traces) == 0 {
		errs = append(errs, errors.New("palette.traces: at least one color required"))
	}
	if c.Telemetry.StatsWindow < 0 || c.Telemetry.SnapshotEvery < 0 {
		errs = append(errs, errors.New("telemetry: intervals must not be negative"))
	}
	for i, ev := range c.Director.Events {
		switch ev.Action {
		case "pause", "resume", "reset":
		case "shape":
			if c.Mode(ev.Shape) == nil {
				errs = append(errs, fmt.Errorf("director.events[%d]: unknown shape %q", i, ev.Shape))
			}
		default:
			errs = append(errs, fmt.Errorf("director.events[%d]: unknown action %q", i, ev.Action))
		}
	}
	return errors.Join(errs...)
}

func (m *ModeConfig) validate(chip bool) error {
	switch {
	case m.UnitLength <= 0:
		return errors.New("unit_length must be positive")
	case m.PopulationCap < 0:
		return errors.New("population_cap must not be negative")
	case m.PhaseBaseDuration <= 0:
		return errors.New("phase_base_duration must be positive")
	case m.PhaseAddedDuration < 0:
		return errors.New("phase_added_duration must not be negative")
	case !unit(m.DeathChance), !unit(m.SpawnChance), !unit(m.SparkChance):
		return errors.New("chances must be within [0, 1]")
	case !unit(m.TrailFadeAlpha):
		return errors.New("trail_fade_alpha must be within [0, 1]")
	}
	if !chip {
		return nil
	}
	switch {
	case m.BoundarySize <= 0:
		return errors.New("boundary_size must be positive")
	case m.MinSegments < 2 || m.MaxSegments < m.MinSegments:
		// The first phase of a life already completes one segment.
		return fmt.Errorf("segment range [%d, %d] invalid, need 2 <= min <= max", m.MinSegments, m.MaxSegments)
	}
	return nil
}

func unit(v float64) bool { return v >= 0 && v <= 1 }

// computeDerived parses palette strings into colors.
func (c *Config) computeDerived() error {
	c.Derived.TraceColors = c.Derived.TraceColors[:0]
	for _, s := range c.Palette.Traces {
		col, err := ParseHexColor(s)
		if err != nil {
			return fmt.Errorf("palette.traces: %w", err)
		}
		c.Derived.TraceColors = append(c.Derived.TraceColors, col)
	}

	var err error
	if c.Derived.OutlineColor, err = ParseHexColor(c.Palette.ChipOutline); err != nil {
		return fmt.Errorf("palette.chip_outline: %w", err)
	}
	if c.Derived.MarkerColor, err = ParseHexColor(c.Palette.ChipMarker); err != nil {
		return fmt.Errorf("palette.chip_marker: %w", err)
	}
	if c.Derived.ClearColor, err = ParseHexColor(c.Palette.ClearColor); err != nil {
		return fmt.Errorf("palette.clear_color: %w", err)
	}
	return nil
}

// ParseHexColor parses "#rrggbb" or "#rgb" into an opaque color.
func ParseHexColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
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
