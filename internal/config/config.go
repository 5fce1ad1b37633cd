package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/magbasin/internal/dynamo"
	"github.com/san-kum/magbasin/internal/physics"
	"github.com/san-kum/magbasin/internal/sim"
)

const (
	DefaultFriction         = 0.01
	DefaultGravity          = 9.8
	DefaultWidth            = 800
	DefaultHeight           = 800
	DefaultPaddingRatio     = 0.5
	DefaultHeightLimitRatio = 0.5
	DefaultPlaneZ           = 0.1
	DefaultOutput           = "magnetic_fractal.png"
)

type Config struct {
	System     SystemConfig     `yaml:"system"`
	Simulation SimulationConfig `yaml:"simulation"`
	Render     RenderConfig     `yaml:"render"`
}

type Vector struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (v Vector) Vec3() dynamo.Vec3 { return dynamo.V(v.X, v.Y, v.Z) }

type MagnetConfig struct {
	Position  Vector  `yaml:"position"`
	Velocity  Vector  `yaml:"velocity,omitempty"`
	Direction string  `yaml:"direction"`
	Strength  float64 `yaml:"strength"`
}

type PendulumConfig struct {
	SuspensionPoint Vector  `yaml:"suspension_point"`
	Mass            float64 `yaml:"mass"`
	Approximation   string  `yaml:"approximation"`
}

type SystemConfig struct {
	Magnets  []MagnetConfig `yaml:"magnets"`
	Pendulum PendulumConfig `yaml:"pendulum"`
	Friction float64        `yaml:"friction"`
	Gravity  float64        `yaml:"gravity"`
}

type SimulationConfig struct {
	TimeStep      float64 `yaml:"time_step"`
	MaxSteps      int     `yaml:"max_steps"`
	CaptureRadius float64 `yaml:"capture_radius"`
	BasinRadius   float64 `yaml:"basin_radius"`
	CheckInterval int     `yaml:"check_interval"`
	Integrator    string  `yaml:"integrator"`
}

type RenderConfig struct {
	Width            int     `yaml:"width"`
	Height           int     `yaml:"height"`
	PaddingRatio     float64 `yaml:"padding_ratio"`
	HeightLimitRatio float64 `yaml:"height_limit_ratio"`
	PlaneZ           float64 `yaml:"plane_z"`
	Workers          int     `yaml:"workers"`
	Output           string  `yaml:"output"`
}

func DefaultConfig() *Config {
	s := sim.DefaultConfig()
	return &Config{
		System: SystemConfig{
			Pendulum: PendulumConfig{
				SuspensionPoint: Vector{Z: 1},
				Mass:            1,
				Approximation:   physics.SmallAngle.String(),
			},
			Friction: DefaultFriction,
			Gravity:  DefaultGravity,
		},
		Simulation: SimulationConfig{
			TimeStep:      s.TimeStep,
			MaxSteps:      s.MaxSteps,
			CaptureRadius: s.CaptureRadius,
			BasinRadius:   s.BasinRadius,
			CheckInterval: s.CheckInterval,
			Integrator:    "rk4",
		},
		Render: RenderConfig{
			Width:            DefaultWidth,
			Height:           DefaultHeight,
			PaddingRatio:     DefaultPaddingRatio,
			HeightLimitRatio: DefaultHeightLimitRatio,
			PlaneZ:           DefaultPlaneZ,
			Output:           DefaultOutput,
		},
	}
}

// Load reads a YAML (or JSON) file over the defaults and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := applyLegacy(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// legacyFile is the flat layout with magnets and pendulum at the top level
// and the approximation under "approximate".
type legacyFile struct {
	Magnets  []MagnetConfig `yaml:"magnets"`
	Pendulum *struct {
		SuspensionPoint Vector   `yaml:"suspension_point"`
		Mass            *float64 `yaml:"mass"`
		Approximate     string   `yaml:"approximate"`
	} `yaml:"pendulum"`
}

func applyLegacy(data []byte, cfg *Config) error {
	var legacy legacyFile
	if err := yaml.Unmarshal(data, &legacy); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if len(legacy.Magnets) > 0 && len(cfg.System.Magnets) == 0 {
		cfg.System.Magnets = legacy.Magnets
	}
	if p := legacy.Pendulum; p != nil {
		cfg.System.Pendulum.SuspensionPoint = p.SuspensionPoint
		if p.Mass != nil {
			cfg.System.Pendulum.Mass = *p.Mass
		}
		if p.Approximate != "" {
			cfg.System.Pendulum.Approximation = p.Approximate
		}
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	sys, err := c.PhysicalSystem()
	if err != nil {
		return err
	}
	if err := sys.Validate(); err != nil {
		return err
	}
	if err := c.SimConfig().Validate(); err != nil {
		return err
	}
	r := c.Render
	if r.Width <= 0 {
		return dynamo.Invalid("render.width", r.Width)
	}
	if r.Height <= 0 {
		return dynamo.Invalid("render.height", r.Height)
	}
	if r.PaddingRatio < 0 {
		return dynamo.Invalid("render.padding_ratio", r.PaddingRatio)
	}
	if r.HeightLimitRatio < 0 || r.HeightLimitRatio > 1 {
		return dynamo.Invalid("render.height_limit_ratio", r.HeightLimitRatio)
	}
	return nil
}

// PhysicalSystem builds the immutable system the solver runs on. Magnet order
// is preserved; every derived per-magnet slice is indexed the same way.
func (c *Config) PhysicalSystem() (*physics.System, error) {
	approx, err := physics.ParseApproximation(c.System.Pendulum.Approximation)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dynamo.ErrInvalidSystem, err)
	}

	magnets := make([]physics.Magnet, len(c.System.Magnets))
	for i, mc := range c.System.Magnets {
		dir, err := physics.ParseDirection(mc.Direction)
		if err != nil {
			return nil, fmt.Errorf("%w: magnet %d: %v", dynamo.ErrInvalidSystem, i, err)
		}
		magnets[i] = physics.Magnet{
			Position:  mc.Position.Vec3(),
			Velocity:  mc.Velocity.Vec3(),
			Direction: dir,
			Strength:  mc.Strength,
		}
	}

	pendulum := physics.Pendulum{
		Suspension:    c.System.Pendulum.SuspensionPoint.Vec3(),
		Mass:          c.System.Pendulum.Mass,
		Approximation: approx,
	}
	return physics.NewSystem(magnets, pendulum, c.System.Friction, c.System.Gravity), nil
}

func (c *Config) SimConfig() sim.Config {
	s := c.Simulation
	return sim.Config{
		TimeStep:      s.TimeStep,
		MaxSteps:      s.MaxSteps,
		CaptureRadius: s.CaptureRadius,
		BasinRadius:   s.BasinRadius,
		CheckInterval: s.CheckInterval,
	}
}
