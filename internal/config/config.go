package config

import (
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/fountain/internal/dynamo"
	"github.com/san-kum/fountain/internal/initial"
	"github.com/san-kum/fountain/internal/integrators"
	"github.com/san-kum/fountain/internal/physics"
	"github.com/san-kum/fountain/internal/sim"
)

const (
	DefaultDt       = 1e-4
	DefaultDuration = 5.0
	DefaultSeed     = 1
)

type Config struct {
	Integrator     string          `yaml:"integrator"`
	Dt             float64         `yaml:"dt"`
	Duration       float64         `yaml:"duration"`
	SampleStride   int             `yaml:"sample_stride"`
	Gravity        GravityConfig   `yaml:"gravity"`
	Links          int             `yaml:"links"`
	TotalMass      float64         `yaml:"total_mass"`
	TotalLength    float64         `yaml:"total_length"`
	Stiffness      float64         `yaml:"stiffness"`
	Damping        float64         `yaml:"damping"`
	PileMultiplier float64         `yaml:"pile_multiplier"`
	Container      ContainerConfig `yaml:"container"`
	Init           InitConfig      `yaml:"init"`
}

type GravityConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type ContainerConfig struct {
	XMin float64 `yaml:"x_min"`
	XMax float64 `yaml:"x_max"`
}

type InitConfig struct {
	Hanging int     `yaml:"hanging"`
	PileX   float64 `yaml:"pile_x"`
	Jitter  float64 `yaml:"jitter"`
	Seed    uint64  `yaml:"seed"`
}

func DefaultConfig() *Config {
	return &Config{
		Integrator:     integrators.Default,
		Dt:             DefaultDt,
		Duration:       DefaultDuration,
		SampleStride:   sim.DefaultSampleStride,
		Gravity:        GravityConfig{X: 0, Y: physics.DefaultGravityY},
		Links:          physics.DefaultLinks,
		TotalMass:      physics.DefaultTotalMass,
		TotalLength:    physics.DefaultTotalLength,
		Stiffness:      physics.DefaultStiffness,
		Damping:        physics.DefaultDamping,
		PileMultiplier: physics.DefaultPileMultiplier,
		Container:      ContainerConfig{XMin: physics.DefaultXMin, XMax: physics.DefaultXMax},
		Init: InitConfig{
			Hanging: initial.DefaultHanging,
			PileX:   initial.DefaultPileX,
			Jitter:  initial.DefaultJitter,
			Seed:    DefaultSeed,
		},
	}
}

// Load reads a YAML file over the defaults, so a file only needs the
// fields it changes.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks every section and names the first bad field.
func (c *Config) Validate() error {
	if _, err := physics.NewParams(c.Physical()); err != nil {
		return err
	}
	if err := c.SimConfig().Validate(); err != nil {
		return err
	}
	if err := c.InitOptions().Validate(); err != nil {
		return err
	}
	if _, err := integrators.New(c.Integrator); err != nil {
		return fmt.Errorf("%w: %v", dynamo.ErrParameterBounds, err)
	}
	return nil
}

func (c *Config) Physical() physics.Physical {
	return physics.Physical{
		Gravity:        r2.Vec{X: c.Gravity.X, Y: c.Gravity.Y},
		Links:          c.Links,
		TotalMass:      c.TotalMass,
		TotalLength:    c.TotalLength,
		Stiffness:      c.Stiffness,
		Damping:        c.Damping,
		PileMultiplier: c.PileMultiplier,
		XMin:           c.Container.XMin,
		XMax:           c.Container.XMax,
	}
}

// Params resolves the physical section into derived parameters.
func (c *Config) Params() (physics.Params, error) {
	return physics.NewParams(c.Physical())
}

func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Dt:            c.Dt,
		Duration:      c.Duration,
		SampleStride:  c.SampleStride,
		ValidateState: true,
	}
}

func (c *Config) InitOptions() initial.Options {
	return initial.Options{
		Hanging: c.Init.Hanging,
		PileX:   c.Init.PileX,
		Jitter:  c.Init.Jitter,
		Seed:    c.Init.Seed,
	}
}

// Clone returns an independent copy; Config holds no reference types.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Set assigns one numeric field by its yaml name. Nested sections use the
// inner name alone: x_min, hanging, seed and so on.
func (c *Config) Set(name string, value float64) error {
	switch name {
	case "dt":
		c.Dt = value
	case "duration":
		c.Duration = value
	case "sample_stride":
		c.SampleStride = int(value)
	case "links":
		c.Links = int(value)
	case "total_mass":
		c.TotalMass = value
	case "total_length":
		c.TotalLength = value
	case "stiffness":
		c.Stiffness = value
	case "damping":
		c.Damping = value
	case "pile_multiplier":
		c.PileMultiplier = value
	case "gravity_x":
		c.Gravity.X = value
	case "gravity_y":
		c.Gravity.Y = value
	case "x_min":
		c.Container.XMin = value
	case "x_max":
		c.Container.XMax = value
	case "hanging":
		c.Init.Hanging = int(value)
	case "pile_x":
		c.Init.PileX = value
	case "jitter":
		c.Init.Jitter = value
	case "seed":
		if value < 0 {
			return dynamo.Bounds("seed", value, ">= 0")
		}
		c.Init.Seed = uint64(value)
	default:
		return fmt.Errorf("unknown config field: %s", name)
	}
	return nil
}
