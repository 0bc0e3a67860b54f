package sim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/fountain/internal/dynamo"
	"github.com/san-kum/fountain/internal/physics"
)

// DefaultSampleStride is how many steps separate two recorded snapshots.
const DefaultSampleStride = 100

// MaxSteps caps Duration / Dt so the step count fits an int on every platform.
const MaxSteps = math.MaxInt32

// Integrator advances a chain in place by one step given the net forces.
type Integrator interface {
	Step(forces []r2.Vec, s physics.State, mass, dt float64) error
}

// Frame is what metrics and observers see after every step. State is the
// live chain and must not be retained or modified.
type Frame struct {
	Step       int
	Time       float64
	State      physics.State
	Params     physics.Params
	Collisions int
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(f Frame)
}

type Config struct {
	Dt            float64
	Duration      float64
	SampleStride  int
	ValidateState bool
}

// DefaultConfig is dt = 1e-4 over 5 s, sampling every 100 steps.
func DefaultConfig() Config {
	return Config{
		Dt:            1e-4,
		Duration:      5.0,
		SampleStride:  DefaultSampleStride,
		ValidateState: true,
	}
}

// Steps is floor(Duration / Dt).
func (c Config) Steps() int {
	return int(c.Duration / c.Dt)
}

func (c Config) Validate() error {
	switch {
	case !(c.Dt > 0) || math.IsInf(c.Dt, 0):
		return dynamo.Bounds("dt", c.Dt, "finite and > 0")
	case !(c.Duration >= 0) || math.IsInf(c.Duration, 0):
		return dynamo.Bounds("duration", c.Duration, "finite and >= 0")
	case c.Duration/c.Dt > MaxSteps:
		return dynamo.Bounds("duration/dt", c.Duration/c.Dt, fmt.Sprintf("<= %d", MaxSteps))
	case c.SampleStride < 1:
		return dynamo.Bounds("sample_stride", float64(c.SampleStride), ">= 1")
	}
	return nil
}

type Result struct {
	History    dynamo.History
	Final      physics.State
	Metrics    map[string]float64
	StepsTaken int
}

func (r *Result) String() string {
	return fmt.Sprintf("%d steps, %d snapshots", r.StepsTaken, len(r.History))
}
