package metrics

import (
	"math"

	"github.com/san-kum/fountain/internal/sim"
)

// FountainHeight is the highest point any link reached above the floor.
type FountainHeight struct {
	name string
	peak float64
	at   float64
}

func NewFountainHeight() *FountainHeight {
	return &FountainHeight{name: "fountain_height"}
}

func (h *FountainHeight) Name() string { return h.name }

func (h *FountainHeight) Observe(f sim.Frame) {
	for _, x := range f.State.Positions {
		if x.Y > h.peak {
			h.peak = x.Y
			h.at = f.Time
		}
	}
}

func (h *FountainHeight) Value() float64 { return h.peak }

// PeakTime is the simulated time at which the peak was reached.
func (h *FountainHeight) PeakTime() float64 { return h.at }

func (h *FountainHeight) Reset() {
	h.peak = 0
	h.at = 0
}

// Collisions averages floor and wall contacts per step.
type Collisions struct {
	name    string
	sum     int
	peak    int
	samples int
}

func NewCollisions() *Collisions {
	return &Collisions{name: "collisions"}
}

func (c *Collisions) Name() string {
	return c.name
}

func (c *Collisions) Observe(f sim.Frame) {
	c.sum += f.Collisions
	c.peak = int(math.Max(float64(c.peak), float64(f.Collisions)))
	c.samples++
}

func (c *Collisions) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.sum) / float64(c.samples)
}

// Peak is the largest number of contacts resolved in one step.
func (c *Collisions) Peak() int { return c.peak }

func (c *Collisions) Reset() {
	c.sum = 0
	c.peak = 0
	c.samples = 0
}

// Default returns the metric set attached to every run.
func Default() []sim.Metric {
	return []sim.Metric{
		NewEnergy(),
		NewEnergyDrift(),
		NewMaxStretch(),
		NewStability(0.05),
		NewFountainHeight(),
		NewCollisions(),
	}
}
