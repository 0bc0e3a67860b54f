package metrics

import (
	"math"

	"github.com/san-kum/fountain/internal/physics"
	"github.com/san-kum/fountain/internal/sim"
)

// MaxStretch tracks the worst relative segment deformation seen in a run.
// A rigid chain keeps this near zero; values approaching 1 mean the springs
// are too soft for the chosen dt and stiffness.
type MaxStretch struct {
	name  string
	worst float64
}

func NewMaxStretch() *MaxStretch {
	return &MaxStretch{name: "max_stretch"}
}

func (m *MaxStretch) Name() string { return m.name }

func (m *MaxStretch) Observe(f sim.Frame) {
	m.worst = math.Max(m.worst, physics.MaxStretch(f.Params, f.State))
}

func (m *MaxStretch) Value() float64 { return m.worst }

func (m *MaxStretch) Reset() { m.worst = 0 }

// Stability is the fraction of steps in which no segment deviated from
// the rest length by more than threshold (relative).
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(f sim.Frame) {
	s.samples++
	if physics.MaxStretch(f.Params, f.State) > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
