package metrics

import (
	"github.com/san-kum/fountain/internal/dynamo"
	"github.com/san-kum/fountain/internal/physics"
	"github.com/san-kum/fountain/internal/sim"
)

// Degenerate counts spring pairs the force model skipped because both
// links sat on the same point, summed over every step.
type Degenerate struct {
	name  string
	total int
	first error
}

func NewDegenerate() *Degenerate {
	return &Degenerate{name: "degenerate_segments"}
}

func (d *Degenerate) Name() string { return d.name }

func (d *Degenerate) Observe(f sim.Frame) {
	link, n := physics.DegenerateSegments(f.State.Positions)
	if n == 0 {
		return
	}
	d.total += n
	if d.first == nil {
		d.first = &dynamo.SimulationError{Step: f.Step, Time: f.Time, Link: link, Wrapped: dynamo.ErrDegenerateSegment}
	}
}

func (d *Degenerate) Value() float64 { return float64(d.total) }

// Err describes the first skipped pair, or nil if none was seen.
func (d *Degenerate) Err() error { return d.first }

func (d *Degenerate) Reset() {
	d.total = 0
	d.first = nil
}
