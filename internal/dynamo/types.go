package dynamo

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Snapshot is an immutable copy of the link positions at a sampled step.
// Time is taken after the step completes, (Step+1)*dt, not Step*dt.
type Snapshot struct {
	Step      int
	Time      float64
	Positions []r2.Vec
}

// Len returns the number of links in the snapshot.
func (s Snapshot) Len() int { return len(s.Positions) }

// Tip returns the position of link 0, the free end hanging over the edge.
func (s Snapshot) Tip() r2.Vec {
	if len(s.Positions) == 0 {
		return r2.Vec{}
	}
	return s.Positions[0]
}

// MaxY returns the highest y coordinate of any link.
func (s Snapshot) MaxY() float64 {
	if len(s.Positions) == 0 {
		return 0
	}
	top := s.Positions[0].Y
	for _, p := range s.Positions[1:] {
		if p.Y > top {
			top = p.Y
		}
	}
	return top
}

// History is the ordered, append-only trajectory of a run.
type History []Snapshot

// Append stores a deep copy of positions.
func (h *History) Append(step int, t float64, positions []r2.Vec) {
	c := make([]r2.Vec, len(positions))
	copy(c, positions)
	*h = append(*h, Snapshot{Step: step, Time: t, Positions: c})
}

// Times returns the sample time of every snapshot.
func (h History) Times() []float64 {
	ts := make([]float64, len(h))
	for i, s := range h {
		ts[i] = s.Time
	}
	return ts
}

// Series maps every snapshot to a scalar.
func (h History) Series(fn func(Snapshot) float64) []float64 {
	out := make([]float64, len(h))
	for i, s := range h {
		out[i] = fn(s)
	}
	return out
}
