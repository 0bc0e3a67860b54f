package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/fountain/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// State is the mutable state of a chain. Index is link identity and index
// adjacency is chain adjacency.
type State struct {
	Positions  []r2.Vec
	Velocities []r2.Vec
}

// NewState returns a chain of n links at the origin, at rest.
func NewState(n int) State {
	return State{
		Positions:  make([]r2.Vec, n),
		Velocities: make([]r2.Vec, n),
	}
}

func (s State) Len() int { return len(s.Positions) }

// Validate rejects empty chains and mismatched slices.
func (s State) Validate() error {
	if len(s.Positions) == 0 {
		return fmt.Errorf("%w: chain has no links", dynamo.ErrShapeMismatch)
	}
	if len(s.Positions) != len(s.Velocities) {
		return fmt.Errorf("%w: %d positions, %d velocities",
			dynamo.ErrShapeMismatch, len(s.Positions), len(s.Velocities))
	}
	return nil
}

func (s State) Clone() State {
	c := State{
		Positions:  make([]r2.Vec, len(s.Positions)),
		Velocities: make([]r2.Vec, len(s.Velocities)),
	}
	copy(c.Positions, s.Positions)
	copy(c.Velocities, s.Velocities)
	return c
}

// FirstNonFinite returns the first link with a NaN or Inf component, or -1.
func (s State) FirstNonFinite() int {
	for i := range s.Positions {
		if !finiteVec(s.Positions[i]) {
			return i
		}
	}
	for i := range s.Velocities {
		if !finiteVec(s.Velocities[i]) {
			return i
		}
	}
	return -1
}

func (s State) IsValid() bool { return s.FirstNonFinite() < 0 }

func finiteVec(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}
