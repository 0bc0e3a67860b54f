package integrators

import (
	"fmt"

	"github.com/san-kum/fountain/internal/dynamo"
	"github.com/san-kum/fountain/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

// EulerCromer is the semi-implicit Euler scheme: velocities are advanced
// first and positions use the updated velocity. The stiff springs are only
// stable with this ordering.
type EulerCromer struct{}

func NewEulerCromer() *EulerCromer {
	return &EulerCromer{}
}

func (e *EulerCromer) Name() string { return "euler-cromer" }

func (e *EulerCromer) Step(forces []r2.Vec, s physics.State, mass, dt float64) error {
	if err := checkShape(forces, s); err != nil {
		return err
	}
	inv := 1 / mass
	for i, f := range forces {
		s.Velocities[i] = r2.Add(s.Velocities[i], r2.Scale(inv*dt, f))
		s.Positions[i] = r2.Add(s.Positions[i], r2.Scale(dt, s.Velocities[i]))
	}
	return nil
}

// Euler is the explicit scheme, positions advanced with the old velocity.
// It drifts quickly on a stiff chain and is kept for comparison.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(forces []r2.Vec, s physics.State, mass, dt float64) error {
	if err := checkShape(forces, s); err != nil {
		return err
	}
	inv := 1 / mass
	for i, f := range forces {
		s.Positions[i] = r2.Add(s.Positions[i], r2.Scale(dt, s.Velocities[i]))
		s.Velocities[i] = r2.Add(s.Velocities[i], r2.Scale(inv*dt, f))
	}
	return nil
}

func checkShape(forces []r2.Vec, s physics.State) error {
	if len(forces) != len(s.Positions) || len(forces) != len(s.Velocities) {
		return fmt.Errorf("%w: %d forces, %d positions, %d velocities",
			dynamo.ErrShapeMismatch, len(forces), len(s.Positions), len(s.Velocities))
	}
	return nil
}
