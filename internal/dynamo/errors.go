package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrDegenerateSegment marks two adjacent links at the same position.
	// The force model absorbs it by skipping the pair; it is never returned
	// from a run.
	ErrDegenerateSegment = errors.New("dynamo: degenerate segment (zero length)")

	// ErrShapeMismatch indicates position/velocity/force slices of
	// inconsistent length, or a chain with no links.
	ErrShapeMismatch = errors.New("dynamo: shape mismatch between positions and velocities")

	// ErrUnstable indicates the simulation became numerically unstable.
	ErrUnstable = errors.New("dynamo: simulation unstable (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	Link    int
	Wrapped error
}

func (e *SimulationError) Error() string {
	if e.Link >= 0 {
		return fmt.Sprintf("step %d (t=%.4f) link %d: %v", e.Step, e.Time, e.Link, e.Wrapped)
	}
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

// Bounds wraps ErrParameterBounds with the offending parameter.
func Bounds(name string, value float64, want string) error {
	return fmt.Errorf("%w: %s = %g, want %s", ErrParameterBounds, name, value, want)
}
