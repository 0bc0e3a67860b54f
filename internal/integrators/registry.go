package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/fountain/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

// Default is the scheme used when none is named.
const Default = "euler-cromer"

// Stepper is satisfied by every integrator in this package.
type Stepper interface {
	Name() string
	Step(forces []r2.Vec, s physics.State, mass, dt float64) error
}

var constructors = map[string]func() Stepper{
	"euler-cromer": func() Stepper { return NewEulerCromer() },
	"euler":        func() Stepper { return NewEuler() },
}

// New returns a fresh integrator by name. The empty name selects Default.
func New(name string) (Stepper, error) {
	if name == "" {
		name = Default
	}
	fn, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
