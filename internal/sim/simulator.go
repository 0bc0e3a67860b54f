package sim

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/fountain/internal/dynamo"
	"github.com/san-kum/fountain/internal/integrators"
	"github.com/san-kum/fountain/internal/physics"
)

type Simulator struct {
	params      physics.Params
	forces      *physics.ForceModel
	constraints physics.ConstraintResolver
	integrator  Integrator
	metrics     []Metric
	observers   []Observer
}

// New builds a simulator for one parameter set. A nil integrator selects
// Euler-Cromer.
func New(p physics.Params, integrator Integrator) *Simulator {
	if integrator == nil {
		integrator = integrators.NewEulerCromer()
	}
	return &Simulator{
		params:      p,
		forces:      physics.NewForceModel(p),
		constraints: physics.NewConstraintResolver(p),
		integrator:  integrator,
		metrics:     make([]Metric, 0),
		observers:   make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Params() physics.Params { return s.params }

// Run integrates x0 for floor(Duration/Dt) steps. Each step computes every
// force before touching the state, integrates, resolves constraints and,
// on every SampleStride-th step counting from zero, records the positions.
// x0 is not modified. On cancellation or instability the partial result
// is returned along with the error.
func (s *Simulator) Run(ctx context.Context, x0 physics.State, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := s.validateState(x0); err != nil {
		return nil, err
	}

	steps := cfg.Steps()
	result := &Result{
		History: make(dynamo.History, 0, steps/cfg.SampleStride+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	mass := s.params.LinkMass()
	buf := getForces(x.Len())
	defer putForces(buf)

	var err error
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			err = ctx.Err()
		default:
		}
		if err != nil {
			break
		}

		var stepErr error
		if buf.vecs, stepErr = s.forces.Forces(x, buf.vecs); stepErr == nil {
			stepErr = s.integrator.Step(buf.vecs, x, mass, cfg.Dt)
		}
		if stepErr != nil {
			err = &dynamo.SimulationError{Step: i, Time: float64(i) * cfg.Dt, Link: -1, Wrapped: stepErr}
			break
		}
		hits := s.constraints.Resolve(x)

		t := float64(i+1) * cfg.Dt
		if cfg.ValidateState {
			if link := x.FirstNonFinite(); link >= 0 {
				err = &dynamo.SimulationError{Step: i, Time: t, Link: link, Wrapped: dynamo.ErrUnstable}
				break
			}
		}

		frame := Frame{Step: i, Time: t, State: x, Params: s.params, Collisions: hits}
		for _, m := range s.metrics {
			m.Observe(frame)
		}
		for _, obs := range s.observers {
			obs.OnStep(frame)
		}

		if i%cfg.SampleStride == 0 {
			result.History.Append(i, t, x.Positions)
		}
		result.StepsTaken++
	}

	result.Final = x
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, err
}

func (s *Simulator) validateState(x physics.State) error {
	if err := x.Validate(); err != nil {
		return err
	}
	if x.Len() != s.params.Links() {
		return fmt.Errorf("%w: state has %d links, parameters describe %d",
			dynamo.ErrShapeMismatch, x.Len(), s.params.Links())
	}
	if link := x.FirstNonFinite(); link >= 0 {
		return &dynamo.SimulationError{Step: 0, Time: 0, Link: link, Wrapped: dynamo.ErrUnstable}
	}
	return nil
}

// RunSimulation runs a chain from the given positions and velocities with
// the default Euler-Cromer scheme and returns only the sampled history.
func RunSimulation(positions, velocities []r2.Vec, p physics.Params, cfg Config) (dynamo.History, error) {
	x0 := physics.State{Positions: positions, Velocities: velocities}
	result, err := New(p, nil).Run(context.Background(), x0, cfg)
	if err != nil {
		return nil, err
	}
	return result.History, nil
}
