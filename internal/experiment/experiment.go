package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/fountain/internal/config"
	"github.com/san-kum/fountain/internal/initial"
	"github.com/san-kum/fountain/internal/integrators"
	"github.com/san-kum/fountain/internal/physics"
	"github.com/san-kum/fountain/internal/sim"
	"github.com/san-kum/fountain/internal/storage"
)

// Experiment is one configured fountain run: parameters, starting layout
// and a simulator with its metrics attached.
type Experiment struct {
	cfg       *config.Config
	preset    string
	params    physics.Params
	x0        physics.State
	simulator *sim.Simulator
}

// New takes ownership of cfg. preset is recorded in the run metadata and
// may be empty.
func New(cfg *config.Config, preset string) *Experiment {
	return &Experiment{cfg: cfg, preset: preset}
}

// Setup validates the configuration and builds the simulator. Metric
// names select from the registry; none selects the default set.
func (e *Experiment) Setup(reg *Registry, metricNames ...string) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	params, err := e.cfg.Params()
	if err != nil {
		return err
	}
	integ, err := reg.GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return err
	}
	ms, err := reg.Metrics(metricNames...)
	if err != nil {
		return err
	}

	e.params = params
	e.x0 = initial.Layout(params, e.cfg.InitOptions())
	e.simulator = sim.New(params, integ)
	for _, m := range ms {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.x0, e.cfg.SimConfig())
}

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *sim.Simulator { return e.simulator }

func (e *Experiment) Params() physics.Params { return e.params }

// InitialState returns a copy of the starting layout.
func (e *Experiment) InitialState() physics.State { return e.x0.Clone() }

func (e *Experiment) Config() *config.Config { return e.cfg }

// Metadata describes a finished run for the store.
func (e *Experiment) Metadata(r *sim.Result) storage.RunMetadata {
	integ := e.cfg.Integrator
	if integ == "" {
		integ = integrators.Default
	}
	return storage.RunMetadata{
		Preset:       e.preset,
		Timestamp:    time.Now(),
		Seed:         e.cfg.Init.Seed,
		Dt:           e.cfg.Dt,
		Duration:     e.cfg.Duration,
		SampleStride: e.cfg.SampleStride,
		Integrator:   integ,
		StepsTaken:   r.StepsTaken,
		Snapshots:    len(r.History),
		Params:       e.params.GetParams(),
		Metrics:      r.Metrics,
	}
}
