package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/fountain/internal/config"
	"github.com/san-kum/fountain/internal/integrators"
	"github.com/san-kum/fountain/internal/metrics"
	"github.com/san-kum/fountain/internal/sim"
)

// Registry resolves the names used on the command line and in config
// files into fresh instances.
type Registry struct {
	metrics map[string]func() sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func() sim.Metric),
	}

	r.metrics["energy"] = func() sim.Metric { return metrics.NewEnergy() }
	r.metrics["energy_drift"] = func() sim.Metric { return metrics.NewEnergyDrift() }
	r.metrics["max_stretch"] = func() sim.Metric { return metrics.NewMaxStretch() }
	r.metrics["stability"] = func() sim.Metric { return metrics.NewStability(0.05) }
	r.metrics["fountain_height"] = func() sim.Metric { return metrics.NewFountainHeight() }
	r.metrics["collisions"] = func() sim.Metric { return metrics.NewCollisions() }
	r.metrics["degenerate_segments"] = func() sim.Metric { return metrics.NewDegenerate() }

	return r
}

func (r *Registry) GetIntegrator(name string) (sim.Integrator, error) {
	return integrators.New(name)
}

func (r *Registry) GetMetric(name string) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(), nil
}

// Metrics builds the named metrics, or the default set when names is
// empty.
func (r *Registry) Metrics(names ...string) ([]sim.Metric, error) {
	if len(names) == 0 {
		return metrics.Default(), nil
	}
	out := make([]sim.Metric, 0, len(names))
	for _, name := range names {
		m, err := r.GetMetric(name)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *Registry) GetPreset(name string) (*config.Config, error) {
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s", name)
	}
	return cfg, nil
}

func (r *Registry) ListIntegrators() []string { return integrators.Names() }

func (r *Registry) ListPresets() []string { return config.ListPresets() }

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
