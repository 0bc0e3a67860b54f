package automation

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/fountain/internal/config"
	"github.com/san-kum/fountain/internal/experiment"
	"github.com/san-kum/fountain/internal/sim"
	"github.com/san-kum/fountain/internal/storage"
)

// Scenario is a scripted batch of runs, each a preset plus overrides.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

type ScenarioStep struct {
	Preset     string             `yaml:"preset"`
	Integrator string             `yaml:"integrator"`
	Set        map[string]float64 `yaml:"set"`
	SaveAs     string             `yaml:"save_as"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}

	return &scenario, nil
}

// Config resolves a step into a full configuration: the preset (classic
// when empty), then the integrator, then every override.
func (s ScenarioStep) Config(reg *experiment.Registry) (*config.Config, error) {
	name := s.Preset
	if name == "" {
		name = "classic"
	}
	cfg, err := reg.GetPreset(name)
	if err != nil {
		return nil, err
	}
	if s.Integrator != "" {
		cfg.Integrator = s.Integrator
	}
	for k, v := range s.Set {
		if err := cfg.Set(k, v); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// RunScenario executes the steps in order. When st is non-nil every run is
// saved and its ID reported on w; SaveAs, if set, becomes the run ID.
// The first failing step stops the scenario.
func RunScenario(ctx context.Context, scenario *Scenario, reg *experiment.Registry, st *storage.Store, w io.Writer) ([]*sim.Result, error) {
	results := make([]*sim.Result, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		fmt.Fprintf(w, "running step %d/%d: %s\n", i+1, len(scenario.Steps), orClassic(step.Preset))

		cfg, err := step.Config(reg)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp := experiment.New(cfg, step.Preset)
		if err := exp.Setup(reg); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}
		results = append(results, result)

		if st == nil {
			continue
		}
		meta := exp.Metadata(result)
		meta.ID = step.SaveAs
		id, err := st.Save(meta, result.History)
		if err != nil {
			return results, fmt.Errorf("step %d save: %w", i+1, err)
		}
		fmt.Fprintf(w, "  saved %s (%d snapshots)\n", id, len(result.History))
	}

	return results, nil
}

func orClassic(preset string) string {
	if preset == "" {
		return "classic"
	}
	return preset
}
