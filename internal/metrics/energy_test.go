package metrics

import (
	"context"
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/fountain/internal/dynamo"
	"github.com/san-kum/fountain/internal/initial"
	"github.com/san-kum/fountain/internal/physics"
	"github.com/san-kum/fountain/internal/sim"
)

func frame(p physics.Params, s physics.State, t float64, hits int) sim.Frame {
	return sim.Frame{Time: t, State: s, Params: p, Collisions: hits}
}

func TestEnergyAverage(t *testing.T) {
	p := physics.MustParams(physics.DefaultPhysical())
	s := initial.Straight(p, r2.Vec{X: 0.1, Y: 1}, r2.Vec{X: 0, Y: 1})

	m := NewEnergy()
	m.Observe(frame(p, s, 0, 0))
	m.Observe(frame(p, s, 1, 0))

	want := physics.Energy(p, s)
	if math.Abs(m.Value()-want) > 1e-9 {
		t.Errorf("got %.6f, expected %.6f", m.Value(), want)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("reset should clear, got %f", m.Value())
	}
}

func TestEnergyDrift(t *testing.T) {
	p := physics.MustParams(physics.DefaultPhysical())
	s := initial.Straight(p, r2.Vec{X: 0.1, Y: 1}, r2.Vec{X: 0, Y: 1})
	e0 := physics.Energy(p, s)

	m := NewEnergyDrift()
	m.Observe(frame(p, s, 0, 0))
	if m.Value() != 0 {
		t.Fatalf("first observation must not drift, got %f", m.Value())
	}

	lower := s.Clone()
	for i := range lower.Positions {
		lower.Positions[i].Y -= 0.5
	}
	m.Observe(frame(p, lower, 1, 0))
	m.Observe(frame(p, s, 2, 0))

	want := math.Abs(physics.Energy(p, lower)-e0) / math.Abs(e0)
	if math.Abs(m.Value()-want) > 1e-12 {
		t.Errorf("got drift %.6f, expected %.6f", m.Value(), want)
	}
	if math.Abs(m.Current()-e0) > 1e-12 {
		t.Errorf("current energy %.6f, expected %.6f", m.Current(), e0)
	}
}

func TestMaxStretchAndStability(t *testing.T) {
	p := physics.MustParams(physics.DefaultPhysical())
	relaxed := initial.Straight(p, r2.Vec{X: 0.1}, r2.Vec{X: 0, Y: 1})
	stretched := relaxed.Clone()
	stretched.Positions[1].Y += 0.1 * p.RestLength()

	ms := NewMaxStretch()
	st := NewStability(0.05)
	for _, s := range []physics.State{relaxed, stretched, relaxed, relaxed} {
		ms.Observe(frame(p, s, 0, 0))
		st.Observe(frame(p, s, 0, 0))
	}

	if math.Abs(ms.Value()-0.1) > 1e-6 {
		t.Errorf("max stretch %.6f, expected 0.1", ms.Value())
	}
	if math.Abs(st.Value()-0.75) > 1e-12 {
		t.Errorf("stability %.3f, expected 0.75", st.Value())
	}
}

func TestFountainHeightAndCollisions(t *testing.T) {
	p := physics.MustParams(physics.DefaultPhysical())
	s := physics.NewState(p.Links())

	h := NewFountainHeight()
	c := NewCollisions()

	s.Positions[3].Y = 0.2
	h.Observe(frame(p, s, 0.1, 4))
	c.Observe(frame(p, s, 0.1, 4))
	s.Positions[7].Y = 0.35
	h.Observe(frame(p, s, 0.2, 0))
	c.Observe(frame(p, s, 0.2, 0))
	s.Positions[7].Y = 0.1
	h.Observe(frame(p, s, 0.3, 2))
	c.Observe(frame(p, s, 0.3, 2))

	if h.Value() != 0.35 || h.PeakTime() != 0.2 {
		t.Errorf("peak %.2f at %.2f, expected 0.35 at 0.2", h.Value(), h.PeakTime())
	}
	if c.Value() != 2 || c.Peak() != 4 {
		t.Errorf("collisions avg %.2f peak %d, expected 2 and 4", c.Value(), c.Peak())
	}
}

func TestDefaultMetricsInRun(t *testing.T) {
	p := physics.MustParams(physics.DefaultPhysical())
	s := sim.New(p, nil)
	for _, m := range Default() {
		s.AddMetric(m)
	}

	cfg := sim.DefaultConfig()
	cfg.Duration = 0.05
	res, err := s.Run(context.Background(), initial.Layout(p, initial.DefaultOptions()), cfg)
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"energy", "energy_drift", "max_stretch", "stability", "fountain_height", "collisions"} {
		v, ok := res.Metrics[name]
		if !ok {
			t.Errorf("missing metric %s", name)
			continue
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("%s is not finite: %f", name, v)
		}
	}
	if res.Metrics["collisions"] <= 0 {
		t.Errorf("a pile on the floor should register contacts")
	}
}

func TestDegenerate(t *testing.T) {
	p := physics.MustParams(physics.DefaultPhysical())
	s := physics.NewState(4)
	s.Positions = []r2.Vec{{X: 0.1, Y: 0}, {X: 0.1, Y: 0}, {X: 0.1, Y: 1}, {X: 0.1, Y: 1}}

	m := NewDegenerate()
	m.Observe(frame(p, initial.Straight(p, r2.Vec{X: 0.1}, r2.Vec{Y: 1}), 0, 0))
	if m.Value() != 0 || m.Err() != nil {
		t.Fatalf("a relaxed chain has no coincident links, got %v (%v)", m.Value(), m.Err())
	}

	f := frame(p, s, 0.5, 0)
	f.Step = 7
	m.Observe(f)
	m.Observe(f)
	if m.Value() != 4 {
		t.Errorf("got %v skipped pairs, expected 4", m.Value())
	}

	var simErr *dynamo.SimulationError
	if !errors.As(m.Err(), &simErr) || !errors.Is(m.Err(), dynamo.ErrDegenerateSegment) {
		t.Fatalf("unexpected error %v", m.Err())
	}
	if simErr.Step != 7 || simErr.Link != 0 {
		t.Errorf("first pair reported at step %d link %d", simErr.Step, simErr.Link)
	}

	m.Reset()
	if m.Value() != 0 || m.Err() != nil {
		t.Error("reset should clear")
	}
}
