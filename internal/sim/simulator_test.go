package sim

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/fountain/internal/dynamo"
	"github.com/san-kum/fountain/internal/initial"
	"github.com/san-kum/fountain/internal/integrators"
	"github.com/san-kum/fountain/internal/physics"
)

type countingMetric struct{ n int }

func (c *countingMetric) Name() string   { return "count" }
func (c *countingMetric) Observe(Frame)  { c.n++ }
func (c *countingMetric) Value() float64 { return float64(c.n) }
func (c *countingMetric) Reset()         { c.n = 0 }

// poisonIntegrator behaves like Euler-Cromer until step `at`, then
// writes a NaN into the chain.
type poisonIntegrator struct {
	at, calls int
}

func (p *poisonIntegrator) Step(forces []r2.Vec, s physics.State, mass, dt float64) error {
	if err := integrators.NewEulerCromer().Step(forces, s, mass, dt); err != nil {
		return err
	}
	if p.calls == p.at {
		s.Velocities[1].X = math.NaN()
	}
	p.calls++
	return nil
}

func chainParams(n int) physics.Params {
	ph := physics.DefaultPhysical()
	ph.Links = n
	return physics.MustParams(ph)
}

func shortConfig(duration float64) Config {
	cfg := DefaultConfig()
	cfg.Duration = duration
	return cfg
}

var _ = Describe("Simulator", func() {
	var (
		p  physics.Params
		x0 physics.State
	)

	BeforeEach(func() {
		p = physics.MustParams(physics.DefaultPhysical())
		x0 = initial.Layout(p, initial.DefaultOptions())
	})

	Describe("sampling", func() {
		It("records every stride-th step starting at step zero", func() {
			cfg := shortConfig(0.025) // 250 steps
			res, err := New(p, nil).Run(context.Background(), x0, cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(res.StepsTaken).To(Equal(250))
			Expect(res.History).To(HaveLen(3))
			for i, snap := range res.History {
				Expect(snap.Step).To(Equal(i * 100))
				Expect(snap.Time).To(BeNumerically("~", float64(snap.Step+1)*cfg.Dt, 1e-15))
				Expect(snap.Positions).To(HaveLen(p.Links()))
			}
		})

		It("returns an empty history without error when no step fits", func() {
			for _, d := range []float64{0, 0.5e-4} {
				res, err := New(p, nil).Run(context.Background(), x0, shortConfig(d))
				Expect(err).NotTo(HaveOccurred())
				Expect(res.History).To(BeEmpty())
				Expect(res.StepsTaken).To(BeZero())
			}
		})

		It("stores independent copies", func() {
			res, err := New(p, nil).Run(context.Background(), x0, shortConfig(0.03))
			Expect(err).NotTo(HaveOccurred())

			before := res.History[1].Positions[3]
			res.History[0].Positions[3] = r2.Vec{X: 42, Y: 42}
			res.Final.Positions[3] = r2.Vec{X: 7, Y: 7}
			Expect(res.History[1].Positions[3]).To(Equal(before))
		})
	})

	It("leaves the initial state untouched", func() {
		snapshot := x0.Clone()
		_, err := New(p, nil).Run(context.Background(), x0, shortConfig(0.01))
		Expect(err).NotTo(HaveOccurred())
		Expect(x0).To(Equal(snapshot))
	})

	It("is deterministic for a fixed initial state", func() {
		a, err := New(p, nil).Run(context.Background(), x0, shortConfig(0.05))
		Expect(err).NotTo(HaveOccurred())
		b, err := New(p, nil).Run(context.Background(), x0, shortConfig(0.05))
		Expect(err).NotTo(HaveOccurred())
		Expect(a.History).To(Equal(b.History))
	})

	It("keeps every recorded link inside the container", func() {
		res, err := New(p, nil).Run(context.Background(), x0, shortConfig(0.2))
		Expect(err).NotTo(HaveOccurred())

		for _, snap := range res.History {
			for _, x := range snap.Positions {
				Expect(x.Y).To(BeNumerically(">=", 0))
				Expect(x.X).To(BeNumerically(">=", p.XMin()))
				Expect(x.X).To(BeNumerically("<=", p.XMax()))
			}
		}
	})

	It("feeds every step to metrics and observers", func() {
		m := &countingMetric{n: 99}
		sim := New(p, nil)
		sim.AddMetric(m)

		res, err := sim.Run(context.Background(), x0, shortConfig(0.01))
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Metrics).To(HaveKeyWithValue("count", 100.0))
	})

	Describe("failures", func() {
		It("rejects mismatched slices before running", func() {
			bad := physics.State{Positions: make([]r2.Vec, p.Links()), Velocities: make([]r2.Vec, 2)}
			_, err := New(p, nil).Run(context.Background(), bad, DefaultConfig())
			Expect(errors.Is(err, dynamo.ErrShapeMismatch)).To(BeTrue())
		})

		It("rejects a state whose length differs from the parameters", func() {
			_, err := New(p, nil).Run(context.Background(), physics.NewState(3), DefaultConfig())
			Expect(errors.Is(err, dynamo.ErrShapeMismatch)).To(BeTrue())
		})

		It("rejects an empty chain", func() {
			_, err := New(p, nil).Run(context.Background(), physics.State{}, DefaultConfig())
			Expect(errors.Is(err, dynamo.ErrShapeMismatch)).To(BeTrue())
		})

		DescribeTable("invalid configuration",
			func(cfg Config) {
				_, err := New(p, nil).Run(context.Background(), x0, cfg)
				Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())
			},
			Entry("zero dt", Config{Dt: 0, Duration: 1, SampleStride: 100}),
			Entry("negative dt", Config{Dt: -1e-4, Duration: 1, SampleStride: 100}),
			Entry("negative duration", Config{Dt: 1e-4, Duration: -1, SampleStride: 100}),
			Entry("zero stride", Config{Dt: 1e-4, Duration: 1, SampleStride: 0}),
			Entry("NaN dt", Config{Dt: math.NaN(), Duration: 1, SampleStride: 100}),
			Entry("infinite dt", Config{Dt: math.Inf(1), Duration: 1, SampleStride: 100}),
			Entry("NaN duration", Config{Dt: 1e-4, Duration: math.NaN(), SampleStride: 100}),
			Entry("infinite duration", Config{Dt: 1e-4, Duration: math.Inf(1), SampleStride: 100}),
			Entry("step count beyond int32", Config{Dt: 1e-4, Duration: 1e16, SampleStride: 100}),
			Entry("tiny dt over a long run", Config{Dt: 1e-300, Duration: 1, SampleStride: 100}),
		)

		It("rejects a non-finite initial state", func() {
			x0.Velocities[4].Y = math.Inf(1)
			_, err := New(p, nil).Run(context.Background(), x0, DefaultConfig())
			Expect(errors.Is(err, dynamo.ErrUnstable)).To(BeTrue())
		})

		It("aborts with the step and link once the state goes non-finite", func() {
			res, err := New(p, &poisonIntegrator{at: 3}).Run(context.Background(), x0, shortConfig(0.01))
			Expect(errors.Is(err, dynamo.ErrUnstable)).To(BeTrue())

			var simErr *dynamo.SimulationError
			Expect(errors.As(err, &simErr)).To(BeTrue())
			Expect(simErr.Step).To(Equal(3))
			Expect(simErr.Link).To(Equal(1))
			Expect(res.StepsTaken).To(Equal(3))
			Expect(res.History).To(HaveLen(1))
		})

		It("lets non-finite values through when validation is off", func() {
			cfg := shortConfig(0.001)
			cfg.ValidateState = false
			res, err := New(p, &poisonIntegrator{at: 3}).Run(context.Background(), x0, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Final.IsValid()).To(BeFalse())
		})

		It("stops on cancellation and returns what it has", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			res, err := New(p, nil).Run(ctx, x0, DefaultConfig())
			Expect(err).To(MatchError(context.Canceled))
			Expect(res).NotTo(BeNil())
			Expect(res.StepsTaken).To(BeZero())
		})
	})

	Describe("a two-link chain", func() {
		var two physics.Params

		BeforeEach(func() {
			two = chainParams(2)
		})

		It("falls on the first step and holds its rest length", func() {
			rest := two.RestLength()
			s := physics.State{
				Positions:  []r2.Vec{{X: 0, Y: 0}, {X: 0, Y: -rest}},
				Velocities: make([]r2.Vec, 2),
			}
			m := physics.NewForceModel(two)
			integ := integrators.NewEulerCromer()
			var forces []r2.Vec

			forces, err := m.Forces(s, forces)
			Expect(err).NotTo(HaveOccurred())
			Expect(integ.Step(forces, s, two.LinkMass(), 1e-4)).To(Succeed())
			Expect(s.Positions[0].Y).To(BeNumerically("<", 0))

			for i := 1; i < 1000; i++ {
				forces, err = m.Forces(s, forces)
				Expect(err).NotTo(HaveOccurred())
				Expect(integ.Step(forces, s, two.LinkMass(), 1e-4)).To(Succeed())
			}
			d := r2.Norm(r2.Sub(s.Positions[1], s.Positions[0]))
			Expect(d).To(BeNumerically("~", rest, 1e-3*rest))
		})

		It("recovers its rest length after a stretch inside the container", func() {
			rest := two.RestLength()
			x := physics.State{
				Positions:  []r2.Vec{{X: 0.1, Y: 5}, {X: 0.1, Y: 5 - 1.01*rest}},
				Velocities: make([]r2.Vec, 2),
			}
			cfg := shortConfig(0.1)
			cfg.SampleStride = 1

			res, err := New(two, nil).Run(context.Background(), x, cfg)
			Expect(err).NotTo(HaveOccurred())

			last := res.History[len(res.History)-1]
			d := r2.Norm(r2.Sub(last.Positions[1], last.Positions[0]))
			Expect(math.Abs(d-rest)).To(BeNumerically("<", 0.01*rest))
		})
	})

	Describe("RunSimulation", func() {
		It("matches a Simulator run with the default scheme", func() {
			cfg := shortConfig(0.02)
			h, err := RunSimulation(x0.Positions, x0.Velocities, p, cfg)
			Expect(err).NotTo(HaveOccurred())

			res, err := New(p, integrators.NewEulerCromer()).Run(context.Background(), x0, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(h).To(Equal(res.History))
		})
	})
})

var _ = Describe("Ensemble", func() {
	It("runs one independent chain per seed", func() {
		p := physics.MustParams(physics.DefaultPhysical())
		e := NewEnsemble(p, nil, func() []Metric { return []Metric{&countingMetric{}} }, 3, 10)

		results, err := e.Run(context.Background(), initial.DefaultOptions(), shortConfig(0.01))
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))
		for _, r := range results {
			Expect(r.Metrics["count"]).To(Equal(100.0))
		}
		Expect(results[0].History[0].Positions).NotTo(Equal(results[1].History[0].Positions))
	})

	It("needs at least one run", func() {
		e := NewEnsemble(physics.MustParams(physics.DefaultPhysical()), nil, nil, 0, 1)
		_, err := e.Run(context.Background(), initial.DefaultOptions(), DefaultConfig())
		Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())
	})
})
