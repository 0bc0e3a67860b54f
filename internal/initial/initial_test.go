package initial

import (
	"math"
	"testing"

	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/fountain/internal/physics"
)

func TestLayout(t *testing.T) {
	g := NewWithT(t)
	p := physics.MustParams(physics.DefaultPhysical())
	opts := DefaultOptions()
	s := Layout(p, opts)

	g.Expect(s.Len()).To(Equal(p.Links()))
	g.Expect(s.Validate()).To(Succeed())

	for i := 0; i < opts.Hanging; i++ {
		g.Expect(s.Positions[i].X).To(Equal(0.0))
		g.Expect(s.Positions[i].Y).To(BeNumerically("~", -float64(i)*p.RestLength(), 1e-15))
	}
	for i := opts.Hanging; i < s.Len(); i++ {
		g.Expect(s.Positions[i].Y).To(Equal(0.0))
		g.Expect(math.Abs(s.Positions[i].X - opts.PileX)).To(BeNumerically("<=", opts.Jitter))
	}
	for _, v := range s.Velocities {
		g.Expect(v).To(Equal(r2.Vec{}))
	}
}

func TestLayoutSeeded(t *testing.T) {
	g := NewWithT(t)
	p := physics.MustParams(physics.DefaultPhysical())
	a := Layout(p, Options{Hanging: 5, PileX: 0.1, Jitter: 0.01, Seed: 9})
	b := Layout(p, Options{Hanging: 5, PileX: 0.1, Jitter: 0.01, Seed: 9})
	c := Layout(p, Options{Hanging: 5, PileX: 0.1, Jitter: 0.01, Seed: 10})

	g.Expect(a).To(Equal(b))
	g.Expect(a.Positions).NotTo(Equal(c.Positions))
}

func TestLayoutMoreHangingThanLinks(t *testing.T) {
	g := NewWithT(t)
	ph := physics.DefaultPhysical()
	ph.Links = 3
	p := physics.MustParams(ph)

	s := Layout(p, Options{Hanging: 10})
	g.Expect(s.Len()).To(Equal(3))
	g.Expect(s.Positions[2].Y).To(BeNumerically("~", -2*p.RestLength(), 1e-15))
}

func TestStraightIsRelaxed(t *testing.T) {
	g := NewWithT(t)
	p := physics.MustParams(physics.DefaultPhysical())
	s := Straight(p, r2.Vec{X: 0.1, Y: 0.5}, r2.Vec{X: 0, Y: 3})

	g.Expect(physics.MaxStretch(p, s)).To(BeNumerically("~", 0, 1e-9))
	g.Expect(s.Positions[p.Links()-1].Y).To(BeNumerically("~", 0.5+p.TotalLength(), 1e-12))
}

func TestOptionsValidate(t *testing.T) {
	g := NewWithT(t)
	g.Expect(DefaultOptions().Validate()).To(Succeed())
	g.Expect(Options{Hanging: -1}.Validate()).NotTo(Succeed())
	g.Expect(Options{Jitter: -0.1}.Validate()).NotTo(Succeed())
}
