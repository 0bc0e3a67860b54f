package analysis

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/fountain/internal/dynamo"
	"github.com/san-kum/fountain/internal/initial"
	"github.com/san-kum/fountain/internal/physics"
	"github.com/san-kum/fountain/internal/sim"
)

func sine(freq, dt float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) * dt)
	}
	return out
}

func TestPowerSpectrumPadsToPowerOfTwo(t *testing.T) {
	g := NewWithT(t)
	g.Expect(PowerSpectrum(nil)).To(BeNil())
	g.Expect(PowerSpectrum(make([]float64, 200))).To(HaveLen(128))
	g.Expect(PowerSpectrum(make([]float64, 256))).To(HaveLen(128))
}

func TestPowerSpectrumRemovesMean(t *testing.T) {
	g := NewWithT(t)
	series := make([]float64, 64)
	for i := range series {
		series[i] = 3.0
	}
	for _, v := range PowerSpectrum(series) {
		g.Expect(v).To(BeNumerically("~", 0, 1e-9))
	}
}

func TestDominantFrequency(t *testing.T) {
	g := NewWithT(t)
	f, err := DominantFrequency(sine(12.5, 0.01, 256), 0.01)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(f).To(BeNumerically("~", 12.5, 1e-9))
}

func TestDominantFrequencyErrors(t *testing.T) {
	g := NewWithT(t)
	_, err := DominantFrequency([]float64{1, 2, 3}, 0.01)
	g.Expect(err).To(MatchError(ErrShortSeries))

	_, err = DominantFrequency(sine(1, 0.1, 16), 0)
	g.Expect(err).To(HaveOccurred())
}

func line(ys ...float64) dynamo.History {
	var h dynamo.History
	for i, y := range ys {
		h.Append(i, float64(i)*0.5, []r2.Vec{{X: float64(i), Y: y}, {X: -1, Y: 0}})
	}
	return h
}

func TestExtract(t *testing.T) {
	g := NewWithT(t)
	h := line(1, 2, 4)

	tip, err := Extract(h, "tip-y")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(tip).To(Equal([]float64{1, 2, 4}))

	spread, err := Extract(h, "spread")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(spread).To(Equal([]float64{1, 2, 3}))

	_, err = Extract(h, "nope")
	g.Expect(err).To(HaveOccurred())

	g.Expect(SeriesNames()).To(Equal([]string{"spread", "tip-x", "tip-y", "top"}))
}

func TestSampleInterval(t *testing.T) {
	g := NewWithT(t)
	g.Expect(SampleInterval(line(1))).To(Equal(0.0))
	g.Expect(SampleInterval(line(1, 2, 3, 4))).To(BeNumerically("~", 0.5, 1e-12))
}

func TestPhasePortrait(t *testing.T) {
	g := NewWithT(t)
	pp := NewPhasePortrait(line(0, 1, 2, 3), 0)
	g.Expect(pp).NotTo(BeNil())
	g.Expect(pp.Points).To(HaveLen(3))
	for i, p := range pp.Points {
		g.Expect(p.X).To(Equal(float64(i+1)))
		g.Expect(p.Y).To(BeNumerically("~", 2.0, 1e-12))
	}

	art := pp.ASCII(20, 5)
	g.Expect(strings.Split(strings.TrimSuffix(art, "\n"), "\n")).To(HaveLen(5))
	g.Expect(art).To(ContainSubstring("•"))
}

func TestPhasePortraitRejectsBadInput(t *testing.T) {
	g := NewWithT(t)
	g.Expect(NewPhasePortrait(line(1), 0)).To(BeNil())
	g.Expect(NewPhasePortrait(line(1, 2), 2)).To(BeNil())
	g.Expect(NewPhasePortrait(line(1, 2), -1)).To(BeNil())
	g.Expect((*PhasePortrait)(nil).ASCII(10, 10)).To(BeEmpty())
}

func TestDivergence(t *testing.T) {
	g := NewWithT(t)
	a := line(0, 1, 2)
	g.Expect(Divergence(a, a)).To(Equal([]float64{0, 0, 0}))

	b := line(0, 1, 2)
	b[1].Positions[0].Y += 2
	d := Divergence(a, b[:2])
	g.Expect(d).To(HaveLen(2))
	g.Expect(d[1]).To(BeNumerically("~", math.Sqrt(2), 1e-12))
}

func TestDivergenceRate(t *testing.T) {
	g := NewWithT(t)
	times := make([]float64, 11)
	d := make([]float64, 11)
	for i := range times {
		times[i] = float64(i) * 0.1
		d[i] = 2 * math.Exp(0.5*times[i])
	}
	rate, err := DivergenceRate(times, d)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(rate).To(BeNumerically("~", 0.5, 1e-9))

	_, err = DivergenceRate([]float64{0, 1}, []float64{0, 0})
	g.Expect(err).To(MatchError(ErrShortSeries))
}

func sweepBase() physics.Physical {
	ph := physics.DefaultPhysical()
	ph.Links = 3
	return ph
}

func quick() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.Duration = 0.01
	return cfg
}

func TestSweep(t *testing.T) {
	g := NewWithT(t)
	points, err := Sweep(context.Background(), sweepBase(), "damping", 0, 10, 3, initial.DefaultOptions(), quick())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(points).To(HaveLen(3))
	for i, p := range points {
		g.Expect(p.Err).NotTo(HaveOccurred())
		g.Expect(p.Param).To(BeNumerically("~", 5*float64(i), 1e-12))
		g.Expect(p.Height).To(BeNumerically(">=", 0.0))
	}
}

func TestSweepKeepsRunErrors(t *testing.T) {
	g := NewWithT(t)
	points, err := Sweep(context.Background(), sweepBase(), "total_mass", -1, 1, 3, initial.DefaultOptions(), quick())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(points[0].Err).To(MatchError(dynamo.ErrParameterBounds))
	g.Expect(points[1].Err).To(MatchError(dynamo.ErrParameterBounds))
	g.Expect(points[2].Err).NotTo(HaveOccurred())

	art := SweepToASCII(points, 4)
	g.Expect(strings.Split(strings.TrimSuffix(art, "\n"), "\n")).To(HaveLen(5))
	g.Expect(art).To(ContainSubstring("x"))
}

func TestSweepArguments(t *testing.T) {
	g := NewWithT(t)
	ctx := context.Background()
	_, err := Sweep(ctx, sweepBase(), "colour", 0, 1, 3, initial.DefaultOptions(), quick())
	g.Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())

	_, err = Sweep(ctx, sweepBase(), "damping", 0, 1, 0, initial.DefaultOptions(), quick())
	g.Expect(err).To(HaveOccurred())
}
