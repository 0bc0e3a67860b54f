// Package initial builds starting states for a chain: the hanging-plus-pile
// layout of the classic fountain and a relaxed straight line.
package initial

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/fountain/internal/dynamo"
	"github.com/san-kum/fountain/internal/physics"
)

const (
	DefaultHanging = 5
	DefaultPileX   = 0.1
	DefaultJitter  = 0.01
)

// Options controls Layout.
type Options struct {
	Hanging int     // links hanging over the edge, from the origin down
	PileX   float64 // centre of the pile on the floor
	Jitter  float64 // half-width of the uniform x spread in the pile
	Seed    uint64
}

func DefaultOptions() Options {
	return Options{
		Hanging: DefaultHanging,
		PileX:   DefaultPileX,
		Jitter:  DefaultJitter,
		Seed:    1,
	}
}

func (o Options) Validate() error {
	switch {
	case o.Hanging < 0:
		return dynamo.Bounds("hanging", float64(o.Hanging), ">= 0")
	case o.Jitter < 0:
		return dynamo.Bounds("jitter", o.Jitter, ">= 0")
	}
	return nil
}

// Layout places the first Hanging links in a vertical line below the
// origin, spaced by the rest length, and heaps the remainder at floor
// level around PileX. Everything starts at rest. The same seed always
// gives the same state.
func Layout(p physics.Params, opts Options) physics.State {
	n := p.Links()
	s := physics.NewState(n)
	rng := rand.New(rand.NewSource(opts.Seed))

	hanging := opts.Hanging
	if hanging > n {
		hanging = n
	}
	for i := 0; i < hanging; i++ {
		s.Positions[i] = r2.Vec{X: 0, Y: -float64(i) * p.RestLength()}
	}
	for i := hanging; i < n; i++ {
		dx := (2*rng.Float64() - 1) * opts.Jitter
		s.Positions[i] = r2.Vec{X: opts.PileX + dx, Y: 0}
	}

	return s
}

// Straight lays the chain out at rest length along dir starting at origin.
func Straight(p physics.Params, origin, dir r2.Vec) physics.State {
	s := physics.NewState(p.Links())
	u := r2.Unit(dir)
	for i := range s.Positions {
		s.Positions[i] = r2.Add(origin, r2.Scale(float64(i)*p.RestLength(), u))
	}
	return s
}
