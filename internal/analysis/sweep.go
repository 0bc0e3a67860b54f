package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/san-kum/fountain/internal/dynamo"
	"github.com/san-kum/fountain/internal/initial"
	"github.com/san-kum/fountain/internal/metrics"
	"github.com/san-kum/fountain/internal/physics"
	"github.com/san-kum/fountain/internal/sim"
)

// SweepPoint is the outcome of one run in a parameter sweep.
type SweepPoint struct {
	Param      float64
	Height     float64 // peak fountain height
	MaxStretch float64
	Err        error
}

// Sweep runs the chain once for each of steps evenly spaced values of the
// named parameter in [lo, hi], everything else taken from base. Runs are
// independent and execute concurrently; points come back in parameter
// order. A run that fails keeps its error in the point rather than
// aborting the sweep. Only invalid arguments or cancellation return an
// error.
func Sweep(ctx context.Context, base physics.Physical, name string, lo, hi float64, steps int, opts initial.Options, cfg sim.Config) ([]SweepPoint, error) {
	if steps < 1 {
		return nil, dynamo.Bounds("steps", float64(steps), ">= 1")
	}
	if _, err := base.With(name, lo); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	stepSize := 0.0
	if steps > 1 {
		stepSize = (hi - lo) / float64(steps-1)
	}

	points := make([]SweepPoint, steps)
	dynamo.ParallelFor(steps, 1, func(start, end int) {
		for i := start; i < end; i++ {
			points[i] = sweepOne(ctx, base, name, lo+float64(i)*stepSize, opts, cfg)
		}
	})

	return points, ctx.Err()
}

func sweepOne(ctx context.Context, base physics.Physical, name string, value float64, opts initial.Options, cfg sim.Config) SweepPoint {
	pt := SweepPoint{Param: value}

	ph, _ := base.With(name, value)
	p, err := physics.NewParams(ph)
	if err != nil {
		pt.Err = err
		return pt
	}

	height, stretch := metrics.NewFountainHeight(), metrics.NewMaxStretch()
	s := sim.New(p, nil)
	s.AddMetric(height)
	s.AddMetric(stretch)

	_, pt.Err = s.Run(ctx, initial.Layout(p, opts), cfg)
	pt.Height = height.Value()
	pt.MaxStretch = stretch.Value()
	return pt
}

// SweepToASCII draws one column per point with a bar proportional to the
// peak height. Failed runs show as x.
func SweepToASCII(points []SweepPoint, height int) string {
	if len(points) == 0 || height < 1 {
		return ""
	}

	top := 0.0
	for _, p := range points {
		if p.Err == nil {
			top = max(top, p.Height)
		}
	}
	if top <= 0 {
		top = 1
	}

	var sb strings.Builder
	for r := height; r >= 1; r-- {
		level := top * float64(r) / float64(height)
		for _, p := range points {
			switch {
			case p.Err != nil:
				if r == 1 {
					sb.WriteRune('x')
				} else {
					sb.WriteRune(' ')
				}
			case p.Height >= level:
				sb.WriteRune('█')
			default:
				sb.WriteRune(' ')
			}
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "%.3g .. %.3g\n", points[0].Param, points[len(points)-1].Param)
	return sb.String()
}
