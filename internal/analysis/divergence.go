package analysis

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/fountain/internal/dynamo"
)

// Divergence is the RMS link separation between a and b at every snapshot
// they share. Snapshots are paired by index; the shorter history bounds
// the result.
func Divergence(a, b dynamo.History) []float64 {
	n := min(len(a), len(b))
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		pa, pb := a[i].Positions, b[i].Positions
		links := min(len(pa), len(pb))
		if links == 0 {
			continue
		}
		sum := 0.0
		for j := 0; j < links; j++ {
			sum += r2.Norm2(r2.Sub(pa[j], pb[j]))
		}
		out[i] = math.Sqrt(sum / float64(links))
	}
	return out
}

// DivergenceRate fits ln(d) = a + λt by least squares over the samples
// with d > 0 and returns λ. A positive rate means nearby runs separate
// exponentially.
func DivergenceRate(times, d []float64) (float64, error) {
	var xs, ys []float64
	for i := 0; i < min(len(times), len(d)); i++ {
		if d[i] > 0 && !math.IsInf(d[i], 0) && !math.IsNaN(d[i]) {
			xs = append(xs, times[i])
			ys = append(ys, math.Log(d[i]))
		}
	}
	if len(xs) < 2 {
		return 0, ErrShortSeries
	}
	if xs[0] == xs[len(xs)-1] {
		return 0, errors.New("analysis: samples share a single time")
	}
	_, rate := stat.LinearRegression(xs, ys, nil, false)
	return rate, nil
}
