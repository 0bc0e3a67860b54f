package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/fountain/internal/dynamo"
)

// Extractors maps a series name to its per-snapshot scalar.
var Extractors = map[string]func(dynamo.Snapshot) float64{
	"tip-y": func(s dynamo.Snapshot) float64 { return s.Tip().Y },
	"tip-x": func(s dynamo.Snapshot) float64 { return s.Tip().X },
	"top":   func(s dynamo.Snapshot) float64 { return s.MaxY() },
	"spread": func(s dynamo.Snapshot) float64 {
		if s.Len() == 0 {
			return 0
		}
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, p := range s.Positions {
			lo = math.Min(lo, p.X)
			hi = math.Max(hi, p.X)
		}
		return hi - lo
	},
}

func SeriesNames() []string {
	names := make([]string, 0, len(Extractors))
	for name := range Extractors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Extract applies the named extractor to every snapshot of h.
func Extract(h dynamo.History, name string) ([]float64, error) {
	fn, ok := Extractors[name]
	if !ok {
		return nil, fmt.Errorf("unknown series: %s", name)
	}
	return h.Series(fn), nil
}

// SampleInterval is the mean time between consecutive snapshots.
func SampleInterval(h dynamo.History) float64 {
	if len(h) < 2 {
		return 0
	}
	return (h[len(h)-1].Time - h[0].Time) / float64(len(h)-1)
}
