package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/fountain/internal/config"
	"github.com/san-kum/fountain/internal/experiment"
)

var ErrNoCandidate = errors.New("optim: no grid point produced a result")

// GridSearch tries every combination of the given config field values and
// keeps the one with the best metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	maximize   bool
}

func NewGridSearch(params []string, ranges [][]float64, maximize bool) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges, maximize: maximize}
}

// ParseAxis reads one grid axis written as name=v1,v2,...
func ParseAxis(s string) (string, []float64, error) {
	name, list, ok := strings.Cut(s, "=")
	if !ok || name == "" || list == "" {
		return "", nil, fmt.Errorf("grid axis %q: want name=v1,v2,...", s)
	}
	parts := strings.Split(list, ",")
	values := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return "", nil, fmt.Errorf("grid axis %q: %w", s, err)
		}
		values[i] = v
	}
	return name, values, nil
}

// Search runs one experiment per grid point on a copy of base. Points whose
// configuration is invalid or whose run fails are skipped.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, reg *experiment.Registry, metricName string) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("optim: %d names for %d ranges", len(g.paramNames), len(g.ranges))
	}
	if _, err := reg.GetMetric(metricName); err != nil {
		return nil, 0, err
	}

	best := math.Inf(1)
	if g.maximize {
		best = math.Inf(-1)
	}
	var bestParams map[string]float64

	g.searchRecursive(ctx, 0, make(map[string]float64), base, reg, metricName, &best, &bestParams)

	if err := ctx.Err(); err != nil {
		return bestParams, best, err
	}
	if bestParams == nil {
		return nil, 0, ErrNoCandidate
	}
	return bestParams, best, nil
}

func (g *GridSearch) better(v, best float64) bool {
	if g.maximize {
		return v > best
	}
	return v < best
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	reg *experiment.Registry,
	metricName string,
	best *float64,
	bestParams *map[string]float64,
) {
	if ctx.Err() != nil {
		return
	}

	if depth == len(g.paramNames) {
		cfg := base.Clone()
		for k, v := range current {
			if err := cfg.Set(k, v); err != nil {
				return
			}
		}

		exp := experiment.New(cfg, "")
		if err := exp.Setup(reg, metricName); err != nil {
			return
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return
		}

		val := result.Metrics[metricName]
		if math.IsNaN(val) {
			return
		}
		if *bestParams == nil || g.better(val, *best) {
			*best = val
			*bestParams = make(map[string]float64, len(current))
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[paramName] = val

		g.searchRecursive(ctx, depth+1, next, base, reg, metricName, best, bestParams)
	}
}
