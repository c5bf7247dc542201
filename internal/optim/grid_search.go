// Package optim searches controller parameters for the lowest value of a
// run metric.
package optim

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/san-kum/rigidsim/internal/config"
	"github.com/san-kum/rigidsim/internal/metrics"
	"github.com/san-kum/rigidsim/internal/sim"
)

// Objective scores one parameter combination. Lower is better.
type Objective func(ctx context.Context, params map[string]float64) (float64, error)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search evaluates every combination of the grid. Combinations whose
// objective fails or is not finite are skipped; the search fails only if
// none succeeds or ctx is done.
func (g *GridSearch) Search(ctx context.Context, objective Objective) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("grid has %d names but %d ranges", len(g.paramNames), len(g.ranges))
	}

	best := math.Inf(1)
	var bestParams map[string]float64
	var lastErr error

	err := g.searchRecursive(ctx, 0, make(map[string]float64), objective, &best, &bestParams, &lastErr)
	if err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		if lastErr != nil {
			return nil, 0, fmt.Errorf("no parameter combination succeeded: %w", lastErr)
		}
		return nil, 0, errors.New("no parameter combination succeeded")
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	objective Objective,
	best *float64,
	bestParams *map[string]float64,
	lastErr *error,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		val, err := objective(ctx, current)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			*lastErr = err
			return nil
		}
		if !math.IsNaN(val) && !math.IsInf(val, 0) && val < *best {
			*best = val
			*bestParams = maps.Clone(current)
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := maps.Clone(current)
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, objective, best, bestParams, lastErr); err != nil {
			return err
		}
	}
	return nil
}

// HoldObjective scores PID gains for the scene's controller at index ctrl by
// the mean distance of its body from the target. Recognised parameters are
// kp, ki and kd; missing ones keep the scene's value.
func HoldObjective(scene *config.Scene, ctrl int) Objective {
	return func(ctx context.Context, params map[string]float64) (float64, error) {
		if ctrl < 0 || ctrl >= len(scene.Controllers) {
			return 0, fmt.Errorf("scene has no controller %d", ctrl)
		}
		for name := range params {
			if !slices.Contains([]string{"kp", "ki", "kd"}, name) {
				return 0, fmt.Errorf("unknown gain: %s", name)
			}
		}

		s := *scene
		s.Controllers = slices.Clone(scene.Controllers)
		c := &s.Controllers[ctrl]
		if v, ok := params["kp"]; ok {
			c.Kp = v
		}
		if v, ok := params["ki"]; ok {
			c.Ki = v
		}
		if v, ok := params["kd"]; ok {
			c.Kd = v
		}

		eng, ids, err := s.Build()
		if err != nil {
			return 0, err
		}
		ctrls, err := s.BuildControllers(ids)
		if err != nil {
			return 0, err
		}

		sm := sim.New(eng)
		for _, cc := range ctrls {
			sm.AddController(cc)
		}
		tracking := metrics.NewTrackingError(ids[c.Body], c.Target.Vec2())
		sm.AddMetric(tracking)

		if _, err := sm.Run(ctx, s.SimConfig()); err != nil {
			return 0, err
		}
		return tracking.Value(), nil
	}
}
