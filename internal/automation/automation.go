// Package automation runs one scene under several integrator and timestep
// settings and compares where the bodies end up.
package automation

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/san-kum/rigidsim/internal/config"
	"github.com/san-kum/rigidsim/internal/dynamo"
	"github.com/san-kum/rigidsim/internal/metrics"
	"github.com/san-kum/rigidsim/internal/physics"
	"github.com/san-kum/rigidsim/internal/sim"
)

// Variant overrides the scene's integrator and timestep for one run.
type Variant struct {
	Integrator string
	Dt         float64
}

func (v Variant) Label() string {
	return fmt.Sprintf("%s@%g", v.Integrator, v.Dt)
}

// IntegratorVariants pairs every named integrator with the same dt.
func IntegratorVariants(names []string, dt float64) []Variant {
	out := make([]Variant, len(names))
	for i, n := range names {
		out[i] = Variant{Integrator: n, Dt: dt}
	}
	return out
}

// DtVariants runs one integrator at each of the given timesteps.
func DtVariants(integrator string, dts []float64) []Variant {
	out := make([]Variant, len(dts))
	for i, dt := range dts {
		out[i] = Variant{Integrator: integrator, Dt: dt}
	}
	return out
}

type Outcome struct {
	Variant
	Steps       int
	Final       []physics.BodyState
	MeanEnergy  float64
	FinalEnergy float64
	MaxSpeed    float64
	// Divergence is the largest distance between a body's final position
	// and the same body's final position in the first variant.
	Divergence float64
	Stable     bool
	Err        error
}

type Sweep struct {
	Scene    *config.Scene
	Variants []Variant
	Logger   *log.Logger
}

// Run executes every variant in order. A variant that blows up is reported
// as unstable rather than failing the sweep; invalid variants and context
// cancellation abort it.
func Run(ctx context.Context, sw Sweep) ([]Outcome, error) {
	if sw.Scene == nil {
		return nil, errors.New("sweep has no scene")
	}
	if len(sw.Variants) == 0 {
		return nil, errors.New("sweep has no variants")
	}
	logger := sw.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	results := make([]Outcome, 0, len(sw.Variants))
	for i, v := range sw.Variants {
		out, err := runVariant(ctx, sw.Scene, v, logger)
		if err != nil {
			return results, fmt.Errorf("variant %s: %w", v.Label(), err)
		}
		if len(results) > 0 {
			out.Divergence = divergence(results[0].Final, out.Final)
		}
		results = append(results, out)
		logger.Info("variant done", "n", fmt.Sprintf("%d/%d", i+1, len(sw.Variants)), "variant", v.Label(), "stable", out.Stable)
	}
	return results, nil
}

func runVariant(ctx context.Context, base *config.Scene, v Variant, logger *log.Logger) (Outcome, error) {
	scene := *base
	scene.Integrator = v.Integrator
	scene.Dt = v.Dt

	eng, ids, err := scene.Build()
	if err != nil {
		return Outcome{}, err
	}
	ctrls, err := scene.BuildControllers(ids)
	if err != nil {
		return Outcome{}, err
	}

	s := sim.New(eng)
	s.SetLogger(logger.With("variant", v.Label()))
	for _, c := range ctrls {
		s.AddController(c)
	}
	energy := metrics.NewKineticEnergy()
	speed := metrics.NewMaxSpeed()
	s.AddMetric(energy)
	s.AddMetric(speed)

	result, err := s.Run(ctx, scene.SimConfig())
	out := Outcome{Variant: v, Stable: true}
	if result != nil {
		out.Steps = result.StepsTaken
		out.Final = eng.Snapshot()
		out.MeanEnergy = energy.Value()
		out.FinalEnergy = energy.Last()
		out.MaxSpeed = speed.Value()
	}
	switch {
	case err == nil:
	case errors.Is(err, dynamo.ErrUnstable):
		out.Stable = false
		out.Err = err
	default:
		return Outcome{}, err
	}
	return out, nil
}

func divergence(ref, got []physics.BodyState) float64 {
	pos := make(map[physics.BodyID]dynamo.Vec2, len(ref))
	for _, b := range ref {
		pos[b.ID] = b.Position
	}
	worst := 0.0
	for _, b := range got {
		p, ok := pos[b.ID]
		if !ok {
			continue
		}
		worst = max(worst, b.Position.Sub(p).Len())
	}
	return worst
}
