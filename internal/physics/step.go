package physics

import (
	"fmt"

	"github.com/san-kum/rigidsim/internal/dynamo"
)

// Step advances every dynamic body by dt, in insertion order. For each body
// gravity is added to the accumulated acceleration, linear drag is
// subtracted using the pre-step velocity, and the integrator moves the body.
//
// A step is all-or-nothing: next states are computed first and committed only
// if every body stayed finite. Otherwise a *dynamo.StepError names the first
// body that diverged and the engine is left as it was.
func (e *Engine) Step(dt float64) error {
	if !dynamo.IsFinite(dt) || dt <= 0 {
		return fmt.Errorf("%w: got %v", dynamo.ErrInvalidTimestep, dt)
	}
	if e.world == nil {
		return dynamo.ErrNoWorld
	}

	if cap(e.scratch) < len(e.bodies) {
		e.scratch = make([]dynamo.Kinematics, len(e.bodies))
	}
	e.scratch = e.scratch[:len(e.bodies)]

	g := e.world.Gravity
	for i, b := range e.bodies {
		if b.static {
			continue
		}

		k := b.kin
		k.Acceleration = k.Acceleration.Add(g)
		k.Acceleration = k.Acceleration.Sub(k.Velocity.Scale(AirResistance))
		e.integrator.Advance(&k, dt)

		if !k.IsValid() {
			return &dynamo.StepError{
				Step:    e.steps,
				Time:    e.time,
				BodyID:  uint64(b.id),
				Wrapped: dynamo.ErrUnstable,
			}
		}
		e.scratch[i] = k
	}

	for i, b := range e.bodies {
		if b.static {
			continue
		}
		b.kin = e.scratch[i]
		if e.policy == ResetEachStep {
			b.clearAccumulators()
		}
	}

	e.steps++
	e.time += dt
	return nil
}
