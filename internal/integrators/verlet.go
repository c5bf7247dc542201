package integrators

import "github.com/san-kum/rigidsim/internal/dynamo"

// Verlet treats acceleration as constant across the step, so the velocity
// half of velocity-Verlet collapses to a plain Euler update.
type Verlet struct{}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Name() string { return "verlet" }

func (v *Verlet) Advance(k *dynamo.Kinematics, dt float64) {
	halfDt2 := 0.5 * dt * dt

	k.Position = k.Position.Add(k.Velocity.Scale(dt)).Add(k.Acceleration.Scale(halfDt2))
	k.Velocity = k.Velocity.Add(k.Acceleration.Scale(dt))

	k.Angle += k.AngularVelocity*dt + k.AngularAcceleration*halfDt2
	k.AngularVelocity += k.AngularAcceleration * dt
}
