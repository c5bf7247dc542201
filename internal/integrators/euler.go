package integrators

import "github.com/san-kum/rigidsim/internal/dynamo"

// Euler moves position and angle with the pre-step rates, then folds the
// step's acceleration into the rates. A body starting at rest therefore does
// not move during its first step.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Advance(k *dynamo.Kinematics, dt float64) {
	k.Position = k.Position.Add(k.Velocity.Scale(dt))
	k.Velocity = k.Velocity.Add(k.Acceleration.Scale(dt))
	k.Angle += k.AngularVelocity * dt
	k.AngularVelocity += k.AngularAcceleration * dt
}

// SemiImplicit updates the rates first and moves with the new ones.
type SemiImplicit struct{}

func NewSemiImplicit() *SemiImplicit {
	return &SemiImplicit{}
}

func (s *SemiImplicit) Name() string { return "semi-implicit" }

func (s *SemiImplicit) Advance(k *dynamo.Kinematics, dt float64) {
	k.Velocity = k.Velocity.Add(k.Acceleration.Scale(dt))
	k.Position = k.Position.Add(k.Velocity.Scale(dt))
	k.AngularVelocity += k.AngularAcceleration * dt
	k.Angle += k.AngularVelocity * dt
}
