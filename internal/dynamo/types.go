package dynamo

import (
	"fmt"
	"math"
)

type Vec2 struct {
	X, Y float64
}

func (v Vec2) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

func (v Vec2) Neg() Vec2 {
	return Vec2{-v.X, -v.Y}
}

func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

func (v Vec2) IsValid() bool {
	return IsFinite(v.X) && IsFinite(v.Y)
}

func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Kinematics is the part of a body's state that integration advances.
type Kinematics struct {
	Position            Vec2
	Velocity            Vec2
	Acceleration        Vec2
	Angle               float64
	AngularVelocity     float64
	AngularAcceleration float64
}

func (k Kinematics) IsValid() bool {
	return k.Position.IsValid() && k.Velocity.IsValid() && k.Acceleration.IsValid() &&
		IsFinite(k.Angle) && IsFinite(k.AngularVelocity) && IsFinite(k.AngularAcceleration)
}

// Integrator advances one body's kinematics by dt. Acceleration terms are
// already summed when Advance is called; implementations must not clear them.
type Integrator interface {
	Name() string
	Advance(k *Kinematics, dt float64)
}
