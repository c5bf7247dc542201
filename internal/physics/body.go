package physics

import (
	"fmt"

	"github.com/san-kum/rigidsim/internal/dynamo"
)

// BodyID identifies a body for its whole lifetime. Ids are issued in
// increasing order and never reused.
type BodyID uint64

func (id BodyID) String() string {
	return fmt.Sprintf("#%d", uint64(id))
}

type Body struct {
	id          BodyID
	shape       any
	mass        float64
	kin         dynamo.Kinematics
	torque      float64
	friction    float64
	restitution float64
	static      bool
}

func (b *Body) ID() BodyID                    { return b.id }
func (b *Body) Shape() any                    { return b.shape }
func (b *Body) Mass() float64                 { return b.mass }
func (b *Body) Position() dynamo.Vec2         { return b.kin.Position }
func (b *Body) Velocity() dynamo.Vec2         { return b.kin.Velocity }
func (b *Body) Acceleration() dynamo.Vec2     { return b.kin.Acceleration }
func (b *Body) Angle() float64                { return b.kin.Angle }
func (b *Body) AngularVelocity() float64      { return b.kin.AngularVelocity }
func (b *Body) AngularAcceleration() float64  { return b.kin.AngularAcceleration }
func (b *Body) Torque() float64               { return b.torque }
func (b *Body) Friction() float64             { return b.friction }
func (b *Body) Restitution() float64          { return b.restitution }
func (b *Body) Static() bool                  { return b.static }
func (b *Body) Kinematics() dynamo.Kinematics { return b.kin }

// BodyState is a value copy of a body, safe to keep after further steps.
type BodyState struct {
	ID     BodyID
	Shape  any
	Mass   float64
	Static bool
	Torque float64
	dynamo.Kinematics
}

func (b *Body) Snapshot() BodyState {
	return BodyState{
		ID:         b.id,
		Shape:      b.shape,
		Mass:       b.mass,
		Static:     b.static,
		Torque:     b.torque,
		Kinematics: b.kin,
	}
}

func (b *Body) applyForce(f dynamo.Vec2) {
	b.kin.Acceleration = b.kin.Acceleration.Add(f.Scale(1 / b.mass))
}

// applyTorque divides by mass: rotational inertia is approximated by mass.
func (b *Body) applyTorque(t float64) {
	b.torque += t
	b.kin.AngularAcceleration += t / b.mass
}

func (b *Body) setLinearVelocity(v dynamo.Vec2) {
	b.kin.Velocity = v
}

func (b *Body) setAngularVelocity(w float64) {
	b.kin.AngularVelocity = w
}

func (b *Body) clearAccumulators() {
	b.kin.Acceleration = dynamo.Vec2{}
	b.kin.AngularAcceleration = 0
	b.torque = 0
}
