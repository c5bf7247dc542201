package physics

import (
	"fmt"

	"github.com/san-kum/rigidsim/internal/dynamo"
)

const (
	DefaultMass        = 1.0
	DefaultFriction    = 0.5
	DefaultRestitution = 0.5
)

// BodyOption sets one creation parameter. Options are explicit, so an
// intentional zero is validated rather than mistaken for "unset".
type BodyOption func(*bodyConfig)

type bodyConfig struct {
	mass            float64
	position        dynamo.Vec2
	velocity        dynamo.Vec2
	angle           float64
	angularVelocity float64
	friction        float64
	restitution     float64
	static          bool
}

func defaultBodyConfig() bodyConfig {
	return bodyConfig{
		mass:        DefaultMass,
		friction:    DefaultFriction,
		restitution: DefaultRestitution,
	}
}

func WithMass(m float64) BodyOption {
	return func(c *bodyConfig) { c.mass = m }
}

func WithPosition(p dynamo.Vec2) BodyOption {
	return func(c *bodyConfig) { c.position = p }
}

func WithVelocity(v dynamo.Vec2) BodyOption {
	return func(c *bodyConfig) { c.velocity = v }
}

func WithAngle(a float64) BodyOption {
	return func(c *bodyConfig) { c.angle = a }
}

func WithAngularVelocity(w float64) BodyOption {
	return func(c *bodyConfig) { c.angularVelocity = w }
}

// WithFriction stores a friction coefficient. Nothing in the step reads it.
func WithFriction(f float64) BodyOption {
	return func(c *bodyConfig) { c.friction = f }
}

// WithRestitution stores a restitution coefficient. Nothing in the step reads it.
func WithRestitution(r float64) BodyOption {
	return func(c *bodyConfig) { c.restitution = r }
}

func WithStatic(static bool) BodyOption {
	return func(c *bodyConfig) { c.static = static }
}

func (c bodyConfig) validate() error {
	switch {
	case !dynamo.IsFinite(c.mass) || c.mass <= 0:
		return fmt.Errorf("%w: mass must be positive and finite, got %v", dynamo.ErrInvalidBodyOptions, c.mass)
	case !c.position.IsValid():
		return fmt.Errorf("%w: position %v", dynamo.ErrInvalidBodyOptions, c.position)
	case !c.velocity.IsValid():
		return fmt.Errorf("%w: velocity %v", dynamo.ErrInvalidBodyOptions, c.velocity)
	case !dynamo.IsFinite(c.angle) || !dynamo.IsFinite(c.angularVelocity):
		return fmt.Errorf("%w: angle %v, angular velocity %v", dynamo.ErrInvalidBodyOptions, c.angle, c.angularVelocity)
	case !inUnit(c.friction):
		return fmt.Errorf("%w: friction must be in [0,1], got %v", dynamo.ErrInvalidBodyOptions, c.friction)
	case !inUnit(c.restitution):
		return fmt.Errorf("%w: restitution must be in [0,1], got %v", dynamo.ErrInvalidBodyOptions, c.restitution)
	}
	return nil
}

// inUnit is false for NaN as well.
func inUnit(v float64) bool {
	return v >= 0 && v <= 1
}
