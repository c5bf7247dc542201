package physics

import "github.com/san-kum/rigidsim/internal/dynamo"

const (
	// StandardGravity is the default downward acceleration. Screen
	// coordinates are assumed, so positive y points down.
	StandardGravity = 9.81

	// AirResistance scales the linear drag term subtracted from every
	// dynamic body's acceleration each step.
	AirResistance = 0.02
)

// World holds the global simulation parameters consulted by every step.
type World struct {
	Gravity dynamo.Vec2
}

func NewWorld() *World {
	return &World{Gravity: dynamo.Vec2{X: 0, Y: StandardGravity}}
}

// CreateWorld replaces the current world with a default one. Registered
// bodies are kept and pick up the new gravity on the next step.
func (e *Engine) CreateWorld() {
	e.world = NewWorld()
}

func (e *Engine) HasWorld() bool {
	return e.world != nil
}

func (e *Engine) SetGravity(g dynamo.Vec2) error {
	if e.world == nil {
		return dynamo.ErrNoWorld
	}
	e.world.Gravity = g
	return nil
}

func (e *Engine) Gravity() (dynamo.Vec2, error) {
	if e.world == nil {
		return dynamo.Vec2{}, dynamo.ErrNoWorld
	}
	return e.world.Gravity, nil
}
