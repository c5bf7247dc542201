package physics

import (
	"slices"

	"github.com/san-kum/rigidsim/internal/dynamo"
	"github.com/san-kum/rigidsim/internal/integrators"
)

// AccumulatorPolicy decides what happens to applied forces after a step.
type AccumulatorPolicy int

const (
	// ResetEachStep clears acceleration, angular acceleration and torque
	// once a step has integrated them. An applied force acts for one step.
	ResetEachStep AccumulatorPolicy = iota

	// Accumulate never clears the accumulators: applied forces and the
	// per-step gravity and drag terms keep compounding. Kept for
	// compatibility with scenes tuned against that behaviour.
	Accumulate
)

func (p AccumulatorPolicy) String() string {
	if p == Accumulate {
		return "accumulate"
	}
	return "reset"
}

// Engine owns the world and the body registry. Bodies are stepped in
// insertion order. An Engine is not safe for concurrent use; push mutations
// from other goroutines through a Queue.
type Engine struct {
	world      *World
	integrator dynamo.Integrator
	policy     AccumulatorPolicy

	bodies []*Body
	index  map[BodyID]*Body
	lastID BodyID

	scratch []dynamo.Kinematics
	steps   int
	time    float64
}

type Option func(*Engine)

func WithIntegrator(i dynamo.Integrator) Option {
	return func(e *Engine) { e.integrator = i }
}

func WithPolicy(p AccumulatorPolicy) Option {
	return func(e *Engine) { e.policy = p }
}

// New returns an engine with no world; call CreateWorld before stepping.
func New(opts ...Option) *Engine {
	e := &Engine{
		integrator: integrators.NewEuler(),
		bodies:     make([]*Body, 0),
		index:      make(map[BodyID]*Body),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Integrator() dynamo.Integrator { return e.integrator }
func (e *Engine) Policy() AccumulatorPolicy     { return e.policy }
func (e *Engine) Steps() int                    { return e.steps }
func (e *Engine) Time() float64                 { return e.time }
func (e *Engine) Len() int                      { return len(e.bodies) }

// CreateBody registers a new body and returns its id. The shape is stored
// untouched. On error nothing is registered and no id is consumed.
func (e *Engine) CreateBody(shape any, opts ...BodyOption) (BodyID, error) {
	cfg := defaultBodyConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return 0, err
	}

	e.lastID++
	b := &Body{
		id:          e.lastID,
		shape:       shape,
		mass:        cfg.mass,
		friction:    cfg.friction,
		restitution: cfg.restitution,
		static:      cfg.static,
		kin: dynamo.Kinematics{
			Position:        cfg.position,
			Velocity:        cfg.velocity,
			Angle:           cfg.angle,
			AngularVelocity: cfg.angularVelocity,
		},
	}
	e.bodies = append(e.bodies, b)
	e.index[b.id] = b
	return b.id, nil
}

func (e *Engine) Body(id BodyID) (*Body, error) {
	return e.lookup("lookup", id)
}

// Bodies returns the registered bodies in insertion order. The slice is a
// copy; the bodies are not.
func (e *Engine) Bodies() []*Body {
	return slices.Clone(e.bodies)
}

// Snapshot copies every body's state in insertion order.
func (e *Engine) Snapshot() []BodyState {
	out := make([]BodyState, len(e.bodies))
	for i, b := range e.bodies {
		out[i] = b.Snapshot()
	}
	return out
}

func (e *Engine) RemoveBody(id BodyID) error {
	if _, ok := e.index[id]; !ok {
		return &dynamo.BodyError{Op: "remove", ID: uint64(id), Wrapped: dynamo.ErrBodyNotFound}
	}
	delete(e.index, id)
	e.bodies = slices.DeleteFunc(e.bodies, func(b *Body) bool { return b.id == id })
	return nil
}

func (e *Engine) SetStatic(id BodyID, static bool) error {
	b, err := e.lookup("set static", id)
	if err != nil {
		return err
	}
	b.static = static
	return nil
}

func (e *Engine) ApplyForce(id BodyID, f dynamo.Vec2) error {
	b, err := e.lookup("apply force", id)
	if err != nil {
		return err
	}
	b.applyForce(f)
	return nil
}

func (e *Engine) ApplyTorque(id BodyID, t float64) error {
	b, err := e.lookup("apply torque", id)
	if err != nil {
		return err
	}
	b.applyTorque(t)
	return nil
}

func (e *Engine) SetLinearVelocity(id BodyID, v dynamo.Vec2) error {
	b, err := e.lookup("set linear velocity", id)
	if err != nil {
		return err
	}
	b.setLinearVelocity(v)
	return nil
}

func (e *Engine) SetAngularVelocity(id BodyID, w float64) error {
	b, err := e.lookup("set angular velocity", id)
	if err != nil {
		return err
	}
	b.setAngularVelocity(w)
	return nil
}

func (e *Engine) lookup(op string, id BodyID) (*Body, error) {
	b, ok := e.index[id]
	if !ok {
		return nil, &dynamo.BodyError{Op: op, ID: uint64(id), Wrapped: dynamo.ErrBodyNotFound}
	}
	return b, nil
}
