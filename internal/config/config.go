package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/rigidsim/internal/control"
	"github.com/san-kum/rigidsim/internal/dynamo"
	"github.com/san-kum/rigidsim/internal/integrators"
	"github.com/san-kum/rigidsim/internal/physics"
	"github.com/san-kum/rigidsim/internal/sim"
)

const (
	DefaultDt          = 0.01
	DefaultDuration    = 10.0
	DefaultIntegrator  = "euler"
	DefaultPolicy      = "reset"
	DefaultRecordEvery = 1
)

// Scene describes a world and the bodies to create in it. Optional body
// fields are pointers: a missing key falls back to the engine default, while
// an explicit value (zero included) is passed through and validated.
type Scene struct {
	Name        string           `yaml:"name"`
	Gravity     *Vec             `yaml:"gravity,omitempty"`
	Integrator  string           `yaml:"integrator"`
	Policy      string           `yaml:"policy"`
	Dt          float64          `yaml:"dt"`
	Duration    float64          `yaml:"duration"`
	RecordEvery int              `yaml:"record_every"`
	Bodies      []BodySpec       `yaml:"bodies"`
	Controllers []ControllerSpec `yaml:"controllers,omitempty"`
}

type Vec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (v Vec) Vec2() dynamo.Vec2 { return dynamo.Vec2{X: v.X, Y: v.Y} }

type BodySpec struct {
	Shape           string   `yaml:"shape"`
	Mass            *float64 `yaml:"mass,omitempty"`
	Position        *Vec     `yaml:"position,omitempty"`
	Velocity        *Vec     `yaml:"velocity,omitempty"`
	Angle           *float64 `yaml:"angle,omitempty"`
	AngularVelocity *float64 `yaml:"angular_velocity,omitempty"`
	Friction        *float64 `yaml:"friction,omitempty"`
	Restitution     *float64 `yaml:"restitution,omitempty"`
	Static          bool     `yaml:"static,omitempty"`
	// Force and Torque are applied once, right after creation.
	Force  *Vec     `yaml:"force,omitempty"`
	Torque *float64 `yaml:"torque,omitempty"`
}

// ControllerSpec attaches a feedback controller to the body at index Body.
type ControllerSpec struct {
	Type   string  `yaml:"type"`
	Body   int     `yaml:"body"`
	Target Vec     `yaml:"target"`
	Kp     float64 `yaml:"kp"`
	Ki     float64 `yaml:"ki"`
	Kd     float64 `yaml:"kd"`
}

func DefaultScene() *Scene {
	return &Scene{
		Name:        "scene",
		Integrator:  DefaultIntegrator,
		Policy:      DefaultPolicy,
		Dt:          DefaultDt,
		Duration:    DefaultDuration,
		RecordEvery: DefaultRecordEvery,
	}
}

func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	scene := DefaultScene()
	if err := yaml.Unmarshal(data, scene); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return scene, nil
}

func Save(path string, scene *Scene) error {
	data, err := yaml.Marshal(scene)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (s *Scene) Validate() error {
	if !dynamo.IsFinite(s.Dt) || s.Dt <= 0 {
		return fmt.Errorf("dt must be finite and positive, got %f", s.Dt)
	}
	if !dynamo.IsFinite(s.Duration) || s.Duration <= 0 {
		return fmt.Errorf("duration must be finite and positive, got %f", s.Duration)
	}
	if n := math.Round(s.Duration / s.Dt); n > sim.MaxSteps {
		return fmt.Errorf("scene needs %g steps, limit is %d", n, sim.MaxSteps)
	}
	if _, err := integrators.ByName(s.Integrator); err != nil {
		return err
	}
	if _, err := ParsePolicy(s.Policy); err != nil {
		return err
	}
	for i, c := range s.Controllers {
		if c.Type != "hold" {
			return fmt.Errorf("controller %d: unknown type %q (available: [hold])", i, c.Type)
		}
		if c.Body < 0 || c.Body >= len(s.Bodies) {
			return fmt.Errorf("controller %d: body index %d out of range", i, c.Body)
		}
	}
	return nil
}

func (s *Scene) SimConfig() sim.Config {
	return sim.Config{
		Dt:          s.Dt,
		Duration:    s.Duration,
		RecordEvery: s.RecordEvery,
	}
}

func ParsePolicy(name string) (physics.AccumulatorPolicy, error) {
	switch name {
	case "", "reset":
		return physics.ResetEachStep, nil
	case "accumulate":
		return physics.Accumulate, nil
	default:
		return 0, fmt.Errorf("unknown accumulator policy: %s (available: [reset accumulate])", name)
	}
}

// Build creates an engine with a world and every body of the scene. The
// returned ids follow the order of s.Bodies.
func (s *Scene) Build() (*physics.Engine, []physics.BodyID, error) {
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}
	integ, _ := integrators.ByName(s.Integrator)
	policy, _ := ParsePolicy(s.Policy)

	eng := physics.New(physics.WithIntegrator(integ), physics.WithPolicy(policy))
	eng.CreateWorld()
	if s.Gravity != nil {
		if err := eng.SetGravity(s.Gravity.Vec2()); err != nil {
			return nil, nil, err
		}
	}

	ids := make([]physics.BodyID, 0, len(s.Bodies))
	for i, spec := range s.Bodies {
		id, err := eng.CreateBody(spec.Shape, spec.options()...)
		if err != nil {
			return nil, nil, fmt.Errorf("body %d (%s): %w", i, spec.Shape, err)
		}
		if spec.Force != nil {
			if err := eng.ApplyForce(id, spec.Force.Vec2()); err != nil {
				return nil, nil, err
			}
		}
		if spec.Torque != nil {
			if err := eng.ApplyTorque(id, *spec.Torque); err != nil {
				return nil, nil, err
			}
		}
		ids = append(ids, id)
	}
	return eng, ids, nil
}

// BuildControllers creates the scene's controllers for bodies created by
// Build, in the same order as ids.
func (s *Scene) BuildControllers(ids []physics.BodyID) ([]sim.Controller, error) {
	out := make([]sim.Controller, 0, len(s.Controllers))
	for i, c := range s.Controllers {
		if c.Body < 0 || c.Body >= len(ids) {
			return nil, fmt.Errorf("controller %d: body index %d out of range", i, c.Body)
		}
		pid := control.NewPID(c.Kp, c.Ki, c.Kd)
		out = append(out, control.NewHold(ids[c.Body], c.Target.Vec2(), pid))
	}
	return out, nil
}

func (b BodySpec) options() []physics.BodyOption {
	opts := []physics.BodyOption{physics.WithStatic(b.Static)}
	if b.Mass != nil {
		opts = append(opts, physics.WithMass(*b.Mass))
	}
	if b.Position != nil {
		opts = append(opts, physics.WithPosition(b.Position.Vec2()))
	}
	if b.Velocity != nil {
		opts = append(opts, physics.WithVelocity(b.Velocity.Vec2()))
	}
	if b.Angle != nil {
		opts = append(opts, physics.WithAngle(*b.Angle))
	}
	if b.AngularVelocity != nil {
		opts = append(opts, physics.WithAngularVelocity(*b.AngularVelocity))
	}
	if b.Friction != nil {
		opts = append(opts, physics.WithFriction(*b.Friction))
	}
	if b.Restitution != nil {
		opts = append(opts, physics.WithRestitution(*b.Restitution))
	}
	return opts
}
