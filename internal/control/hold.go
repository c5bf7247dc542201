package control

import (
	"github.com/san-kum/rigidsim/internal/dynamo"
	"github.com/san-kum/rigidsim/internal/physics"
)

// Hold drives one body toward a fixed target with a PID loop per axis. The
// world's gravity is cancelled as a feed-forward term so the loops only
// correct position error.
type Hold struct {
	Body   physics.BodyID
	Target dynamo.Vec2
	x, y   *PID
}

func NewHold(id physics.BodyID, target dynamo.Vec2, pid *PID) *Hold {
	return &Hold{
		Body:   id,
		Target: target,
		x:      pid,
		y:      pid.Clone(),
	}
}

func (h *Hold) Name() string { return "hold" }

func (h *Hold) Apply(eng *physics.Engine, t float64) error {
	b, err := eng.Body(h.Body)
	if err != nil {
		return err
	}
	g, err := eng.Gravity()
	if err != nil {
		return err
	}

	e := h.Target.Sub(b.Position())
	accel := dynamo.Vec2{X: h.x.Update(e.X, t), Y: h.y.Update(e.Y, t)}.Sub(g)
	return eng.ApplyForce(h.Body, accel.Scale(b.Mass()))
}

func (h *Hold) Reset() {
	h.x.Reset()
	h.y.Reset()
}
