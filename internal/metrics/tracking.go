package metrics

import (
	"github.com/san-kum/rigidsim/internal/dynamo"
	"github.com/san-kum/rigidsim/internal/physics"
	"github.com/san-kum/rigidsim/internal/sim"
)

// TrackingError is the mean distance between one body and a target point.
// Frames without the body are not counted.
type TrackingError struct {
	name    string
	body    physics.BodyID
	target  dynamo.Vec2
	total   float64
	samples int
}

func NewTrackingError(id physics.BodyID, target dynamo.Vec2) *TrackingError {
	return &TrackingError{name: "tracking_error", body: id, target: target}
}

func (m *TrackingError) Name() string { return m.name }

func (m *TrackingError) Observe(f sim.Frame) {
	for _, b := range f.Bodies {
		if b.ID == m.body {
			m.total += b.Position.Sub(m.target).Len()
			m.samples++
			return
		}
	}
}

func (m *TrackingError) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *TrackingError) Reset() {
	m.total = 0
	m.samples = 0
}
