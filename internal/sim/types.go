package sim

import (
	"github.com/san-kum/rigidsim/internal/physics"
)

// Frame is a recorded instant of the whole scene.
type Frame struct {
	Time   float64
	Bodies []physics.BodyState
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

// Controller steers bodies by mutating the engine before each step.
type Controller interface {
	Name() string
	Apply(eng *physics.Engine, t float64) error
}

type Observer interface {
	OnStep(f Frame)
}

type Config struct {
	Dt       float64
	Duration float64
	// RecordEvery keeps one frame per that many steps. Zero or one records
	// every step. The initial and final frames are always kept.
	RecordEvery int
}

func DefaultConfig() Config {
	return Config{
		Dt:          0.01,
		Duration:    10.0,
		RecordEvery: 1,
	}
}

type Result struct {
	Frames     []Frame
	Metrics    map[string]float64
	StepsTaken int
}

// Track returns one body's recorded states, skipping frames where it is absent.
func (r *Result) Track(id physics.BodyID) []physics.BodyState {
	out := make([]physics.BodyState, 0, len(r.Frames))
	for _, f := range r.Frames {
		for _, b := range f.Bodies {
			if b.ID == id {
				out = append(out, b)
				break
			}
		}
	}
	return out
}

func (r *Result) Times() []float64 {
	out := make([]float64, len(r.Frames))
	for i, f := range r.Frames {
		out[i] = f.Time
	}
	return out
}
