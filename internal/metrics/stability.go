package metrics

import (
	"math"

	"github.com/san-kum/rigidsim/internal/sim"
)

// Bounds reports the fraction of frames in which every body stayed inside a
// square of half-width limit around the origin.
type Bounds struct {
	name       string
	limit      float64
	violations int
	samples    int
}

func NewBounds(limit float64) *Bounds {
	return &Bounds{
		name:  "in_bounds",
		limit: limit,
	}
}

func (s *Bounds) Name() string {
	return s.name
}

func (s *Bounds) Observe(f sim.Frame) {
	s.samples++
	for _, b := range f.Bodies {
		if math.Abs(b.Position.X) > s.limit || math.Abs(b.Position.Y) > s.limit {
			s.violations++
			break
		}
	}
}

func (s *Bounds) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Bounds) Reset() {
	s.violations = 0
	s.samples = 0
}
