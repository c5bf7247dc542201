package metrics

import (
	"github.com/san-kum/rigidsim/internal/sim"
)

// KineticEnergy averages the total kinetic energy of all dynamic bodies over
// the observed frames. Rotational energy uses mass as the inertia, matching
// the engine's torque model.
type KineticEnergy struct {
	name        string
	samples     int
	totalEnergy float64
	last        float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(f sim.Frame) {
	energy := 0.0
	for _, b := range f.Bodies {
		if b.Static {
			continue
		}
		v := b.Velocity
		w := b.AngularVelocity
		energy += 0.5*b.Mass*(v.X*v.X+v.Y*v.Y) + 0.5*b.Mass*w*w
	}
	e.last = energy
	e.totalEnergy += energy
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

// Last is the energy of the most recent frame.
func (e *KineticEnergy) Last() float64 { return e.last }

func (e *KineticEnergy) Reset() {
	e.totalEnergy = 0
	e.last = 0
	e.samples = 0
}

type MaxSpeed struct {
	name string
	max  float64
}

func NewMaxSpeed() *MaxSpeed {
	return &MaxSpeed{name: "max_speed"}
}

func (m *MaxSpeed) Name() string { return m.name }

func (m *MaxSpeed) Observe(f sim.Frame) {
	for _, b := range f.Bodies {
		if b.Static {
			continue
		}
		if s := b.Velocity.Len(); s > m.max {
			m.max = s
		}
	}
}

func (m *MaxSpeed) Value() float64 { return m.max }

func (m *MaxSpeed) Reset() { m.max = 0 }
