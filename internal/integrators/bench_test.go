package integrators

import (
	"testing"

	"github.com/san-kum/rigidsim/internal/dynamo"
)

func benchAdvance(b *testing.B, integ dynamo.Integrator) {
	k := dynamo.Kinematics{
		Velocity:            dynamo.Vec2{X: 1, Y: 0},
		Acceleration:        dynamo.Vec2{X: 0, Y: 9.81},
		AngularAcceleration: 0.5,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.Advance(&k, 0.01)
	}
}

func BenchmarkEuler(b *testing.B) {
	benchAdvance(b, NewEuler())
}

func BenchmarkSemiImplicit(b *testing.B) {
	benchAdvance(b, NewSemiImplicit())
}

func BenchmarkVerlet(b *testing.B) {
	benchAdvance(b, NewVerlet())
}
