// Package physics is a minimal 2D rigid-body engine.
//
// An [Engine] owns one [World] and a registry of bodies. Bodies are created
// with functional options and addressed by [BodyID]; every mutation goes
// through the engine so unknown ids surface as [dynamo.ErrBodyNotFound].
//
//	eng := physics.New()
//	eng.CreateWorld()
//	id, _ := eng.CreateBody("circle", physics.WithMass(2))
//	_ = eng.ApplyForce(id, dynamo.Vec2{X: 10})
//	_ = eng.Step(1.0 / 60)
//
// Each step adds gravity and air drag to every dynamic body's acceleration
// and advances it with the configured integrator. Applied forces and torques
// last for one step under [ResetEachStep] and build up forever under
// [Accumulate].
//
// # Concurrency
//
// An Engine is not safe for concurrent use. Goroutines that need to push
// input while another one steps should enqueue on a [Queue] and let the
// stepping goroutine call [Queue.Flush] between steps.
package physics
