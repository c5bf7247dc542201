// Package dynamo provides the core primitives shared by the rigid-body engine.
//
// The package defines the value types and interfaces every other package
// builds on:
//
//   - [Vec2]: 2D vector used for positions, velocities and forces
//   - [Kinematics]: the per-body state an integrator advances
//   - [Integrator]: numerical integration scheme for one body and one step
//
// It also holds the domain errors. Callers match them with [errors.Is]:
//
//	if err := eng.ApplyForce(id, f); errors.Is(err, dynamo.ErrBodyNotFound) {
//	    // stale id
//	}
//
// # Thread Safety
//
// Nothing in this package carries shared state. The engine built on top of it
// is NOT thread-safe; see physics.Queue for feeding mutations from other
// goroutines.
package dynamo
