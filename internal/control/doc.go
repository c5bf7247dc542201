// Package control provides feedback controllers that steer bodies by
// applying forces before each engine step.
//
// Controllers implement [sim.Controller] and are attached with
// Simulator.AddController:
//
//	hold := control.NewHold(id, dynamo.Vec2{Y: -5}, control.NewPID(16, 0, 8))
//	s.AddController(hold)
package control
