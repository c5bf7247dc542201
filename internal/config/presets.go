package config

import (
	"slices"
	"sort"
)

func ptr[T any](v T) *T { return &v }

// Positive y points down, so upward launches use negative y velocities.
var Presets = map[string]*Scene{
	"drop": {
		Name: "drop", Integrator: "euler", Dt: 0.01, Duration: 3.0,
		Bodies: []BodySpec{
			{Shape: "circle"},
		},
	},
	"projectile": {
		Name: "projectile", Integrator: "semi-implicit", Dt: 0.01, Duration: 4.0,
		Bodies: []BodySpec{
			{Shape: "circle", Mass: ptr(0.5), Velocity: &Vec{X: 10, Y: -18}},
			{Shape: "box", Static: true, Position: &Vec{X: 0, Y: 0}},
		},
	},
	"spinner": {
		Name: "spinner", Integrator: "euler", Dt: 0.01, Duration: 5.0,
		Gravity: &Vec{},
		Bodies: []BodySpec{
			{Shape: "box", Mass: ptr(2.0), Torque: ptr(40.0)},
			{Shape: "box", Mass: ptr(1.0), Position: &Vec{X: 4}, AngularVelocity: ptr(-3.0)},
		},
	},
	"drift": {
		Name: "drift", Integrator: "verlet", Dt: 0.02, Duration: 20.0,
		Gravity: &Vec{},
		Bodies: []BodySpec{
			{Shape: "circle", Velocity: &Vec{X: 2, Y: 1}},
			{Shape: "circle", Mass: ptr(4.0), Force: &Vec{X: -200, Y: 0}},
			{Shape: "triangle", Position: &Vec{X: -5, Y: 5}, Velocity: &Vec{X: 0, Y: -3}},
		},
	},
	"rain": {
		Name: "rain", Integrator: "euler", Dt: 0.01, Duration: 2.0,
		Bodies: []BodySpec{
			{Shape: "ground", Static: true, Position: &Vec{X: 0, Y: 20}},
			{Shape: "circle", Position: &Vec{X: -6, Y: 0}},
			{Shape: "circle", Position: &Vec{X: -2, Y: -4}, Mass: ptr(3.0)},
			{Shape: "circle", Position: &Vec{X: 2, Y: -8}, Velocity: &Vec{X: -1}},
			{Shape: "circle", Position: &Vec{X: 6, Y: -2}, Velocity: &Vec{X: 1, Y: -5}},
		},
	},
	"hover": {
		Name: "hover", Integrator: "semi-implicit", Dt: 0.01, Duration: 12.0,
		Bodies: []BodySpec{
			{Shape: "box", Mass: ptr(2.0), Position: &Vec{X: -4, Y: 0}},
			{Shape: "circle"},
		},
		Controllers: []ControllerSpec{
			{Type: "hold", Body: 0, Target: Vec{X: 3, Y: -6}, Kp: 16, Kd: 8},
		},
	},
	"compat": {
		Name: "compat", Integrator: "euler", Policy: "accumulate", Dt: 0.01, Duration: 2.0,
		Bodies: []BodySpec{
			{Shape: "circle", Mass: ptr(2.0), Force: &Vec{X: 10}},
		},
	},
}

// GetPreset returns a copy of the named preset with unset fields defaulted,
// or nil if there is no such preset.
func GetPreset(name string) *Scene {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	scene := *p
	scene.Bodies = slices.Clone(p.Bodies)
	scene.Controllers = slices.Clone(p.Controllers)
	if scene.Policy == "" {
		scene.Policy = DefaultPolicy
	}
	if scene.RecordEvery == 0 {
		scene.RecordEvery = DefaultRecordEvery
	}
	return &scene
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
