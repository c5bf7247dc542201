package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/rigidsim/internal/dynamo"
)

var constructors = map[string]func() dynamo.Integrator{
	"euler":         func() dynamo.Integrator { return NewEuler() },
	"semi-implicit": func() dynamo.Integrator { return NewSemiImplicit() },
	"verlet":        func() dynamo.Integrator { return NewVerlet() },
}

// ByName returns a fresh integrator. An empty name selects Euler.
func ByName(name string) (dynamo.Integrator, error) {
	if name == "" {
		return NewEuler(), nil
	}
	ctor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s (available: %v)", name, Names())
	}
	return ctor(), nil
}

func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
