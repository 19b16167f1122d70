package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/mechsim/internal/dynamo"
)

var factories = map[string]func() dynamo.Integrator{
	"euler":    func() dynamo.Integrator { return NewEuler() },
	"rk4":      func() dynamo.Integrator { return NewRK4() },
	"verlet":   func() dynamo.Integrator { return NewVerlet() },
	"leapfrog": func() dynamo.Integrator { return NewLeapfrog() },
}

// New returns a fresh integrator for name. Integrators keep scratch buffers,
// so each simulation needs its own instance.
func New(name string) (dynamo.Integrator, error) {
	fn, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s (available: %v)", name, Names())
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
