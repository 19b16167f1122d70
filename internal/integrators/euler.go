package integrators

import "github.com/san-kum/mechsim/internal/dynamo"

// Euler is the explicit first-order method. It is cheap but drifts quickly
// on stiff link springs; prefer RK4 for scenes with many links.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	dx := sys.Derive(x, u, t)
	result := make(dynamo.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}
