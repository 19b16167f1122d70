package dynamo

import (
	"math"
)

type State []float64

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

type Control []float64

// System is a first-order ODE dX/dt = f(X, u, t).
type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

// Hamiltonian is the total energy of a system at state x.
type Hamiltonian interface {
	Energy(x State) float64
}

type Integrator interface {
	Step(sys System, x State, u Control, t float64, dt float64) State
}
