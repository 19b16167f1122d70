package mech

import (
	"github.com/san-kum/mechsim/internal/dynamo"
)

func (s *System) KineticEnergy() float64 {
	ke := 0.0
	for _, b := range s.free {
		ke += 0.5 * b.Mass * b.Vel.Dot(b.Vel)
	}
	return ke
}

// PotentialEnergy sums gravity over free bodies and the elastic energy
// stored in the links.
func (s *System) PotentialEnergy() float64 {
	return s.Energy(s.pack()) - s.KineticEnergy()
}

// State returns the packed positions and velocities of the free bodies.
func (s *System) State() dynamo.State { return s.pack() }

// Energy implements dynamo.Hamiltonian over the packed state.
func (s *System) Energy(x dynamo.State) float64 {
	e := 0.0
	for _, b := range s.free {
		p, v := s.posVel(b, x)
		e += 0.5*b.Mass*v.Dot(v) - b.Mass*s.settings.Gravity.Dot(p)
	}
	for _, l := range s.links {
		stretch := s.violation(l, x)
		e += 0.5 * l.Stiffness * stretch * stretch
	}
	return e
}
