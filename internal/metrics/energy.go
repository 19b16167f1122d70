package metrics

import (
	"math"

	"github.com/san-kum/mechsim/internal/dynamo"
	"github.com/san-kum/mechsim/internal/mech"
)

// KineticEnergy is the mean kinetic energy over the observed steps.
type KineticEnergy struct {
	name    string
	samples int
	total   float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) OnStep(sys *mech.System) {
	e.total += sys.KineticEnergy()
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *KineticEnergy) Reset() {
	e.total = 0
	e.samples = 0
}

// EnergyDrift is the largest relative change of total energy from the first
// observed step.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) OnStep(sys *mech.System) { e.observe(sys, sys.State()) }

func (e *EnergyDrift) observe(h dynamo.Hamiltonian, x dynamo.State) {
	energy := h.Energy(x)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
