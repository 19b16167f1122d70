// Package metrics summarizes a simulation while it runs. Every metric is a
// mech.Observer sampling the system after each step.
package metrics

import "github.com/san-kum/mechsim/internal/mech"

type Metric interface {
	mech.Observer
	Name() string
	Value() float64
	Reset()
}

// Set fans steps out to several metrics.
type Set []Metric

// Default returns the metrics stored with every recorded run.
func Default() Set {
	return Set{NewKineticEnergy(), NewEnergyDrift(), NewLinkViolation(), NewContactRatio()}
}

func (s Set) OnStep(sys *mech.System) {
	for _, m := range s {
		m.OnStep(sys)
	}
}

func (s Set) Values() map[string]float64 {
	out := make(map[string]float64, len(s))
	for _, m := range s {
		out[m.Name()] = m.Value()
	}
	return out
}

func (s Set) Reset() {
	for _, m := range s {
		m.Reset()
	}
}
