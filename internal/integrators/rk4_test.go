package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/mechsim/internal/dynamo"
)

type oscillator struct{}

func (o *oscillator) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (o *oscillator) StateDim() int   { return 2 }
func (o *oscillator) ControlDim() int { return 0 }

func (o *oscillator) Energy(x dynamo.State) float64 {
	return 0.5 * (x[0]*x[0] + x[1]*x[1])
}

func run(integ dynamo.Integrator, x dynamo.State, dt float64, steps int) dynamo.State {
	sys := &oscillator{}
	for i := 0; i < steps; i++ {
		x = integ.Step(sys, x, nil, float64(i)*dt, dt)
	}
	return x
}

func TestRK4Accuracy(t *testing.T) {
	dt := 0.01
	steps := 100
	x := run(NewRK4(), dynamo.State{1.0, 0.0}, dt, steps)

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}
	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestEulerFirstStep(t *testing.T) {
	x := NewEuler().Step(&oscillator{}, dynamo.State{1.0, 0.0}, nil, 0, 0.1)
	if x[0] != 1.0 || math.Abs(x[1]+0.1) > 1e-12 {
		t.Errorf("unexpected euler step: %v", x)
	}
}

func TestSymplecticEnergyBounded(t *testing.T) {
	tests := []struct {
		name  string
		integ dynamo.Integrator
	}{
		{"verlet", NewVerlet()},
		{"leapfrog", NewLeapfrog()},
	}

	sys := &oscillator{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x0 := dynamo.State{1.0, 0.0}
			x := run(tt.integ, x0, 0.05, 2000)
			drift := math.Abs(sys.Energy(x)-sys.Energy(x0)) / sys.Energy(x0)
			if drift > 0.01 {
				t.Errorf("energy drift %.4f too large", drift)
			}
		})
	}
}

func TestNew(t *testing.T) {
	for _, name := range Names() {
		integ, err := New(name)
		if err != nil {
			t.Fatalf("New(%q): %v", name, err)
		}
		if integ == nil {
			t.Fatalf("New(%q) returned nil", name)
		}
	}

	if _, err := New("rk45"); err == nil {
		t.Error("expected error for unknown integrator")
	}
}

func TestNewReturnsFreshInstances(t *testing.T) {
	a, _ := New("rk4")
	b, _ := New("rk4")
	if a == b {
		t.Error("expected distinct integrator instances")
	}
}
