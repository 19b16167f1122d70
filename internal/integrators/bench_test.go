package integrators

import (
	"testing"

	"github.com/san-kum/mechsim/internal/dynamo"
)

// springChain is a row of unit masses joined by springs, laid out as
// positions then velocities like the mechanism state.
type springChain struct{ n int }

func (c *springChain) StateDim() int   { return 2 * c.n }
func (c *springChain) ControlDim() int { return 0 }
func (c *springChain) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	dx := make(dynamo.State, 2*c.n)
	for i := 0; i < c.n; i++ {
		dx[i] = x[c.n+i]
		f := 0.0
		if i > 0 {
			f -= 100 * (x[i] - x[i-1])
		}
		if i < c.n-1 {
			f += 100 * (x[i+1] - x[i])
		}
		dx[c.n+i] = f
	}
	return dx
}

func benchmark(b *testing.B, integ dynamo.Integrator, n int) {
	sys := &springChain{n: n}
	x := make(dynamo.State, 2*n)
	for i := 0; i < n; i++ {
		x[i] = float64(i) * 0.1
	}
	x[0] = 0.05

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integ.Step(sys, x, nil, 0, 0.002)
	}
}

func BenchmarkEuler(b *testing.B)    { benchmark(b, NewEuler(), 8) }
func BenchmarkRK4(b *testing.B)      { benchmark(b, NewRK4(), 8) }
func BenchmarkVerlet(b *testing.B)   { benchmark(b, NewVerlet(), 8) }
func BenchmarkLeapfrog(b *testing.B) { benchmark(b, NewLeapfrog(), 8) }
func BenchmarkRK4_Chain64(b *testing.B) {
	benchmark(b, NewRK4(), 64)
}
