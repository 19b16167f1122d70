// Package dynamo provides the numerical primitives shared by the simulator.
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, u, t))
//   - [Integrator]: fixed-step numerical integrator
//
// The mechanism simulator in package mech packs its free bodies into a
// [State] and advances it with any [Integrator].
package dynamo
