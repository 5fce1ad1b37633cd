// Package dynamo provides the core primitives shared by the basin solver.
//
// The package defines the value types and narrow interfaces the rest of the
// module is built on:
//
//   - [Vec3]: immutable 3-D vector with the usual algebra
//   - [State]: trajectory state, a position/velocity pair
//   - [System]: anything exposing dX/dt = f(X, t)
//   - [Integrator]: fixed-step numerical stepper over a [System]
//   - [Observer]: per-step hook for diagnostics and tests
//
// # Example
//
//	sys := physics.NewSystem(magnets, pendulum, 0.01, 9.8)
//	integ := integrators.NewRK4()
//	x := dynamo.State{Pos: start}
//	for i := 0; i < n; i++ {
//	    x = integ.Step(sys, x, float64(i)*dt, dt)
//	}
//
// # Thread Safety
//
// Vec3 and State are plain values. Implementations of [System] used by the
// solver are read-only after construction and may be shared across goroutines.
package dynamo
