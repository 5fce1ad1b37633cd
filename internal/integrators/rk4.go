package integrators

import "github.com/san-kum/magbasin/internal/dynamo"

// RK4 is the classical fourth-order Runge-Kutta stepper. It holds no state and
// is safe for concurrent use.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	half := dt * 0.5

	k1 := dyn.Derive(x, t)
	k2 := dyn.Derive(x.Add(k1.Scale(half)), t+half)
	k3 := dyn.Derive(x.Add(k2.Scale(half)), t+half)
	k4 := dyn.Derive(x.Add(k3.Scale(dt)), t+dt)

	sum := k1.Add(k2.Scale(2)).Add(k3.Scale(2)).Add(k4)
	return x.Add(sum.Scale(dt / 6.0))
}
