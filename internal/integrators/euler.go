package integrators

import "github.com/san-kum/magbasin/internal/dynamo"

// Euler is the explicit first-order stepper, kept for accuracy comparisons.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, t float64, dt float64) dynamo.State {
	return x.Add(dyn.Derive(x, t).Scale(dt))
}
