package dynamo

// State is the mutable part of a single trajectory: where the bob is and how
// fast it moves. A derivative of a State is again a State (velocity,
// acceleration).
type State struct {
	Pos Vec3
	Vel Vec3
}

func (s State) Add(other State) State {
	return State{Pos: s.Pos.Add(other.Pos), Vel: s.Vel.Add(other.Vel)}
}

func (s State) Scale(factor float64) State {
	return State{Pos: s.Pos.Scale(factor), Vel: s.Vel.Scale(factor)}
}

// IsValid reports whether every component is finite.
func (s State) IsValid() bool {
	return s.Pos.IsFinite() && s.Vel.IsFinite()
}

// System exposes the right-hand side of dX/dt = f(X, t).
type System interface {
	Derive(x State, t float64) State
}

// Hamiltonian is implemented by systems that can report total energy.
type Hamiltonian interface {
	Energy(x State) float64
}

type Integrator interface {
	Step(dyn System, x State, t float64, dt float64) State
}

type Observer interface {
	OnStep(step int, x State, t float64)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(step int, x State, t float64)

func (f ObserverFunc) OnStep(step int, x State, t float64) { f(step, x, t) }
