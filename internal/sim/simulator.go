package sim

import (
	"github.com/san-kum/magbasin/internal/dynamo"
	"github.com/san-kum/magbasin/internal/integrators"
	"github.com/san-kum/magbasin/internal/physics"
)

const minRopeLength = 1e-6

// Simulator runs single trajectories of one physical system. A Simulator
// without observers is safe for concurrent use: Run keeps all mutable state
// on its own stack.
type Simulator struct {
	sys        *physics.System
	integrator dynamo.Integrator
	observers  []dynamo.Observer
}

func New(sys *physics.System, integrator dynamo.Integrator) *Simulator {
	if integrator == nil {
		integrator = integrators.NewRK4()
	}
	return &Simulator{
		sys:        sys,
		integrator: integrator,
	}
}

func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// Run classifies a single trajectory with the default RK4 stepper.
func Run(sys *physics.System, start dynamo.Vec3, cfg Config, thresholds []float64, bounds physics.Bounds) Result {
	return New(sys, nil).Run(start, cfg, thresholds, bounds)
}

// Run releases the bob at start with zero velocity and steps until it is
// classified or cfg.MaxSteps is exhausted. Every cfg.CheckInterval steps
// (step indices 0, k, 2k, ...) it checks, in order: non-finite state,
// divergence past twice the bounds, and the energy trap of the nearest
// magnet when that magnet is within the basin radius. Steps in the result is
// the zero-based index of the step the classification was made on.
//
// thresholds must be aligned with the system's magnets; a magnet without a
// threshold never captures.
func (s *Simulator) Run(start dynamo.Vec3, cfg Config, thresholds []float64, bounds physics.Bounds) Result {
	p := s.sys.Pendulum
	rigorous := p.Approximation == physics.Rigorous

	var ropeLength float64
	if rigorous {
		ropeLength = start.Sub(p.Suspension).Len()
	}

	interval := cfg.CheckInterval
	if interval < 1 {
		interval = 1
	}
	basinSq := cfg.BasinRadius * cfg.BasinRadius

	x := dynamo.State{Pos: start}
	t := 0.0

	for step := 0; step < cfg.MaxSteps; step++ {
		x = s.integrator.Step(s.sys, x, t, cfg.TimeStep)
		t += cfg.TimeStep

		if rigorous {
			x.Pos = s.onSphere(x.Pos, ropeLength)
		}

		for _, o := range s.observers {
			o.OnStep(step, x, t)
		}

		if step%interval != 0 {
			continue
		}

		if !x.IsValid() || bounds.Diverged(x.Pos.X, x.Pos.Y) {
			return Result{Captured: NoMagnet, FinalPosition: x.Pos, Steps: step, Reason: OutOfBounds}
		}

		idx, distSq := s.sys.ClosestMagnet(x.Pos)
		if idx < 0 || idx >= len(thresholds) || distSq >= basinSq {
			continue
		}

		if s.sys.TotalEnergy(x.Pos, x.Vel) < thresholds[idx] {
			return Result{Captured: idx, FinalPosition: x.Pos, Steps: step, Reason: EnergyTrap}
		}
	}

	if !x.IsValid() {
		return Result{Captured: NoMagnet, FinalPosition: x.Pos, Steps: cfg.MaxSteps, Reason: OutOfBounds}
	}
	return Result{Captured: NoMagnet, FinalPosition: x.Pos, Steps: cfg.MaxSteps, Reason: MaxStepsReached}
}

// onSphere rescales pos onto the sphere of radius length about the
// suspension point, undoing the rod-length drift the integrator accumulates.
func (s *Simulator) onSphere(pos dynamo.Vec3, length float64) dynamo.Vec3 {
	susp := s.sys.Pendulum.Suspension
	rel := pos.Sub(susp)
	l := rel.Len()
	if l <= minRopeLength || length <= minRopeLength {
		return pos
	}
	return susp.Add(rel.Scale(length / l))
}
