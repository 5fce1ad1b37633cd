package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/magbasin/internal/dynamo"
)

const (
	// minMagnetDistance floors |r| in the force law.
	minMagnetDistance = 1e-4
	// minRopeLength disables the rod constraint when the bob sits on the suspension point.
	minRopeLength = 1e-6
	// smallAngleLift is added to the suspension height in the small-angle spring constant.
	smallAngleLift = 0.1
)

// System is a damped pendulum moving over a fixed, ordered set of magnets.
// It is immutable after NewSystem and safe to share between goroutines.
type System struct {
	Magnets  []Magnet
	Pendulum Pendulum
	Friction float64
	Gravity  float64
}

// NewSystem copies magnets so later changes to the caller's slice do not leak in.
func NewSystem(magnets []Magnet, pendulum Pendulum, friction, gravity float64) *System {
	m := make([]Magnet, len(magnets))
	copy(m, magnets)
	return &System{
		Magnets:  m,
		Pendulum: pendulum,
		Friction: friction,
		Gravity:  gravity,
	}
}

// Validate rejects parameters the force model cannot work with.
func (s *System) Validate() error {
	if s.Pendulum.Mass <= 0 {
		return fmt.Errorf("%w: pendulum mass must be positive, got %g", dynamo.ErrInvalidSystem, s.Pendulum.Mass)
	}
	if s.Gravity <= 0 {
		return fmt.Errorf("%w: gravity must be positive, got %g", dynamo.ErrInvalidSystem, s.Gravity)
	}
	if s.Friction < 0 {
		return fmt.Errorf("%w: friction must be non-negative, got %g", dynamo.ErrInvalidSystem, s.Friction)
	}
	for i, m := range s.Magnets {
		if m.Strength <= 0 {
			return fmt.Errorf("%w: magnet %d strength must be positive, got %g", dynamo.ErrInvalidSystem, i, m.Strength)
		}
	}
	return nil
}

// SpringConstant is the small-angle restoring stiffness m·g/(|s.z|+0.1).
func (s *System) SpringConstant() float64 {
	return s.Pendulum.Mass * s.Gravity / (math.Abs(s.Pendulum.Suspension.Z) + smallAngleLift)
}

// Derive returns (velocity, acceleration) for the bob at state x.
func (s *System) Derive(x dynamo.State, _ float64) dynamo.State {
	pos, vel := x.Pos, x.Vel
	p := s.Pendulum

	var force dynamo.Vec3
	switch p.Approximation {
	case SmallAngle:
		force = p.Suspension.Sub(pos).Scale(s.SpringConstant())
	case Rigorous:
		force = dynamo.V(0, 0, -p.Mass*s.Gravity)
	}

	force = force.Add(s.magneticForce(pos))
	force = force.Add(vel.Scale(-s.Friction))

	acc := force.Div(p.Mass)

	if p.Approximation == Rigorous {
		acc = s.constrain(pos, vel, acc)
	}

	return dynamo.State{Pos: vel, Vel: acc}
}

func (s *System) magneticForce(pos dynamo.Vec3) dynamo.Vec3 {
	var total dynamo.Vec3
	for _, m := range s.Magnets {
		r := m.Position.Sub(pos)
		d := r.Len()
		if d < minMagnetDistance {
			d = minMagnetDistance
		}
		f := r.Scale(m.Strength / (d * d * d))
		switch m.Direction {
		case Attract:
			total = total.Add(f)
		case Repel:
			total = total.Sub(f)
		}
	}
	return total
}

// constrain removes the radial part of acc and adds the centripetal term
// -|v|²/L along the rope, emulating a rigid rod.
func (s *System) constrain(pos, vel, acc dynamo.Vec3) dynamo.Vec3 {
	rope := pos.Sub(s.Pendulum.Suspension)
	l := rope.Len()
	if l <= minRopeLength {
		return acc
	}
	n := rope.Div(l)
	acc = acc.Sub(n.Scale(acc.Dot(n)))
	return acc.Add(n.Scale(-vel.LenSq() / l))
}

// Energy implements dynamo.Hamiltonian.
func (s *System) Energy(x dynamo.State) float64 {
	return s.TotalEnergy(x.Pos, x.Vel)
}

// ClosestMagnet returns the index of the nearest magnet and the squared
// distance to it, or -1 when there are no magnets.
func (s *System) ClosestMagnet(pos dynamo.Vec3) (int, float64) {
	idx, best := -1, 0.0
	for i, m := range s.Magnets {
		if d := pos.Sub(m.Position).LenSq(); idx < 0 || d < best {
			idx, best = i, d
		}
	}
	return idx, best
}
