package physics

import (
	"math"

	"github.com/san-kum/magbasin/internal/dynamo"
)

// minPotentialDistance floors magnet distance in the potential.
const minPotentialDistance = 1e-6

// PotentialEnergy is the gravity term plus one monopole term per magnet:
// a well (-strength/d) for attracting magnets, a barrier (+strength/d) for
// repelling ones. Rigorous gravity is m·g·z with z = 0 as reference.
func (s *System) PotentialEnergy(pos dynamo.Vec3) float64 {
	p := s.Pendulum
	pe := 0.0

	switch p.Approximation {
	case Rigorous:
		pe += p.Mass * s.Gravity * pos.Z
	case SmallAngle:
		length := math.Abs(p.Suspension.Z)
		if length < minPotentialDistance {
			length = minPotentialDistance
		}
		k := p.Mass * s.Gravity / length
		pe += 0.5 * k * (pos.X*pos.X + pos.Y*pos.Y)
	}

	for _, m := range s.Magnets {
		d := pos.Sub(m.Position).Len()
		if d < minPotentialDistance {
			d = minPotentialDistance
		}
		switch m.Direction {
		case Attract:
			pe -= m.Strength / d
		case Repel:
			pe += m.Strength / d
		}
	}

	return pe
}

func (s *System) KineticEnergy(vel dynamo.Vec3) float64 {
	return 0.5 * s.Pendulum.Mass * vel.LenSq()
}

func (s *System) TotalEnergy(pos, vel dynamo.Vec3) float64 {
	return s.KineticEnergy(vel) + s.PotentialEnergy(pos)
}
