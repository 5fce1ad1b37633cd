package physics

import "math"

// BarrierSamples is the number of segments the path between two magnets is
// cut into when searching for the saddle.
const BarrierSamples = 50

// BarrierProfile samples the potential at the n-1 interior points of the
// straight segment from magnet i to magnet j.
func (s *System) BarrierProfile(i, j, n int) []float64 {
	if n < 2 {
		n = 2
	}
	start, end := s.Magnets[i].Position, s.Magnets[j].Position
	profile := make([]float64, 0, n-1)
	for k := 1; k < n; k++ {
		t := float64(k) / float64(n)
		profile = append(profile, s.PotentialEnergy(start.Lerp(end, t)))
	}
	return profile
}

// Barrier is the highest potential on the segment from magnet i to magnet j,
// a one-dimensional stand-in for the saddle between the two wells.
func (s *System) Barrier(i, j int) float64 {
	peak := math.Inf(-1)
	for _, pe := range s.BarrierProfile(i, j, BarrierSamples) {
		if pe > peak {
			peak = pe
		}
	}
	return peak
}

// EscapeThresholds returns one energy per magnet, aligned with s.Magnets.
// A bob near attracting magnet i whose total energy is below the i-th value
// cannot climb over the lowest straight-line barrier to any other magnet.
// Repelling magnets get -Inf and never capture; a lone magnet gets 0.
//
// Only straight segments between magnet positions are sampled, so this is a
// heuristic: the true saddle may lie off the segment, and the vertical axis
// of the rigorous model is never explored.
func EscapeThresholds(s *System) []float64 {
	thresholds := make([]float64, len(s.Magnets))

	for i, m := range s.Magnets {
		if m.Direction == Repel {
			thresholds[i] = math.Inf(-1)
			continue
		}

		if len(s.Magnets) == 1 {
			thresholds[i] = 0
			continue
		}

		lowest := math.Inf(1)
		for j := range s.Magnets {
			if i == j {
				continue
			}
			if b := s.Barrier(i, j); b < lowest {
				lowest = b
			}
		}
		thresholds[i] = lowest
	}

	return thresholds
}
