// Package physics models a damped magnetic pendulum and the energy landscape
// used to classify where it comes to rest.
//
// A [System] holds an ordered list of [Magnet] values, a [Pendulum] and the
// run-level constants (friction, gravity). It implements [dynamo.System] so
// any integrator can advance it, and [dynamo.Hamiltonian] for energy checks.
//
// Two restoring-force models exist:
//
//   - [SmallAngle]: a linear spring towards the suspension point
//   - [Rigorous]: constant gravity with the bob held on a sphere by projecting
//     out the radial acceleration and adding a centripetal term
//
// Magnets act as monopoles (force ~ 1/d²) with distance floors that keep the
// integrator finite when the bob passes over a magnet.
//
// # Escape thresholds
//
// [EscapeThresholds] precomputes, for every attracting magnet, the lowest
// potential barrier on the straight line to any other magnet. A bob inside a
// magnet's basin whose total energy is below that value is trapped for good,
// which lets the simulator stop long before the bob physically settles.
// The search is a heuristic, not an exact separatrix.
//
// [SuggestBounds] derives the sampling window and the divergence box.
package physics
