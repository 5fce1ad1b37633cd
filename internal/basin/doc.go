// Package basin turns the single-trajectory simulator into a basin-of-
// attraction map: it lays a pixel grid over the planner bounds, projects each
// pixel to a 3-D release point and classifies every point in parallel.
//
// The physical system, the escape thresholds and the bounds are computed once
// and shared read-only by all workers; each trajectory owns its state.
package basin
