package metrics

import (
	"math"

	"github.com/san-kum/magbasin/internal/dynamo"
)

// RodDrift tracks the largest deviation of the bob's distance from pivot
// away from length. For a rigorous pendulum it should stay at rounding level.
type RodDrift struct {
	name     string
	pivot    dynamo.Vec3
	length   float64
	maxDrift float64
}

func NewRodDrift(pivot dynamo.Vec3, length float64) *RodDrift {
	return &RodDrift{name: "rod_drift", pivot: pivot, length: length}
}

func (r *RodDrift) Name() string { return r.name }

func (r *RodDrift) OnStep(step int, x dynamo.State, t float64) {
	d := math.Abs(x.Pos.Sub(r.pivot).Len() - r.length)
	r.maxDrift = math.Max(r.maxDrift, d)
}

func (r *RodDrift) Value() float64 { return r.maxDrift }

func (r *RodDrift) Reset() { r.maxDrift = 0 }

// Excursion is the largest horizontal distance of the bob from the vertical
// line through pivot.
type Excursion struct {
	name    string
	pivot   dynamo.Vec3
	maximum float64
}

func NewExcursion(pivot dynamo.Vec3) *Excursion {
	return &Excursion{name: "excursion", pivot: pivot}
}

func (e *Excursion) Name() string { return e.name }

func (e *Excursion) OnStep(step int, x dynamo.State, t float64) {
	d := math.Hypot(x.Pos.X-e.pivot.X, x.Pos.Y-e.pivot.Y)
	e.maximum = math.Max(e.maximum, d)
}

func (e *Excursion) Value() float64 { return e.maximum }

func (e *Excursion) Reset() { e.maximum = 0 }
