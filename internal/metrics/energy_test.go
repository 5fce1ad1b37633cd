package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/magbasin/internal/dynamo"
)

// springEnergy is 0.5|x|^2 + 0.5|v|^2.
type springEnergy struct{}

func (springEnergy) Energy(x dynamo.State) float64 {
	return 0.5*x.Pos.LenSq() + 0.5*x.Vel.LenSq()
}

func TestEnergyTracksLastAndMin(t *testing.T) {
	m := NewEnergy(springEnergy{})

	m.OnStep(0, dynamo.State{Pos: dynamo.V(2, 0, 0)}, 0)
	m.OnStep(1, dynamo.State{Pos: dynamo.V(1, 0, 0)}, 0.1)
	m.OnStep(2, dynamo.State{Pos: dynamo.V(0, 0, 0), Vel: dynamo.V(1, 1, 0)}, 0.2)

	if got := m.Value(); math.Abs(got-1.0) > 1e-12 {
		t.Errorf("expected final energy 1, got %f", got)
	}
	if got := m.Min(); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("expected min energy 0.5, got %f", got)
	}
}

func TestEnergyReset(t *testing.T) {
	m := NewEnergy(springEnergy{})

	m.OnStep(0, dynamo.State{Pos: dynamo.V(1, 1, 0)}, 0)
	if m.Value() == 0 {
		t.Error("expected non-zero energy")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift(springEnergy{})

	m.OnStep(0, dynamo.State{Pos: dynamo.V(2, 0, 0)}, 0)
	m.OnStep(1, dynamo.State{Pos: dynamo.V(1, 0, 0)}, 0.1)
	m.OnStep(2, dynamo.State{Pos: dynamo.V(2, 0, 0)}, 0.2)

	if got := m.Value(); math.Abs(got-0.75) > 1e-12 {
		t.Errorf("expected max drift 0.75, got %f", got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}

func TestRodDriftAndExcursion(t *testing.T) {
	pivot := dynamo.V(0, 0, 1)
	rod := NewRodDrift(pivot, 1)
	exc := NewExcursion(pivot)

	var _ Metric = rod
	var _ Metric = exc

	for i, pos := range []dynamo.Vec3{
		dynamo.V(0, 0, 0),
		dynamo.V(0.6, 0, 0.2),
		dynamo.V(0, 0, -0.1),
	} {
		x := dynamo.State{Pos: pos}
		rod.OnStep(i, x, 0)
		exc.OnStep(i, x, 0)
	}

	if got := rod.Value(); math.Abs(got-0.1) > 1e-12 {
		t.Errorf("expected rod drift 0.1, got %f", got)
	}
	if got := exc.Value(); math.Abs(got-0.6) > 1e-12 {
		t.Errorf("expected excursion 0.6, got %f", got)
	}
}
