package sim

import (
	"math"
	"testing"

	"github.com/san-kum/magbasin/internal/dynamo"
	"github.com/san-kum/magbasin/internal/integrators"
	"github.com/san-kum/magbasin/internal/physics"
)

func triangle(radius, strength float64) []physics.Magnet {
	magnets := make([]physics.Magnet, 3)
	for i := range magnets {
		a := float64(i) * 2 * math.Pi / 3
		magnets[i] = physics.Magnet{
			Position:  dynamo.V(radius*math.Cos(a), radius*math.Sin(a), 0),
			Direction: physics.Attract,
			Strength:  strength,
		}
	}
	return magnets
}

func TestRunMaxStepsWithoutMagnets(t *testing.T) {
	sys := physics.NewSystem(nil, physics.Pendulum{
		Suspension:    dynamo.V(0, 0, 1),
		Mass:          1,
		Approximation: physics.SmallAngle,
	}, 0.1, 9.8)

	cfg := DefaultConfig()
	cfg.MaxSteps = 300
	res := Run(sys, dynamo.V(0.2, 0.1, 1), cfg, nil, physics.SuggestBounds(sys, 0.5, 0.5))

	if res.Reason != MaxStepsReached {
		t.Fatalf("expected MaxStepsReached, got %v", res.Reason)
	}
	if res.Steps != cfg.MaxSteps {
		t.Errorf("expected %d steps, got %d", cfg.MaxSteps, res.Steps)
	}
	if _, ok := res.CapturedMagnet(); ok {
		t.Error("no magnet should be captured")
	}
}

func TestRunRepellerNeverCaptures(t *testing.T) {
	sys := physics.NewSystem([]physics.Magnet{
		{Position: dynamo.V(0, 0, 0), Direction: physics.Repel, Strength: 0.01},
	}, physics.Pendulum{Suspension: dynamo.V(0, 0, 1), Mass: 1, Approximation: physics.SmallAngle}, 0.2, 9.8)

	cfg := DefaultConfig()
	cfg.MaxSteps = 500
	th := physics.EscapeThresholds(sys)
	res := Run(sys, dynamo.V(0.3, 0.3, 0.1), cfg, th, physics.SuggestBounds(sys, 0.5, 0.5))

	if res.Reason == EnergyTrap {
		t.Fatalf("repelling magnet captured the bob: %+v", res)
	}
}

func TestRunNonFiniteIsOutOfBounds(t *testing.T) {
	// A massless bob turns every force into an infinite acceleration.
	sys := physics.NewSystem([]physics.Magnet{
		{Position: dynamo.V(1, 0, 0), Direction: physics.Attract, Strength: 1},
	}, physics.Pendulum{Suspension: dynamo.V(0, 0, 1), Mass: 0, Approximation: physics.SmallAngle}, 0, 9.8)

	cfg := DefaultConfig()
	res := Run(sys, dynamo.V(0.3, 0, 1), cfg, []float64{0}, physics.SuggestBounds(sys, 0.5, 0.5))

	if res.Reason != OutOfBounds {
		t.Fatalf("expected OutOfBounds, got %v", res.Reason)
	}
	if res.Steps >= cfg.MaxSteps {
		t.Errorf("non-finite state should end the run early, got %d steps", res.Steps)
	}
}

func TestRunMissingThresholdsNeverCapture(t *testing.T) {
	sys := physics.NewSystem(triangle(0.5, 0.5), physics.Pendulum{
		Suspension: dynamo.V(0, 0, 1), Mass: 1, Approximation: physics.SmallAngle,
	}, 0.2, 9.8)

	cfg := DefaultConfig()
	cfg.MaxSteps = 200
	res := Run(sys, dynamo.V(0.4, 0.1, 0.1), cfg, nil, physics.SuggestBounds(sys, 0.5, 0.5))
	if res.Reason == EnergyTrap {
		t.Fatalf("captured without thresholds: %+v", res)
	}
}

func TestRigorousKeepsRodLength(t *testing.T) {
	susp := dynamo.V(0.1, -0.2, 1.8)
	sys := physics.NewSystem(triangle(0.6, 0.3), physics.Pendulum{
		Suspension: susp, Mass: 1, Approximation: physics.Rigorous,
	}, 0.05, 9.8)

	start := dynamo.V(0.5, 0.4, 0)
	start.Z = susp.Z - math.Sqrt(1.5*1.5-(0.4*0.4+0.6*0.6))
	length := start.Sub(susp).Len()

	steps := 0
	worst := 0.0
	s := New(sys, integrators.NewRK4())
	s.AddObserver(dynamo.ObserverFunc(func(step int, x dynamo.State, _ float64) {
		steps++
		worst = math.Max(worst, math.Abs(x.Pos.Sub(susp).Len()-length))
	}))

	cfg := DefaultConfig()
	cfg.MaxSteps = 3000
	s.Run(start, cfg, physics.EscapeThresholds(sys), physics.SuggestBounds(sys, 0.5, 0.5))

	if steps == 0 {
		t.Fatal("observer never called")
	}
	if worst > 1e-9 {
		t.Errorf("rod length drifted by %g", worst)
	}
}

func TestObserverSeesEveryStep(t *testing.T) {
	sys := physics.NewSystem(nil, physics.Pendulum{
		Suspension: dynamo.V(0, 0, 1), Mass: 1, Approximation: physics.SmallAngle,
	}, 0, 9.8)

	var seen []int
	var last float64
	s := New(sys, nil)
	s.AddObserver(dynamo.ObserverFunc(func(step int, _ dynamo.State, t float64) {
		seen = append(seen, step)
		last = t
	}))

	cfg := DefaultConfig()
	cfg.MaxSteps = 25
	s.Run(dynamo.V(0.1, 0, 1), cfg, nil, physics.SuggestBounds(sys, 0.5, 0.5))

	if len(seen) != 25 || seen[0] != 0 || seen[24] != 24 {
		t.Errorf("unexpected observed steps: %v", seen)
	}
	if math.Abs(last-0.25) > 1e-12 {
		t.Errorf("time not advanced by dt per step: %g", last)
	}
}

func TestRunEnergyCheckGatedByBasinRadius(t *testing.T) {
	sys := physics.NewSystem([]physics.Magnet{
		{Position: dynamo.V(0, 0, 0), Direction: physics.Attract, Strength: 5},
	}, physics.Pendulum{Suspension: dynamo.V(0, 0, 1), Mass: 1, Approximation: physics.SmallAngle}, 0.01, 9.8)
	th := physics.EscapeThresholds(sys)
	bounds := physics.SuggestBounds(sys, 0.5, 0.5)
	start := dynamo.V(0.5, 0, 0.1)

	// Released about 0.51 from the magnet, already below its threshold.
	if e := sys.TotalEnergy(start, dynamo.Vec3{}); e >= th[0] {
		t.Fatalf("fixture energy %g not below threshold %g", e, th[0])
	}

	cfg := DefaultConfig()
	cfg.MaxSteps = 1
	cfg.CaptureRadius = 0.1
	cfg.BasinRadius = 0.2

	res := Run(sys, start, cfg, th, bounds)
	if res.Reason == EnergyTrap {
		t.Fatalf("bob outside the basin radius was trapped: %+v", res)
	}
	if res.Reason != MaxStepsReached {
		t.Errorf("expected MaxStepsReached, got %v", res.Reason)
	}

	cfg.BasinRadius = 1.0
	res = Run(sys, start, cfg, th, bounds)
	if res.Reason != EnergyTrap {
		t.Fatalf("expected EnergyTrap inside the basin radius, got %+v", res)
	}
	if idx, ok := res.CapturedMagnet(); !ok || idx != 0 {
		t.Errorf("expected magnet 0, got %d", res.Captured)
	}
	if res.Steps != 0 {
		t.Errorf("expected classification on step 0, got %d", res.Steps)
	}
}
