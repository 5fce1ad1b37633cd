package sim_test

import (
	"math"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/magbasin/internal/dynamo"
	"github.com/san-kum/magbasin/internal/physics"
	"github.com/san-kum/magbasin/internal/sim"
)

var _ = Describe("Run", func() {
	var cfg sim.Config

	BeforeEach(func() {
		cfg = sim.Config{
			TimeStep:      0.01,
			MaxSteps:      5000,
			CaptureRadius: 0.15,
			BasinRadius:   2.0,
			CheckInterval: 5,
		}
	})

	Context("with a single strong attracting magnet", func() {
		var (
			sys        *physics.System
			thresholds []float64
			bounds     physics.Bounds
		)

		BeforeEach(func() {
			sys = physics.NewSystem([]physics.Magnet{
				{Position: dynamo.V(0, 0, 0), Direction: physics.Attract, Strength: 5.0},
			}, physics.Pendulum{
				Suspension:    dynamo.V(0, 0, 1),
				Mass:          1.0,
				Approximation: physics.SmallAngle,
			}, 0.01, 9.8)
			thresholds = physics.EscapeThresholds(sys)
			bounds = physics.SuggestBounds(sys, 0.5, 0.5)
		})

		It("uses the isolated-magnet threshold", func() {
			Expect(thresholds).To(Equal([]float64{0.0}))
		})

		It("traps a bob released right above the magnet", func() {
			res := sim.Run(sys, dynamo.V(0.01, 0, 0.1), cfg, thresholds, bounds)

			Expect(res.Reason).To(Equal(sim.EnergyTrap))
			idx, ok := res.CapturedMagnet()
			Expect(ok).To(BeTrue())
			Expect(idx).To(Equal(0))
			Expect(res.Steps % cfg.CheckInterval).To(Equal(0))
			Expect(res.Steps).To(BeNumerically("<=", 10*cfg.CheckInterval))
		})

		It("is deterministic across concurrent runs", func() {
			start := dynamo.V(0.7, -0.4, 0.1)
			want := sim.Run(sys, start, cfg, thresholds, bounds)

			var wg sync.WaitGroup
			got := make([]sim.Result, 8)
			for i := range got {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					got[i] = sim.Run(sys, start, cfg, thresholds, bounds)
				}(i)
			}
			wg.Wait()

			for _, r := range got {
				Expect(r).To(Equal(want))
			}
		})
	})

	Context("when released far outside the planner bounds", func() {
		It("ends out of bounds before the step limit", func() {
			sys := physics.NewSystem([]physics.Magnet{
				{Position: dynamo.V(0.5, 0, 0), Direction: physics.Attract, Strength: 0.01},
			}, physics.Pendulum{
				Suspension:    dynamo.V(0, 0, 1),
				Mass:          1.0,
				Approximation: physics.SmallAngle,
			}, 0.01, 9.8)

			const padding = 0.1
			bounds := physics.SuggestBounds(sys, padding, 0.5)
			pad := bounds.MaxX - 0.5
			start := dynamo.V(bounds.MaxX+100*pad, 0, 0.1)

			res := sim.Run(sys, start, cfg, physics.EscapeThresholds(sys), bounds)

			Expect(res.Reason).To(Equal(sim.OutOfBounds))
			Expect(res.Steps).To(BeNumerically("<", cfg.MaxSteps))
			_, ok := res.CapturedMagnet()
			Expect(ok).To(BeFalse())
		})
	})

	Context("in rigorous mode", func() {
		It("keeps the bob on the sphere for the whole run", func() {
			susp := dynamo.V(0, 0, 2)
			sys := physics.NewSystem([]physics.Magnet{
				{Position: dynamo.V(0.8, 0, 0), Direction: physics.Attract, Strength: 0.4},
				{Position: dynamo.V(-0.8, 0, 0), Direction: physics.Attract, Strength: 0.4},
				{Position: dynamo.V(0, 0.8, 0), Direction: physics.Repel, Strength: 0.2},
			}, physics.Pendulum{
				Suspension:    susp,
				Mass:          1.0,
				Approximation: physics.Rigorous,
			}, 0.1, 9.8)

			start := dynamo.V(0.3, -0.6, 0)
			start.Z = susp.Z - math.Sqrt(4-start.X*start.X-start.Y*start.Y)
			length := start.Sub(susp).Len()

			s := sim.New(sys, nil)
			drift := 0.0
			s.AddObserver(dynamo.ObserverFunc(func(_ int, x dynamo.State, _ float64) {
				drift = math.Max(drift, math.Abs(x.Pos.Sub(susp).Len()-length))
			}))

			res := s.Run(start, cfg, physics.EscapeThresholds(sys), physics.SuggestBounds(sys, 0.5, 0.5))

			Expect(res.Reason).NotTo(Equal(sim.PhysicalCapture))
			Expect(drift).To(BeNumerically("<=", 1e-9))
			Expect(res.FinalPosition.Sub(susp).Len()).To(BeNumerically("~", length, 1e-9))
		})
	})
})
