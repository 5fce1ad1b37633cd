package main

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/magbasin/internal/basin"
	"github.com/san-kum/magbasin/internal/dynamo"
	"github.com/san-kum/magbasin/internal/integrators"
	"github.com/san-kum/magbasin/internal/metrics"
	"github.com/san-kum/magbasin/internal/physics"
	"github.com/san-kum/magbasin/internal/sim"
	"github.com/san-kum/magbasin/internal/storage"
	"github.com/san-kum/magbasin/internal/tui"
)

func simulateTrajectory(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sys, err := cfg.PhysicalSystem()
	if err != nil {
		return err
	}
	integ, err := integrators.Get(cfg.Simulation.Integrator)
	if err != nil {
		return err
	}
	simCfg := cfg.SimConfig()

	start, ok := basin.StartPosition(sys, startX, startY, cfg.Render.PlaneZ)
	if !ok {
		return fmt.Errorf("release point (%g, %g) is out of reach of the rope", startX, startY)
	}

	bounds := physics.SuggestBounds(sys, cfg.Render.PaddingRatio, cfg.Render.HeightLimitRatio)
	thresholds := physics.EscapeThresholds(sys)

	s := sim.New(sys, integ)

	energy := metrics.NewEnergy(sys)
	drift := metrics.NewEnergyDrift(sys)
	excursion := metrics.NewExcursion(sys.Pendulum.Suspension)
	observed := []metrics.Metric{energy, drift, excursion}
	if sys.Pendulum.Approximation == physics.Rigorous {
		observed = append(observed, metrics.NewRodDrift(sys.Pendulum.Suspension, start.Sub(sys.Pendulum.Suspension).Len()))
	}
	for _, m := range observed {
		s.AddObserver(m)
	}

	var trace *storage.TrajectoryExport
	if tracePath != "" {
		every := traceEvery
		if every < 1 {
			every = 1
		}
		trace = &storage.TrajectoryExport{
			Start:      vecArray(start),
			Integrator: cfg.Simulation.Integrator,
			TimeStep:   simCfg.TimeStep,
			Points:     []storage.TrajectoryPoint{{Step: -1, Pos: vecArray(start)}},
		}
		s.AddObserver(dynamo.ObserverFunc(func(step int, x dynamo.State, t float64) {
			if step%every != 0 {
				return
			}
			trace.Points = append(trace.Points, storage.TrajectoryPoint{
				Step: step,
				Time: t,
				Pos:  vecArray(x.Pos),
				Vel:  vecArray(x.Vel),
			})
		}))
	}

	res := s.Run(start, simCfg, thresholds, bounds)

	if trace != nil {
		trace.Reason = res.Reason.String()
		trace.Captured = res.Captured
		trace.Steps = res.Steps
		if tracePath == "-" {
			return storage.WriteJSON(os.Stdout, trace)
		}
		if err := storage.ExportJSON(tracePath, trace); err != nil {
			return err
		}
	}

	captured := "none"
	if idx, ok := res.CapturedMagnet(); ok {
		captured = strconv.Itoa(idx)
	}
	rows := []tui.Row{
		{Label: "start", Value: formatVec(start)},
		{Label: "reason", Value: res.Reason.String()},
		{Label: "captured", Value: captured},
		{Label: "steps", Value: strconv.Itoa(res.Steps)},
		{Label: "time", Value: fmt.Sprintf("%.3g", float64(res.Steps)*simCfg.TimeStep)},
		{Label: "final", Value: formatVec(res.FinalPosition)},
		{Label: "min energy", Value: fmt.Sprintf("%.6g", energy.Min())},
	}
	for _, m := range observed {
		rows = append(rows, tui.Row{Label: m.Name(), Value: fmt.Sprintf("%.6g", m.Value())})
	}
	if tracePath != "" && tracePath != "-" {
		rows = append(rows, tui.Row{Label: "trace", Value: tracePath})
	}
	fmt.Println(tui.Summary(name, rows))
	return nil
}

func printThresholds(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sys, err := cfg.PhysicalSystem()
	if err != nil {
		return err
	}

	thresholds := physics.EscapeThresholds(sys)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MAGNET\tPOSITION\tDIRECTION\tSTRENGTH\tTHRESHOLD")
	for i, m := range sys.Magnets {
		fmt.Fprintf(w, "%d\t%s\t%s\t%g\t%s\n", i, formatVec(m.Position), m.Direction, m.Strength, formatThreshold(thresholds[i]))
	}
	return w.Flush()
}

func printBounds(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sys, err := cfg.PhysicalSystem()
	if err != nil {
		return err
	}

	b := physics.SuggestBounds(sys, cfg.Render.PaddingRatio, cfg.Render.HeightLimitRatio)
	fmt.Println(tui.Summary(name, []tui.Row{
		{Label: "x", Value: fmt.Sprintf("[%g, %g]", b.MinX, b.MaxX)},
		{Label: "y", Value: fmt.Sprintf("[%g, %g]", b.MinY, b.MaxY)},
		{Label: "width", Value: fmt.Sprintf("%g", b.Width())},
		{Label: "height", Value: fmt.Sprintf("%g", b.Height())},
		{Label: "padding", Value: fmt.Sprintf("%g", cfg.Render.PaddingRatio)},
	}))
	return nil
}

func plotProfile(cmd *cobra.Command, args []string) error {
	i, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid magnet index %q", args[0])
	}
	j, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid magnet index %q", args[1])
	}

	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sys, err := cfg.PhysicalSystem()
	if err != nil {
		return err
	}

	n := len(sys.Magnets)
	if i < 0 || i >= n || j < 0 || j >= n {
		return fmt.Errorf("magnet index out of range (have %d magnets)", n)
	}
	if i == j {
		return errors.New("need two different magnets")
	}

	segments := samples
	if segments <= 0 {
		segments = physics.BarrierSamples
	}
	profile := sys.BarrierProfile(i, j, segments)

	peak := math.Inf(-1)
	for _, pe := range profile {
		peak = math.Max(peak, pe)
	}

	graph := asciigraph.Plot(profile,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("potential from magnet %d to magnet %d (peak %.4g)", i, j, peak)),
	)
	fmt.Println(graph)
	return nil
}

func vecArray(v dynamo.Vec3) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

func formatVec(v dynamo.Vec3) string {
	return fmt.Sprintf("(%.4g, %.4g, %.4g)", v.X, v.Y, v.Z)
}

func formatThreshold(v float64) string {
	if math.IsInf(v, -1) {
		return "never"
	}
	return fmt.Sprintf("%.6g", v)
}
