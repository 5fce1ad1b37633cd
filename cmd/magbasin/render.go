package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/san-kum/magbasin/internal/basin"
	"github.com/san-kum/magbasin/internal/config"
	"github.com/san-kum/magbasin/internal/export"
	"github.com/san-kum/magbasin/internal/integrators"
	"github.com/san-kum/magbasin/internal/physics"
	"github.com/san-kum/magbasin/internal/storage"
	"github.com/san-kum/magbasin/internal/tui"
)

func renderBasin(cmd *cobra.Command, args []string) error {
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

	grid := basin.Grid{
		Width:  cfg.Render.Width,
		Height: cfg.Render.Height,
		Bounds: physics.SuggestBounds(sys, cfg.Render.PaddingRatio, cfg.Render.HeightLimitRatio),
	}
	thresholds := physics.EscapeThresholds(sys)

	slog.Info("rendering basin map",
		"name", name,
		"size", fmt.Sprintf("%dx%d", grid.Width, grid.Height),
		"magnets", len(sys.Magnets),
		"approximation", sys.Pendulum.Approximation,
		"integrator", cfg.Simulation.Integrator,
	)
	slog.Debug("sampling region",
		"min_x", grid.Bounds.MinX, "max_x", grid.Bounds.MaxX,
		"min_y", grid.Bounds.MinY, "max_y", grid.Bounds.MaxY,
	)

	var m *basin.Map
	work := func(ctx context.Context, progress func(done, total int)) error {
		var err error
		m, err = basin.Compute(ctx, sys, grid, simCfg, basin.Options{
			PlaneZ:     &cfg.Render.PlaneZ,
			Workers:    cfg.Render.Workers,
			Integrator: integ,
			Thresholds: thresholds,
			Progress:   progress,
			Logger:     slog.Default(),
		})
		return err
	}

	if showProgress {
		err = tui.RunProgress(cmd.Context(), os.Stderr, "rendering "+name, work)
	} else {
		err = work(cmd.Context(), nil)
	}
	if err != nil {
		return err
	}

	img := export.Colorize(m, simCfg.MaxSteps)
	if err := export.WritePNG(cfg.Render.Output, img); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	slog.Info("image written", "path", cfg.Render.Output, "elapsed", formatDuration(m.Elapsed))

	summary := m.Summary()
	meta, magnets := runRecords(name, cfg, sys, m, summary)

	runID := ""
	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err = st.Save(meta, magnets)
		if err != nil {
			return fmt.Errorf("failed to record run: %w", err)
		}
	}

	fmt.Println(renderSummary(meta, magnets, simCfg.MaxSteps, runID))
	return nil
}

// runRecords converts a finished map into what the run store persists.
func runRecords(name string, cfg *config.Config, sys *physics.System, m *basin.Map, summary basin.Summary) (storage.RunMetadata, []storage.MagnetRecord) {
	reasons := make(map[string]int, len(summary.Reasons))
	for r, n := range summary.Reasons {
		reasons[r.String()] = n
	}

	meta := storage.RunMetadata{
		Name:          name,
		Image:         cfg.Render.Output,
		Width:         m.Grid.Width,
		Height:        m.Grid.Height,
		Bounds:        m.Grid.Bounds,
		Approximation: sys.Pendulum.Approximation.String(),
		Integrator:    cfg.Simulation.Integrator,
		TimeStep:      cfg.Simulation.TimeStep,
		MaxSteps:      cfg.Simulation.MaxSteps,
		Skipped:       summary.Skipped,
		Reasons:       reasons,
		ElapsedSec:    m.Elapsed.Seconds(),
	}

	magnets := make([]storage.MagnetRecord, len(sys.Magnets))
	for i, mag := range sys.Magnets {
		magnets[i] = storage.MagnetRecord{
			Index:     i,
			Position:  [3]float64{mag.Position.X, mag.Position.Y, mag.Position.Z},
			Direction: mag.Direction.String(),
			Strength:  mag.Strength,
			Threshold: m.Thresholds[i],
			Pixels:    summary.Captured[i],
		}
	}
	return meta, magnets
}

func renderSummary(meta storage.RunMetadata, magnets []storage.MagnetRecord, maxSteps int, runID string) string {
	total := meta.Width * meta.Height
	rows := []tui.Row{
		{Label: "size", Value: fmt.Sprintf("%dx%d", meta.Width, meta.Height)},
		{Label: "region", Value: fmt.Sprintf("x [%.3g, %.3g]  y [%.3g, %.3g]", meta.Bounds.MinX, meta.Bounds.MaxX, meta.Bounds.MinY, meta.Bounds.MaxY)},
		{Label: "approximation", Value: meta.Approximation},
		{Label: "elapsed", Value: fmt.Sprintf("%.2fs", meta.ElapsedSec)},
	}
	if meta.Image != "" {
		rows = append(rows, tui.Row{Label: "image", Value: meta.Image})
	}
	if runID != "" {
		rows = append(rows, tui.Row{Label: "run", Value: runID})
	}
	if meta.Skipped > 0 {
		rows = append(rows, tui.Row{Label: "unreachable", Value: pixelShare(meta.Skipped, total)})
	}
	for _, reason := range []string{"energy_trap", "max_steps", "out_of_bounds"} {
		if n := meta.Reasons[reason]; n > 0 {
			rows = append(rows, tui.Row{Label: reason, Value: pixelShare(n, total)})
		}
	}
	for _, mag := range magnets {
		swatch := tui.Swatch(export.MagnetColor(mag.Index, len(magnets), 0, maxSteps))
		rows = append(rows, tui.Row{
			Label: "magnet " + strconv.Itoa(mag.Index),
			Value: fmt.Sprintf("%s %s  threshold %s  %s", swatch, mag.Direction, formatThreshold(mag.Threshold), pixelShare(mag.Pixels, total)),
		})
	}
	return tui.Summary(meta.Name, rows)
}

func pixelShare(n, total int) string {
	if total <= 0 {
		return strconv.Itoa(n)
	}
	return fmt.Sprintf("%d (%.1f%%)", n, 100*float64(n)/float64(total))
}
