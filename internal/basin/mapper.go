package basin

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/san-kum/magbasin/internal/dynamo"
	"github.com/san-kum/magbasin/internal/integrators"
	"github.com/san-kum/magbasin/internal/physics"
	"github.com/san-kum/magbasin/internal/sim"
)

// Cell is the outcome for one pixel.
type Cell struct {
	Skipped bool
	Result  sim.Result
}

// Map is a classified pixel grid, row-major.
type Map struct {
	Grid       Grid
	Thresholds []float64
	Magnets    int
	Cells      []Cell
	Elapsed    time.Duration
}

func (m *Map) At(px, py int) Cell { return m.Cells[py*m.Grid.Width+px] }

// Options tunes a Map run. The zero value is usable.
type Options struct {
	// PlaneZ is the small-angle release height; nil selects DefaultPlaneZ.
	PlaneZ *float64
	// Workers caps concurrent rows; <= 0 uses every CPU.
	Workers    int
	Integrator dynamo.Integrator
	// Thresholds overrides the escape thresholds; nil computes them.
	Thresholds []float64
	// Progress is called after each finished row with cumulative pixel counts.
	// It may be called from several goroutines at once.
	Progress func(done, total int)
	Logger   *slog.Logger
}

// Compute classifies every pixel of grid. It stops early only when ctx is
// canceled; individual trajectories never fail.
func Compute(ctx context.Context, sys *physics.System, grid Grid, cfg sim.Config, opts Options) (*Map, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if grid.Width <= 0 || grid.Height <= 0 {
		return nil, dynamo.Invalid("grid", fmt.Sprintf("%dx%d", grid.Width, grid.Height))
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	thresholds := opts.Thresholds
	if thresholds == nil {
		thresholds = physics.EscapeThresholds(sys)
	}
	if len(thresholds) != len(sys.Magnets) {
		return nil, fmt.Errorf("%w: %d thresholds for %d magnets", dynamo.ErrThresholdMismatch, len(thresholds), len(sys.Magnets))
	}

	planeZ := DefaultPlaneZ
	if opts.PlaneZ != nil {
		planeZ = *opts.PlaneZ
	}
	integ := opts.Integrator
	if integ == nil {
		integ = integrators.NewRK4()
	}

	m := &Map{
		Grid:       grid,
		Thresholds: thresholds,
		Magnets:    len(sys.Magnets),
		Cells:      make([]Cell, grid.Size()),
	}

	simulator := sim.New(sys, integ)
	total := grid.Size()
	var done atomic.Int64
	var recovered atomic.Int64

	logger.Debug("basin map started", "width", grid.Width, "height", grid.Height, "magnets", len(sys.Magnets))
	start := time.Now()

	err := dynamo.ParallelFor(ctx, grid.Height, 1, opts.Workers, func(ctx context.Context, rowStart, rowEnd int) error {
		for py := rowStart; py < rowEnd; py++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			row := m.Cells[py*grid.Width : (py+1)*grid.Width]
			for px := range row {
				x, y := grid.Point(px, py)
				pos, ok := StartPosition(sys, x, y, planeZ)
				if !ok {
					row[px] = Cell{Skipped: true}
					continue
				}
				res, panicked := classify(simulator, pos, cfg, thresholds, grid.Bounds)
				if panicked {
					recovered.Add(1)
				}
				row[px] = Cell{Result: res}
			}
			n := done.Add(int64(grid.Width))
			if opts.Progress != nil {
				opts.Progress(int(n), total)
			}
		}
		return nil
	})
	m.Elapsed = time.Since(start)

	if err != nil {
		return nil, err
	}
	if n := recovered.Load(); n > 0 {
		logger.Warn("trajectories recovered from panic", "count", n)
	}
	logger.Debug("basin map finished", "elapsed", m.Elapsed)
	return m, nil
}

// classify isolates a single trajectory: a panic inside it becomes an
// OutOfBounds result instead of taking the whole map down.
func classify(s *sim.Simulator, pos dynamo.Vec3, cfg sim.Config, thresholds []float64, bounds physics.Bounds) (res sim.Result, panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			res = sim.Result{Captured: sim.NoMagnet, FinalPosition: pos, Reason: sim.OutOfBounds}
			panicked = true
		}
	}()
	return s.Run(pos, cfg, thresholds, bounds), false
}

// Summary counts pixels per outcome.
type Summary struct {
	Total    int
	Skipped  int
	Captured []int
	Reasons  map[sim.EndReason]int
}

func (m *Map) Summary() Summary {
	s := Summary{
		Total:    len(m.Cells),
		Captured: make([]int, m.Magnets),
		Reasons:  make(map[sim.EndReason]int),
	}
	for _, c := range m.Cells {
		if c.Skipped {
			s.Skipped++
			continue
		}
		s.Reasons[c.Result.Reason]++
		if idx, ok := c.Result.CapturedMagnet(); ok && idx < len(s.Captured) {
			s.Captured[idx]++
		}
	}
	return s
}
