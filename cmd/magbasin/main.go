package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/san-kum/magbasin/internal/config"
)

var (
	dataDir  string
	logLevel string

	configFile string
	preset     string

	dt         float64
	maxSteps   int
	integrator string
	width      int
	height     int
	workers    int
	output     string

	showProgress bool
	noSave       bool

	startX     float64
	startY     float64
	tracePath  string
	traceEvery int

	samples    int
	initPreset string
	force      bool
)

// defaultPreset is used when neither --config nor --preset is given.
const defaultPreset = "triangle"

func main() {
	rootCmd := &cobra.Command{
		Use:           "magbasin",
		Short:         "basins of attraction of a magnetic pendulum",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := parseLogLevel(logLevel)
			if err != nil {
				return err
			}
			slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
				Level:      level,
				TimeFormat: "15:04:05",
			})))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".magbasin", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "render the basin map to a PNG",
		Args:  cobra.NoArgs,
		RunE:  renderBasin,
	}
	addSystemFlags(renderCmd)
	renderCmd.Flags().IntVar(&width, "width", config.DefaultWidth, "image width in pixels")
	renderCmd.Flags().IntVar(&height, "height", config.DefaultHeight, "image height in pixels")
	renderCmd.Flags().IntVar(&workers, "workers", 0, "parallel rows (0 = all CPUs)")
	renderCmd.Flags().StringVarP(&output, "output", "o", config.DefaultOutput, "output PNG path")
	renderCmd.Flags().BoolVar(&showProgress, "progress", false, "show an interactive progress view")
	renderCmd.Flags().BoolVar(&noSave, "no-save", false, "do not record the run in the data directory")

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "follow a single trajectory",
		Args:  cobra.NoArgs,
		RunE:  simulateTrajectory,
	}
	addSystemFlags(simulateCmd)
	simulateCmd.Flags().Float64Var(&startX, "x", 0.5, "release x")
	simulateCmd.Flags().Float64Var(&startY, "y", 0.5, "release y")
	simulateCmd.Flags().StringVar(&tracePath, "trace", "", "write the trajectory as JSON to this path (- for stdout)")
	simulateCmd.Flags().IntVar(&traceEvery, "trace-every", 10, "record every n-th step in the trace")

	thresholdsCmd := &cobra.Command{
		Use:   "thresholds",
		Short: "print the escape energy of every magnet",
		Args:  cobra.NoArgs,
		RunE:  printThresholds,
	}
	addSourceFlags(thresholdsCmd)

	boundsCmd := &cobra.Command{
		Use:   "bounds",
		Short: "print the suggested sampling region",
		Args:  cobra.NoArgs,
		RunE:  printBounds,
	}
	addSourceFlags(boundsCmd)

	profileCmd := &cobra.Command{
		Use:   "profile [i] [j]",
		Short: "plot the potential along the segment between two magnets",
		Args:  cobra.ExactArgs(2),
		RunE:  plotProfile,
	}
	addSourceFlags(profileCmd)
	profileCmd.Flags().IntVar(&samples, "samples", 0, "segments along the path (0 = same as threshold search)")

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a configuration file",
		Args:  cobra.ExactArgs(1),
		RunE:  writeConfig,
	}
	initCmd.Flags().StringVar(&initPreset, "preset", defaultPreset, "preset to start from")
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	rootCmd.AddCommand(renderCmd, simulateCmd, thresholdsCmd, boundsCmd, profileCmd, initCmd, presetsCmd, listCmd, showCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml or json)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

func addSystemFlags(cmd *cobra.Command) {
	addSourceFlags(cmd)
	cmd.Flags().Float64Var(&dt, "dt", 0.01, "timestep")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 5000, "step budget per trajectory")
	cmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator")
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level: %s", s)
}

// loadConfig resolves the configuration for cmd: a config file wins over a
// preset, and explicitly set flags win over both. It also returns a short
// name for the run.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	var (
		cfg  *config.Config
		name string
		err  error
	)

	switch {
	case configFile != "":
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		name = strings.TrimSuffix(filepath.Base(configFile), filepath.Ext(configFile))
		if preset != "" {
			slog.Warn("both --config and --preset given, using config", "config", configFile, "preset", preset)
		}
	default:
		name = preset
		if name == "" {
			name = defaultPreset
		}
		cfg, err = config.GetPreset(name)
		if err != nil {
			return nil, "", err
		}
	}

	applyFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, name, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	changed := func(name string) bool {
		return flags.Lookup(name) != nil && flags.Changed(name)
	}

	if changed("dt") {
		cfg.Simulation.TimeStep = dt
	}
	if changed("max-steps") {
		cfg.Simulation.MaxSteps = maxSteps
	}
	if changed("integrator") {
		cfg.Simulation.Integrator = integrator
	}
	if changed("width") {
		cfg.Render.Width = width
	}
	if changed("height") {
		cfg.Render.Height = height
	}
	if changed("workers") {
		cfg.Render.Workers = workers
	}
	if changed("output") {
		cfg.Render.Output = output
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(10 * time.Millisecond).String()
}
