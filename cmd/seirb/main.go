package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/seirb/internal/automation"
	"github.com/san-kum/seirb/internal/config"
	"github.com/san-kum/seirb/internal/epidemic"
	"github.com/san-kum/seirb/internal/experiment"
)

var (
	settings   *config.Settings
	logLevel   string
	configFile string
	preset     string
	days       int
	integrator string
	timeout    time.Duration
	// solver
	relTol   float64
	absTol   float64
	maxDt    float64
	maxSteps int
	// outputs
	csvPath   string
	jsonPath  string
	pngPath   string
	bundle    bool
	noPlot    bool
	plotWidth int
	// sweep
	sweepFrom    float64
	sweepTo      float64
	sweepPoints  int
	sweepWorkers int
	// montecarlo
	mcTrials  int
	mcSpread  float64
	mcSeed    uint64
	mcParams  []string
	mcWorkers int
	// phase
	xAxis string
	yAxis string
	// init
	force bool

	paramFlags = map[string]*float64{}
)

// main wires the seirb commands and exits with status 1 on error.
func main() {
	var err error
	settings, err = config.LoadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid environment: %v\n", err)
		os.Exit(1)
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "seirb",
		Short:         "cholera SEIR-B outbreak simulator",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", settings.LogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "start from a named preset")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate one scenario and print a summary",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().StringVar(&csvPath, "csv", "", "write trajectory as CSV")
	runCmd.Flags().StringVar(&jsonPath, "json", "", "write run as JSON (- for stdout)")
	runCmd.Flags().StringVar(&pngPath, "png", "", "write plot as PNG")
	runCmd.Flags().BoolVar(&bundle, "save", false, "save json, csv and png under the output directory")
	runCmd.Flags().BoolVar(&noPlot, "no-plot", false, "skip the terminal plot")
	runCmd.Flags().IntVar(&plotWidth, "width", 80, "terminal plot width")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive parameter sliders",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [param]",
		Short: "vary one parameter and compare outbreaks",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	addScenarioFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0.1, "first value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 1.0, "last value")
	sweepCmd.Flags().IntVar(&sweepPoints, "points", 10, "number of values")
	sweepCmd.Flags().IntVar(&sweepWorkers, "workers", 0, "parallel simulations (0 = GOMAXPROCS)")

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare integrators on the same scenario",
		Args:  cobra.MinimumNArgs(1),
		RunE:  compareIntegrators,
	}
	addScenarioFlags(compareCmd)

	analyzeCmd := &cobra.Command{
		Use:   "analyze [csv]",
		Short: "steady state and recurrence analysis",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyzeRun,
	}
	addScenarioFlags(analyzeCmd)

	phaseCmd := &cobra.Command{
		Use:   "phase [csv]",
		Short: "phase plane of two compartments",
		Args:  cobra.MaximumNArgs(1),
		RunE:  phasePlot,
	}
	addScenarioFlags(phaseCmd)
	phaseCmd.Flags().StringVar(&xAxis, "x", "S", "compartment on the x-axis")
	phaseCmd.Flags().StringVar(&yAxis, "y", "I", "compartment on the y-axis")

	batchCmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "run every scenario listed in a batch file",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "outbreak spread under parameter uncertainty",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	addScenarioFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&mcTrials, "trials", 50, "ensemble size")
	monteCarloCmd.Flags().Float64Var(&mcSpread, "spread", 0.1, "relative perturbation of each uncertain parameter")
	monteCarloCmd.Flags().Uint64Var(&mcSeed, "seed", 1, "random seed")
	monteCarloCmd.Flags().StringSliceVar(&mcParams, "vary", automation.DefaultUncertain, "parameters to perturb")
	monteCarloCmd.Flags().IntVar(&mcWorkers, "workers", 0, "parallel simulations (0 = GOMAXPROCS)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a scenario file to edit",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initScenario,
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	rootCmd.AddCommand(runCmd, tuiCmd, sweepCmd, compareCmd, analyzeCmd, phaseCmd, batchCmd, monteCarloCmd, presetsCmd, initCmd)
	return rootCmd
}

func addScenarioFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&days, "days", config.DefaultDays, "days to simulate")
	f.StringVar(&integrator, "integrator", experiment.DefaultIntegrator, "integrator (rk45, rk4, euler)")
	f.DurationVar(&timeout, "timeout", settings.Timeout, "abort the simulation after this long")
	f.Float64Var(&relTol, "rtol", 1e-8, "relative tolerance")
	f.Float64Var(&absTol, "atol", 1e-8, "absolute tolerance")
	f.Float64Var(&maxDt, "max-dt", 1.0, "largest step in days (fixed step for rk4/euler)")
	f.IntVar(&maxSteps, "max-steps", 1_000_000, "step budget")

	defaults := epidemic.DefaultParams()
	for _, name := range epidemic.ParamNames {
		def, _ := defaults.Get(name)
		v, ok := paramFlags[name]
		if !ok {
			v = new(float64)
			paramFlags[name] = v
		}
		f.Float64Var(v, name, def, "model parameter "+name)
	}
}

// newLogger creates a text slog.Logger on stderr for the given level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	})
	return slog.New(handler)
}
