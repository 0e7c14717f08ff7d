package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/seirb/internal/analysis"
	"github.com/san-kum/seirb/internal/automation"
	"github.com/san-kum/seirb/internal/config"
	"github.com/san-kum/seirb/internal/epidemic"
	"github.com/san-kum/seirb/internal/experiment"
	"github.com/san-kum/seirb/internal/export"
	"github.com/san-kum/seirb/internal/sweep"
	"github.com/san-kum/seirb/internal/viz"
)

func runSweep(cmd *cobra.Command, args []string) error {
	param := args[0]
	sc, err := resolveScenario(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := runContext()
	defer cancel()

	values := sweep.Values(sweepFrom, sweepTo, sweepPoints)
	points, err := sweep.Run(ctx, sc.Experiment(), param, values, sweepWorkers,
		experiment.WithLogger(newLogger(logLevel)))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "sweep %s over %d values (%d days)\n\n", param, len(points), sc.Days)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(param)+"\tR0\tPEAK I\tPEAK DAY\tFINAL S\t")
	peaks := make([]float64, 0, len(points))
	for _, pt := range points {
		if pt.Err != nil {
			fmt.Fprintf(w, "%g\t-\t-\t-\t-\t%v\n", pt.Value, pt.Err)
			continue
		}
		peaks = append(peaks, pt.PeakInfected)
		fmt.Fprintf(w, "%g\t%.1f\t%.2f\t%.0f\t%.2f\t\n", pt.Value, pt.R0, pt.PeakInfected, pt.PeakDay, pt.FinalS)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(peaks) > 1 {
		fmt.Fprintf(out, "\npeak I  %s\n", viz.SparklineChart(peaks, len(peaks)))
	}
	if best, ok := sweep.MinPeak(points); ok {
		fmt.Fprintf(out, "smallest peak at %s=%g (%.2f infectious)\n", param, best.Value, best.PeakInfected)
	}
	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	sc, err := resolveScenario(cmd)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	for _, name := range args {
		if _, err := registry.GetIntegrator(name); err != nil {
			return fmt.Errorf("%w (available: %v)", err, registry.ListIntegrators())
		}
	}

	ctx, cancel := runContext()
	defer cancel()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "comparing integrators over %d days\n\n", sc.Days)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tSTEPS\tREJECTED\tEVALS\tTIME\tPEAK I\tPEAK DAY\tFINAL I")

	for _, name := range args {
		cfg := sc.Experiment()
		cfg.Integrator = name

		start := time.Now()
		run, err := experiment.New(cfg).Run(ctx)
		if err != nil {
			fmt.Fprintf(w, "%s\tfailed: %v\n", name, err)
			continue
		}
		elapsed := time.Since(start)

		s := analysis.Summarize(run.Trajectory)
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%v\t%.4f\t%.0f\t%.4f\n",
			name, s.Stats.Steps, s.Stats.Rejected, s.Stats.Evaluations, elapsed,
			s.PeakInfected, s.PeakDay, s.Final[epidemic.Infectious])
	}
	return w.Flush()
}

// loadTrajectory reads a CSV written by `run --csv` or simulates the
// scenario from flags when no file is given.
func loadTrajectory(cmd *cobra.Command, args []string) (*epidemic.Trajectory, error) {
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return export.ReadCSV(f)
	}

	sc, err := resolveScenario(cmd)
	if err != nil {
		return nil, err
	}
	ctx, cancel := runContext()
	defer cancel()

	run, err := experiment.New(sc.Experiment(), experiment.WithLogger(newLogger(logLevel))).Run(ctx)
	if err != nil {
		return nil, err
	}
	return run.Trajectory, nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	tr, err := loadTrajectory(cmd, args)
	if err != nil {
		return err
	}
	if tr.Len() < 4 {
		return fmt.Errorf("need at least 4 samples, got %d", tr.Len())
	}

	out := cmd.OutOrStdout()
	dt := tr.Times[1] - tr.Times[0]

	// skip the first outbreak so the spectrum reflects recurrence
	burnIn := tr.Len() / 4
	series := tr.I[burnIn:]

	ps := analysis.PowerSpectrum(series)
	if len(ps) > 2 {
		graph := asciigraph.Plot(ps[1:len(ps)/2+1],
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum of I after burn-in"),
		)
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)
	}

	if period := analysis.RecurrencePeriod(series, dt); period > 0 {
		fmt.Fprintf(out, "dominant recurrence period: %.1f days\n", period)
	} else {
		fmt.Fprintln(out, "no recurring outbreaks detected")
	}

	window := max(tr.Len()/10, 2)
	if x, ok := analysis.SteadyState(tr, window, 1e-3); ok {
		fmt.Fprintf(out, "settled over the last %d samples at %s\n", window, formatState(x))
	} else {
		fmt.Fprintf(out, "not settled over the last %d samples\n", window)
	}
	return nil
}

func parseCompartment(s string) (epidemic.Compartment, error) {
	for _, c := range epidemic.Compartments {
		if strings.EqualFold(s, c.Symbol()) || strings.EqualFold(s, c.String()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown compartment: %s (use S, E, I, R or B)", s)
}

func phasePlot(cmd *cobra.Command, args []string) error {
	xc, err := parseCompartment(xAxis)
	if err != nil {
		return err
	}
	yc, err := parseCompartment(yAxis)
	if err != nil {
		return err
	}

	tr, err := loadTrajectory(cmd, args)
	if err != nil {
		return err
	}

	portrait := analysis.PhasePortrait(tr, xc, yc)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "phase plane: %s (x) vs %s (y), o marks day 0\n\n", xc, yc)
	fmt.Fprint(out, portrait.ToASCII(70, 20))
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tDAYS\tBETA\tXI\tMU_B\tOMEGA\tR0")
	for _, name := range config.ListPresets() {
		sc := config.GetPreset(name)
		p := sc.Params
		fmt.Fprintf(w, "%s\t%d\t%g\t%g\t%g\t%.5f\t%.1f\n", name, sc.Days, p.Beta, p.Xi, p.MuB, p.Omega, p.ReproductionNumber())
	}
	return w.Flush()
}

func initScenario(cmd *cobra.Command, args []string) error {
	path := "scenario.yaml"
	if len(args) == 1 {
		path = args[0]
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	sc := config.DefaultScenario()
	if preset != "" {
		if sc = config.GetPreset(preset); sc == nil {
			return fmt.Errorf("unknown preset: %s", preset)
		}
	}
	if err := config.Save(path, sc); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	b, err := automation.LoadBatch(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := runContext()
	defer cancel()

	results, err := automation.RunBatch(ctx, b, newLogger(logLevel))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if b.Name != "" {
		fmt.Fprintf(out, "batch %s\n\n", b.Name)
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tDAYS\tR0\tPEAK I\tPEAK DAY\tFINAL I\t")
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(w, "%s\t%d\t-\t-\t-\t-\t%v\n", res.Scenario.Name, res.Scenario.Days, res.Err)
			continue
		}
		s := analysis.Summarize(res.Run.Trajectory)
		fmt.Fprintf(w, "%s\t%d\t%.1f\t%.2f\t%.0f\t%.4f\t\n",
			res.Scenario.Name, res.Scenario.Days, s.R0, s.PeakInfected, s.PeakDay, s.Final[epidemic.Infectious])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d steps failed", failed, len(results))
	}
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	sc, err := resolveScenario(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := runContext()
	defer cancel()

	trials, err := automation.RunMonteCarlo(ctx, automation.MonteCarloConfig{
		Base:         sc.Experiment(),
		Params:       mcParams,
		Perturbation: mcSpread,
		Trials:       mcTrials,
		Seed:         mcSeed,
		Workers:      mcWorkers,
	}, experiment.WithLogger(newLogger(logLevel)))
	if err != nil {
		return err
	}

	st := automation.Summarize(trials)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d trials, ±%.0f%% on %s (%d days)\n\n", st.Trials, mcSpread*100, strings.Join(mcParams, ", "), sc.Days)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "peak infectious\t%.2f ± %.2f\n", st.MeanPeak, st.StdPeak)
	fmt.Fprintf(w, "5%%-95%% range\t%.2f .. %.2f\n", st.P05Peak, st.P95Peak)
	fmt.Fprintf(w, "mean peak day\t%.0f\n", st.MeanPeakDay)
	fmt.Fprintf(w, "R0 > 1\t%d/%d\n", st.Epidemic, st.Trials-st.Failed)
	if st.Failed > 0 {
		fmt.Fprintf(w, "failed\t%d\n", st.Failed)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	peaks := make([]float64, 0, len(trials))
	for _, tr := range trials {
		if tr.Err == nil {
			peaks = append(peaks, tr.PeakInfected)
		}
	}
	if len(peaks) > 1 {
		fmt.Fprintf(out, "\npeak I  %s\n", viz.SparklineChart(peaks, len(peaks)))
	}
	return nil
}
