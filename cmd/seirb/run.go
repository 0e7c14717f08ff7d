package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/san-kum/seirb/internal/analysis"
	"github.com/san-kum/seirb/internal/config"
	"github.com/san-kum/seirb/internal/epidemic"
	"github.com/san-kum/seirb/internal/experiment"
	"github.com/san-kum/seirb/internal/export"
	"github.com/san-kum/seirb/internal/viz"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00cccc"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888899"))
	valueStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ccff"))
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00"))
)

const interpretation = `interpretation:
  - Susceptible (S) decreases as people get exposed via contaminated water.
  - Infectious (I) peaks depending on parameters like β and ξ.
  - Bacteria (B) grows with more infectious individuals but decays at rate μB.
  - Recovered (R) returns to S over time due to waning immunity (ω).`

// resolveScenario applies defaults, then the preset, then the config file,
// then any flag the user set explicitly.
func resolveScenario(cmd *cobra.Command) (*config.Scenario, error) {
	sc := config.DefaultScenario()

	if preset != "" {
		sc = config.GetPreset(preset)
		if sc == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadWithBase(configFile, sc)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		sc = loaded
	}

	flags := cmd.Flags()
	if flags.Lookup("days") == nil {
		return sc, sc.Validate()
	}

	if flags.Changed("days") {
		sc.Days = days
	}
	if flags.Changed("integrator") {
		sc.Integrator = integrator
	}
	if flags.Changed("rtol") {
		sc.Solver.RelTol = relTol
	}
	if flags.Changed("atol") {
		sc.Solver.AbsTol = absTol
	}
	if flags.Changed("max-dt") {
		sc.Solver.MaxDt = maxDt
	}
	if flags.Changed("max-steps") {
		sc.Solver.MaxSteps = maxSteps
	}
	for _, name := range epidemic.ParamNames {
		if !flags.Changed(name) {
			continue
		}
		p, err := sc.Params.With(name, *paramFlags[name])
		if err != nil {
			return nil, err
		}
		sc.Params = p
	}

	return sc, sc.Validate()
}

func runContext() (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	sc, err := resolveScenario(cmd)
	if err != nil {
		return err
	}

	logger := newLogger(logLevel)
	ctx, cancel := runContext()
	defer cancel()

	run, err := experiment.New(sc.Experiment(), experiment.WithLogger(logger)).Run(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonPath == "-" {
		return export.WriteJSON(out, run)
	}

	printSummary(out, sc, run)
	if !noPlot {
		fmt.Fprintln(out)
		fmt.Fprintln(out, viz.PlotTrajectory(run.Trajectory, plotWidth, 15, viz.ThemeClassic))
		fmt.Fprintln(out, "  "+viz.Legend(viz.ThemeClassic))
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, interpretation)

	if err := writeOutputs(run); err != nil {
		return err
	}
	if bundle {
		dir, err := export.SaveBundle(settings.OutputDir, run)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nsaved to %s\n", dir)
	}
	return nil
}

func printSummary(w io.Writer, sc *config.Scenario, run *experiment.Run) {
	s := analysis.Summarize(run.Trajectory)
	row := func(name, format string, a ...any) {
		fmt.Fprintf(w, "  %s %s\n", labelStyle.Render(fmt.Sprintf("%-18s", name)), valueStyle.Render(fmt.Sprintf(format, a...)))
	}

	name := sc.Name
	if name == "" {
		name = "custom"
	}
	fmt.Fprintln(w, titleStyle.Render("Cholera SEIR-B simulation")+" "+labelStyle.Render("("+name+")"))
	row("run id", "%s", run.ID)
	row("days", "%d (%s)", sc.Days, sc.Integrator)
	row("R0", "%.2f", s.R0)
	row("peak infectious", "%.2f on day %.0f", s.PeakInfected, s.PeakDay)
	row("peak bacteria", "%.2f on day %.0f", s.PeakBacteria, s.PeakBacteriaDay)
	row("final S/E/I/R/B", "%s", formatState(s.Final))
	row("solver", "%d steps, %d rejected, %d evaluations in %v", s.Stats.Steps, s.Stats.Rejected, s.Stats.Evaluations, run.Elapsed)
	if drift, ok := run.Trajectory.Metrics["population_drift"]; ok {
		row("population drift", "%.3g", drift)
	}

	if s.MinValue < 0 {
		fmt.Fprintln(w, "  "+warnStyle.Render(fmt.Sprintf("note: a compartment dipped to %.3g; transients below zero are not clamped", s.MinValue)))
	}
}

func formatState(x []float64) string {
	parts := make([]string, len(x))
	for i, v := range x {
		parts[i] = fmt.Sprintf("%.2f", v)
	}
	return strings.Join(parts, " / ")
}

func writeOutputs(run *experiment.Run) error {
	outputs := []struct {
		path  string
		write func(w io.Writer) error
	}{
		{csvPath, func(w io.Writer) error { return export.WriteCSV(w, run.Trajectory) }},
		{jsonPath, func(w io.Writer) error { return export.WriteJSON(w, run) }},
		{pngPath, func(w io.Writer) error { return export.WritePNG(w, run.Trajectory, 0, 0) }},
	}

	for _, o := range outputs {
		if o.path == "" {
			continue
		}
		f, err := os.Create(o.path)
		if err != nil {
			return err
		}
		if err := o.write(f); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", o.path, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	sc, err := resolveScenario(cmd)
	if err != nil {
		return err
	}
	return viz.Run(sc, viz.WithTimeout(settings.Timeout))
}
