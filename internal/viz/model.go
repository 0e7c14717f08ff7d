package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/seirb/internal/analysis"
	"github.com/san-kum/seirb/internal/config"
	"github.com/san-kum/seirb/internal/epidemic"
	"github.com/san-kum/seirb/internal/experiment"
)

// Simulator runs one scenario. The default runs it through an experiment.
type Simulator func(ctx context.Context, sc *config.Scenario) (*epidemic.Trajectory, error)

func defaultSimulator(ctx context.Context, sc *config.Scenario) (*epidemic.Trajectory, error) {
	run, err := experiment.New(sc.Experiment()).Run(ctx)
	if err != nil {
		return nil, err
	}
	return run.Trajectory, nil
}

// Model is the slider application. Every slider change rebuilds the
// scenario and re-simulates it from scratch.
type Model struct {
	initial  *config.Scenario
	scenario *config.Scenario
	simulate Simulator
	timeout  time.Duration

	cursor   int
	preset   int
	theme    int
	traj     *epidemic.Trajectory
	summary  analysis.Summary
	err      error
	elapsed  time.Duration
	width    int
	height   int
	quitting bool
}

type ModelOption func(*Model)

func WithSimulator(s Simulator) ModelOption {
	return func(m *Model) {
		if s != nil {
			m.simulate = s
		}
	}
}

func WithTheme(name string) ModelOption {
	return func(m *Model) {
		for i, t := range Themes {
			if t.Name == name {
				m.theme = i
			}
		}
	}
}

func WithTimeout(d time.Duration) ModelOption {
	return func(m *Model) {
		if d > 0 {
			m.timeout = d
		}
	}
}

func NewModel(sc *config.Scenario, opts ...ModelOption) Model {
	if sc == nil {
		sc = config.DefaultScenario()
	}
	m := Model{
		initial:  sc.Clone(),
		scenario: sc.Clone(),
		simulate: defaultSimulator,
		timeout:  10 * time.Second,
		preset:   -1,
		width:    100,
		height:   40,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.resimulate()
	return m
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(config.Sliders)-1 {
			m.cursor++
		}
	case "left", "h":
		m.nudge(-1)
	case "right", "l":
		m.nudge(1)
	case "H":
		m.nudge(-10)
	case "L":
		m.nudge(10)
	case "p":
		names := config.ListPresets()
		m.preset = (m.preset + 1) % len(names)
		m.scenario = config.GetPreset(names[m.preset])
		m.resimulate()
	case "r":
		m.scenario = m.initial.Clone()
		m.preset = -1
		m.resimulate()
	case "t":
		m.theme = (m.theme + 1) % len(Themes)
	}
	return m, nil
}

func (m *Model) nudge(steps int) {
	s := config.Sliders[m.cursor]
	v, err := m.scenario.SliderValue(s.Name)
	if err != nil {
		m.err = err
		return
	}
	next := s.Nudge(v, steps)
	if next == v {
		return
	}

	m.scenario = m.scenario.Clone()
	if err := m.scenario.SetSlider(s.Name, next); err != nil {
		m.err = err
		return
	}
	m.resimulate()
}

func (m *Model) resimulate() {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	start := time.Now()
	tr, err := m.simulate(ctx, m.scenario)
	m.elapsed = time.Since(start)
	m.err = err
	if err != nil {
		m.traj = nil
		m.summary = analysis.Summary{}
		return
	}
	m.traj = tr
	m.summary = analysis.Summarize(tr)
}

// Scenario returns the scenario currently shown.
func (m Model) Scenario() *config.Scenario { return m.scenario.Clone() }

func (m Model) Trajectory() *epidemic.Trajectory { return m.traj }

func (m Model) Err() error { return m.err }

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	theme := Themes[m.theme]

	var b strings.Builder
	title := GradientText("CHOLERA SEIR-B", theme.Primary, theme.Accent)
	b.WriteString("\n  " + title + "\n")
	name := "custom"
	if m.scenario.Name != "" {
		name = m.scenario.Name
	}
	b.WriteString("  " + Subtle.Render("scenario: "+name+"  theme: "+theme.Name) + "\n\n")

	b.WriteString(m.viewSliders(theme))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString("  " + StatusError.Render("simulation failed: "+m.err.Error()) + "\n")
	} else {
		plotWidth := max(m.width-20, 30)
		plotHeight := max(m.height-len(config.Sliders)-16, 8)
		b.WriteString(PlotTrajectory(m.traj, plotWidth, plotHeight, theme) + "\n\n")
		b.WriteString("  " + Legend(theme) + "\n\n")
		b.WriteString(m.viewSummary())
	}

	b.WriteString("\n  " + m.viewKeys(theme) + "\n")
	return b.String()
}

func (m Model) viewSliders(theme Theme) string {
	var b strings.Builder
	cursor := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	label := lipgloss.NewStyle().Foreground(theme.Text)
	muted := lipgloss.NewStyle().Foreground(theme.Muted)

	for i, s := range config.Sliders {
		v, _ := m.scenario.SliderValue(s.Name)
		frac := 0.0
		if s.Max > s.Min {
			frac = (v - s.Min) / (s.Max - s.Min)
		}
		line := fmt.Sprintf("%-32s %s %s", s.Label, ProgressBar(frac, 20), formatSlider(v, s.Step))
		if i == m.cursor {
			b.WriteString("  " + cursor.Render("▸ ") + label.Bold(true).Render(line) + "\n")
		} else {
			b.WriteString("    " + muted.Render(line) + "\n")
		}
	}
	return b.String()
}

func (m Model) viewSummary() string {
	s := m.summary
	var b strings.Builder
	row := func(name, value string) {
		b.WriteString("  " + MetricLabel.Render(fmt.Sprintf("%-16s", name)) + MetricValue.Render(value) + "\n")
	}

	row("R0", fmt.Sprintf("%.1f", s.R0))
	row("peak infectious", fmt.Sprintf("%.1f on day %.0f", s.PeakInfected, s.PeakDay))
	row("peak bacteria", fmt.Sprintf("%.1f on day %.0f", s.PeakBacteria, s.PeakBacteriaDay))
	if len(s.Final) == epidemic.NumCompartments {
		row("final S/E/I/R", fmt.Sprintf("%.1f / %.1f / %.1f / %.1f",
			s.Final[epidemic.Susceptible], s.Final[epidemic.Exposed],
			s.Final[epidemic.Infectious], s.Final[epidemic.Recovered]))
	}
	row("solver", fmt.Sprintf("%d steps, %d rejected, %s", s.Stats.Steps, s.Stats.Rejected, m.elapsed.Round(time.Microsecond)))

	if s.MinValue < 0 {
		b.WriteString("  " + StatusWarning.Render(fmt.Sprintf("min value %.3g: transient dip below zero", s.MinValue)) + "\n")
	}
	return b.String()
}

func (m Model) viewKeys(theme Theme) string {
	key := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	hints := []struct{ k, d string }{
		{"j/k", " select  "},
		{"h/l", " adjust  "},
		{"p", " preset  "},
		{"r", " reset  "},
		{"t", " theme  "},
		{"q", " quit"},
	}
	var b strings.Builder
	for _, h := range hints {
		b.WriteString(key.Render(h.k) + KeyHint.Render(h.d))
	}
	return b.String()
}

func formatSlider(v, step float64) string {
	switch {
	case step >= 1:
		return fmt.Sprintf("%.0f", v)
	case step >= 0.01:
		return fmt.Sprintf("%.2f", v)
	default:
		return fmt.Sprintf("%.4f", v)
	}
}

// Run starts the slider application on the terminal.
func Run(sc *config.Scenario, opts ...ModelOption) error {
	_, err := tea.NewProgram(NewModel(sc, opts...), tea.WithAltScreen()).Run()
	return err
}
