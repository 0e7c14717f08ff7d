package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/floats"
)

var (
	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	StatusWarning = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))

	StatusError = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff4444"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)

	// slider track
	barFilled = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc"))
	barEmpty  = lipgloss.NewStyle().Foreground(lipgloss.Color("#444466"))

	// sparkline bands, low to high
	sparkLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#2ca02c"))
	sparkMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	sparkHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#d62728"))
)

var sparkRunes = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// GradientText colors each rune of text along a Lab blend from start to
// end. Colors that are not #rrggbb fall back to plain text.
func GradientText(text string, start, end lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	c1, err1 := colorful.Hex(string(start))
	c2, err2 := colorful.Hex(string(end))
	if err1 != nil || err2 != nil {
		return text
	}

	var b strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		c := c1.BlendLab(c2, t).Clamped()
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(string(r)))
	}
	return b.String()
}

// ProgressBar renders frac (0..1) of width as a slider track.
func ProgressBar(frac float64, width int) string {
	filled := min(max(int(frac*float64(width)+0.5), 0), width)
	return barFilled.Render(strings.Repeat("█", filled)) + barEmpty.Render(strings.Repeat("░", width-filled))
}

// SparklineChart draws values in width cells. When there are more values
// than cells each cell shows the largest value of its bucket so peaks are
// never dropped.
func SparklineChart(values []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}

	lo, hi := floats.Min(values), floats.Max(values)
	span := hi - lo
	if span == 0 {
		span = 1
	}

	cells := min(width, len(values))
	var b strings.Builder
	for i := 0; i < cells; i++ {
		from := i * len(values) / cells
		to := max((i+1)*len(values)/cells, from+1)
		norm := (floats.Max(values[from:to]) - lo) / span

		r := string(sparkRunes[min(int(norm*float64(len(sparkRunes)-1)+0.5), len(sparkRunes)-1)])
		switch {
		case norm > 0.7:
			b.WriteString(sparkHigh.Render(r))
		case norm > 0.3:
			b.WriteString(sparkMid.Render(r))
		default:
			b.WriteString(sparkLow.Render(r))
		}
	}
	return b.String()
}
