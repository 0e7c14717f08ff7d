package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/seirb/internal/epidemic"
)

// PlotTrajectory draws all five compartments on one ASCII chart.
func PlotTrajectory(tr *epidemic.Trajectory, width, height int, theme Theme) string {
	if tr == nil || tr.Len() < 2 {
		return ""
	}

	data := make([][]float64, 0, epidemic.NumCompartments)
	legends := make([]string, 0, epidemic.NumCompartments)
	for _, c := range epidemic.Compartments {
		data = append(data, tr.Series(c))
		legends = append(legends, c.Symbol())
	}

	return asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.LowerBound(0),
		asciigraph.Precision(0),
		asciigraph.SeriesColors(theme.Series[:]...),
		asciigraph.SeriesLegends(legends...),
		asciigraph.Caption("population / bacteria vs day"),
	)
}

// Legend names each compartment next to a swatch in its series color.
func Legend(theme Theme) string {
	items := make([]string, 0, epidemic.NumCompartments)
	for i, c := range epidemic.Compartments {
		swatch := lipgloss.NewStyle().Foreground(theme.Swatches[i]).Render("━━")
		if c == epidemic.Bacteria {
			swatch = lipgloss.NewStyle().Foreground(theme.Swatches[i]).Render("╍╍")
		}
		items = append(items, swatch+" "+c.String())
	}
	return strings.Join(items, "  ")
}
