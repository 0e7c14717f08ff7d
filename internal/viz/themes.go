package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/seirb/internal/epidemic"
)

// Theme defines color scheme for the TUI
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	// Series colors the S, E, I, R and B lines in that order.
	Series [epidemic.NumCompartments]asciigraph.AnsiColor
	// Swatches mirror Series for lipgloss legends.
	Swatches [epidemic.NumCompartments]lipgloss.Color
}

var (
	ThemeClassic = Theme{
		Name:      "classic",
		Primary:   lipgloss.Color("#00cccc"),
		Secondary: lipgloss.Color("#666688"),
		Accent:    lipgloss.Color("#ff88ff"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#555566"),
		Warning:   lipgloss.Color("#ffaa00"),
		Error:     lipgloss.Color("#ff4444"),
		Series:    [epidemic.NumCompartments]asciigraph.AnsiColor{asciigraph.Blue, asciigraph.Orange, asciigraph.Red, asciigraph.Green, asciigraph.Purple},
		Swatches:  [epidemic.NumCompartments]lipgloss.Color{"#1f77b4", "#ff7f0e", "#d62728", "#2ca02c", "#9467bd"},
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Primary:   lipgloss.Color("#00ff00"),
		Secondary: lipgloss.Color("#00cc00"),
		Accent:    lipgloss.Color("#88ff88"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#005500"),
		Warning:   lipgloss.Color("#ffff00"),
		Error:     lipgloss.Color("#ff0000"),
		Series:    [epidemic.NumCompartments]asciigraph.AnsiColor{asciigraph.Green, asciigraph.Lime, asciigraph.Yellow, asciigraph.DarkGreen, asciigraph.Olive},
		Swatches:  [epidemic.NumCompartments]lipgloss.Color{"#008000", "#00ff00", "#ffff00", "#006400", "#808000"},
	}

	ThemeMinimal = Theme{
		Name:      "minimal",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#cccccc"),
		Accent:    lipgloss.Color("#0088ff"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888888"),
		Warning:   lipgloss.Color("#ffaa00"),
		Error:     lipgloss.Color("#ff0000"),
		Series:    [epidemic.NumCompartments]asciigraph.AnsiColor{asciigraph.Default, asciigraph.Default, asciigraph.Default, asciigraph.Default, asciigraph.Default},
		Swatches:  [epidemic.NumCompartments]lipgloss.Color{"#ffffff", "#ffffff", "#ffffff", "#ffffff", "#ffffff"},
	}

	Themes = []Theme{
		ThemeClassic,
		ThemeRetroGreen,
		ThemeMinimal,
	}
)

// GetTheme returns a theme by name, falling back to the classic theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeClassic
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
