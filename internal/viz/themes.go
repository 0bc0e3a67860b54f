package viz

import "github.com/charmbracelet/lipgloss"

// Theme colours the replay view.
type Theme struct {
	Name   string
	Chain  lipgloss.Color
	Accent lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Graph  lipgloss.Color
}

var (
	ThemeRetroGreen = Theme{
		Name:   "retro",
		Chain:  lipgloss.Color("#00ff00"),
		Accent: lipgloss.Color("#88ff88"),
		Text:   lipgloss.Color("#00ff00"),
		Muted:  lipgloss.Color("#005500"),
		Graph:  lipgloss.Color("#00cc00"),
	}

	ThemeOcean = Theme{
		Name:   "ocean",
		Chain:  lipgloss.Color("#00a8cc"),
		Accent: lipgloss.Color("#ffd700"),
		Text:   lipgloss.Color("#e0f0ff"),
		Muted:  lipgloss.Color("#4488aa"),
		Graph:  lipgloss.Color("#00ff88"),
	}

	ThemeMinimal = Theme{
		Name:   "minimal",
		Chain:  lipgloss.Color("#ffffff"),
		Accent: lipgloss.Color("#0088ff"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#888888"),
		Graph:  lipgloss.Color("#cccccc"),
	}

	Themes = []Theme{ThemeOcean, ThemeRetroGreen, ThemeMinimal}
)

// GetTheme returns a theme by name, falling back to the first.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
