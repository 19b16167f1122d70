package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme of a window.
type Theme struct {
	Name   string
	Title  lipgloss.Color
	Muted  lipgloss.Color
	Sky    lipgloss.Color
	Shades [numShades]lipgloss.Color // indexed by shade level
}

// Available themes
var (
	ThemeMinimal = Theme{
		Name:   "minimal",
		Title:  lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#888888"),
		Sky:    lipgloss.Color("#000000"),
		Shades: [numShades]lipgloss.Color{"#333333", "#777777", "#bbbbbb", "#ffffff", "#0088ff"},
	}

	ThemeRetroGreen = Theme{
		Name:   "retro",
		Title:  lipgloss.Color("#00ff00"), // Green phosphor
		Muted:  lipgloss.Color("#005500"),
		Sky:    lipgloss.Color("#001100"),
		Shades: [numShades]lipgloss.Color{"#003300", "#007700", "#00cc00", "#88ff88", "#ffff00"},
	}

	ThemeOcean = Theme{
		Name:   "ocean",
		Title:  lipgloss.Color("#e0f0ff"),
		Muted:  lipgloss.Color("#4488aa"),
		Sky:    lipgloss.Color("#001a33"), // deep navy sky
		Shades: [numShades]lipgloss.Color{"#1a3a55", "#0077be", "#00a8cc", "#e0f0ff", "#ffd700"},
	}

	ThemeSunset = Theme{
		Name:   "sunset",
		Title:  lipgloss.Color("#fff5f5"),
		Muted:  lipgloss.Color("#8b6b8c"),
		Sky:    lipgloss.Color("#2d1b2e"),
		Shades: [numShades]lipgloss.Color{"#4a2f4b", "#8b6b8c", "#ff6b6b", "#feca57", "#ff9ff3"},
	}

	// All available themes
	Themes = []Theme{
		ThemeMinimal,
		ThemeRetroGreen,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to ThemeMinimal.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeMinimal
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
