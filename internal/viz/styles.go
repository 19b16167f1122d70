package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Key hint style
	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)

	// Metric value style
	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	// Metric label style
	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))
)

// AnimatedSpinner returns frame of animated spinner
func AnimatedSpinner(frame int) string {
	spinners := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	return spinners[frame%len(spinners)]
}

// header renders the title bar, truncated or padded to width columns.
func header(title string, width int, t Theme) string {
	runes := []rune(title)
	if len(runes) > width {
		runes = runes[:width]
	}
	text := string(runes) + strings.Repeat(" ", width-len(runes))
	return lipgloss.NewStyle().Bold(true).Foreground(t.Title).Render(text)
}

func metric(label, format string, v any) string {
	return MetricLabel.Render(label+" ") + MetricValue.Render(fmt.Sprintf(format, v))
}

// statusLine summarizes the simulated state below the scene.
func statusLine(frame int, simTime float64, bodies, links, contacts int) string {
	parts := []string{
		AnimatedSpinner(frame),
		metric("t", "%.3fs", simTime),
		metric("frame", "%d", frame),
		metric("bodies", "%d", bodies),
		metric("links", "%d", links),
		metric("contacts", "%d", contacts),
	}
	return strings.Join(parts, "  ")
}
