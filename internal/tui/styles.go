package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorRunning  = lipgloss.AdaptiveColor{Light: "#2ECC71", Dark: "#2ECC71"}
	colorFailed   = lipgloss.AdaptiveColor{Light: "#E74C3C", Dark: "#E74C3C"}
	colorStarting = lipgloss.AdaptiveColor{Light: "#3498DB", Dark: "#3498DB"}
	colorStopping = lipgloss.AdaptiveColor{Light: "#F39C12", Dark: "#F39C12"}
	colorStopped  = lipgloss.AdaptiveColor{Light: "#7F8C8D", Dark: "#7F8C8D"}
	colorAccent   = lipgloss.AdaptiveColor{Light: "#10B981", Dark: "#10B981"}

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(colorAccent)

	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(colorStopped)

	statusBarStyle = lipgloss.NewStyle().Foreground(colorStopped)

	logBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorStopped)
)

func stateStyle(state string) lipgloss.Style {
	switch state {
	case "running":
		return lipgloss.NewStyle().Foreground(colorRunning)
	case "failed":
		return lipgloss.NewStyle().Foreground(colorFailed)
	case "starting":
		return lipgloss.NewStyle().Foreground(colorStarting)
	case "stopping":
		return lipgloss.NewStyle().Foreground(colorStopping)
	default:
		return lipgloss.NewStyle().Foreground(colorStopped)
	}
}

func stateIcon(state string) string {
	switch state {
	case "running":
		return "●"
	case "failed":
		return "✗"
	case "starting":
		return "◐"
	case "stopping":
		return "◑"
	default:
		return "○"
	}
}
