package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent  = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#4ADE80"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}
	colorError   = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}

	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	mutedStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	userLabel      = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	assistantLabel = lipgloss.NewStyle().Bold(true).Foreground(colorSuccess)
	errorLabel     = lipgloss.NewStyle().Bold(true).Foreground(colorError)
	errorText      = lipgloss.NewStyle().Foreground(colorError)
	selectedParam  = lipgloss.NewStyle().Bold(true).Underline(true)
	confirmStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorWarning)
	panelStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorMuted).Padding(0, 1)
)

func availabilityColor(availability string) lipgloss.TerminalColor {
	switch availability {
	case "available":
		return colorSuccess
	case "unavailable":
		return colorError
	default:
		return colorWarning
	}
}
