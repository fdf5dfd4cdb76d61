package component

import "github.com/charmbracelet/lipgloss"

// Color palette shared by the component library. Matches the application
// palette in internal/tui.
var (
	primaryColor = lipgloss.Color("#7D56F4") // Purple
	successColor = lipgloss.Color("#43BF6D") // Green
	dangerColor  = lipgloss.Color("#FF5555") // Red
	warningColor = lipgloss.Color("#FFA500") // Orange
	textColor    = lipgloss.Color("#FFFFFF") // White
	subtleColor  = lipgloss.Color("#626262") // Gray
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Bold(true)

	helpTextStyle = lipgloss.NewStyle().
			Foreground(subtleColor).
			Italic(true)

	errorTextStyle = lipgloss.NewStyle().
			Foreground(dangerColor)

	disabledStyle = lipgloss.NewStyle().
			Foreground(subtleColor)

	highlightStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)
)
