package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// LogBox displays raw multi-line output in a titled box. Used in verbose
// mode to show exactly what a command did (e.g., every record a seed run
// created).
type LogBox struct {
	Title    string   // e.g., "Seeded records"
	Content  string   // The raw output
	Lines    []string // Parsed output lines
	Width    int      // Terminal width
	MaxLines int      // Maximum lines to display (0 = unlimited)
}

// NewLogBox creates a new log box with the given title and content
func NewLogBox(title, content string) *LogBox {
	return &LogBox{
		Title:    title,
		Content:  content,
		Lines:    strings.Split(content, "\n"),
		Width:    GetTerminalWidth(),
		MaxLines: 0,
	}
}

// SetWidth sets the terminal width for responsive rendering
func (l *LogBox) SetWidth(width int) *LogBox {
	l.Width = width
	return l
}

// SetMaxLines limits the number of lines displayed
func (l *LogBox) SetMaxLines(max int) *LogBox {
	l.MaxLines = max
	return l
}

// Render returns the styled log box as a string
func (l *LogBox) Render() string {
	width := l.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	// Apply max lines limit
	lines := l.Lines
	if l.MaxLines > 0 && len(lines) > l.MaxLines {
		lines = lines[:l.MaxLines]
		lines = append(lines, "... (output truncated)")
	}

	titleStyled := LogTitleStyle.Render(l.Title)
	contentStyled := LogContentStyle.Render(strings.Join(lines, "\n"))

	inner := lipgloss.JoinVertical(lipgloss.Left, titleStyled, "", contentStyled)

	boxWidth := width - 4
	if boxWidth < 40 {
		boxWidth = 40
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Width(boxWidth).
		Padding(0, 1).
		MarginLeft(2).
		Render(inner)
}

// String implements fmt.Stringer
func (l *LogBox) String() string {
	return l.Render()
}

// RenderLog renders a log box with the given title and content
func RenderLog(title, content string) string {
	return NewLogBox(title, content).Render()
}
