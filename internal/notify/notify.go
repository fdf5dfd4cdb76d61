package notify

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storykeep/storykeep/internal/logging"
)

// Severity classifies a toast and picks its dismiss interval and styling.
type Severity int

const (
	Info Severity = iota
	Success
	Warning
	Error
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// TTL returns how long a toast of this severity stays on screen. Errors
// linger longest so the user can actually read them.
func (s Severity) TTL() time.Duration {
	switch s {
	case Warning:
		return 5 * time.Second
	case Error:
		return 8 * time.Second
	default:
		return 3 * time.Second
	}
}

// Toast is one notification in the stack.
type Toast struct {
	ID       string
	Severity Severity
	Message  string
}

// ExpireMsg is delivered by the bubbletea loop when a toast's dismiss timer
// fires. Stale IDs (already evicted or dismissed) are ignored.
type ExpireMsg struct {
	ID string
}

// maxVisible bounds the stack; pushing beyond it evicts the oldest toast.
const maxVisible = 3

// Manager owns the toast stack. It is not safe for concurrent use; all
// access happens on the bubbletea update loop.
type Manager struct {
	toasts []Toast
}

// NewManager returns an empty toast stack.
func NewManager() *Manager {
	return &Manager{}
}

// Push adds a toast and returns the tick command that will expire it. When
// the stack is full the oldest toast is evicted first.
func (m *Manager) Push(severity Severity, message string) tea.Cmd {
	t := Toast{
		ID:       uuid.NewString(),
		Severity: severity,
		Message:  message,
	}

	if len(m.toasts) >= maxVisible {
		evicted := m.toasts[0]
		m.toasts = m.toasts[1:]
		logging.Debug("Toast evicted",
			zap.String("id", evicted.ID),
			zap.String("severity", evicted.Severity.String()),
		)
	}
	m.toasts = append(m.toasts, t)

	logging.Debug("Toast pushed",
		zap.String("id", t.ID),
		zap.String("severity", severity.String()),
		zap.String("message", message),
	)

	id := t.ID
	return tea.Tick(severity.TTL(), func(time.Time) tea.Msg {
		return ExpireMsg{ID: id}
	})
}

// Infof, Successf, Warnf, and Errorf are severity shorthands.
func (m *Manager) Infof(message string) tea.Cmd    { return m.Push(Info, message) }
func (m *Manager) Successf(message string) tea.Cmd { return m.Push(Success, message) }
func (m *Manager) Warnf(message string) tea.Cmd    { return m.Push(Warning, message) }
func (m *Manager) Errorf(message string) tea.Cmd   { return m.Push(Error, message) }

// Update handles expiry messages. Other messages pass through untouched.
func (m *Manager) Update(msg tea.Msg) {
	if exp, ok := msg.(ExpireMsg); ok {
		m.Dismiss(exp.ID)
	}
}

// Dismiss removes a toast by id. Unknown ids are a no-op, which is how
// timers for already-evicted toasts resolve.
func (m *Manager) Dismiss(id string) {
	for i, t := range m.toasts {
		if t.ID == id {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			return
		}
	}
}

// Visible returns the current stack, oldest first.
func (m *Manager) Visible() []Toast {
	out := make([]Toast, len(m.toasts))
	copy(out, m.toasts)
	return out
}

// Len returns the number of toasts on screen.
func (m *Manager) Len() int { return len(m.toasts) }

var (
	toastInfoStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	toastSuccessStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#04B575")).
				Padding(0, 1)

	toastWarningStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#FFB86C")).
				Padding(0, 1)

	toastErrorStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FF5555")).
			Padding(0, 1)
)

func styleFor(s Severity) lipgloss.Style {
	switch s {
	case Success:
		return toastSuccessStyle
	case Warning:
		return toastWarningStyle
	case Error:
		return toastErrorStyle
	default:
		return toastInfoStyle
	}
}

func glyphFor(s Severity) string {
	switch s {
	case Success:
		return "✓"
	case Warning:
		return "!"
	case Error:
		return "✗"
	default:
		return "ℹ"
	}
}

// View renders the stack newest-last. The caller places it; by convention
// the application overlays it at the top-right corner.
func (m *Manager) View() string {
	if len(m.toasts) == 0 {
		return ""
	}
	parts := make([]string, 0, len(m.toasts))
	for _, t := range m.toasts {
		parts = append(parts, styleFor(t.Severity).Render(glyphFor(t.Severity)+" "+t.Message))
	}
	return strings.Join(parts, "\n")
}
