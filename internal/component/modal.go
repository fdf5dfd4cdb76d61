package component

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ModalConfig configures a Modal.
type ModalConfig struct {
	ID           string
	Title        string
	Content      string // plain text body; nested components go via Append
	ConfirmLabel string // default "Confirm"
	CancelLabel  string // default "Cancel"
	Danger       bool   // style the confirm button as destructive
	Width        int    // default 50
}

// Modal is a centered confirm/cancel overlay. Open and Close emit the open
// and close events; Confirm and Cancel additionally emit a click from the
// matching button.
type Modal struct {
	Base

	title   string
	width   int
	open    bool
	confirm *Button
	cancel  *Button

	// focusConfirm tracks which of the two buttons the highlight sits on.
	focusConfirm bool
}

// NewModal constructs a Modal from its config.
func NewModal(cfg ModalConfig) (*Modal, error) {
	if strings.TrimSpace(cfg.Title) == "" {
		return nil, &ConfigError{Component: "modal", Field: "Title", Reason: "must not be empty"}
	}

	confirmLabel := cfg.ConfirmLabel
	if confirmLabel == "" {
		confirmLabel = "Confirm"
	}
	cancelLabel := cfg.CancelLabel
	if cancelLabel == "" {
		cancelLabel = "Cancel"
	}
	confirmVariant := VariantPrimary
	if cfg.Danger {
		confirmVariant = VariantDanger
	}

	confirm, err := NewButton(ButtonConfig{ID: cfg.ID + "-confirm", Label: confirmLabel, Variant: confirmVariant})
	if err != nil {
		return nil, err
	}
	cancel, err := NewButton(ButtonConfig{ID: cfg.ID + "-cancel", Label: cancelLabel, Variant: VariantSecondary})
	if err != nil {
		return nil, err
	}

	width := cfg.Width
	if width <= 0 {
		width = 50
	}

	m := &Modal{
		Base:    newBase(cfg.ID),
		title:   cfg.Title,
		width:   width,
		confirm: confirm,
		cancel:  cancel,
	}
	m.SetContent(cfg.Content)
	m.Append(confirm)
	m.Append(cancel)
	m.cancel.Focus()
	return m, nil
}

// Title returns the modal title.
func (m *Modal) Title() string { return m.title }

// IsOpen reports whether the modal is showing.
func (m *Modal) IsOpen() bool { return m.open }

// ConfirmButton returns the confirm button for handler registration.
func (m *Modal) ConfirmButton() *Button { return m.confirm }

// CancelButton returns the cancel button for handler registration.
func (m *Modal) CancelButton() *Button { return m.cancel }

// Open shows the modal, focusing the cancel button (the safe default).
func (m *Modal) Open() tea.Cmd {
	if m.destroyed || m.open {
		return nil
	}
	m.open = true
	m.focusConfirm = false
	m.cancel.Focus()
	m.confirm.Blur()
	return m.emit(EventOpen, nil)
}

// Close hides the modal.
func (m *Modal) Close() tea.Cmd {
	if m.destroyed || !m.open {
		return nil
	}
	m.open = false
	return m.emit(EventClose, nil)
}

// Confirm activates the confirm button and closes.
func (m *Modal) Confirm() tea.Cmd {
	if m.destroyed || !m.open {
		return nil
	}
	return tea.Batch(m.confirm.Activate(), m.Close())
}

// Cancel activates the cancel button and closes.
func (m *Modal) Cancel() tea.Cmd {
	if m.destroyed || !m.open {
		return nil
	}
	return tea.Batch(m.cancel.Activate(), m.Close())
}

// Update handles modal keyboard input: tab/arrows move between the buttons,
// enter activates the focused one, esc cancels.
func (m *Modal) Update(msg tea.Msg) tea.Cmd {
	if m.destroyed || !m.open {
		return nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch key.String() {
	case "tab", "left", "right":
		m.focusConfirm = !m.focusConfirm
		if m.focusConfirm {
			m.confirm.Focus()
			m.cancel.Blur()
		} else {
			m.cancel.Focus()
			m.confirm.Blur()
		}
		return nil
	case "enter":
		if m.focusConfirm {
			return m.Confirm()
		}
		return m.Cancel()
	case "esc":
		return m.Cancel()
	case "y":
		return m.Confirm()
	case "n":
		return m.Cancel()
	}
	return nil
}

// View renders the modal box. Returns empty while closed; callers composite
// it over their own view with Overlay.
func (m *Modal) View() string {
	if m.destroyed || m.hidden || !m.open {
		return ""
	}

	var b strings.Builder
	b.WriteString(labelStyle.Render(m.title))
	if m.content != "" {
		b.WriteString("\n\n")
		b.WriteString(m.content)
	}
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.cancel.View(), "  ", m.confirm.View()))

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(primaryColor).
		Width(m.width).
		Padding(1, 2).
		Render(b.String())
}

// Overlay centers the modal over the full terminal, dimming the backdrop.
func (m *Modal) Overlay(width, height int) string {
	if !m.open {
		return ""
	}
	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		m.View(),
		lipgloss.WithWhitespaceChars("░"),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("240")),
	)
}
