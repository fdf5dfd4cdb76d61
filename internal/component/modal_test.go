package component

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestModal(t *testing.T) *Modal {
	t.Helper()
	m, err := NewModal(ModalConfig{
		ID:           "confirm-delete",
		Title:        "Delete character?",
		Content:      "This cannot be undone.",
		ConfirmLabel: "Delete",
		Danger:       true,
	})
	if err != nil {
		t.Fatalf("NewModal() error = %v", err)
	}
	return m
}

func TestNewModalRequiresTitle(t *testing.T) {
	if _, err := NewModal(ModalConfig{ID: "m"}); err == nil {
		t.Error("NewModal() should reject an empty title")
	}
}

func TestModalOpenCloseEvents(t *testing.T) {
	m := newTestModal(t)

	var opened, closed bool
	m.On(EventOpen, func(Event) { opened = true })
	m.On(EventClose, func(Event) { closed = true })

	m.Open()
	if !m.IsOpen() || !opened {
		t.Error("Open() should open the modal and emit the open event")
	}

	m.Open() // idempotent
	m.Close()
	if m.IsOpen() || !closed {
		t.Error("Close() should close the modal and emit the close event")
	}
}

func TestModalConfirmFiresConfirmClick(t *testing.T) {
	m := newTestModal(t)

	var confirmed, cancelled bool
	m.ConfirmButton().On(EventClick, func(Event) { confirmed = true })
	m.CancelButton().On(EventClick, func(Event) { cancelled = true })

	m.Open()
	m.Confirm()

	if !confirmed || cancelled {
		t.Error("Confirm() should fire only the confirm button's click")
	}
	if m.IsOpen() {
		t.Error("Confirm() should close the modal")
	}
}

func TestModalEscCancels(t *testing.T) {
	m := newTestModal(t)

	var cancelled bool
	m.CancelButton().On(EventClick, func(Event) { cancelled = true })

	m.Open()
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	if !cancelled || m.IsOpen() {
		t.Error("esc should cancel and close the modal")
	}
}

func TestModalTabMovesFocusAndEnterCommits(t *testing.T) {
	m := newTestModal(t)

	var confirmed bool
	m.ConfirmButton().On(EventClick, func(Event) { confirmed = true })

	m.Open()
	// Focus starts on cancel (the safe default); tab moves it to confirm.
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if !confirmed {
		t.Error("enter after tab should activate the confirm button")
	}
}

func TestModalViewOnlyWhileOpen(t *testing.T) {
	m := newTestModal(t)

	if m.View() != "" {
		t.Error("a closed modal should render nothing")
	}

	m.Open()
	view := m.View()
	if !strings.Contains(view, "Delete character?") {
		t.Errorf("View() = %q, should contain the title", view)
	}
	if !strings.Contains(view, "This cannot be undone.") {
		t.Error("View() should contain the content")
	}
}

func TestModalUpdateIgnoredWhileClosed(t *testing.T) {
	m := newTestModal(t)

	var confirmed bool
	m.ConfirmButton().On(EventClick, func(Event) { confirmed = true })

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if confirmed {
		t.Error("a closed modal must ignore keyboard input")
	}
}
