package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/storykeep/storykeep/internal/component"
	"github.com/storykeep/storykeep/internal/entity"
	"github.com/storykeep/storykeep/internal/logging"
	"github.com/storykeep/storykeep/internal/notify"
	"github.com/storykeep/storykeep/internal/repo"
	"github.com/storykeep/storykeep/internal/store"
	"github.com/storykeep/storykeep/internal/upgrade"
)

// EditorModel edits one record through an upgraded legacy form. The pending
// state lives in the components; the saved record is only touched when the
// user saves.
type EditorModel struct {
	repo *repo.Repository

	Kind entity.Kind
	ID   string // empty while creating a new record

	saved entity.Record // nil while creating
	form  *upgrade.Form

	dirty        bool
	unsavedModal *component.Modal

	Width  int
	Height int
}

// NewEditorModel builds the editor for a new record (empty id) or an
// existing one.
func NewEditorModel(r *repo.Repository, kind entity.Kind, id string) (EditorModel, error) {
	m := EditorModel{repo: r, Kind: kind, ID: id}

	if id != "" {
		rec, err := r.Get(kind, id)
		if err != nil {
			return m, err
		}
		m.saved = rec
	}

	form, err := upgrade.Upgrade(editorFormSpec(r, kind, m.saved))
	if err != nil {
		return m, fmt.Errorf("building editor form: %w", err)
	}
	m.form = form
	return m, nil
}

// Init focuses the first field.
func (m EditorModel) Init() tea.Cmd {
	return m.form.FocusNext()
}

// Update handles editor input.
func (m EditorModel) Update(msg tea.Msg) (EditorModel, tea.Cmd) {
	switch msg := msg.(type) {
	case component.ChangeMsg:
		// Any component change marks the editor dirty. The save button's
		// click arrives as ClickMsg, not ChangeMsg, so saving stays clean.
		m.dirty = true
		return m, nil

	case component.ClickMsg:
		switch msg.ID {
		case "editor/save":
			return m.save()
		case "editor-unsaved-confirm":
			m.discard()
			return m, func() tea.Msg { return goBackMsg{} }
		case "editor-unsaved-cancel":
			m.unsavedModal.Destroy()
			m.unsavedModal = nil
			return m, nil
		}

	case tea.KeyMsg:
		if m.unsavedModal != nil && m.unsavedModal.IsOpen() {
			return m, m.unsavedModal.Update(msg)
		}

		switch msg.String() {
		case "ctrl+s":
			return m.save()

		case "tab":
			return m, m.form.FocusNext()
		case "shift+tab":
			return m, m.form.FocusPrev()

		case "esc":
			// Let an open select handle its own escape (filter clear or
			// close) before the editor interprets it as leave.
			if f := m.form.FocusedField(); f != nil && f.Select != nil && f.Select.IsOpen() {
				return m, m.form.Update(msg)
			}
			if m.dirty {
				return m.confirmDiscard()
			}
			m.discard()
			return m, func() tea.Msg { return goBackMsg{} }
		}
	}

	return m, m.form.Update(msg)
}

// confirmDiscard opens the unsaved-changes modal.
func (m EditorModel) confirmDiscard() (EditorModel, tea.Cmd) {
	modal, err := component.NewModal(component.ModalConfig{
		ID:           "editor-unsaved",
		Title:        "Discard changes?",
		Content:      "This record has unsaved changes.",
		ConfirmLabel: "Discard",
		CancelLabel:  "Keep editing",
		Danger:       true,
	})
	if err != nil {
		logging.Error("Building unsaved-changes modal", zap.Error(err))
		return m, nil
	}
	m.unsavedModal = modal
	return m, modal.Open()
}

// discard tears down the form components and any open confirmation modal.
func (m *EditorModel) discard() {
	if m.form != nil {
		m.form.Destroy()
	}
	if m.unsavedModal != nil {
		m.unsavedModal.Destroy()
		m.unsavedModal = nil
	}
}

// save validates, writes the form values into the record, and persists it.
func (m EditorModel) save() (EditorModel, tea.Cmd) {
	results, ok := m.form.Validate()
	if !ok {
		invalid := make([]string, 0, len(results))
		for name, r := range results {
			if !r.Valid {
				invalid = append(invalid, name)
			}
		}
		logging.Debug("Editor validation failed", zap.Strings("fields", invalid))
		return m, Toast(notify.Warning, "Fix the highlighted fields before saving")
	}

	values := m.form.Values()

	var rec entity.Record
	if m.saved != nil {
		rec = m.saved
	} else {
		var err error
		rec, err = entity.New(m.Kind, strings.TrimSpace(values["name"]))
		if err != nil {
			return m, Toast(notify.Error, err.Error())
		}
	}
	applyFormValues(rec, values)

	repoRef := m.repo
	isNew := m.saved == nil
	label := m.Kind.Label()
	form := m.form

	return m, func() tea.Msg {
		var err error
		if isNew {
			err = repoRef.Add(context.Background(), rec)
		} else {
			err = repoRef.Update(context.Background(), rec)
		}
		if err != nil {
			logging.Error("Saving record", zap.Error(err))
			return toastMsg{severity: notify.Error, message: store.ShortMessage(err)}
		}
		form.Destroy()
		return tea.BatchMsg{
			func() tea.Msg { return toastMsg{severity: notify.Success, message: label + " saved"} },
			func() tea.Msg { return goBackMsg{} },
		}
	}
}

// View renders the form.
func (m EditorModel) View() string {
	if m.unsavedModal != nil && m.unsavedModal.IsOpen() {
		return m.unsavedModal.Overlay(m.Width, m.Height)
	}

	title := "New " + strings.ToLower(m.Kind.Label())
	if m.saved != nil {
		title = "Edit: " + m.saved.Meta().Name
	}

	var b strings.Builder
	b.WriteString(RenderTitle(title))
	b.WriteString("\n")
	b.WriteString(m.form.View())

	help := "tab next field • ctrl+s save • esc back"
	return RenderApplicationContainer(b.String(), help, m.Width, m.Height)
}
