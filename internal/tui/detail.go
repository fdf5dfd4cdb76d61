package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/storykeep/storykeep/internal/component"
	"github.com/storykeep/storykeep/internal/entity"
	"github.com/storykeep/storykeep/internal/logging"
	"github.com/storykeep/storykeep/internal/notify"
	"github.com/storykeep/storykeep/internal/repo"
	"github.com/storykeep/storykeep/internal/store"
)

// DetailModel shows one record in full: fields, markdown notes, and the
// records that reference it.
type DetailModel struct {
	repo *repo.Repository

	Kind entity.Kind
	ID   string

	rec           entity.Record
	notesRendered string
	referencedBy  []entity.Record

	deleteModal *component.Modal

	Width  int
	Height int
}

// NewDetailModel loads the record and renders its notes.
func NewDetailModel(r *repo.Repository, kind entity.Kind, id string) DetailModel {
	m := DetailModel{repo: r, Kind: kind, ID: id}

	rec, err := r.Get(kind, id)
	if err != nil {
		logging.Error("Loading record for detail view", zap.String("id", id), zap.Error(err))
		return m
	}
	m.rec = rec
	m.referencedBy = r.Referencing(id)
	m.notesRendered = renderNotes(rec.Meta().Notes)
	return m
}

// renderNotes runs the record's notes through the markdown renderer. Raw
// text is shown when rendering fails.
func renderNotes(notes string) string {
	if notes == "" {
		return ""
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(76),
	)
	if err != nil {
		logging.Warn("Building markdown renderer", zap.Error(err))
		return notes
	}
	out, err := renderer.Render(notes)
	if err != nil {
		logging.Warn("Rendering notes", zap.Error(err))
		return notes
	}
	return out
}

// Init implements tea.Model for the screen.
func (m DetailModel) Init() tea.Cmd {
	return nil
}

// Update handles detail screen input.
func (m DetailModel) Update(msg tea.Msg) (DetailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case component.ClickMsg:
		switch msg.ID {
		case "detail-delete-confirm":
			return m.performDelete()
		case "detail-delete-cancel":
			m.deleteModal = nil
			return m, nil
		}

	case tea.KeyMsg:
		if m.deleteModal != nil && m.deleteModal.IsOpen() {
			return m, m.deleteModal.Update(msg)
		}
		switch msg.String() {
		case "esc", "q":
			return m, func() tea.Msg { return goBackMsg{} }
		case "e":
			return m, transitionCmd(ScreenEditor, editorData{kind: m.Kind, id: m.ID})
		case "d":
			return m.confirmDelete()
		}
	}
	return m, nil
}

func (m DetailModel) confirmDelete() (DetailModel, tea.Cmd) {
	if m.rec == nil {
		return m, nil
	}
	content := fmt.Sprintf("Delete %q permanently?", m.rec.Meta().Name)
	if n := len(m.referencedBy); n > 0 {
		content += fmt.Sprintf("\nIt is referenced by %d other record(s); those references will be removed.", n)
	}

	modal, err := component.NewModal(component.ModalConfig{
		ID:           "detail-delete",
		Title:        "Delete " + strings.ToLower(m.Kind.Label()),
		Content:      content,
		ConfirmLabel: "Delete",
		Danger:       true,
	})
	if err != nil {
		logging.Error("Building delete modal", zap.Error(err))
		return m, nil
	}
	m.deleteModal = modal
	return m, modal.Open()
}

func (m DetailModel) performDelete() (DetailModel, tea.Cmd) {
	m.deleteModal = nil
	repoRef, kind, id := m.repo, m.Kind, m.ID
	label := kind.Label()
	return m, func() tea.Msg {
		if err := repoRef.Remove(context.Background(), kind, id); err != nil {
			return toastMsg{severity: notify.Error, message: store.ShortMessage(err)}
		}
		return tea.BatchMsg{
			func() tea.Msg { return toastMsg{severity: notify.Success, message: label + " deleted"} },
			func() tea.Msg { return goBackMsg{} },
		}
	}
}

// View renders the record.
func (m DetailModel) View() string {
	if m.deleteModal != nil && m.deleteModal.IsOpen() {
		return m.deleteModal.Overlay(m.Width, m.Height)
	}
	if m.rec == nil {
		return RenderApplicationContainer(RenderError("Record not found"), "esc back", m.Width, m.Height)
	}

	meta := m.rec.Meta()
	var b strings.Builder

	b.WriteString(RenderTitle(meta.Name))
	b.WriteString(SubtitleStyle.Render("  " + m.Kind.Label()))
	b.WriteString("\n\n")

	if meta.Description != "" {
		b.WriteString(meta.Description)
		b.WriteString("\n\n")
	}

	for _, row := range m.kindFields() {
		if row.value == "" {
			continue
		}
		b.WriteString(fmt.Sprintf("  %-12s %s\n", row.label+":", row.value))
	}
	if len(meta.Tags) > 0 {
		b.WriteString(fmt.Sprintf("  %-12s %s\n", "Tags:", strings.Join(meta.Tags, ", ")))
	}

	if m.notesRendered != "" {
		b.WriteString("\n")
		b.WriteString(SubtitleStyle.Render("Notes"))
		b.WriteString("\n")
		b.WriteString(m.notesRendered)
	}

	if len(m.referencedBy) > 0 {
		b.WriteString("\n")
		b.WriteString(SubtitleStyle.Render("Referenced by"))
		b.WriteString("\n")
		for _, ref := range m.referencedBy {
			b.WriteString(fmt.Sprintf("  • %s (%s)\n", ref.Meta().Name, ref.Kind().Label()))
		}
	}

	return RenderApplicationContainer(b.String(), "e edit • d delete • esc back", m.Width, m.Height)
}

type fieldRow struct {
	label string
	value string
}

// kindFields flattens the kind-specific fields into label/value rows,
// resolving relationship ids to record names.
func (m DetailModel) kindFields() []fieldRow {
	switch rec := m.rec.(type) {
	case *entity.Character:
		return []fieldRow{
			{"Role", rec.Role},
			{"Aliases", strings.Join(rec.Aliases, ", ")},
			{"Related", m.names(rec.RelatedCharacterIDs)},
			{"Locations", m.names(rec.LocationIDs)},
		}
	case *entity.Location:
		return []fieldRow{
			{"Category", rec.Category},
		}
	case *entity.Plot:
		return []fieldRow{
			{"Status", rec.Status},
			{"Characters", m.names(rec.CharacterIDs)},
			{"Locations", m.names(rec.LocationIDs)},
			{"Elements", m.names(rec.ElementIDs)},
		}
	case *entity.WorldElement:
		return []fieldRow{
			{"Category", rec.Category},
			{"Characters", m.names(rec.CharacterIDs)},
			{"Locations", m.names(rec.LocationIDs)},
		}
	}
	return nil
}

// names resolves record ids to display names, skipping dangling ids.
func (m DetailModel) names(ids []string) string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		rec, err := m.repo.Lookup(id)
		if err != nil {
			continue
		}
		out = append(out, rec.Meta().Name)
	}
	return strings.Join(out, ", ")
}
