package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/storykeep/storykeep/internal/component"
	"github.com/storykeep/storykeep/internal/config"
	"github.com/storykeep/storykeep/internal/entity"
	"github.com/storykeep/storykeep/internal/logging"
	"github.com/storykeep/storykeep/internal/notify"
	"github.com/storykeep/storykeep/internal/repo"
	"github.com/storykeep/storykeep/internal/store"
)

// recordItem adapts a library record to bubbles/list.
type recordItem struct {
	rec entity.Record
}

// FilterValue feeds the list's built-in fuzzy filter.
func (i recordItem) FilterValue() string {
	meta := i.rec.Meta()
	return meta.Name + " " + strings.Join(meta.Tags, " ")
}

// cardDelegate renders each record as a component Card; the cursor row gets
// the selected highlight border.
type cardDelegate struct{}

func (cardDelegate) Height() int  { return 5 }
func (cardDelegate) Spacing() int { return 1 }

func (cardDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (cardDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ri, ok := item.(recordItem)
	if !ok {
		return
	}
	meta := ri.rec.Meta()

	header := meta.Name
	if header == "" {
		header = "(unnamed)"
	}
	card, err := component.NewCard(component.CardConfig{
		ID:     "browse/" + meta.ID,
		Header: header,
		Body:   snippet(meta.Description, 56),
		Footer: "updated " + humanAge(meta.UpdatedAt),
		Width:  60,
	})
	if err != nil {
		logging.Warn("Rendering record card", zap.Error(err))
		return
	}
	card.SetSelected(index == m.Index())
	fmt.Fprint(w, card.View())
}

// snippet returns the first line of s truncated to n runes.
func snippet(s string, n int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

// humanAge formats a timestamp as a coarse relative age.
func humanAge(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// recordsRefreshedMsg reloads the visible list after a mutation.
type recordsRefreshedMsg struct{}

// BrowseModel lists one kind of record with filtering, sorting, quick-add,
// and deletion.
type BrowseModel struct {
	repo     *repo.Repository
	registry *config.Registry

	Kind entity.Kind

	list      list.Model
	sortOrder string

	// Quick-add state (inline name input).
	adding   bool
	addField *component.TextField

	// Delete confirmation state.
	deleteModal *component.Modal
	deleteID    string

	Width  int
	Height int
}

// NewBrowseModel builds the browse screen for a record kind.
func NewBrowseModel(r *repo.Repository, registry *config.Registry, kind entity.Kind) BrowseModel {
	sortOrder := config.SortByName
	if registry != nil && registry.Preferences != nil {
		sortOrder = config.NormalizeSortOrder(registry.Preferences.SortOrder)
	}

	l := list.New(nil, cardDelegate{}, 0, 0)
	l.Title = kind.Label() + "s"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = TitleStyle

	m := BrowseModel{
		repo:      r,
		registry:  registry,
		Kind:      kind,
		list:      l,
		sortOrder: sortOrder,
	}
	m.reloadItems()
	return m
}

// Init implements tea.Model for the screen.
func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m *BrowseModel) setSize(width, height int) {
	m.Width = width
	m.Height = height
	// Leave room for the application frame, header, and footer.
	m.list.SetSize(width-6, height-8)
}

// reloadItems re-reads the repository in the current sort order.
func (m *BrowseModel) reloadItems() {
	var records []entity.Record
	if m.sortOrder == config.SortByUpdated {
		records = m.repo.ListByUpdated(m.Kind)
	} else {
		records = m.repo.List(m.Kind)
	}
	items := make([]list.Item, len(records))
	for i, rec := range records {
		items[i] = recordItem{rec: rec}
	}
	m.list.SetItems(items)
}

// selectedRecord returns the record under the cursor, or nil.
func (m BrowseModel) selectedRecord() entity.Record {
	item, ok := m.list.SelectedItem().(recordItem)
	if !ok {
		return nil
	}
	return item.rec
}

// Update handles browse screen input.
func (m BrowseModel) Update(msg tea.Msg) (BrowseModel, tea.Cmd) {
	switch msg := msg.(type) {
	case recordsRefreshedMsg:
		m.reloadItems()
		return m, nil

	case component.ClickMsg:
		switch msg.ID {
		case "delete-record-confirm":
			return m.performDelete()
		case "delete-record-cancel":
			m.deleteModal = nil
			m.deleteID = ""
			return m, nil
		}

	case tea.KeyMsg:
		if m.deleteModal != nil && m.deleteModal.IsOpen() {
			return m, m.deleteModal.Update(msg)
		}
		if m.adding {
			return m.updateQuickAdd(msg)
		}
		// Let the list's own filter input swallow keys while typing.
		if m.list.FilterState() != list.Filtering {
			switch msg.String() {
			case "esc":
				return m, func() tea.Msg { return goBackMsg{} }
			case "a":
				return m.startQuickAdd()
			case "o":
				return m.cycleSort()
			case "enter":
				if rec := m.selectedRecord(); rec != nil {
					return m, transitionCmd(ScreenDetail, detailData{kind: m.Kind, id: rec.Meta().ID})
				}
				return m, nil
			case "e":
				if rec := m.selectedRecord(); rec != nil {
					return m, transitionCmd(ScreenEditor, editorData{kind: m.Kind, id: rec.Meta().ID})
				}
				return m, nil
			case "n":
				return m, transitionCmd(ScreenEditor, editorData{kind: m.Kind})
			case "d":
				return m.confirmDelete()
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func transitionCmd(screen Screen, data interface{}) tea.Cmd {
	return func() tea.Msg {
		return screenTransitionMsg{screen: screen, data: data}
	}
}

// startQuickAdd opens the inline name input.
func (m BrowseModel) startQuickAdd() (BrowseModel, tea.Cmd) {
	field, err := component.NewTextField(component.TextFieldConfig{
		ID:          "quick-add",
		Label:       "New " + strings.ToLower(m.Kind.Label()) + " name",
		Placeholder: "Name",
		Validators:  []component.Validator{component.Required("Name")},
	})
	if err != nil {
		logging.Error("Building quick-add input", zap.Error(err))
		return m, nil
	}
	m.adding = true
	m.addField = field
	return m, field.Focus()
}

// updateQuickAdd drives the inline name input.
func (m BrowseModel) updateQuickAdd(msg tea.KeyMsg) (BrowseModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.addField.Destroy()
		m.adding = false
		m.addField = nil
		return m, nil

	case "enter":
		if r := m.addField.Validate(); !r.Valid {
			return m, nil
		}
		name := strings.TrimSpace(m.addField.Value())
		m.addField.Destroy()
		m.adding = false
		m.addField = nil
		return m, m.addRecordCmd(name)
	}

	cmd := m.addField.Update(msg)
	return m, cmd
}

// addRecordCmd creates a record with just a name; everything else is edited
// on the editor screen.
func (m BrowseModel) addRecordCmd(name string) tea.Cmd {
	repoRef, kind := m.repo, m.Kind
	return func() tea.Msg {
		rec, err := entity.New(kind, name)
		if err != nil {
			return toastMsg{severity: notify.Error, message: err.Error()}
		}
		if err := repoRef.Add(context.Background(), rec); err != nil {
			return toastMsg{severity: notify.Error, message: store.ShortMessage(err)}
		}
		return tea.BatchMsg{
			func() tea.Msg { return recordsRefreshedMsg{} },
			func() tea.Msg { return toastMsg{severity: notify.Success, message: kind.Label() + " added"} },
		}
	}
}

// cycleSort flips between name order and recently-updated order.
func (m BrowseModel) cycleSort() (BrowseModel, tea.Cmd) {
	if m.sortOrder == config.SortByName {
		m.sortOrder = config.SortByUpdated
	} else {
		m.sortOrder = config.SortByName
	}
	m.reloadItems()
	return m, Toast(notify.Info, "Sorted by "+m.sortOrder)
}

// confirmDelete opens the confirmation modal with the referencing count so
// the user knows how many records the sweep will touch.
func (m BrowseModel) confirmDelete() (BrowseModel, tea.Cmd) {
	rec := m.selectedRecord()
	if rec == nil {
		return m, nil
	}
	meta := rec.Meta()
	refs := m.repo.Referencing(meta.ID)

	content := fmt.Sprintf("Delete %q permanently?", meta.Name)
	if n := len(refs); n > 0 {
		content += fmt.Sprintf("\nIt is referenced by %d other record(s); those references will be removed.", n)
	}

	modal, err := component.NewModal(component.ModalConfig{
		ID:           "delete-record",
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
	m.deleteID = meta.ID
	return m, modal.Open()
}

// performDelete runs the atomic removal sweep.
func (m BrowseModel) performDelete() (BrowseModel, tea.Cmd) {
	id := m.deleteID
	m.deleteModal = nil
	m.deleteID = ""

	repoRef, kind := m.repo, m.Kind
	return m, func() tea.Msg {
		if err := repoRef.Remove(context.Background(), kind, id); err != nil {
			logging.Error("Removing record", zap.String("id", id), zap.Error(err))
			return tea.BatchMsg{
				func() tea.Msg {
					return toastMsg{severity: notify.Error, message: store.ShortMessage(err)}
				},
				func() tea.Msg {
					return toastMsg{severity: notify.Warning, message: store.TroubleshootingHint(err)}
				},
			}
		}
		return tea.BatchMsg{
			func() tea.Msg { return recordsRefreshedMsg{} },
			func() tea.Msg { return toastMsg{severity: notify.Success, message: kind.Label() + " deleted"} },
		}
	}
}

// View renders the browse screen.
func (m BrowseModel) View() string {
	var b strings.Builder

	if m.deleteModal != nil && m.deleteModal.IsOpen() {
		return m.deleteModal.Overlay(m.Width, m.Height)
	}

	b.WriteString(m.list.View())

	if m.adding && m.addField != nil {
		b.WriteString("\n\n")
		b.WriteString(m.addField.View())
	}

	help := "enter detail • e edit • n new • a quick-add • d delete • o sort • / filter • esc back"
	return RenderApplicationContainer(b.String(), help, m.Width, m.Height)
}
