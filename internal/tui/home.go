package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/storykeep/storykeep/internal/config"
	"github.com/storykeep/storykeep/internal/entity"
	"github.com/storykeep/storykeep/internal/repo"
)

// homeKeyMap defines key bindings for the home screen
type homeKeyMap struct {
	Characters key.Binding
	Locations  key.Binding
	Plots      key.Binding
	Elements   key.Binding
	Preview    key.Binding
	Quit       key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k homeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Characters, k.Locations, k.Plots, k.Elements, k.Preview, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k homeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Characters, k.Locations, k.Plots, k.Elements},
		{k.Preview, k.Quit},
	}
}

// HomeModel is the library overview screen.
type HomeModel struct {
	repo     *repo.Repository
	registry *config.Registry

	Counts map[entity.Kind]int
	Recent []entity.Record

	PreviewAddr string

	Help help.Model
	Keys homeKeyMap

	Width  int
	Height int
}

// NewHomeModel builds the home screen from the current library state.
func NewHomeModel(r *repo.Repository, registry *config.Registry) HomeModel {
	keys := homeKeyMap{
		Characters: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "characters")),
		Locations:  key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "locations")),
		Plots:      key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "plots")),
		Elements:   key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "world elements")),
		Preview:    key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "preview sharing")),
		Quit:       key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}

	recentLimit := 5
	if registry != nil && registry.Preferences != nil && registry.Preferences.RecentLimit > 0 {
		recentLimit = registry.Preferences.RecentLimit
	}

	m := HomeModel{
		repo:     r,
		registry: registry,
		Help:     help.New(),
		Keys:     keys,
	}
	if r != nil {
		m.Counts = r.Counts()
		m.Recent = r.Recent(recentLimit)
	}
	return m
}

// Init implements tea.Model for the screen.
func (m HomeModel) Init() tea.Cmd {
	return nil
}

// Update handles home screen input.
func (m HomeModel) Update(msg tea.Msg) (HomeModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.Keys.Characters):
		return m, browseCmd(entity.KindCharacter)
	case key.Matches(keyMsg, m.Keys.Locations):
		return m, browseCmd(entity.KindLocation)
	case key.Matches(keyMsg, m.Keys.Plots):
		return m, browseCmd(entity.KindPlot)
	case key.Matches(keyMsg, m.Keys.Elements):
		return m, browseCmd(entity.KindElement)
	case key.Matches(keyMsg, m.Keys.Preview):
		return m, func() tea.Msg { return togglePreviewMsg{} }
	case key.Matches(keyMsg, m.Keys.Quit):
		return m, func() tea.Msg { return requestQuitMsg{} }
	}
	return m, nil
}

func browseCmd(kind entity.Kind) tea.Cmd {
	return func() tea.Msg {
		return screenTransitionMsg{screen: ScreenBrowse, data: browseData{kind: kind}}
	}
}

// View renders the library overview.
func (m HomeModel) View() string {
	var b strings.Builder

	b.WriteString(RenderTitle("Your story library"))
	b.WriteString("\n")

	for i, kind := range entity.Kinds() {
		hint := KeyHintStyle.Render(fmt.Sprintf("[%d]", i+1))
		count := CountStyle.Render(fmt.Sprintf("%d", m.Counts[kind]))
		b.WriteString(fmt.Sprintf("  %s %-16s %s\n", hint, kind.Label()+"s", count))
	}

	if len(m.Recent) > 0 {
		b.WriteString("\n")
		b.WriteString(SubtitleStyle.Render("Recently updated"))
		b.WriteString("\n")
		for _, rec := range m.Recent {
			meta := rec.Meta()
			b.WriteString(fmt.Sprintf("  • %s  %s\n",
				meta.Name,
				SubtitleStyle.Render(rec.Kind().Label()),
			))
		}
	}

	if m.PreviewAddr != "" {
		b.WriteString("\n")
		b.WriteString(RenderSuccess("Preview sharing at " + m.PreviewAddr))
		b.WriteString("\n")
	}

	helpText := m.Help.View(m.Keys)
	return RenderApplicationContainer(b.String(), helpText, m.Width, m.Height)
}
