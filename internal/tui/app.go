package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/storykeep/storykeep/internal/component"
	"github.com/storykeep/storykeep/internal/config"
	"github.com/storykeep/storykeep/internal/entity"
	"github.com/storykeep/storykeep/internal/logging"
	"github.com/storykeep/storykeep/internal/notify"
	"github.com/storykeep/storykeep/internal/preview"
	"github.com/storykeep/storykeep/internal/ready"
	"github.com/storykeep/storykeep/internal/repo"
	"github.com/storykeep/storykeep/internal/watch"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenLoading Screen = "loading"
	ScreenHome    Screen = "home"
	ScreenBrowse  Screen = "browse"
	ScreenDetail  Screen = "detail"
	ScreenEditor  Screen = "editor"
)

// Messages for screen transitions
type screenTransitionMsg struct {
	screen Screen
	data   interface{}
}

type goBackMsg struct{}

// toastMsg lets any screen raise a notification through the shared stack.
type toastMsg struct {
	severity notify.Severity
	message  string
}

// Toast builds a command raising a notification.
func Toast(severity notify.Severity, message string) tea.Cmd {
	return func() tea.Msg { return toastMsg{severity: severity, message: message} }
}

// Transition data payloads.
type browseData struct {
	kind entity.Kind
}

type detailData struct {
	kind entity.Kind
	id   string
}

type editorData struct {
	kind entity.Kind
	// id of the record being edited; empty means a new record.
	id string
}

// Preview server lifecycle messages.
type previewStartedMsg struct{ addr string }
type previewFailedMsg struct{ err error }

// navEntry records where goBack should land.
type navEntry struct {
	screen Screen
	data   interface{}
}

// AppModel is the top-level coordinator model that manages screen transitions
type AppModel struct {
	// Current screen state
	CurrentScreen Screen
	navStack      []navEntry

	// Screen models
	LoadingModel LoadingModel
	HomeModel    HomeModel
	BrowseModel  BrowseModel
	DetailModel  DetailModel
	EditorModel  EditorModel

	// Shared application state
	Registry *config.Registry
	Repo     *repo.Repository
	Toasts   *notify.Manager

	// Preview server state
	previewCancel  context.CancelFunc
	previewAddr    string
	previewRunning bool

	// Config file watcher, for live preference reloads
	configWatch       *watch.Watcher
	configWatchCancel context.CancelFunc

	// UI state
	Width  int
	Height int

	// Quit confirmation
	QuitModal *component.Modal
}

// NewAppModel creates a new application model starting on the loading screen
func NewAppModel(registry *config.Registry) AppModel {
	quitModal, err := component.NewModal(component.ModalConfig{
		ID:           "quit",
		Title:        "Quit StoryKeep?",
		Content:      "Your library is saved automatically. Any open editor will be discarded.",
		ConfirmLabel: "Quit",
		CancelLabel:  "Stay",
	})
	if err != nil {
		// The config is a constant; a failure here is a programming error.
		logging.Fatal("Building quit modal", zap.Error(err))
	}

	m := AppModel{
		CurrentScreen: ScreenLoading,
		LoadingModel:  NewLoadingModel(registry),
		Registry:      registry,
		Toasts:        notify.NewManager(),
		QuitModal:     quitModal,
	}

	// Watch the config file so external edits re-apply preferences live.
	// The watcher is best-effort; a missing config dir just means no reloads.
	if path, err := config.GetConfigPath(); err == nil {
		if w, werr := watch.NewWatcher(path); werr == nil {
			ctx, cancel := context.WithCancel(context.Background())
			w.Start(ctx)
			m.configWatch = w
			m.configWatchCancel = cancel
		} else {
			logging.Warn("Watching config file", zap.Error(werr))
		}
	}

	return m
}

// Init initializes the application
func (m AppModel) Init() tea.Cmd {
	if m.configWatch == nil {
		return m.LoadingModel.Init()
	}
	return tea.Batch(m.LoadingModel.Init(), listenConfig(m.configWatch))
}

// configChangedMsg reports an external edit to the config file.
type configChangedMsg struct{}

// listenConfig waits for the next config file change.
func listenConfig(w *watch.Watcher) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-w.Changes(); !ok {
			return nil
		}
		return configChangedMsg{}
	}
}

// Update handles all messages and routes them to the appropriate screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.LoadingModel.Width, m.LoadingModel.Height = msg.Width, msg.Height
		m.HomeModel.Width, m.HomeModel.Height = msg.Width, msg.Height
		m.BrowseModel.setSize(msg.Width, msg.Height)
		m.DetailModel.Width, m.DetailModel.Height = msg.Width, msg.Height
		m.EditorModel.Width, m.EditorModel.Height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		if m.QuitModal.IsOpen() {
			return m, m.QuitModal.Update(msg)
		}

	case component.ClickMsg:
		switch msg.ID {
		case "quit-confirm":
			return m.quit()
		case "quit-cancel":
			return m, nil
		}

	case toastMsg:
		return m, m.Toasts.Push(msg.severity, msg.message)

	case notify.ExpireMsg:
		m.Toasts.Update(msg)
		return m, nil

	case libraryLoadedMsg:
		m.Repo = msg.repo
		return m.transitionTo(ScreenHome, nil)

	case previewStartedMsg:
		m.previewRunning = true
		m.previewAddr = msg.addr
		m.HomeModel.PreviewAddr = msg.addr
		return m, m.Toasts.Push(notify.Success, "Preview sharing at "+msg.addr)

	case previewFailedMsg:
		m.previewCancel = nil
		if ready.IsTimeout(msg.err) {
			return m, m.Toasts.Push(notify.Warning, "Preview server is slow to start; try again")
		}
		return m, m.Toasts.Push(notify.Error, "Preview failed: "+msg.err.Error())

	case configChangedMsg:
		return m.reloadConfig()

	case requestQuitMsg:
		return m, m.QuitModal.Open()

	case togglePreviewMsg:
		return m.togglePreview()

	case screenTransitionMsg:
		return m.transitionTo(msg.screen, msg.data)

	case goBackMsg:
		return m.goBack()
	}

	return m.updateCurrentScreen(msg)
}

// requestQuitMsg asks the router to open the quit confirmation.
type requestQuitMsg struct{}

// togglePreviewMsg asks the router to start or stop the preview server.
type togglePreviewMsg struct{}

// updateCurrentScreen routes updates to the currently active screen
func (m AppModel) updateCurrentScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.CurrentScreen {
	case ScreenLoading:
		m.LoadingModel, cmd = m.LoadingModel.Update(msg)
	case ScreenHome:
		m.HomeModel, cmd = m.HomeModel.Update(msg)
	case ScreenBrowse:
		m.BrowseModel, cmd = m.BrowseModel.Update(msg)
	case ScreenDetail:
		m.DetailModel, cmd = m.DetailModel.Update(msg)
	case ScreenEditor:
		m.EditorModel, cmd = m.EditorModel.Update(msg)
	}

	return m, cmd
}

// transitionTo pushes the current screen on the navigation stack and
// initializes the target.
func (m AppModel) transitionTo(screen Screen, data interface{}) (tea.Model, tea.Cmd) {
	if m.CurrentScreen != ScreenLoading {
		m.navStack = append(m.navStack, navEntry{screen: m.CurrentScreen, data: m.currentScreenData()})
	}
	return m.activate(screen, data)
}

// activate initializes a screen without touching the navigation stack.
func (m AppModel) activate(screen Screen, data interface{}) (tea.Model, tea.Cmd) {
	m.CurrentScreen = screen

	var cmd tea.Cmd
	switch screen {
	case ScreenHome:
		m.HomeModel = NewHomeModel(m.Repo, m.Registry)
		m.HomeModel.Width, m.HomeModel.Height = m.Width, m.Height
		m.HomeModel.PreviewAddr = m.previewAddr
		cmd = m.HomeModel.Init()

	case ScreenBrowse:
		d, _ := data.(browseData)
		m.BrowseModel = NewBrowseModel(m.Repo, m.Registry, d.kind)
		m.BrowseModel.setSize(m.Width, m.Height)
		cmd = m.BrowseModel.Init()

	case ScreenDetail:
		d, _ := data.(detailData)
		m.DetailModel = NewDetailModel(m.Repo, d.kind, d.id)
		m.DetailModel.Width, m.DetailModel.Height = m.Width, m.Height
		cmd = m.DetailModel.Init()

	case ScreenEditor:
		d, _ := data.(editorData)
		editor, err := NewEditorModel(m.Repo, d.kind, d.id)
		if err != nil {
			logging.Error("Building editor", zap.Error(err))
			back, backCmd := m.goBack()
			return back, tea.Batch(backCmd, m.Toasts.Push(notify.Error, "Could not open editor: "+err.Error()))
		}
		m.EditorModel = editor
		m.EditorModel.Width, m.EditorModel.Height = m.Width, m.Height
		cmd = m.EditorModel.Init()
	}

	return m, cmd
}

// currentScreenData captures enough state to rebuild the current screen when
// the user navigates back to it.
func (m AppModel) currentScreenData() interface{} {
	switch m.CurrentScreen {
	case ScreenBrowse:
		return browseData{kind: m.BrowseModel.Kind}
	case ScreenDetail:
		return detailData{kind: m.DetailModel.Kind, id: m.DetailModel.ID}
	case ScreenEditor:
		return editorData{kind: m.EditorModel.Kind, id: m.EditorModel.ID}
	default:
		return nil
	}
}

// goBack pops the navigation stack; an empty stack lands on home.
func (m AppModel) goBack() (tea.Model, tea.Cmd) {
	if len(m.navStack) == 0 {
		return m.activate(ScreenHome, nil)
	}
	top := m.navStack[len(m.navStack)-1]
	m.navStack = m.navStack[:len(m.navStack)-1]

	// A detail screen whose record was just deleted cannot be rebuilt; fall
	// through to the screen below it.
	if top.screen == ScreenDetail {
		if d, ok := top.data.(detailData); ok {
			if _, err := m.Repo.Get(d.kind, d.id); err != nil {
				return m.goBack()
			}
		}
	}
	return m.activate(top.screen, top.data)
}

// togglePreview starts the preview server on first use and stops it on the
// next toggle.
func (m AppModel) togglePreview() (tea.Model, tea.Cmd) {
	if m.previewRunning {
		if m.previewCancel != nil {
			m.previewCancel()
		}
		m.previewCancel = nil
		m.previewRunning = false
		m.previewAddr = ""
		m.HomeModel.PreviewAddr = ""
		return m, m.Toasts.Push(notify.Info, "Preview sharing stopped")
	}

	dbPath, err := m.Registry.LibraryPath()
	if err != nil {
		return m, m.Toasts.Push(notify.Error, "Preview failed: "+err.Error())
	}

	addr := ":7465"
	announce := true
	if m.Registry != nil && m.Registry.Preview != nil {
		addr = m.Registry.Preview.Addr
		announce = m.Registry.Preview.Announce
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.previewCancel = cancel

	srv := preview.NewServer(m.Repo, preview.Options{
		Addr:     addr,
		DBPath:   dbPath,
		Announce: announce,
	})
	gate := ready.NewGate()
	srv.NotifyReady(gate)

	go func() {
		if err := srv.Run(ctx); err != nil {
			logging.Error("Preview server stopped", zap.Error(err))
		}
	}()

	return m, func() tea.Msg {
		if err := ready.Await(context.Background(), "preview", gate, 3*time.Second); err != nil {
			cancel()
			return previewFailedMsg{err: err}
		}
		return previewStartedMsg{addr: addr}
	}
}

// reloadConfig re-applies preferences and preview settings after an external
// edit. The library path is left alone; the open repository stays open.
func (m AppModel) reloadConfig() (tea.Model, tea.Cmd) {
	reg, err := config.ReloadRegistry()
	if err != nil {
		logging.Warn("Reloading configuration", zap.Error(err))
		return m, tea.Batch(
			m.Toasts.Push(notify.Warning, "Config change ignored: "+err.Error()),
			listenConfig(m.configWatch),
		)
	}
	m.Registry.Preferences = reg.Preferences
	m.Registry.Preview = reg.Preview
	logging.Info("Configuration reloaded from disk")
	return m, tea.Batch(
		m.Toasts.Push(notify.Info, "Configuration reloaded"),
		listenConfig(m.configWatch),
	)
}

func (m AppModel) quit() (tea.Model, tea.Cmd) {
	if m.previewCancel != nil {
		m.previewCancel()
	}
	if m.configWatchCancel != nil {
		m.configWatchCancel()
	}
	return m, tea.Quit
}

// View renders the current screen with the toast stack composited on top.
func (m AppModel) View() string {
	var screen string
	switch m.CurrentScreen {
	case ScreenLoading:
		screen = m.LoadingModel.View()
	case ScreenHome:
		screen = m.HomeModel.View()
	case ScreenBrowse:
		screen = m.BrowseModel.View()
	case ScreenDetail:
		screen = m.DetailModel.View()
	case ScreenEditor:
		screen = m.EditorModel.View()
	default:
		screen = "Unknown screen"
	}

	if m.QuitModal.IsOpen() {
		return m.QuitModal.Overlay(m.Width, m.Height)
	}
	return OverlayToasts(screen, m.Toasts.View(), m.Width)
}
