package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/storykeep/storykeep/internal/config"
	"github.com/storykeep/storykeep/internal/logging"
	"github.com/storykeep/storykeep/internal/repo"
	"github.com/storykeep/storykeep/internal/store"
)

// libraryLoadedMsg reports the opened repository to the router.
type libraryLoadedMsg struct {
	repo *repo.Repository
	path string
}

// libraryFailedMsg reports an open failure with a troubleshooting hint.
type libraryFailedMsg struct {
	err  error
	hint string
}

// loadingTickMsg drives the elapsed-time display while the library opens.
type loadingTickMsg time.Time

// LoadingModel opens the library store and loads all record kinds.
type LoadingModel struct {
	registry *config.Registry

	Spinner     spinner.Model
	ProgressBar progress.Model
	StartTime   time.Time

	Failed bool
	Err    error
	Hint   string

	Width  int
	Height int
}

// NewLoadingModel builds the loading screen.
func NewLoadingModel(registry *config.Registry) LoadingModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40

	return LoadingModel{
		registry:    registry,
		Spinner:     s,
		ProgressBar: bar,
		StartTime:   time.Now(),
	}
}

// Init kicks off the spinner, the elapsed ticker, and the actual open.
func (m LoadingModel) Init() tea.Cmd {
	return tea.Batch(
		m.Spinner.Tick,
		loadingTick(),
		openLibraryCmd(m.registry),
	)
}

func loadingTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return loadingTickMsg(t)
	})
}

// openLibraryCmd opens the SQLite store and loads every record kind into
// the repository.
func openLibraryCmd(registry *config.Registry) tea.Cmd {
	return func() tea.Msg {
		path, err := registry.LibraryPath()
		if err != nil {
			return libraryFailedMsg{err: err, hint: "Check the library path in the configuration file."}
		}

		st, err := store.OpenSQLite(path)
		if err != nil {
			logging.Error("Opening library store", zap.String("path", path), zap.Error(err))
			return libraryFailedMsg{err: err, hint: store.TroubleshootingHint(err)}
		}

		r, err := repo.Open(context.Background(), st)
		if err != nil {
			st.Close()
			logging.Error("Loading library records", zap.Error(err))
			return libraryFailedMsg{err: err, hint: store.TroubleshootingHint(err)}
		}

		return libraryLoadedMsg{repo: r, path: path}
	}
}

// Update handles loading screen messages.
func (m LoadingModel) Update(msg tea.Msg) (LoadingModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case loadingTickMsg:
		if m.Failed {
			return m, nil
		}
		return m, loadingTick()

	case libraryFailedMsg:
		m.Failed = true
		m.Err = msg.err
		m.Hint = msg.hint
		return m, nil

	case tea.KeyMsg:
		if m.Failed {
			switch msg.String() {
			case "q", "esc", "enter":
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

// View renders the loading screen.
func (m LoadingModel) View() string {
	if m.Failed {
		return m.renderFailure()
	}

	elapsed := time.Since(m.StartTime)
	elapsedSec := int(elapsed.Seconds())

	// The open is usually near-instant; show the bar filling over the
	// first two seconds so slow disks still read as activity.
	fraction := min(1.0, elapsed.Seconds()/2.0)

	var b strings.Builder
	b.WriteString(RenderTitle("Opening your story library"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  %s Loading characters, locations, plots, and world elements...\n\n", m.Spinner.View()))
	b.WriteString("  " + m.ProgressBar.ViewAs(fraction) + "\n\n")
	b.WriteString(SubtitleStyle.Render(fmt.Sprintf("  Elapsed: %ds", elapsedSec)))

	return RenderApplicationContainer(b.String(), "please wait…", m.Width, m.Height)
}

func (m LoadingModel) renderFailure() string {
	var b strings.Builder
	b.WriteString(RenderTitle("✗ Could not open the library"))
	b.WriteString("\n\n")
	b.WriteString(ErrorBoxStyle.Render(store.ShortMessage(m.Err)))
	b.WriteString("\n\n")
	if m.Hint != "" {
		b.WriteString(m.Hint)
		b.WriteString("\n")
	}
	return RenderApplicationContainer(b.String(), "q quit", m.Width, m.Height)
}
