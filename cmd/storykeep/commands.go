package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/storykeep/storykeep/internal/config"
	"github.com/storykeep/storykeep/internal/entity"
	"github.com/storykeep/storykeep/internal/logging"
	"github.com/storykeep/storykeep/internal/preview"
	"github.com/storykeep/storykeep/internal/repo"
	"github.com/storykeep/storykeep/internal/store"
	"github.com/storykeep/storykeep/internal/tui"
	"github.com/storykeep/storykeep/internal/ui"
)

// Command flags
var (
	dbPath     string
	listenAddr string
	noAnnounce bool
	seedForce  bool
	verbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Library database file (overrides the configured location)")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(seedCmd)
}

// resolveLibraryPath returns the library file: the --db flag when given,
// otherwise the configured or default location.
func resolveLibraryPath(reg *config.Registry) (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	return reg.LibraryPath()
}

// runTUI launches the interactive application. This is the default command.
func runTUI(cmd *cobra.Command, args []string) error {
	// Logging stays silent unless STORYKEEP_LOG_LEVEL is set; the TUI owns
	// the terminal.
	if err := logging.InitializeFromEnv(); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	defer logging.Sync()

	reg, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if dbPath != "" {
		if reg.Library == nil {
			reg.Library = &config.Library{}
		}
		reg.Library.Path = dbPath
	}

	p := tea.NewProgram(tui.NewAppModel(reg), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running application: %w", err)
	}
	return nil
}

// configCmd shows the effective configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Display the configuration file location and the effective settings.

Settings come from the YAML configuration file, created with defaults on
first run. Edit the file directly to change them.`,
	Example: `  # Show where the config lives and what it resolves to
  storykeep config`,
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("resolving config path: %w", err)
	}

	reg, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	libraryPath, err := resolveLibraryPath(reg)
	if err != nil {
		return fmt.Errorf("resolving library path: %w", err)
	}

	printer := ui.NewPrinter(nil)
	printer.PrintHeader("Configuration", "storykeep config", map[string]string{
		"File": configPath,
	})

	printer.PrintLines(
		"  Library:      "+libraryPath,
		"",
	)
	if prefs := reg.Preferences; prefs != nil {
		printer.PrintLines(
			"  Default kind: "+prefs.DefaultKind,
			"  Sort order:   "+prefs.SortOrder,
			fmt.Sprintf("  Recent limit: %d", prefs.RecentLimit),
			"",
		)
	}
	if pv := reg.Preview; pv != nil {
		printer.PrintLines(
			"  Preview addr: "+pv.Addr,
			fmt.Sprintf("  Announce:     %v", pv.Announce),
			"",
		)
	}
	return nil
}

// previewCmd runs the read-only LAN preview server in the foreground
var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Serve the library read-only over the LAN",
	Long: `Run the read-only preview server in the foreground.

Other devices on the local network can browse the library through a plain
web page and a JSON API. The library file is watched for changes, so edits
made in the TUI show up live. The server is announced over mDNS unless
--no-announce is given.

The server never writes to the library.`,
	Example: `  # Serve the configured library on the default port
  storykeep preview

  # Serve a specific library file on a custom port
  storykeep preview --db ~/stories/library.db --addr :8080

  # Serve without mDNS announcement
  storykeep preview --no-announce`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().StringVar(&listenAddr, "addr", "", "Listen address (default from config, normally :7465)")
	previewCmd.Flags().BoolVar(&noAnnounce, "no-announce", false, "Do not announce the server over mDNS")
}

func runPreview(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize("info"); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	defer logging.Sync()

	reg, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	libraryPath, err := resolveLibraryPath(reg)
	if err != nil {
		return fmt.Errorf("resolving library path: %w", err)
	}

	opts := preview.Options{
		DBPath:   libraryPath,
		Announce: !noAnnounce,
	}
	if reg.Preview != nil {
		opts.Addr = reg.Preview.Addr
		if noAnnounce {
			opts.Announce = false
		} else {
			opts.Announce = reg.Preview.Announce
		}
	}
	if listenAddr != "" {
		opts.Addr = listenAddr
	}

	st, err := store.OpenSQLiteReadOnly(libraryPath)
	if err != nil {
		ui.PrintFailure("Opening library", err, []string{
			store.TroubleshootingHint(err),
			"Run 'storykeep seed' to create a demo library",
			"Check the library path with 'storykeep config'",
		})
		return err
	}
	defer st.Close()

	r, err := repo.Open(cmd.Context(), st)
	if err != nil {
		ui.PrintFailure("Loading library", err, []string{store.TroubleshootingHint(err)})
		return err
	}

	ui.PrintCommandHeader("Library Preview", "storykeep preview", map[string]string{
		"Library": libraryPath,
		"Address": opts.Addr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := preview.NewServer(r, opts)
	if err := srv.Run(ctx); err != nil {
		ui.PrintFailure("Preview server", err, []string{
			"Check that the port is not already in use",
			"Try a different port with --addr",
		})
		return err
	}
	return nil
}

// seedCmd fills a library with demo records
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed a library with demo records",
	Long: `Create a small demo library: a handful of characters, locations,
plot threads, and world elements with relationships between them.

Useful for trying the application out before committing your own story to
it, and as test data for the preview server. Seeding an existing library
asks for confirmation first because the demo records mix in with whatever
is already there.`,
	Example: `  # Seed the configured library
  storykeep seed

  # Seed a throwaway file and list every record created
  storykeep seed --db /tmp/demo.db --verbose`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().BoolVar(&seedForce, "force", false, "Seed into an existing library without asking")
	seedCmd.Flags().BoolVar(&verbose, "verbose", false, "List every record created")
}

func runSeed(cmd *cobra.Command, args []string) error {
	if err := logging.InitializeFromEnv(); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	defer logging.Sync()

	reg, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	libraryPath, err := resolveLibraryPath(reg)
	if err != nil {
		return fmt.Errorf("resolving library path: %w", err)
	}

	if _, err := os.Stat(libraryPath); err == nil && !seedForce {
		if !ui.OverwriteLibraryConfirmation(libraryPath) {
			return nil
		}
	}

	runner := ui.NewRunner(ui.RunnerConfig{
		Title:   "Demo Library Seed",
		Command: "storykeep seed",
		Params: map[string]string{
			"Library": libraryPath,
		},
		TotalSteps: 5,
		StepNames: []string{
			"Opening library",
			"Creating characters",
			"Creating locations",
			"Creating world elements",
			"Creating plot threads",
		},
		Verbose: verbose,
		Troubleshooting: []string{
			"Check that the directory is writable",
			"Check the library path with 'storykeep config'",
		},
	})

	_, err = runner.RunWithResult(cmd.Context(), func(onStep ui.StepCallback) (map[string]string, error) {
		onStep(1, "", ui.StepRunning, "")
		st, err := store.OpenSQLite(libraryPath)
		if err != nil {
			onStep(1, "", ui.StepFailed, "")
			return nil, err
		}
		defer st.Close()

		r, err := repo.Open(cmd.Context(), st)
		if err != nil {
			onStep(1, "", ui.StepFailed, "")
			return nil, err
		}
		onStep(1, "", ui.StepComplete, "")

		created, err := seedDemoRecords(cmd.Context(), r, onStep)
		if err != nil {
			return nil, err
		}
		runner.SetDetailLog(describeRecords(created))

		return map[string]string{
			"Records": fmt.Sprintf("%d", len(created)),
			"Library": libraryPath,
		}, nil
	})
	return err
}

// seedDemoRecords writes the demo story into the repository, reporting
// progress per kind.
func seedDemoRecords(ctx context.Context, r *repo.Repository, onStep ui.StepCallback) ([]entity.Record, error) {
	var created []entity.Record
	add := func(rec entity.Record) error {
		if err := r.Add(ctx, rec); err != nil {
			return err
		}
		created = append(created, rec)
		return nil
	}

	// Locations first so the other records can reference them.
	onStep(3, "", ui.StepRunning, "")
	harbor := entity.NewLocation("Saltcrest Harbor")
	harbor.Description = "A tiered port city carved into sea cliffs"
	harbor.Category = "city"
	harbor.Tags = []string{"coastal"}

	keep := entity.NewLocation("The Grey Keep")
	keep.Description = "Fortress guarding the only mountain pass north"
	keep.Category = "building"
	keep.Notes = "## Layout\nThree concentric walls, the innermost older than the kingdom itself."

	marsh := entity.NewLocation("Widow's Marsh")
	marsh.Description = "Fogbound wetland between the harbor and the keep"
	marsh.Category = "region"

	for _, l := range []entity.Record{harbor, keep, marsh} {
		if err := add(l); err != nil {
			onStep(3, "", ui.StepFailed, "")
			return nil, err
		}
	}
	onStep(3, "", ui.StepComplete, "3 records")

	onStep(2, "", ui.StepRunning, "")
	mara := entity.NewCharacter("Mara Venn")
	mara.Description = "Smuggler turned reluctant courier for the crown"
	mara.Role = "protagonist"
	mara.Aliases = []string{"The Gull"}
	mara.LocationIDs = []string{harbor.ID}
	mara.Tags = []string{"pov"}
	mara.Notes = "Keeps her old smuggling charts sewn into her coat lining."

	edric := entity.NewCharacter("Lord Edric Hale")
	edric.Description = "Castellan of the Grey Keep with a debt he cannot pay"
	edric.Role = "antagonist"
	edric.LocationIDs = []string{keep.ID}

	tam := entity.NewCharacter("Tam")
	tam.Description = "Marsh guide who knows which fogs are weather and which are not"
	tam.Role = "supporting"
	tam.LocationIDs = []string{marsh.ID}

	mara.RelatedCharacterIDs = []string{tam.ID}
	edric.RelatedCharacterIDs = []string{mara.ID}

	for _, c := range []entity.Record{mara, edric, tam} {
		if err := add(c); err != nil {
			onStep(2, "", ui.StepFailed, "")
			return nil, err
		}
	}
	onStep(2, "", ui.StepComplete, "3 records")

	onStep(4, "", ui.StepRunning, "")
	compact := entity.NewWorldElement("The Tidebound Compact")
	compact.Description = "Oath-bound alliance of harbor guilds that predates the crown"
	compact.Category = "faction"
	compact.CharacterIDs = []string{mara.ID}
	compact.LocationIDs = []string{harbor.ID}

	stormglass := entity.NewWorldElement("Stormglass")
	stormglass.Description = "Sea-forged glass that rings before bad weather"
	stormglass.Category = "artifact"
	stormglass.LocationIDs = []string{marsh.ID}

	for _, e := range []entity.Record{compact, stormglass} {
		if err := add(e); err != nil {
			onStep(4, "", ui.StepFailed, "")
			return nil, err
		}
	}
	onStep(4, "", ui.StepComplete, "2 records")

	onStep(5, "", ui.StepRunning, "")
	siege := entity.NewPlot("The Debt of the Grey Keep")
	siege.Description = "Edric's creditors arrive with an army instead of a ledger"
	siege.Status = "outlined"
	siege.CharacterIDs = []string{mara.ID, edric.ID}
	siege.LocationIDs = []string{keep.ID}
	siege.Notes = "# Beats\n1. The summons\n2. The marsh crossing\n3. The walls"

	crossing := entity.NewPlot("The Marsh Crossing")
	crossing.Description = "Mara must move the crown's letters through Widow's Marsh unseen"
	crossing.Status = "drafting"
	crossing.CharacterIDs = []string{mara.ID, tam.ID}
	crossing.LocationIDs = []string{marsh.ID}
	crossing.ElementIDs = []string{stormglass.ID}

	for _, p := range []entity.Record{siege, crossing} {
		if err := add(p); err != nil {
			onStep(5, "", ui.StepFailed, "")
			return nil, err
		}
	}
	onStep(5, "", ui.StepComplete, "2 records")

	return created, nil
}

// describeRecords formats the created records for the verbose detail log.
func describeRecords(records []entity.Record) string {
	var b strings.Builder
	for _, rec := range records {
		fmt.Fprintf(&b, "%-14s %s\n", rec.Kind().Label(), rec.Meta().Name)
	}
	return strings.TrimRight(b.String(), "\n")
}
