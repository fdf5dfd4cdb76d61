// Storykeep-preview is a standalone read-only LAN preview server for
// StoryKeep libraries.
//
// It serves a library database over HTTP as a plain web page and a JSON
// API, pushes live change notifications over a WebSocket feed, and
// announces itself over mDNS so other devices on the network can find it.
// The library file is opened read-only and watched for changes, so the
// server can run next to the TUI without interfering with it.
//
// Usage:
//
//	storykeep-preview serve [flags]
//
// See 'storykeep-preview serve --help' for available options.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/storykeep/storykeep/internal/config"
	"github.com/storykeep/storykeep/internal/logging"
	"github.com/storykeep/storykeep/internal/preview"
	"github.com/storykeep/storykeep/internal/repo"
	"github.com/storykeep/storykeep/internal/store"
	"github.com/storykeep/storykeep/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "storykeep-preview",
	Short: "StoryKeep Read-Only Preview Server",
	Long: `A standalone read-only preview server for StoryKeep libraries.

Serves a library over HTTP for other devices on the local network: a plain
web page for browsing, a JSON API, and a WebSocket change feed. The library
file is never written to.

Note: For editing the library, use the main 'storykeep' application.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: serve when no subcommand provided
		return runServe(cmd, args)
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Serve command and flags
var (
	dbPath     string
	listenAddr string
	noAnnounce bool
	logLevel   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the preview server",
	Long: `Start the read-only preview server.

Without --db, the library location from the storykeep configuration file
is used. The server reloads automatically when the library file changes,
and connected feed clients are notified.`,
	Example: `  # Serve the configured library on the default port
  storykeep-preview serve

  # Serve a specific library on a custom port
  storykeep-preview serve --db ~/stories/library.db --addr :8080

  # Serve without mDNS announcement
  storykeep-preview serve --no-announce --log-level debug`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&dbPath, "db", "", "Library database file (default from storykeep config)")
	serveCmd.Flags().StringVar(&listenAddr, "addr", ":7465", "Listen address")
	serveCmd.Flags().BoolVar(&noAnnounce, "no-announce", false, "Do not announce the server over mDNS")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(logLevel); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	defer logging.Sync()

	libraryPath := dbPath
	if libraryPath == "" {
		reg, err := config.LoadRegistry()
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		libraryPath, err = reg.LibraryPath()
		if err != nil {
			return fmt.Errorf("resolving library path: %w", err)
		}
	}

	st, err := store.OpenSQLiteReadOnly(libraryPath)
	if err != nil {
		return fmt.Errorf("opening library: %w (%s)", err, store.TroubleshootingHint(err))
	}
	defer st.Close()

	r, err := repo.Open(cmd.Context(), st)
	if err != nil {
		return fmt.Errorf("loading library: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := preview.NewServer(r, preview.Options{
		Addr:     listenAddr,
		DBPath:   libraryPath,
		Announce: !noAnnounce,
	})
	return srv.Run(ctx)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("storykeep-preview %s (commit: %s)\n", version.Version, version.Commit)
	},
}
