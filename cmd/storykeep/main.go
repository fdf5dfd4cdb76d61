// Storykeep is a story database for writers that lives in the terminal.
//
// It keeps characters, locations, plot threads, and world elements in a
// local SQLite library and provides an interactive TUI for browsing and
// editing them. A read-only preview server can share the library with other
// devices on the local network.
//
// Usage:
//
//	storykeep [command] [flags]
//
// Running without arguments launches the interactive TUI.
// See 'storykeep --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/storykeep/storykeep/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "storykeep",
	Short: "StoryKeep Story Database",
	Long: `A terminal story database for writers.

Keeps characters, locations, plot threads, and world elements in a local
SQLite library, browsable and editable through an interactive TUI.

If no command is specified, the interactive TUI will launch automatically.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run the TUI when no subcommand provided
		return runTUI(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("storykeep %s (commit: %s)\n", version.Version, version.Commit)
	},
}
