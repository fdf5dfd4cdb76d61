// Package config provides user configuration management for StoryKeep.
//
// This package manages a YAML-based configuration file that stores the
// library database location and application preferences. The configuration
// follows OS-specific conventions for storage location.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/storykeep/config.yaml or $HOME/.config/storykeep/config.yaml
//   - macOS: $HOME/.config/storykeep/config.yaml
//   - Windows: %LOCALAPPDATA%\storykeep\config.yaml
//
// The library database itself defaults to the per-OS data directory (see
// GetDataDir) and can be relocated by setting library.path in the config.
//
// # Usage Example
//
//	// Load the global registry
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Adjust preferences
//	registry.Preferences.SortOrder = "updated"
//	registry.Preview.Announce = false
//
//	// Save changes atomically
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes.
package config
