package config

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	// Should not be empty
	if configDir == "" {
		t.Error("GetConfigDir() returned empty string")
	}

	// Should contain "storykeep"
	if !strings.Contains(configDir, "storykeep") {
		t.Errorf("GetConfigDir() = %v, should contain 'storykeep'", configDir)
	}

	// Platform-specific checks
	switch runtime.GOOS {
	case "windows":
		if !strings.Contains(configDir, "AppData") && !strings.Contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	case "darwin", "linux":
		if !strings.Contains(configDir, ".config") {
			t.Errorf("Unix config dir should contain '.config', got: %v", configDir)
		}
	}

	t.Logf("Config directory: %s", configDir)
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	// Should end with config.yaml
	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}

	t.Logf("Config path: %s", configPath)
}

func TestGetDataDir(t *testing.T) {
	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir() error = %v", err)
	}

	if !strings.Contains(dataDir, "storykeep") {
		t.Errorf("GetDataDir() = %v, should contain 'storykeep'", dataDir)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("NewRegistry().Version = %v, want 1", reg.Version)
	}

	if reg.Library == nil {
		t.Error("NewRegistry().Library should not be nil")
	}

	if reg.Preferences == nil {
		t.Fatal("NewRegistry().Preferences should not be nil")
	}

	if reg.Preferences.DefaultKind != "characters" {
		t.Errorf("NewRegistry().Preferences.DefaultKind = %v, want characters", reg.Preferences.DefaultKind)
	}

	if reg.Preferences.SortOrder != "name" {
		t.Errorf("NewRegistry().Preferences.SortOrder = %v, want name", reg.Preferences.SortOrder)
	}

	if reg.Preferences.RecentLimit != 5 {
		t.Errorf("NewRegistry().Preferences.RecentLimit = %v, want 5", reg.Preferences.RecentLimit)
	}

	if reg.Preview == nil {
		t.Fatal("NewRegistry().Preview should not be nil")
	}

	if reg.Preview.Addr != ":7465" {
		t.Errorf("NewRegistry().Preview.Addr = %v, want :7465", reg.Preview.Addr)
	}

	if !reg.Preview.Announce {
		t.Error("NewRegistry().Preview.Announce should be true by default")
	}
}

func TestLibraryPathExplicit(t *testing.T) {
	reg := NewRegistry()
	reg.Library.Path = "/tmp/custom/library.db"

	path, err := reg.LibraryPath()
	if err != nil {
		t.Fatalf("LibraryPath() error = %v", err)
	}

	if path != "/tmp/custom/library.db" {
		t.Errorf("LibraryPath() = %v, should honour explicit path", path)
	}
}

func TestParseRegistry(t *testing.T) {
	data := []byte(`
version: 1
library:
  path: /stories/library.db
preferences:
  default_kind: plots
  sort_order: updated
  recent_limit: 8
preview:
  addr: ":9000"
  announce: false
`)

	reg, err := ParseRegistry(data)
	if err != nil {
		t.Fatalf("ParseRegistry() error = %v", err)
	}

	if reg.Library.Path != "/stories/library.db" {
		t.Errorf("Library.Path = %v, want /stories/library.db", reg.Library.Path)
	}
	if reg.Preferences.DefaultKind != "plots" {
		t.Errorf("DefaultKind = %v, want plots", reg.Preferences.DefaultKind)
	}
	if reg.Preferences.SortOrder != "updated" {
		t.Errorf("SortOrder = %v, want updated", reg.Preferences.SortOrder)
	}
	if reg.Preferences.RecentLimit != 8 {
		t.Errorf("RecentLimit = %v, want 8", reg.Preferences.RecentLimit)
	}
	if reg.Preview.Addr != ":9000" {
		t.Errorf("Preview.Addr = %v, want :9000", reg.Preview.Addr)
	}
	if reg.Preview.Announce {
		t.Error("Preview.Announce should be false")
	}
}

func TestParseRegistryFillsDefaults(t *testing.T) {
	reg, err := ParseRegistry([]byte("version: 1\n"))
	if err != nil {
		t.Fatalf("ParseRegistry() error = %v", err)
	}

	if reg.Library == nil {
		t.Error("Library section should be initialized")
	}
	if reg.Preferences == nil || reg.Preferences.SortOrder != "name" {
		t.Error("Preferences should be initialized with defaults")
	}
	if reg.Preview == nil || reg.Preview.Addr != ":7465" {
		t.Error("Preview should be initialized with defaults")
	}
}

func TestParseRegistryBadVersion(t *testing.T) {
	if _, err := ParseRegistry([]byte("version: 2\n")); err == nil {
		t.Error("ParseRegistry() should reject unsupported versions")
	}
}

func TestParseRegistryCorrupt(t *testing.T) {
	if _, err := ParseRegistry([]byte("{not yaml")); err == nil {
		t.Error("ParseRegistry() should fail on corrupt input")
	}
}

func TestParseRegistryNormalizesSortOrder(t *testing.T) {
	reg, err := ParseRegistry([]byte("version: 1\npreferences:\n  sort_order: bogus\n"))
	if err != nil {
		t.Fatalf("ParseRegistry() error = %v", err)
	}
	if reg.Preferences.SortOrder != "name" {
		t.Errorf("SortOrder = %v, unknown values should fall back to name", reg.Preferences.SortOrder)
	}
}

func TestRegistryRoundTrip(t *testing.T) {
	reg := NewRegistry()
	reg.Preferences.DefaultKind = "locations"
	reg.Preview.Addr = ":8080"

	data, err := yaml.Marshal(reg)
	if err != nil {
		t.Fatalf("yaml.Marshal() error = %v", err)
	}

	parsed, err := ParseRegistry(data)
	if err != nil {
		t.Fatalf("ParseRegistry() error = %v", err)
	}

	if parsed.Preferences.DefaultKind != "locations" {
		t.Errorf("DefaultKind = %v, want locations", parsed.Preferences.DefaultKind)
	}
	if parsed.Preview.Addr != ":8080" {
		t.Errorf("Preview.Addr = %v, want :8080", parsed.Preview.Addr)
	}
}

func TestNormalizeSortOrder(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"name", "name"},
		{"updated", "updated"},
		{"", "name"},
		{"alphabetical", "name"},
	}

	for _, tt := range tests {
		if got := NormalizeSortOrder(tt.in); got != tt.want {
			t.Errorf("NormalizeSortOrder(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
