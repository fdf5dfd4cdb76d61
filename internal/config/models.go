package config

// Registry represents the entire user configuration file.
// This stores the library location and application preferences.
type Registry struct {
	Version     int          `yaml:"version"`
	Library     *Library     `yaml:"library,omitempty"`
	Preferences *Preferences `yaml:"preferences,omitempty"`
	Preview     *Preview     `yaml:"preview,omitempty"`
}

// Library describes where the story database lives on disk.
type Library struct {
	// Path is the SQLite database file. Empty means the default location
	// under the per-OS data directory.
	Path string `yaml:"path,omitempty"`
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	DefaultKind string `yaml:"default_kind"` // Kind opened by the browse shortcut (characters, locations, plots, elements)
	SortOrder   string `yaml:"sort_order"`   // Browse list sort: "name" or "updated"
	RecentLimit int    `yaml:"recent_limit"` // Number of records shown on the home screen
}

// Preview represents settings for the read-only LAN preview server.
type Preview struct {
	Addr     string `yaml:"addr"`     // Listen address (host:port)
	Announce bool   `yaml:"announce"` // Advertise over mDNS as _storykeep._tcp
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version: 1,
		Library: &Library{},
		Preferences: &Preferences{
			DefaultKind: "characters",
			SortOrder:   "name",
			RecentLimit: 5,
		},
		Preview: &Preview{
			Addr:     ":7465",
			Announce: true,
		},
	}
}

// Accepted values for Preferences.SortOrder.
const (
	SortByName    = "name"
	SortByUpdated = "updated"
)

// ValidSortOrders lists the accepted values for Preferences.SortOrder.
var ValidSortOrders = []string{SortByName, SortByUpdated}

// NormalizeSortOrder maps an unknown sort order back to the default.
func NormalizeSortOrder(s string) string {
	for _, v := range ValidSortOrders {
		if s == v {
			return s
		}
	}
	return SortByName
}
