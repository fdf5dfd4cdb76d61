package component

import "fmt"

// ConfigError reports a fatal problem in a component configuration.
// Ignorable problems (unknown enum values) never produce a ConfigError;
// they degrade to defaults with a logged warning.
type ConfigError struct {
	Component string
	Field     string
	Reason    string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s config: %s %s", e.Component, e.Field, e.Reason)
}
