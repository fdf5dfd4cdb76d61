// Package upgrade converts loosely-typed legacy form definitions into typed
// component instances.
//
// The editor screens still author their forms in the legacy shape - a
// FormSpec holding FieldSpecs whose meaning is smeared across class strings
// ("btn btn-danger btn-sm"), option lists, and row counts. The upgrade pass
// walks the fields, infers a typed configuration for each, and constructs
// the matching component from internal/component.
//
// The pass is idempotent: fields already upgraded (tracked by name) are
// skipped when a spec is applied again, so re-running an upgrade over a
// grown spec only adds the new fields.
//
// Two-way sync with a shadow native element is gone. The Form's value
// adapter (Values, SetValue, Apply) is the single access path legacy-style
// readers and writers use; component state is the only source of truth.
package upgrade
