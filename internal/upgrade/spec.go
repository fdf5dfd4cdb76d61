package upgrade

import (
	"strings"

	"github.com/storykeep/storykeep/internal/component"
)

// FormSpec is a legacy form definition: a name plus fields in declaration
// order.
type FormSpec struct {
	Name   string
	Fields []FieldSpec
}

// FieldSpec is the loosely-typed field shape legacy code produces. Kind is
// optional; when empty the field kind is inferred from the other properties
// the way the old markup carried it (options present means a select, a class
// containing "btn" means a button, more than one row means a multiline
// input).
type FieldSpec struct {
	Kind        string // "", text, email, url, number, password, textarea, select, button
	Name        string
	Label       string
	Class       string // legacy class string, e.g. "btn btn-danger btn-sm"
	Required    bool
	Options     []component.Option
	Placeholder string
	Multiple    bool
	Rows        int
	Help        string
	Value       string // initial value
}

// Inferred field kinds.
const (
	kindButton = "button"
	kindSelect = "select"
	kindText   = "text"
)

// inferKind normalizes a FieldSpec to one of button, select, or text.
func inferKind(spec FieldSpec) string {
	switch spec.Kind {
	case "button":
		return kindButton
	case "select":
		return kindSelect
	case "text", "email", "url", "number", "password", "textarea":
		return kindText
	}

	// No explicit kind: read the legacy signals.
	if len(spec.Options) > 0 {
		return kindSelect
	}
	if hasClass(spec.Class, "btn") {
		return kindButton
	}
	return kindText
}

// hasClass checks for a whole class token in a space-delimited class string.
func hasClass(class, token string) bool {
	for _, c := range strings.Fields(class) {
		if c == token {
			return true
		}
	}
	return false
}

// buttonVariant maps legacy button classes to a component variant.
func buttonVariant(class string) string {
	switch {
	case hasClass(class, "btn-danger"):
		return component.VariantDanger
	case hasClass(class, "btn-secondary"):
		return component.VariantSecondary
	case hasClass(class, "btn-ghost"), hasClass(class, "btn-link"):
		return component.VariantGhost
	default:
		return component.VariantPrimary
	}
}

// buttonSize maps legacy size classes to a component size.
func buttonSize(class string) string {
	switch {
	case hasClass(class, "btn-sm"), hasClass(class, "btn-small"):
		return component.SizeSmall
	case hasClass(class, "btn-lg"), hasClass(class, "btn-large"):
		return component.SizeLarge
	default:
		return component.SizeMedium
	}
}

// fieldValidators builds the validator chain a legacy field implied.
func fieldValidators(spec FieldSpec) []component.Validator {
	var out []component.Validator

	label := spec.Label
	if label == "" {
		label = spec.Name
	}
	if spec.Required {
		out = append(out, component.Required(label))
	}

	switch spec.Kind {
	case "email":
		out = append(out, component.Email())
	case "url":
		out = append(out, component.URL())
	case "number":
		out = append(out, component.NumericRange(-1e9, 1e9))
	case "password":
		out = append(out, component.PasswordStrength())
	}
	return out
}
