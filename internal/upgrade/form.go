package upgrade

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/storykeep/storykeep/internal/component"
	"github.com/storykeep/storykeep/internal/logging"
)

// Field is one upgraded form field. Exactly one of the component pointers is
// set, matching Kind.
type Field struct {
	Name string
	Kind string // button, select, or text

	Button *component.Button
	Select *component.Select
	Text   *component.TextField
}

// destroy tears down whichever component the field holds.
func (f *Field) destroy() {
	switch f.Kind {
	case kindButton:
		f.Button.Destroy()
	case kindSelect:
		f.Select.Destroy()
	case kindText:
		f.Text.Destroy()
	}
}

// Form owns upgraded components in declaration order and exposes the value
// adapter legacy code reads and writes through.
type Form struct {
	name   string
	fields []*Field
	byName map[string]*Field
	focus  int // index of the focused field, -1 = none
}

// Upgrade constructs a Form from a legacy spec. Fields with duplicate names
// are skipped after the first occurrence (the pass is idempotent by name).
func Upgrade(spec FormSpec) (*Form, error) {
	f := &Form{
		name:   spec.Name,
		byName: make(map[string]*Field),
		focus:  -1,
	}
	if err := f.Apply(spec); err != nil {
		return nil, err
	}
	return f, nil
}

// Apply runs the upgrade pass over a spec against an existing form. Fields
// whose names are already upgraded are skipped, so applying a grown spec
// adds only the new fields.
func (f *Form) Apply(spec FormSpec) error {
	for _, fs := range spec.Fields {
		if fs.Name == "" {
			return fmt.Errorf("form %q: field with empty name", spec.Name)
		}
		if _, done := f.byName[fs.Name]; done {
			logging.Debug("Field already upgraded, skipping",
				zap.String("form", spec.Name),
				zap.String("field", fs.Name),
			)
			continue
		}

		field, err := f.upgradeField(fs)
		if err != nil {
			return fmt.Errorf("form %q: field %q: %w", spec.Name, fs.Name, err)
		}
		f.fields = append(f.fields, field)
		f.byName[fs.Name] = field
	}
	return nil
}

// upgradeField infers the typed configuration and constructs the component.
func (f *Form) upgradeField(fs FieldSpec) (*Field, error) {
	label := fs.Label
	if label == "" {
		label = fs.Name
	}
	id := f.name + "/" + fs.Name

	switch inferKind(fs) {
	case kindButton:
		btn, err := component.NewButton(component.ButtonConfig{
			ID:      id,
			Label:   label,
			Variant: buttonVariant(fs.Class),
			Size:    buttonSize(fs.Class),
		})
		if err != nil {
			return nil, err
		}
		return &Field{Name: fs.Name, Kind: kindButton, Button: btn}, nil

	case kindSelect:
		sel, err := component.NewSelect(component.SelectConfig{
			ID:          id,
			Label:       label,
			Options:     fs.Options,
			Multiple:    fs.Multiple,
			Placeholder: fs.Placeholder,
		})
		if err != nil {
			return nil, err
		}
		if fs.Value != "" {
			sel.SetValues(splitValues(fs.Value))
		}
		return &Field{Name: fs.Name, Kind: kindSelect, Select: sel}, nil

	default:
		tf, err := component.NewTextField(component.TextFieldConfig{
			ID:          id,
			Label:       label,
			Placeholder: fs.Placeholder,
			HelpText:    fs.Help,
			Multiline:   fs.Kind == "textarea" || fs.Rows > 1,
			Rows:        fs.Rows,
			Validators:  fieldValidators(fs),
			ValidateOn:  component.ValidateOnBlur,
		})
		if err != nil {
			return nil, err
		}
		if fs.Value != "" {
			tf.SetValue(fs.Value)
		}
		return &Field{Name: fs.Name, Kind: kindText, Text: tf}, nil
	}
}

// Name returns the form name.
func (f *Form) Name() string { return f.name }

// Fields returns the upgraded fields in declaration order.
func (f *Form) Fields() []*Field {
	out := make([]*Field, len(f.fields))
	copy(out, f.fields)
	return out
}

// Field returns a field by name, or nil.
func (f *Form) Field(name string) *Field {
	return f.byName[name]
}

// Upgraded reports whether a field name has been upgraded already.
func (f *Form) Upgraded(name string) bool {
	_, ok := f.byName[name]
	return ok
}

// Values reads the current component state on demand: text field values,
// select values (multi selections joined by commas), buttons omitted.
func (f *Form) Values() map[string]string {
	out := make(map[string]string, len(f.fields))
	for _, field := range f.fields {
		switch field.Kind {
		case kindText:
			out[field.Name] = field.Text.Value()
		case kindSelect:
			out[field.Name] = strings.Join(field.Select.Values(), ",")
		}
	}
	return out
}

// SetValue writes a value into the named field's component. Unknown names
// and buttons are ignored.
func (f *Form) SetValue(name, value string) {
	field := f.byName[name]
	if field == nil {
		return
	}
	switch field.Kind {
	case kindText:
		field.Text.SetValue(value)
	case kindSelect:
		field.Select.SetValues(splitValues(value))
	}
}

// Apply-style bulk write of the adapter.
func (f *Form) ApplyValues(values map[string]string) {
	for name, v := range values {
		f.SetValue(name, v)
	}
}

// Validate runs every field's validators and returns the per-field results
// plus an aggregate flag.
func (f *Form) Validate() (map[string]component.ValidationResult, bool) {
	results := make(map[string]component.ValidationResult, len(f.fields))
	ok := true
	for _, field := range f.fields {
		if field.Kind != kindText {
			continue
		}
		r := field.Text.Validate()
		results[field.Name] = r
		if !r.Valid {
			ok = false
		}
	}
	return results, ok
}

// FocusedField returns the currently focused field, or nil.
func (f *Form) FocusedField() *Field {
	if f.focus < 0 || f.focus >= len(f.fields) {
		return nil
	}
	return f.fields[f.focus]
}

// FocusNext moves focus to the next field, wrapping around.
func (f *Form) FocusNext() tea.Cmd {
	return f.moveFocus(1)
}

// FocusPrev moves focus to the previous field, wrapping around.
func (f *Form) FocusPrev() tea.Cmd {
	return f.moveFocus(-1)
}

func (f *Form) moveFocus(delta int) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	f.blurField(f.FocusedField())

	next := f.focus + delta
	switch {
	case next >= len(f.fields):
		next = 0
	case next < 0:
		next = len(f.fields) - 1
	}
	f.focus = next
	return f.focusField(f.fields[next])
}

func (f *Form) focusField(field *Field) tea.Cmd {
	switch field.Kind {
	case kindButton:
		field.Button.Focus()
	case kindSelect:
		field.Select.Focus()
	case kindText:
		return field.Text.Focus()
	}
	return nil
}

func (f *Form) blurField(field *Field) {
	if field == nil {
		return
	}
	switch field.Kind {
	case kindButton:
		field.Button.Blur()
	case kindSelect:
		field.Select.Blur()
	case kindText:
		field.Text.Blur()
	}
}

// Update routes a message to the focused field's component.
func (f *Form) Update(msg tea.Msg) tea.Cmd {
	field := f.FocusedField()
	if field == nil {
		return nil
	}
	switch field.Kind {
	case kindButton:
		return field.Button.Update(msg)
	case kindSelect:
		return field.Select.Update(msg)
	case kindText:
		return field.Text.Update(msg)
	}
	return nil
}

// View renders the fields in order, separated by blank lines.
func (f *Form) View() string {
	parts := make([]string, 0, len(f.fields))
	for _, field := range f.fields {
		var v string
		switch field.Kind {
		case kindButton:
			v = field.Button.View()
		case kindSelect:
			v = field.Select.View()
		case kindText:
			v = field.Text.View()
		}
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Destroy tears down every owned component.
func (f *Form) Destroy() {
	for _, field := range f.fields {
		field.destroy()
	}
	f.fields = nil
	f.byName = map[string]*Field{}
	f.focus = -1
}

// splitValues splits a comma-joined adapter value into select values.
func splitValues(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
