package component

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ValidateOn is a bitmask choosing when a TextField validates automatically.
// Validate() can always be called on demand regardless of the mask.
type ValidateOn uint8

const (
	// ValidateOnBlur runs validation when the field loses focus.
	ValidateOnBlur ValidateOn = 1 << iota
	// ValidateOnChange runs validation whenever the value changes.
	ValidateOnChange
	// ValidateOnInput runs validation on every keystroke, changed or not.
	ValidateOnInput
)

// TextFieldConfig configures a TextField.
type TextFieldConfig struct {
	ID          string
	Label       string
	Placeholder string
	HelpText    string
	Multiline   bool // use a textarea instead of a single-line input
	Rows        int  // textarea height when Multiline (default 4)
	CharLimit   int
	Validators  []Validator
	ValidateOn  ValidateOn
}

// TextField wraps a label, an input (single or multiline), help text, and an
// inline error slot.
type TextField struct {
	Base

	label      string
	help       string
	multiline  bool
	validators []Validator
	validateOn ValidateOn

	input textinput.Model
	area  textarea.Model

	errMsg  string
	focused bool
}

// NewTextField constructs a TextField from its config.
func NewTextField(cfg TextFieldConfig) (*TextField, error) {
	if strings.TrimSpace(cfg.Label) == "" {
		return nil, &ConfigError{Component: "textfield", Field: "Label", Reason: "must not be empty"}
	}

	f := &TextField{
		Base:       newBase(cfg.ID),
		label:      cfg.Label,
		help:       cfg.HelpText,
		multiline:  cfg.Multiline,
		validators: cfg.Validators,
		validateOn: cfg.ValidateOn,
	}

	if cfg.Multiline {
		ta := textarea.New()
		ta.Placeholder = cfg.Placeholder
		rows := cfg.Rows
		if rows <= 1 {
			rows = 4
		}
		ta.SetHeight(rows)
		if cfg.CharLimit > 0 {
			ta.CharLimit = cfg.CharLimit
		}
		f.area = ta
	} else {
		ti := textinput.New()
		ti.Placeholder = cfg.Placeholder
		ti.Prompt = "> "
		if cfg.CharLimit > 0 {
			ti.CharLimit = cfg.CharLimit
		}
		f.input = ti
	}

	return f, nil
}

// Label returns the field label.
func (f *TextField) Label() string { return f.label }

// Value returns the current input value.
func (f *TextField) Value() string {
	if f.multiline {
		return f.area.Value()
	}
	return f.input.Value()
}

// SetValue replaces the input value. Automatic validation does not run;
// programmatic writes are trusted until the next user interaction.
func (f *TextField) SetValue(v string) *TextField {
	if f.destroyed {
		return f
	}
	if f.multiline {
		f.area.SetValue(v)
	} else {
		f.input.SetValue(v)
	}
	return f
}

// ErrorMessage returns the message in the error slot, empty when the last
// validation passed (or never ran).
func (f *TextField) ErrorMessage() string { return f.errMsg }

// Validate runs the validator chain (first failure wins), fills the inline
// error slot, and returns the result.
func (f *TextField) Validate() ValidationResult {
	if f.destroyed {
		return ValidationResult{Valid: true}
	}
	result := RunValidators(f.Value(), f.validators)
	if result.Valid {
		f.errMsg = ""
	} else {
		f.errMsg = result.Message
	}
	return result
}

// Focus gives the inner input focus.
func (f *TextField) Focus() tea.Cmd {
	if f.destroyed || f.disabled {
		return nil
	}
	f.focused = true
	if f.multiline {
		return f.area.Focus()
	}
	return f.input.Focus()
}

// Blur removes focus, validating if the mask asks for it.
func (f *TextField) Blur() *TextField {
	if f.destroyed {
		return f
	}
	f.focused = false
	if f.multiline {
		f.area.Blur()
	} else {
		f.input.Blur()
	}
	if f.validateOn&ValidateOnBlur != 0 {
		f.Validate()
	}
	return f
}

// Focused reports whether the field has focus.
func (f *TextField) Focused() bool { return f.focused }

// Update feeds a message to the inner input. Emits a change event when the
// value actually changed and runs automatic validation per the mask.
func (f *TextField) Update(msg tea.Msg) tea.Cmd {
	if f.destroyed || f.disabled {
		return nil
	}

	before := f.Value()

	var cmd tea.Cmd
	if f.multiline {
		f.area, cmd = f.area.Update(msg)
	} else {
		f.input, cmd = f.input.Update(msg)
	}

	after := f.Value()
	changed := after != before

	if _, isKey := msg.(tea.KeyMsg); isKey && f.validateOn&ValidateOnInput != 0 {
		f.Validate()
	} else if changed && f.validateOn&ValidateOnChange != 0 {
		f.Validate()
	}

	if changed {
		return tea.Batch(cmd, f.emit(EventChange, after))
	}
	return cmd
}

// View renders label, input, help text, and the error slot.
func (f *TextField) View() string {
	if f.destroyed || f.hidden {
		return ""
	}

	var b strings.Builder
	b.WriteString(labelStyle.Render(f.label))
	b.WriteString("\n")

	if f.multiline {
		b.WriteString(f.area.View())
	} else {
		b.WriteString(f.input.View())
	}

	if f.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorTextStyle.Render("✗ " + f.errMsg))
	} else if f.help != "" {
		b.WriteString("\n")
		b.WriteString(helpTextStyle.Render(f.help))
	}

	if f.disabled {
		return disabledStyle.Render(b.String())
	}
	return b.String()
}
