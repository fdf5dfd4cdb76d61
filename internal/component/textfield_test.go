package component

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestField(t *testing.T, cfg TextFieldConfig) *TextField {
	t.Helper()
	if cfg.Label == "" {
		cfg.Label = "Name"
	}
	f, err := NewTextField(cfg)
	if err != nil {
		t.Fatalf("NewTextField() error = %v", err)
	}
	return f
}

func TestNewTextFieldRequiresLabel(t *testing.T) {
	if _, err := NewTextField(TextFieldConfig{ID: "f"}); err == nil {
		t.Error("NewTextField() should reject an empty label")
	}
}

// Required validation: empty fails with a message, filled passes.
func TestTextFieldRequiredValidation(t *testing.T) {
	f := newTestField(t, TextFieldConfig{
		ID:         "name",
		Label:      "Name",
		Validators: []Validator{Required("Name")},
	})

	result := f.Validate()
	if result.Valid {
		t.Fatal("Validate() on an empty required field should fail")
	}
	if result.Message == "" {
		t.Error("failed validation must carry a non-empty message")
	}
	if f.ErrorMessage() == "" {
		t.Error("the inline error slot should be filled after a failed Validate()")
	}

	f.SetValue("Aragorn")
	result = f.Validate()
	if !result.Valid {
		t.Errorf("Validate() after setting a value should pass, got %+v", result)
	}
	if f.ErrorMessage() != "" {
		t.Error("a passing Validate() should clear the error slot")
	}
}

func TestTextFieldValidateOnBlur(t *testing.T) {
	f := newTestField(t, TextFieldConfig{
		ID:         "email",
		Label:      "Email",
		Validators: []Validator{Required("Email")},
		ValidateOn: ValidateOnBlur,
	})

	f.Focus()
	f.Blur()

	if f.ErrorMessage() == "" {
		t.Error("blur should have triggered validation per the ValidateOn mask")
	}
}

func TestTextFieldValidateOnInput(t *testing.T) {
	f := newTestField(t, TextFieldConfig{
		ID:         "age",
		Label:      "Age",
		Validators: []Validator{NumericRange(0, 150)},
		ValidateOn: ValidateOnInput,
	})
	f.Focus()

	f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})

	if f.ErrorMessage() == "" {
		t.Error("a keystroke should have triggered validation per the ValidateOn mask")
	}
}

func TestTextFieldUpdateEmitsChange(t *testing.T) {
	f := newTestField(t, TextFieldConfig{ID: "name", Label: "Name"})
	f.Focus()

	var got any
	f.On(EventChange, func(ev Event) { got = ev.Value })

	f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("z")})

	if got != "z" {
		t.Errorf("change handler value = %v, want z", got)
	}
}

func TestTextFieldSetValueDoesNotValidate(t *testing.T) {
	f := newTestField(t, TextFieldConfig{
		ID:         "f",
		Label:      "Field",
		Validators: []Validator{MinLen(10)},
		ValidateOn: ValidateOnChange,
	})

	f.SetValue("short")
	if f.ErrorMessage() != "" {
		t.Error("programmatic SetValue must not trigger automatic validation")
	}
}

func TestTextFieldMultiline(t *testing.T) {
	f := newTestField(t, TextFieldConfig{ID: "notes", Label: "Notes", Multiline: true, Rows: 3})

	f.SetValue("line one\nline two")
	if f.Value() != "line one\nline two" {
		t.Errorf("Value() = %q, multiline value should round-trip", f.Value())
	}
}

func TestTextFieldViewShowsErrorOverHelp(t *testing.T) {
	f := newTestField(t, TextFieldConfig{
		ID:         "f",
		Label:      "Field",
		HelpText:   "some help",
		Validators: []Validator{Required("Field")},
	})

	if !strings.Contains(f.View(), "some help") {
		t.Error("View() should show help text while there is no error")
	}

	f.Validate()
	view := f.View()
	if strings.Contains(view, "some help") {
		t.Error("View() should replace help text with the error message")
	}
	if !strings.Contains(view, "required") {
		t.Errorf("View() = %q, should contain the validation message", view)
	}
}
