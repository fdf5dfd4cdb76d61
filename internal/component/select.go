package component

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// Option is one selectable entry.
type Option struct {
	Value string
	Label string
}

// SelectConfig configures a Select.
type SelectConfig struct {
	ID          string
	Label       string
	Options     []Option
	Multiple    bool
	Placeholder string // trigger text while nothing is selected
	MaxVisible  int    // popup rows (default 6)
}

// Select is a single- or multi-select control: a trigger line plus a popup
// option list with type-ahead filtering and a roving highlight.
//
// State machine: closed → open (trigger activate or ArrowDown) → closed
// (blur, Escape with an empty filter, selection in single mode, or Close).
// While open the highlight moves among currently visible options only and
// resets whenever the filter text changes.
type Select struct {
	Base

	label       string
	options     []Option
	multiple    bool
	placeholder string
	maxVisible  int

	open      bool
	filter    string
	highlight int // index into visibleIdx, -1 = none

	value    string          // single mode
	selected map[string]bool // multi mode

	focused bool
}

// NewSelect constructs a Select from its config.
func NewSelect(cfg SelectConfig) (*Select, error) {
	if len(cfg.Options) == 0 {
		return nil, &ConfigError{Component: "select", Field: "Options", Reason: "must not be empty"}
	}

	maxVisible := cfg.MaxVisible
	if maxVisible <= 0 {
		maxVisible = 6
	}

	return &Select{
		Base:        newBase(cfg.ID),
		label:       cfg.Label,
		options:     cfg.Options,
		multiple:    cfg.Multiple,
		placeholder: cfg.Placeholder,
		maxVisible:  maxVisible,
		highlight:   -1,
		selected:    make(map[string]bool),
	}, nil
}

// Label returns the field label.
func (s *Select) Label() string { return s.label }

// IsOpen reports whether the popup is open.
func (s *Select) IsOpen() bool { return s.open }

// Filter returns the current type-ahead filter text.
func (s *Select) Filter() string { return s.filter }

// Value returns the selected value in single mode; empty when nothing is
// selected. In multi mode it returns the first selected value.
func (s *Select) Value() string {
	if s.multiple {
		for _, opt := range s.options {
			if s.selected[opt.Value] {
				return opt.Value
			}
		}
		return ""
	}
	return s.value
}

// Values returns the selected values in option order.
func (s *Select) Values() []string {
	if !s.multiple {
		if s.value == "" {
			return nil
		}
		return []string{s.value}
	}
	var out []string
	for _, opt := range s.options {
		if s.selected[opt.Value] {
			out = append(out, opt.Value)
		}
	}
	return out
}

// SetValue selects a single value, replacing any previous selection. Values
// that match no option are ignored.
func (s *Select) SetValue(value string) *Select {
	if s.destroyed {
		return s
	}
	if s.optionFor(value) == nil {
		return s
	}
	if s.multiple {
		s.selected = map[string]bool{value: true}
	} else {
		s.value = value
	}
	return s
}

// SetValues replaces the selection set in multi mode. In single mode the
// first value wins.
func (s *Select) SetValues(values []string) *Select {
	if s.destroyed {
		return s
	}
	if !s.multiple {
		if len(values) > 0 {
			return s.SetValue(values[0])
		}
		s.value = ""
		return s
	}
	s.selected = make(map[string]bool)
	for _, v := range values {
		if s.optionFor(v) != nil {
			s.selected[v] = true
		}
	}
	return s
}

func (s *Select) optionFor(value string) *Option {
	for i := range s.options {
		if s.options[i].Value == value {
			return &s.options[i]
		}
	}
	return nil
}

// Open opens the popup with a fresh filter and no highlight.
func (s *Select) Open() tea.Cmd {
	if s.destroyed || s.disabled || s.open {
		return nil
	}
	s.open = true
	s.filter = ""
	s.highlight = -1
	return s.emit(EventOpen, nil)
}

// Close closes the popup.
func (s *Select) Close() tea.Cmd {
	if s.destroyed || !s.open {
		return nil
	}
	s.open = false
	s.filter = ""
	s.highlight = -1
	return s.emit(EventClose, nil)
}

// Focus marks the trigger focused.
func (s *Select) Focus() *Select {
	if s.destroyed || s.disabled {
		return s
	}
	s.focused = true
	return s
}

// Blur removes focus and closes an open popup.
func (s *Select) Blur() tea.Cmd {
	if s.destroyed {
		return nil
	}
	s.focused = false
	return s.Close()
}

// Focused reports whether the trigger has focus.
func (s *Select) Focused() bool { return s.focused }

// visibleIdx returns option indexes matching the filter, fuzzy-ranked. An
// empty filter shows every option in declaration order.
func (s *Select) visibleIdx() []int {
	if s.filter == "" {
		out := make([]int, len(s.options))
		for i := range s.options {
			out[i] = i
		}
		return out
	}

	labels := make([]string, len(s.options))
	for i, opt := range s.options {
		labels[i] = opt.Label
	}
	matches := fuzzy.Find(s.filter, labels)
	out := make([]int, len(matches))
	for i, m := range matches {
		out[i] = m.Index
	}
	return out
}

// setFilter replaces the filter text and resets the highlight to none.
func (s *Select) setFilter(filter string) {
	s.filter = filter
	s.highlight = -1
}

// commit applies the highlighted (or given) option. Single mode replaces the
// value and auto-closes; multi mode toggles set membership and stays open.
func (s *Select) commit(opt Option) tea.Cmd {
	if s.multiple {
		if s.selected[opt.Value] {
			delete(s.selected, opt.Value)
		} else {
			s.selected[opt.Value] = true
		}
		return tea.Batch(
			s.emit(EventSelect, opt.Value),
			s.emit(EventChange, s.Values()),
		)
	}

	s.value = opt.Value
	return tea.Batch(
		s.emit(EventSelect, opt.Value),
		s.emit(EventChange, opt.Value),
		s.Close(),
	)
}

// ToggleOption toggles (multi) or selects (single) an option by value,
// bypassing the popup. Used by the form adapter.
func (s *Select) ToggleOption(value string) tea.Cmd {
	if s.destroyed || s.disabled {
		return nil
	}
	opt := s.optionFor(value)
	if opt == nil {
		return nil
	}
	return s.commit(*opt)
}

// Update handles keyboard input for the trigger and the popup.
func (s *Select) Update(msg tea.Msg) tea.Cmd {
	if s.destroyed || s.disabled {
		return nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok || !s.focused {
		return nil
	}

	if !s.open {
		switch key.String() {
		case "enter", " ", "down":
			return s.Open()
		}
		return nil
	}

	visible := s.visibleIdx()

	switch key.String() {
	case "down":
		if len(visible) > 0 && s.highlight < len(visible)-1 {
			s.highlight++
		}
		return nil

	case "up":
		if s.highlight > 0 {
			s.highlight--
		}
		return nil

	case "enter":
		if s.highlight >= 0 && s.highlight < len(visible) {
			return s.commit(s.options[visible[s.highlight]])
		}
		return nil

	case "esc":
		// Escape clears a non-empty filter without closing; with an
		// empty filter it closes the popup.
		if s.filter != "" {
			s.setFilter("")
			return nil
		}
		return s.Close()

	case "backspace":
		if s.filter != "" {
			runes := []rune(s.filter)
			s.setFilter(string(runes[:len(runes)-1]))
		}
		return nil
	}

	// Printable characters extend the type-ahead filter.
	if key.Type == tea.KeyRunes {
		s.setFilter(s.filter + string(key.Runes))
	}
	return nil
}

// TriggerText returns the text shown on the closed trigger: the selected
// label(s), or the placeholder when nothing is selected.
func (s *Select) TriggerText() string {
	var labels []string
	for _, opt := range s.options {
		if s.multiple && s.selected[opt.Value] {
			labels = append(labels, opt.Label)
		} else if !s.multiple && s.value == opt.Value && s.value != "" {
			labels = append(labels, opt.Label)
		}
	}
	if len(labels) == 0 {
		if s.placeholder != "" {
			return s.placeholder
		}
		return "Select..."
	}
	return strings.Join(labels, ", ")
}

// View renders the trigger and, while open, the filtered popup list.
func (s *Select) View() string {
	if s.destroyed || s.hidden {
		return ""
	}

	var b strings.Builder
	if s.label != "" {
		b.WriteString(labelStyle.Render(s.label))
		b.WriteString("\n")
	}

	indicator := "▾"
	if s.open {
		indicator = "▴"
	}
	trigger := s.TriggerText() + " " + indicator
	if s.disabled {
		b.WriteString(disabledStyle.Render(trigger))
	} else if s.focused {
		b.WriteString(highlightStyle.Render(trigger))
	} else {
		b.WriteString(trigger)
	}

	if !s.open {
		return b.String()
	}

	b.WriteString("\n")
	if s.filter != "" {
		b.WriteString(helpTextStyle.Render("filter: " + s.filter))
		b.WriteString("\n")
	}

	visible := s.visibleIdx()
	shown := visible
	if len(shown) > s.maxVisible {
		shown = shown[:s.maxVisible]
	}

	rows := make([]string, 0, len(shown)+1)
	for i, idx := range shown {
		opt := s.options[idx]

		marker := " "
		if s.multiple {
			if s.selected[opt.Value] {
				marker = "◉"
			} else {
				marker = "○"
			}
		} else if s.value == opt.Value {
			marker = "●"
		}

		line := marker + " " + opt.Label
		if i == s.highlight {
			line = highlightStyle.Render("› " + line)
		} else {
			line = "  " + line
		}
		rows = append(rows, line)
	}
	if len(visible) == 0 {
		rows = append(rows, helpTextStyle.Render("  no matches"))
	} else if len(visible) > len(shown) {
		rows = append(rows, helpTextStyle.Render("  …"))
	}

	popup := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(primaryColor).
		Padding(0, 1).
		Render(strings.Join(rows, "\n"))
	b.WriteString(popup)

	return b.String()
}
