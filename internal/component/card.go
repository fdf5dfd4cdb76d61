package component

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// CardConfig configures a Card.
type CardConfig struct {
	ID          string
	Badge       string // optional glyph or short tag before the header
	Header      string
	Body        string
	Footer      string
	Collapsible bool
	Collapsed   bool // initial state; only honoured when Collapsible
	Width       int  // rendered width (default 40)
}

// Card is a bordered region with optional badge/header/body/footer and
// action buttons. Collapsing hides body and footer and flips the indicator
// glyph; a selected card renders a highlight border.
type Card struct {
	Base

	badge  string
	header string
	body   string
	footer string
	width  int

	collapsible bool
	collapsed   bool
	selected    bool

	actions       []*Button
	focusedAction int // index into actions, -1 = none
}

// NewCard constructs a Card from its config.
func NewCard(cfg CardConfig) (*Card, error) {
	if cfg.Header == "" && cfg.Body == "" {
		return nil, &ConfigError{Component: "card", Field: "Header", Reason: "header or body must be set"}
	}

	width := cfg.Width
	if width <= 0 {
		width = 40
	}

	return &Card{
		Base:          newBase(cfg.ID),
		badge:         cfg.Badge,
		header:        cfg.Header,
		body:          cfg.Body,
		footer:        cfg.Footer,
		width:         width,
		collapsible:   cfg.Collapsible,
		collapsed:     cfg.Collapsible && cfg.Collapsed,
		focusedAction: -1,
	}, nil
}

// Header returns the header text.
func (c *Card) Header() string { return c.header }

// Collapsed reports the collapse state.
func (c *Card) Collapsed() bool { return c.collapsed }

// Selected reports the selection state.
func (c *Card) Selected() bool { return c.selected }

// SetHeader replaces the header text.
func (c *Card) SetHeader(s string) *Card {
	if c.destroyed {
		return c
	}
	c.header = s
	return c
}

// SetBody replaces the body text.
func (c *Card) SetBody(s string) *Card {
	if c.destroyed {
		return c
	}
	c.body = s
	return c
}

// SetFooter replaces the footer text.
func (c *Card) SetFooter(s string) *Card {
	if c.destroyed {
		return c
	}
	c.footer = s
	return c
}

// SetSelected toggles the selection highlight.
func (c *Card) SetSelected(on bool) *Card {
	if c.destroyed {
		return c
	}
	c.selected = on
	return c
}

// ToggleCollapse flips the collapse state on a collapsible card and emits a
// toggle event carrying the new state.
func (c *Card) ToggleCollapse() tea.Cmd {
	if c.destroyed || !c.collapsible {
		return nil
	}
	c.collapsed = !c.collapsed
	return c.emit(EventToggle, c.collapsed)
}

// AddAction appends an action button. The card owns the button and destroys
// it with itself.
func (c *Card) AddAction(btn *Button) *Card {
	if c.destroyed || btn == nil || btn.Destroyed() {
		return c
	}
	c.actions = append(c.actions, btn)
	c.Append(btn)
	return c
}

// FocusAction moves action focus to index i (-1 clears it).
func (c *Card) FocusAction(i int) *Card {
	if c.destroyed {
		return c
	}
	for j, btn := range c.actions {
		if j == i {
			btn.Focus()
		} else {
			btn.Blur()
		}
	}
	if i >= -1 && i < len(c.actions) {
		c.focusedAction = i
	}
	return c
}

// Activate fires the focused action button's click if one is focused - the
// inner button opts out of bubbling - otherwise it emits the card's own
// click event.
func (c *Card) Activate() tea.Cmd {
	if c.destroyed || c.disabled {
		return nil
	}
	if c.focusedAction >= 0 && c.focusedAction < len(c.actions) {
		return c.actions[c.focusedAction].Activate()
	}
	return c.emit(EventClick, c.id)
}

// View renders the card.
func (c *Card) View() string {
	if c.destroyed || c.hidden {
		return ""
	}

	var b strings.Builder

	// Header line: indicator, badge, header text.
	var headerParts []string
	if c.collapsible {
		if c.collapsed {
			headerParts = append(headerParts, "▸")
		} else {
			headerParts = append(headerParts, "▾")
		}
	}
	if c.badge != "" {
		headerParts = append(headerParts, c.badge)
	}
	if c.header != "" {
		headerParts = append(headerParts, labelStyle.Render(c.header))
	}
	b.WriteString(strings.Join(headerParts, " "))

	// Body and footer are hidden while collapsed.
	if !c.collapsed {
		if c.body != "" {
			b.WriteString("\n")
			b.WriteString(c.body)
		}
		if len(c.actions) > 0 {
			views := make([]string, 0, len(c.actions))
			for _, btn := range c.actions {
				if v := btn.View(); v != "" {
					views = append(views, v)
				}
			}
			if len(views) > 0 {
				b.WriteString("\n")
				b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, views...))
			}
		}
		if c.footer != "" {
			b.WriteString("\n")
			b.WriteString(helpTextStyle.Render(c.footer))
		}
	}

	borderColor := subtleColor
	if c.selected {
		borderColor = primaryColor
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Width(c.width).
		Padding(0, 1).
		Render(b.String())
}
