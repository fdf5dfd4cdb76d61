package component

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/storykeep/storykeep/internal/logging"
)

// Button variants.
const (
	VariantPrimary   = "primary"
	VariantSecondary = "secondary"
	VariantDanger    = "danger"
	VariantGhost     = "ghost"
)

// Button sizes.
const (
	SizeSmall  = "small"
	SizeMedium = "medium"
	SizeLarge  = "large"
)

// ButtonConfig configures a Button. Unknown Variant or Size values degrade
// to the defaults with a logged warning; an empty Label is a construction
// error.
type ButtonConfig struct {
	ID      string
	Label   string
	Variant string // primary (default), secondary, danger, ghost
	Size    string // small, medium (default), large
	Icon    string // optional glyph rendered before the label
}

// Button is a focusable, activatable control with a loading state.
type Button struct {
	Base

	label   string
	variant string
	size    string
	icon    string
	focused bool

	loading       bool
	savedLabel    string
	savedDisabled bool
	spin          spinner.Model
}

// NewButton constructs a Button from its config.
func NewButton(cfg ButtonConfig) (*Button, error) {
	if strings.TrimSpace(cfg.Label) == "" {
		return nil, &ConfigError{Component: "button", Field: "Label", Reason: "must not be empty"}
	}

	variant := cfg.Variant
	switch variant {
	case "":
		variant = VariantPrimary
	case VariantPrimary, VariantSecondary, VariantDanger, VariantGhost:
	default:
		logging.Warn("Unknown button variant, using primary",
			zap.String("component_id", cfg.ID),
			zap.String("variant", variant),
		)
		variant = VariantPrimary
	}

	size := cfg.Size
	switch size {
	case "":
		size = SizeMedium
	case SizeSmall, SizeMedium, SizeLarge:
	default:
		logging.Warn("Unknown button size, using medium",
			zap.String("component_id", cfg.ID),
			zap.String("size", size),
		)
		size = SizeMedium
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(primaryColor)

	return &Button{
		Base:    newBase(cfg.ID),
		label:   cfg.Label,
		variant: variant,
		size:    size,
		icon:    cfg.Icon,
		spin:    sp,
	}, nil
}

// Label returns the current label text.
func (b *Button) Label() string { return b.label }

// Variant returns the button variant.
func (b *Button) Variant() string { return b.variant }

// Loading reports whether the loading state is active.
func (b *Button) Loading() bool { return b.loading }

// SetLabel replaces the label text. No-op while loading so the saved label
// round-trips exactly.
func (b *Button) SetLabel(label string) *Button {
	if b.destroyed || b.loading {
		return b
	}
	b.label = label
	return b
}

// SetLoading toggles the loading state. Entering it swaps the label for a
// spinner frame and disables the button; leaving it restores the exact prior
// label and prior disabled flag.
func (b *Button) SetLoading(on bool) *Button {
	if b.destroyed || on == b.loading {
		return b
	}
	if on {
		b.savedLabel = b.label
		b.savedDisabled = b.disabled
		b.loading = true
		b.disabled = true
		return b
	}
	b.loading = false
	b.label = b.savedLabel
	b.disabled = b.savedDisabled
	return b
}

// Focus marks the button focused.
func (b *Button) Focus() *Button {
	if b.destroyed {
		return b
	}
	b.focused = true
	return b
}

// Blur removes focus.
func (b *Button) Blur() *Button {
	if b.destroyed {
		return b
	}
	b.focused = false
	return b
}

// Focused reports whether the button has focus.
func (b *Button) Focused() bool { return b.focused }

// Activate emits the click event unless the button is disabled or loading.
func (b *Button) Activate() tea.Cmd {
	if b.destroyed || b.disabled || b.loading {
		return nil
	}
	return b.emit(EventClick, b.id)
}

// Update advances the loading spinner and activates on enter/space while
// focused.
func (b *Button) Update(msg tea.Msg) tea.Cmd {
	if b.destroyed {
		return nil
	}

	switch msg := msg.(type) {
	case spinner.TickMsg:
		if b.loading {
			var cmd tea.Cmd
			b.spin, cmd = b.spin.Update(msg)
			return cmd
		}
	case tea.KeyMsg:
		if b.focused && (msg.String() == "enter" || msg.String() == " ") {
			return b.Activate()
		}
	}
	return nil
}

// Tick starts the spinner animation; call after SetLoading(true).
func (b *Button) Tick() tea.Cmd {
	if b.destroyed || !b.loading {
		return nil
	}
	return b.spin.Tick
}

// View renders the button.
func (b *Button) View() string {
	if b.destroyed || b.hidden {
		return ""
	}

	text := b.label
	if b.loading {
		text = b.spin.View() + " " + b.savedLabel
	} else if b.icon != "" {
		text = b.icon + " " + b.label
	}

	style := b.style()
	if b.focused && !b.disabled {
		style = style.Underline(true)
	}
	return style.Render(text)
}

func (b *Button) style() lipgloss.Style {
	pad := 1
	switch b.size {
	case SizeSmall:
		pad = 0
	case SizeLarge:
		pad = 2
	}

	style := lipgloss.NewStyle().Padding(0, pad+1).Bold(true)

	if b.disabled {
		return style.Foreground(subtleColor)
	}

	switch b.variant {
	case VariantSecondary:
		return style.Foreground(textColor).Background(subtleColor)
	case VariantDanger:
		return style.Foreground(textColor).Background(dangerColor)
	case VariantGhost:
		return style.Foreground(primaryColor).Bold(false)
	default:
		return style.Foreground(textColor).Background(primaryColor)
	}
}
