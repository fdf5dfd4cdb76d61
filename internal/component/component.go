package component

import (
	"strings"

	"github.com/google/uuid"
)

// Component is the behaviour shared by every UI component in the library.
type Component interface {
	ID() string
	View() string
	Destroy()
	Destroyed() bool

	// base exposes the embedded Base for structural bookkeeping. Only
	// types embedding Base can satisfy Component.
	base() *Base
}

// Base carries identity, visibility, children, and the event table. Every
// component embeds it.
type Base struct {
	id        string
	hidden    bool
	disabled  bool
	destroyed bool
	content   string

	children []Component
	parent   *Base

	handlers map[string][]handlerEntry
}

// newBase initializes the shared fields. An empty id gets a generated one.
func newBase(id string) Base {
	if id == "" {
		id = uuid.NewString()
	}
	return Base{id: id}
}

func (b *Base) base() *Base { return b }

// ID returns the component's unique identifier.
func (b *Base) ID() string { return b.id }

// Destroyed reports whether Destroy has run.
func (b *Base) Destroyed() bool { return b.destroyed }

// Hidden reports whether the component is currently hidden.
func (b *Base) Hidden() bool { return b.hidden }

// Disabled reports whether the component is disabled.
func (b *Base) Disabled() bool { return b.disabled }

// Content returns the plain string content set via SetContent.
func (b *Base) Content() string { return b.content }

// Children returns the owned child components in order. The slice is a copy.
func (b *Base) Children() []Component {
	out := make([]Component, len(b.children))
	copy(out, b.children)
	return out
}

// SetContent replaces the component's string content.
func (b *Base) SetContent(s string) *Base {
	if b.destroyed {
		return b
	}
	b.content = s
	return b
}

// Append adds a child component at the end of the child list and takes
// ownership of it. Appending a destroyed or nil child is a no-op.
func (b *Base) Append(child Component) *Base {
	if b.destroyed || child == nil || child.Destroyed() {
		return b
	}
	b.adopt(child)
	b.children = append(b.children, child)
	return b
}

// Prepend adds a child component at the front of the child list.
func (b *Base) Prepend(child Component) *Base {
	if b.destroyed || child == nil || child.Destroyed() {
		return b
	}
	b.adopt(child)
	b.children = append([]Component{child}, b.children...)
	return b
}

// adopt moves a child from its previous parent (if any) to this one. The
// parent pointer is a non-owning back-reference used only for removal.
func (b *Base) adopt(child Component) {
	cb := child.base()
	if cb.parent != nil {
		cb.parent.removeChild(cb.id)
	}
	cb.parent = b
}

// Empty destroys all owned children, depth-first, then clears the child list
// and the string content.
func (b *Base) Empty() *Base {
	if b.destroyed {
		return b
	}
	// Destroy mutates b.children via the parent back-pointer, so iterate
	// over a snapshot.
	for _, child := range b.Children() {
		child.Destroy()
	}
	b.children = nil
	b.content = ""
	return b
}

// Destroy tears the component down: children are destroyed depth-first,
// handlers are unregistered, and the component detaches from its parent.
// After Destroy every method on the component is a no-op.
func (b *Base) Destroy() {
	if b.destroyed {
		return
	}
	for _, child := range b.Children() {
		child.Destroy()
	}
	b.children = nil
	b.handlers = nil
	b.content = ""
	if b.parent != nil {
		b.parent.removeChild(b.id)
		b.parent = nil
	}
	b.destroyed = true
}

func (b *Base) removeChild(id string) {
	for i, child := range b.children {
		if child.ID() == id {
			b.children = append(b.children[:i:i], b.children[i+1:]...)
			return
		}
	}
}

// Show makes the component visible. Idempotent.
func (b *Base) Show() *Base {
	if b.destroyed {
		return b
	}
	b.hidden = false
	return b
}

// Hide makes the component invisible. Idempotent.
func (b *Base) Hide() *Base {
	if b.destroyed {
		return b
	}
	b.hidden = true
	return b
}

// ToggleVisibility flips between shown and hidden.
func (b *Base) ToggleVisibility() *Base {
	if b.destroyed {
		return b
	}
	b.hidden = !b.hidden
	return b
}

// Enable clears the disabled flag. Idempotent.
func (b *Base) Enable() *Base {
	if b.destroyed {
		return b
	}
	b.disabled = false
	return b
}

// Disable sets the disabled flag. Idempotent.
func (b *Base) Disable() *Base {
	if b.destroyed {
		return b
	}
	b.disabled = true
	return b
}

// View renders the string content followed by each visible child, joined
// vertically. Leaf components override this with their own layout.
func (b *Base) View() string {
	if b.destroyed || b.hidden {
		return ""
	}

	parts := make([]string, 0, len(b.children)+1)
	if b.content != "" {
		parts = append(parts, b.content)
	}
	for _, child := range b.children {
		if v := child.View(); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, "\n")
}
