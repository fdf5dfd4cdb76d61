package component

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storykeep/storykeep/internal/logging"
)

// Event names dispatched by components.
const (
	EventChange = "change"
	EventOpen   = "open"
	EventClose  = "close"
	EventClick  = "click"
	EventToggle = "toggle"
	EventSelect = "select"
)

// Event is the payload delivered to registered handlers.
type Event struct {
	ComponentID string
	Name        string
	Value       any
}

// Handler reacts to a component event.
type Handler func(Event)

// Subscription identifies one registered handler. Cancel unregisters it;
// cancelling twice is harmless.
type Subscription struct {
	ID     string
	cancel func()
}

// Cancel removes the handler this subscription stands for.
func (s Subscription) Cancel() {
	if s.cancel != nil {
		s.cancel()
	}
}

type handlerEntry struct {
	id string
	fn Handler
}

// Typed bubbletea messages mirroring the component events. Screens receive
// these through the program's Update without importing component internals.
type (
	// ChangeMsg reports a value change (TextField input, Select selection).
	ChangeMsg struct {
		ID    string
		Value any
	}

	// OpenMsg reports a popup or modal opening.
	OpenMsg struct{ ID string }

	// CloseMsg reports a popup or modal closing.
	CloseMsg struct{ ID string }

	// ClickMsg reports a Button or Card activation.
	ClickMsg struct{ ID string }

	// ToggleMsg reports a Card collapse/expand. Collapsed is the new state.
	ToggleMsg struct {
		ID        string
		Collapsed bool
	}

	// SelectMsg reports a committed Select option.
	SelectMsg struct {
		ID    string
		Value any
	}
)

// On registers a handler for the named event. The returned Subscription's
// Cancel unregisters exactly this handler, leaving siblings in place.
func (b *Base) On(name string, fn Handler) Subscription {
	if b.destroyed || fn == nil {
		return Subscription{}
	}
	if b.handlers == nil {
		b.handlers = make(map[string][]handlerEntry)
	}

	id := uuid.NewString()
	b.handlers[name] = append(b.handlers[name], handlerEntry{id: id, fn: fn})

	return Subscription{
		ID: id,
		cancel: func() {
			b.removeHandler(name, id)
		},
	}
}

// Off removes all handlers registered for the named event.
func (b *Base) Off(name string) *Base {
	if b.destroyed {
		return b
	}
	delete(b.handlers, name)
	return b
}

func (b *Base) removeHandler(name, id string) {
	if b.destroyed {
		return
	}
	entries := b.handlers[name]
	for i, e := range entries {
		if e.id == id {
			b.handlers[name] = append(entries[:i:i], entries[i+1:]...)
			return
		}
	}
}

// emit dispatches an event to every registered handler and returns a tea.Cmd
// carrying the matching typed message. Handlers run in registration order; a
// panicking handler is logged and skipped so siblings still run.
func (b *Base) emit(name string, value any) tea.Cmd {
	if b.destroyed {
		return nil
	}

	logging.LogComponentEvent(b.id, name)

	ev := Event{ComponentID: b.id, Name: name, Value: value}
	for _, entry := range b.handlers[name] {
		b.dispatch(entry, ev)
	}

	return eventCmd(ev)
}

func (b *Base) dispatch(entry handlerEntry, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Component event handler panicked",
				zap.String("component_id", ev.ComponentID),
				zap.String("event", ev.Name),
				zap.Any("panic", r),
			)
		}
	}()
	entry.fn(ev)
}

// eventCmd maps an event to its typed bubbletea message.
func eventCmd(ev Event) tea.Cmd {
	var msg tea.Msg
	switch ev.Name {
	case EventChange:
		msg = ChangeMsg{ID: ev.ComponentID, Value: ev.Value}
	case EventOpen:
		msg = OpenMsg{ID: ev.ComponentID}
	case EventClose:
		msg = CloseMsg{ID: ev.ComponentID}
	case EventClick:
		msg = ClickMsg{ID: ev.ComponentID}
	case EventToggle:
		collapsed, _ := ev.Value.(bool)
		msg = ToggleMsg{ID: ev.ComponentID, Collapsed: collapsed}
	case EventSelect:
		msg = SelectMsg{ID: ev.ComponentID, Value: ev.Value}
	default:
		return nil
	}
	return func() tea.Msg { return msg }
}
