package component

import (
	"strings"
	"testing"
)

func newTestButton(t *testing.T, id string) *Button {
	t.Helper()
	btn, err := NewButton(ButtonConfig{ID: id, Label: "Save"})
	if err != nil {
		t.Fatalf("NewButton() error = %v", err)
	}
	return btn
}

func TestBaseGeneratesID(t *testing.T) {
	a := newTestButton(t, "")
	b := newTestButton(t, "")

	if a.ID() == "" {
		t.Error("empty config ID should be replaced by a generated one")
	}
	if a.ID() == b.ID() {
		t.Error("generated IDs should be unique per instance")
	}
}

func TestBaseContentAndVisibility(t *testing.T) {
	card, err := NewCard(CardConfig{ID: "c", Header: "Hero"})
	if err != nil {
		t.Fatalf("NewCard() error = %v", err)
	}

	if card.Hidden() {
		t.Error("components should start visible")
	}

	card.Hide()
	if card.View() != "" {
		t.Error("hidden component should render nothing")
	}

	card.Show()
	if card.View() == "" {
		t.Error("shown component should render")
	}

	card.ToggleVisibility()
	if !card.Hidden() {
		t.Error("ToggleVisibility should hide a visible component")
	}
}

func TestBaseChildOwnership(t *testing.T) {
	parent, err := NewCard(CardConfig{ID: "parent", Header: "Parent"})
	if err != nil {
		t.Fatalf("NewCard() error = %v", err)
	}
	child := newTestButton(t, "child")

	parent.Append(child)
	if len(parent.Children()) != 1 {
		t.Fatalf("Children() = %d, want 1", len(parent.Children()))
	}

	// Destroying the child must detach it from the parent's child list.
	child.Destroy()
	if len(parent.Children()) != 0 {
		t.Error("destroyed child should not be reachable from the parent's child list")
	}
}

func TestBaseDestroyCascades(t *testing.T) {
	parent, err := NewCard(CardConfig{ID: "parent", Header: "Parent"})
	if err != nil {
		t.Fatalf("NewCard() error = %v", err)
	}
	child := newTestButton(t, "child")
	grandchild := newTestButton(t, "grandchild")

	parent.Append(child)
	child.Append(grandchild)

	parent.Destroy()

	if !child.Destroyed() {
		t.Error("destroying the parent should destroy its children")
	}
	if !grandchild.Destroyed() {
		t.Error("destruction should cascade depth-first to grandchildren")
	}
}

func TestBaseEmptyDestroysChildren(t *testing.T) {
	parent, err := NewCard(CardConfig{ID: "parent", Header: "Parent"})
	if err != nil {
		t.Fatalf("NewCard() error = %v", err)
	}
	child := newTestButton(t, "child")
	parent.Append(child).SetContent("text")

	parent.Empty()

	if !child.Destroyed() {
		t.Error("Empty should destroy owned children")
	}
	if len(parent.Children()) != 0 {
		t.Error("Empty should clear the child list")
	}
	if parent.Content() != "" {
		t.Error("Empty should clear string content")
	}
	if parent.Destroyed() {
		t.Error("Empty must not destroy the component itself")
	}
}

func TestBaseAppendPrependOrder(t *testing.T) {
	parent, err := NewCard(CardConfig{ID: "parent", Header: "Parent"})
	if err != nil {
		t.Fatalf("NewCard() error = %v", err)
	}
	first := newTestButton(t, "first")
	second := newTestButton(t, "second")

	parent.Append(first)
	parent.Prepend(second)

	children := parent.Children()
	if len(children) != 2 || children[0].ID() != "second" || children[1].ID() != "first" {
		t.Errorf("Prepend should put the child first, got order %v, %v", children[0].ID(), children[1].ID())
	}
}

// Every mutator must be a silent no-op after Destroy - no panic, no effect.
func TestDestroyedComponentsNoOp(t *testing.T) {
	btn := newTestButton(t, "b")
	btn.Destroy()
	btn.SetLabel("changed").SetLoading(true).Focus().Disable()
	if btn.View() != "" {
		t.Error("destroyed Button should render nothing")
	}
	if btn.Activate() != nil {
		t.Error("destroyed Button should not emit clicks")
	}

	field, err := NewTextField(TextFieldConfig{ID: "f", Label: "Name"})
	if err != nil {
		t.Fatalf("NewTextField() error = %v", err)
	}
	field.Destroy()
	field.SetValue("x")
	if field.Value() != "" {
		t.Error("destroyed TextField should ignore SetValue")
	}
	if res := field.Validate(); !res.Valid {
		t.Error("destroyed TextField Validate should be a harmless no-op")
	}

	sel, err := NewSelect(SelectConfig{ID: "s", Options: []Option{{Value: "a", Label: "A"}}})
	if err != nil {
		t.Fatalf("NewSelect() error = %v", err)
	}
	sel.Destroy()
	sel.SetValue("a")
	if sel.Value() != "" {
		t.Error("destroyed Select should ignore SetValue")
	}
	if sel.Open() != nil {
		t.Error("destroyed Select should not open")
	}

	card, err := NewCard(CardConfig{ID: "c", Header: "H", Collapsible: true})
	if err != nil {
		t.Fatalf("NewCard() error = %v", err)
	}
	card.Destroy()
	if card.ToggleCollapse() != nil {
		t.Error("destroyed Card should not toggle")
	}
	card.SetSelected(true)
	if card.Selected() {
		t.Error("destroyed Card should ignore SetSelected")
	}

	modal, err := NewModal(ModalConfig{ID: "m", Title: "Sure?"})
	if err != nil {
		t.Fatalf("NewModal() error = %v", err)
	}
	modal.Destroy()
	if modal.Open() != nil || modal.IsOpen() {
		t.Error("destroyed Modal should not open")
	}
}

func TestFluentChaining(t *testing.T) {
	btn := newTestButton(t, "b")
	// Chaining through Base and leaf mutators must return the receiver.
	if got := btn.SetLabel("Go").Focus().Blur(); got != btn {
		t.Error("leaf mutators should return the receiver")
	}
	if got := btn.SetContent("x").Show(); got != btn.base() {
		t.Error("base mutators should return the embedded Base")
	}
}

func TestOnOffSubscriptions(t *testing.T) {
	btn := newTestButton(t, "b")

	var calls []string
	subA := btn.On(EventClick, func(Event) { calls = append(calls, "a") })
	btn.On(EventClick, func(Event) { calls = append(calls, "b") })

	btn.Activate()
	if strings.Join(calls, "") != "ab" {
		t.Errorf("handlers should run in registration order, got %q", strings.Join(calls, ""))
	}

	calls = nil
	subA.Cancel()
	subA.Cancel() // cancelling twice is harmless
	btn.Activate()
	if strings.Join(calls, "") != "b" {
		t.Errorf("cancelled handler should not run, got %q", strings.Join(calls, ""))
	}

	calls = nil
	btn.Off(EventClick)
	btn.Activate()
	if len(calls) != 0 {
		t.Error("Off should remove all handlers for the event")
	}
}

func TestPanickingHandlerDoesNotBreakSiblings(t *testing.T) {
	btn := newTestButton(t, "b")

	var after bool
	btn.On(EventClick, func(Event) { panic("boom") })
	btn.On(EventClick, func(Event) { after = true })

	btn.Activate() // must not panic out

	if !after {
		t.Error("a panicking handler must not prevent sibling handlers from running")
	}
}

func TestEmitProducesTypedMessage(t *testing.T) {
	btn := newTestButton(t, "btn-1")

	cmd := btn.Activate()
	if cmd == nil {
		t.Fatal("Activate() should return a command carrying the click message")
	}
	msg, ok := cmd().(ClickMsg)
	if !ok {
		t.Fatalf("cmd() = %T, want ClickMsg", cmd())
	}
	if msg.ID != "btn-1" {
		t.Errorf("ClickMsg.ID = %v, want btn-1", msg.ID)
	}
}

func TestEventPayloadCarriesComponentID(t *testing.T) {
	btn := newTestButton(t, "btn-7")

	var got Event
	btn.On(EventClick, func(ev Event) { got = ev })
	btn.Activate()

	if got.ComponentID != "btn-7" || got.Name != EventClick {
		t.Errorf("handler event = %+v, want component id btn-7 and click", got)
	}
}
