package component

import (
	"strings"
	"testing"
)

func TestNewCardRequiresContent(t *testing.T) {
	if _, err := NewCard(CardConfig{ID: "c"}); err == nil {
		t.Error("NewCard() should reject a card with no header and no body")
	}
}

// Scenario from the behaviour contract: collapsible card starting expanded,
// toggled twice, ends expanded with the body visible.
func TestCardToggleCollapseRoundTrip(t *testing.T) {
	card, err := NewCard(CardConfig{
		ID:          "c",
		Header:      "Rivendell",
		Body:        "Hidden valley of the Elves",
		Collapsible: true,
		Collapsed:   false,
	})
	if err != nil {
		t.Fatalf("NewCard() error = %v", err)
	}

	card.ToggleCollapse()
	if !card.Collapsed() {
		t.Fatal("first toggle should collapse the card")
	}
	if strings.Contains(card.View(), "Hidden valley") {
		t.Error("collapsed card should hide its body")
	}
	if !strings.Contains(card.View(), "▸") {
		t.Error("collapsed card should show the collapsed indicator glyph")
	}

	card.ToggleCollapse()
	if card.Collapsed() {
		t.Error("second toggle should restore the initial expanded state")
	}
	if !strings.Contains(card.View(), "Hidden valley") {
		t.Error("expanded card should show its body")
	}
	if !strings.Contains(card.View(), "▾") {
		t.Error("expanded card should show the expanded indicator glyph")
	}
}

func TestCardCollapseHidesFooter(t *testing.T) {
	card, err := NewCard(CardConfig{
		ID:          "c",
		Header:      "H",
		Body:        "B",
		Footer:      "updated yesterday",
		Collapsible: true,
	})
	if err != nil {
		t.Fatalf("NewCard() error = %v", err)
	}

	card.ToggleCollapse()
	if strings.Contains(card.View(), "updated yesterday") {
		t.Error("collapsed card should hide its footer")
	}
}

func TestCardToggleEmitsNewState(t *testing.T) {
	card, err := NewCard(CardConfig{ID: "c", Header: "H", Collapsible: true})
	if err != nil {
		t.Fatalf("NewCard() error = %v", err)
	}

	var got any
	card.On(EventToggle, func(ev Event) { got = ev.Value })

	cmd := card.ToggleCollapse()
	if got != true {
		t.Errorf("toggle handler value = %v, want true (the new collapsed state)", got)
	}

	msg, ok := cmd().(ToggleMsg)
	if !ok || !msg.Collapsed {
		t.Errorf("cmd() = %#v, want ToggleMsg with Collapsed=true", cmd())
	}
}

func TestCardNotCollapsibleIgnoresToggle(t *testing.T) {
	card, err := NewCard(CardConfig{ID: "c", Header: "H"})
	if err != nil {
		t.Fatalf("NewCard() error = %v", err)
	}
	if card.ToggleCollapse() != nil || card.Collapsed() {
		t.Error("ToggleCollapse on a non-collapsible card should be a no-op")
	}
}

func TestCardSelection(t *testing.T) {
	card, err := NewCard(CardConfig{ID: "c", Header: "H"})
	if err != nil {
		t.Fatalf("NewCard() error = %v", err)
	}

	card.SetSelected(true)
	if !card.Selected() {
		t.Error("SetSelected(true) should mark the card selected")
	}
	card.SetSelected(true) // idempotent
	card.SetSelected(false)
	if card.Selected() {
		t.Error("SetSelected(false) should clear the selection")
	}
}

// A focused action button captures Activate; the card click does not fire.
func TestCardActionButtonOptsOutOfBubbling(t *testing.T) {
	card, err := NewCard(CardConfig{ID: "c", Header: "H", Body: "B"})
	if err != nil {
		t.Fatalf("NewCard() error = %v", err)
	}
	edit := newTestButton(t, "edit")
	card.AddAction(edit)

	var cardClicked, buttonClicked bool
	card.On(EventClick, func(Event) { cardClicked = true })
	edit.On(EventClick, func(Event) { buttonClicked = true })

	// No action focused: the card's own click fires.
	card.Activate()
	if !cardClicked || buttonClicked {
		t.Fatal("with no focused action, Activate should emit the card click only")
	}

	cardClicked, buttonClicked = false, false
	card.FocusAction(0)
	card.Activate()
	if buttonClicked != true || cardClicked {
		t.Error("with a focused action, only that button's click should fire")
	}
}

func TestCardDestroysActionButtons(t *testing.T) {
	card, err := NewCard(CardConfig{ID: "c", Header: "H"})
	if err != nil {
		t.Fatalf("NewCard() error = %v", err)
	}
	btn := newTestButton(t, "b")
	card.AddAction(btn)

	card.Destroy()
	if !btn.Destroyed() {
		t.Error("destroying the card should destroy its action buttons")
	}
}
