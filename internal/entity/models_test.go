package entity

import (
	"testing"
	"time"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"character", KindCharacter, false},
		{"characters", KindCharacter, false},
		{"location", KindLocation, false},
		{"plots", KindPlot, false},
		{"element", KindElement, false},
		{"world-elements", KindElement, false},
		{"chapter", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseKind(%q) should fail", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseKind(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestKindPluralAndLabel(t *testing.T) {
	if KindCharacter.Plural() != "characters" {
		t.Errorf("Plural() = %q, want %q", KindCharacter.Plural(), "characters")
	}
	if KindElement.Label() != "World Element" {
		t.Errorf("Label() = %q, want %q", KindElement.Label(), "World Element")
	}
}

func TestNewAssignsIdentity(t *testing.T) {
	for _, kind := range Kinds() {
		rec, err := New(kind, "Test Name")
		if err != nil {
			t.Fatalf("New(%v) error = %v", kind, err)
		}
		if rec.Meta().ID == "" {
			t.Errorf("New(%v) should assign an id", kind)
		}
		if rec.Meta().Name != "Test Name" {
			t.Errorf("New(%v).Name = %q, want %q", kind, rec.Meta().Name, "Test Name")
		}
		if rec.Meta().CreatedAt.IsZero() || rec.Meta().UpdatedAt.IsZero() {
			t.Errorf("New(%v) should set timestamps", kind)
		}
		if rec.Kind() != kind {
			t.Errorf("New(%v).Kind() = %v", kind, rec.Kind())
		}
	}
}

func TestTouchPreservesCreatedAt(t *testing.T) {
	c := NewCharacter("Mira")
	created := c.CreatedAt

	later := time.Now().Add(time.Hour)
	c.Touch(later)

	if !c.CreatedAt.Equal(created) {
		t.Error("Touch() should not change CreatedAt on an existing record")
	}
	if !c.UpdatedAt.Equal(later) {
		t.Errorf("Touch() UpdatedAt = %v, want %v", c.UpdatedAt, later)
	}
}

func TestRemoveRefStripsAllArrays(t *testing.T) {
	p := NewPlot("The Heist")
	p.CharacterIDs = []string{"a", "b", "c"}
	p.LocationIDs = []string{"b", "d"}
	p.ElementIDs = []string{"e"}

	if !p.RemoveRef("b") {
		t.Fatal("RemoveRef() should report a change when the id was present")
	}

	if got := p.CharacterIDs; len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("CharacterIDs after RemoveRef = %v", got)
	}
	if got := p.LocationIDs; len(got) != 1 || got[0] != "d" {
		t.Errorf("LocationIDs after RemoveRef = %v", got)
	}
	if got := p.ElementIDs; len(got) != 1 || got[0] != "e" {
		t.Errorf("ElementIDs should be untouched, got %v", got)
	}

	if p.RemoveRef("zz") {
		t.Error("RemoveRef() should report no change for an absent id")
	}
}

func TestRefIDsCoversEveryArray(t *testing.T) {
	c := NewCharacter("Mira")
	c.RelatedCharacterIDs = []string{"r1"}
	c.LocationIDs = []string{"l1", "l2"}

	refs := c.RefIDs()
	if len(refs) != 3 {
		t.Fatalf("RefIDs() returned %d ids, want 3: %v", len(refs), refs)
	}

	l := NewLocation("Harbor")
	if len(l.RefIDs()) != 0 {
		t.Errorf("Location.RefIDs() = %v, want empty", l.RefIDs())
	}
	if l.RemoveRef("anything") {
		t.Error("Location.RemoveRef() should always report no change")
	}
}

func TestCloneIsDeep(t *testing.T) {
	e := NewWorldElement("Ember Order")
	e.Category = "faction"
	e.Tags = []string{"secretive"}
	e.Attributes = map[string]string{"symbol": "ember"}
	e.CharacterIDs = []string{"c1"}

	clone := e.Clone().(*WorldElement)
	clone.Tags[0] = "public"
	clone.Attributes["symbol"] = "ash"
	clone.CharacterIDs[0] = "c2"
	clone.Name = "Renamed"

	if e.Tags[0] != "secretive" {
		t.Error("Clone() shares the Tags slice")
	}
	if e.Attributes["symbol"] != "ember" {
		t.Error("Clone() shares the Attributes map")
	}
	if e.CharacterIDs[0] != "c1" {
		t.Error("Clone() shares a relationship array")
	}
	if e.Name != "Ember Order" {
		t.Error("Clone() shares the Base")
	}
}

func TestEncodeDecodeList(t *testing.T) {
	a := NewCharacter("Mira")
	a.Role = "protagonist"
	a.LocationIDs = []string{"loc1"}
	b := NewCharacter("Torv")

	data, err := EncodeList([]Record{a, b})
	if err != nil {
		t.Fatalf("EncodeList() error = %v", err)
	}

	decoded, err := DecodeList(KindCharacter, data)
	if err != nil {
		t.Fatalf("DecodeList() error = %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("DecodeList() returned %d records, want 2", len(decoded))
	}

	got, ok := decoded[0].(*Character)
	if !ok {
		t.Fatalf("DecodeList() element type = %T, want *Character", decoded[0])
	}
	if got.ID != a.ID || got.Role != "protagonist" || len(got.LocationIDs) != 1 {
		t.Errorf("decoded character = %+v, want fields of %+v", got, a)
	}
}

func TestEncodeListNilIsEmptyArray(t *testing.T) {
	data, err := EncodeList(nil)
	if err != nil {
		t.Fatalf("EncodeList(nil) error = %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("EncodeList(nil) = %q, want %q", data, "[]")
	}
}

func TestDecodeListRejectsUnknownKind(t *testing.T) {
	if _, err := DecodeList(Kind("chapter"), []byte("[]")); err == nil {
		t.Error("DecodeList() should fail for an unknown kind")
	}
}

func TestDecodeListRejectsBadJSON(t *testing.T) {
	if _, err := DecodeList(KindPlot, []byte("{not an array")); err == nil {
		t.Error("DecodeList() should fail for malformed data")
	}
}
