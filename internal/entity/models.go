package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind identifies one of the four record types.
type Kind string

const (
	KindCharacter Kind = "character"
	KindLocation  Kind = "location"
	KindPlot      Kind = "plot"
	KindElement   Kind = "element"
)

// Kinds returns all record kinds in display order.
func Kinds() []Kind {
	return []Kind{KindCharacter, KindLocation, KindPlot, KindElement}
}

// ParseKind converts a string to a Kind, accepting singular and plural forms.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "character", "characters":
		return KindCharacter, nil
	case "location", "locations":
		return KindLocation, nil
	case "plot", "plots":
		return KindPlot, nil
	case "element", "elements", "world-element", "world-elements":
		return KindElement, nil
	}
	return "", fmt.Errorf("unknown record kind %q", s)
}

// Plural returns the plural form used in storage keys and URLs.
func (k Kind) Plural() string {
	switch k {
	case KindCharacter:
		return "characters"
	case KindLocation:
		return "locations"
	case KindPlot:
		return "plots"
	case KindElement:
		return "elements"
	}
	return string(k) + "s"
}

// Label returns the singular display name.
func (k Kind) Label() string {
	switch k {
	case KindCharacter:
		return "Character"
	case KindLocation:
		return "Location"
	case KindPlot:
		return "Plot"
	case KindElement:
		return "World Element"
	}
	return string(k)
}

// Classifier value sets per kind. The editor renders these as select
// options; free text is still accepted so imported data never fails.
var (
	CharacterRoles     = []string{"protagonist", "antagonist", "supporting", "minor"}
	LocationCategories = []string{"city", "building", "region", "realm", "other"}
	PlotStatuses       = []string{"idea", "outlined", "drafting", "complete"}
	ElementCategories  = []string{"magic", "artifact", "faction", "creature", "custom"}
)

// Base holds the fields shared by every record kind.
type Base struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Notes       string            `json:"notes,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Meta exposes the shared fields through the Record interface.
func (b *Base) Meta() *Base {
	return b
}

// Touch updates the modification timestamp, setting CreatedAt on first use.
func (b *Base) Touch(now time.Time) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

func (b *Base) cloneInto(dst *Base) {
	*dst = *b
	dst.Tags = cloneStrings(b.Tags)
	if b.Attributes != nil {
		dst.Attributes = make(map[string]string, len(b.Attributes))
		for k, v := range b.Attributes {
			dst.Attributes[k] = v
		}
	}
}

// Record is the generic view the repository works through.
type Record interface {
	Meta() *Base
	Kind() Kind
	RefIDs() []string
	RemoveRef(id string) bool
	Clone() Record
}

// Character is a person (or person-shaped being) in the story.
type Character struct {
	Base
	Role                string   `json:"role,omitempty"`
	Aliases             []string `json:"aliases,omitempty"`
	RelatedCharacterIDs []string `json:"related_character_ids,omitempty"`
	LocationIDs         []string `json:"location_ids,omitempty"`
}

// NewCharacter creates a character with a fresh id and timestamps.
func NewCharacter(name string) *Character {
	c := &Character{}
	c.ID = uuid.NewString()
	c.Name = name
	c.Touch(time.Now())
	return c
}

func (c *Character) Kind() Kind { return KindCharacter }

func (c *Character) RefIDs() []string {
	return concat(c.RelatedCharacterIDs, c.LocationIDs)
}

func (c *Character) RemoveRef(id string) bool {
	changed := false
	c.RelatedCharacterIDs, changed = removeString(c.RelatedCharacterIDs, id, changed)
	c.LocationIDs, changed = removeString(c.LocationIDs, id, changed)
	return changed
}

func (c *Character) Clone() Record {
	out := &Character{}
	c.Base.cloneInto(&out.Base)
	out.Role = c.Role
	out.Aliases = cloneStrings(c.Aliases)
	out.RelatedCharacterIDs = cloneStrings(c.RelatedCharacterIDs)
	out.LocationIDs = cloneStrings(c.LocationIDs)
	return out
}

// Location is a place in the story world. Locations are referenced by other
// kinds but hold no outgoing relationships themselves.
type Location struct {
	Base
	Category string `json:"category,omitempty"`
}

// NewLocation creates a location with a fresh id and timestamps.
func NewLocation(name string) *Location {
	l := &Location{}
	l.ID = uuid.NewString()
	l.Name = name
	l.Touch(time.Now())
	return l
}

func (l *Location) Kind() Kind { return KindLocation }

func (l *Location) RefIDs() []string { return nil }

func (l *Location) RemoveRef(string) bool { return false }

func (l *Location) Clone() Record {
	out := &Location{}
	l.Base.cloneInto(&out.Base)
	out.Category = l.Category
	return out
}

// Plot is a storyline tying characters, locations, and world elements
// together.
type Plot struct {
	Base
	Status       string   `json:"status,omitempty"`
	CharacterIDs []string `json:"character_ids,omitempty"`
	LocationIDs  []string `json:"location_ids,omitempty"`
	ElementIDs   []string `json:"element_ids,omitempty"`
}

// NewPlot creates a plot with a fresh id and timestamps.
func NewPlot(name string) *Plot {
	p := &Plot{}
	p.ID = uuid.NewString()
	p.Name = name
	p.Touch(time.Now())
	return p
}

func (p *Plot) Kind() Kind { return KindPlot }

func (p *Plot) RefIDs() []string {
	return concat(p.CharacterIDs, p.LocationIDs, p.ElementIDs)
}

func (p *Plot) RemoveRef(id string) bool {
	changed := false
	p.CharacterIDs, changed = removeString(p.CharacterIDs, id, changed)
	p.LocationIDs, changed = removeString(p.LocationIDs, id, changed)
	p.ElementIDs, changed = removeString(p.ElementIDs, id, changed)
	return changed
}

func (p *Plot) Clone() Record {
	out := &Plot{}
	p.Base.cloneInto(&out.Base)
	out.Status = p.Status
	out.CharacterIDs = cloneStrings(p.CharacterIDs)
	out.LocationIDs = cloneStrings(p.LocationIDs)
	out.ElementIDs = cloneStrings(p.ElementIDs)
	return out
}

// WorldElement is a piece of the world that is not a person or a place:
// magic systems, artifacts, factions, creatures.
type WorldElement struct {
	Base
	Category     string   `json:"category,omitempty"`
	CharacterIDs []string `json:"character_ids,omitempty"`
	LocationIDs  []string `json:"location_ids,omitempty"`
}

// NewWorldElement creates a world element with a fresh id and timestamps.
func NewWorldElement(name string) *WorldElement {
	e := &WorldElement{}
	e.ID = uuid.NewString()
	e.Name = name
	e.Touch(time.Now())
	return e
}

func (e *WorldElement) Kind() Kind { return KindElement }

func (e *WorldElement) RefIDs() []string {
	return concat(e.CharacterIDs, e.LocationIDs)
}

func (e *WorldElement) RemoveRef(id string) bool {
	changed := false
	e.CharacterIDs, changed = removeString(e.CharacterIDs, id, changed)
	e.LocationIDs, changed = removeString(e.LocationIDs, id, changed)
	return changed
}

func (e *WorldElement) Clone() Record {
	out := &WorldElement{}
	e.Base.cloneInto(&out.Base)
	out.Category = e.Category
	out.CharacterIDs = cloneStrings(e.CharacterIDs)
	out.LocationIDs = cloneStrings(e.LocationIDs)
	return out
}

// New creates an empty record of the given kind.
func New(kind Kind, name string) (Record, error) {
	switch kind {
	case KindCharacter:
		return NewCharacter(name), nil
	case KindLocation:
		return NewLocation(name), nil
	case KindPlot:
		return NewPlot(name), nil
	case KindElement:
		return NewWorldElement(name), nil
	}
	return nil, fmt.Errorf("unknown record kind %q", kind)
}

// EncodeList marshals a kind's records into the JSON array blob the store
// holds.
func EncodeList(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}
	return json.Marshal(records)
}

// DecodeList unmarshals a stored JSON array blob into records of the given
// kind.
func DecodeList(kind Kind, data []byte) ([]Record, error) {
	switch kind {
	case KindCharacter:
		var list []*Character
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, err
		}
		return lift(list), nil
	case KindLocation:
		var list []*Location
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, err
		}
		return lift(list), nil
	case KindPlot:
		var list []*Plot
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, err
		}
		return lift(list), nil
	case KindElement:
		var list []*WorldElement
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, err
		}
		return lift(list), nil
	}
	return nil, fmt.Errorf("unknown record kind %q", kind)
}

func lift[T Record](in []T) []Record {
	out := make([]Record, 0, len(in))
	for _, r := range in {
		out = append(out, r)
	}
	return out
}

func concat(slices ...[]string) []string {
	var out []string
	for _, s := range slices {
		out = append(out, s...)
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func removeString(in []string, id string, already bool) ([]string, bool) {
	out := in[:0]
	removed := false
	for _, s := range in {
		if s == id {
			removed = true
			continue
		}
		out = append(out, s)
	}
	if !removed {
		return in, already
	}
	return out, true
}
