package tui

import (
	"context"
	"reflect"
	"testing"

	"github.com/storykeep/storykeep/internal/entity"
	"github.com/storykeep/storykeep/internal/repo"
	"github.com/storykeep/storykeep/internal/store"
	"github.com/storykeep/storykeep/internal/upgrade"
)

func newTestRepo(t *testing.T) *repo.Repository {
	t.Helper()
	r, err := repo.Open(context.Background(), store.NewMemStore())
	if err != nil {
		t.Fatalf("repo.Open() error = %v", err)
	}
	return r
}

func TestEditorFormSpecCharacter(t *testing.T) {
	r := newTestRepo(t)
	sam := entity.NewCharacter("Samwise")
	if err := r.Add(context.Background(), sam); err != nil {
		t.Fatal(err)
	}

	spec := editorFormSpec(r, entity.KindCharacter, nil)

	wantOrder := []string{"name", "description", "role", "aliases", "related", "locations", "tags", "notes", "save"}
	var gotOrder []string
	for _, f := range spec.Fields {
		gotOrder = append(gotOrder, f.Name)
	}
	if !reflect.DeepEqual(gotOrder, wantOrder) {
		t.Errorf("field order = %v, want %v", gotOrder, wantOrder)
	}

	byName := make(map[string]upgrade.FieldSpec)
	for _, f := range spec.Fields {
		byName[f.Name] = f
	}
	if !byName["name"].Required {
		t.Error("name must be required")
	}
	if !byName["related"].Multiple || len(byName["related"].Options) != 1 {
		t.Errorf("related = %+v, want a multi select listing the one character", byName["related"])
	}
	if byName["save"].Class != "btn btn-primary" {
		t.Errorf("save class = %q", byName["save"].Class)
	}
}

func TestEditorFormSpecExcludesSelf(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	frodo := entity.NewCharacter("Frodo")
	sam := entity.NewCharacter("Sam")
	if err := r.Add(ctx, frodo); err != nil {
		t.Fatal(err)
	}
	if err := r.Add(ctx, sam); err != nil {
		t.Fatal(err)
	}

	spec := editorFormSpec(r, entity.KindCharacter, frodo)
	for _, f := range spec.Fields {
		if f.Name != "related" {
			continue
		}
		for _, opt := range f.Options {
			if opt.Value == frodo.ID {
				t.Error("a character must not be offered as its own relation")
			}
		}
		if len(f.Options) != 1 || f.Options[0].Value != sam.ID {
			t.Errorf("related options = %+v, want only Sam", f.Options)
		}
	}
}

func TestFormValuesRoundTrip(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	shire := entity.NewLocation("The Shire")
	if err := r.Add(ctx, shire); err != nil {
		t.Fatal(err)
	}

	frodo := entity.NewCharacter("Frodo")
	frodo.Description = "Ring-bearer"
	frodo.Role = "protagonist"
	frodo.Aliases = []string{"Mr. Underhill"}
	frodo.LocationIDs = []string{shire.ID}
	frodo.Tags = []string{"hobbit", "fellowship"}
	frodo.Notes = "# Chapter one\nLeaves the Shire."
	if err := r.Add(ctx, frodo); err != nil {
		t.Fatal(err)
	}

	// Seed a spec from the record, upgrade it, and read the adapter back.
	form, err := upgrade.Upgrade(editorFormSpec(r, entity.KindCharacter, frodo))
	if err != nil {
		t.Fatalf("Upgrade() error = %v", err)
	}
	defer form.Destroy()

	values := form.Values()
	if values["name"] != "Frodo" || values["role"] != "protagonist" {
		t.Errorf("values = %v, want the seeded name and role", values)
	}
	if values["locations"] != shire.ID {
		t.Errorf("locations = %q, want %q", values["locations"], shire.ID)
	}
	if values["tags"] != "hobbit, fellowship" {
		t.Errorf("tags = %q", values["tags"])
	}

	// Writing the values into a fresh record restores every field.
	clone := entity.NewCharacter("")
	applyFormValues(clone, values)
	if clone.Name != "Frodo" || clone.Description != "Ring-bearer" || clone.Role != "protagonist" {
		t.Errorf("clone = %+v, want the original fields", clone)
	}
	if !reflect.DeepEqual(clone.Aliases, []string{"Mr. Underhill"}) {
		t.Errorf("aliases = %v", clone.Aliases)
	}
	if !reflect.DeepEqual(clone.LocationIDs, []string{shire.ID}) {
		t.Errorf("location ids = %v", clone.LocationIDs)
	}
	if !reflect.DeepEqual(clone.Tags, []string{"hobbit", "fellowship"}) {
		t.Errorf("tags = %v", clone.Tags)
	}
	if clone.Notes != "# Chapter one\nLeaves the Shire." {
		t.Errorf("notes = %q", clone.Notes)
	}
}

func TestApplyFormValuesPlot(t *testing.T) {
	plot := entity.NewPlot("The Quest")
	applyFormValues(plot, map[string]string{
		"name":       "The Quest",
		"status":     "outlined",
		"characters": "id-1,id-2",
		"locations":  "",
		"elements":   "id-3",
	})
	if plot.Status != "outlined" {
		t.Errorf("status = %q", plot.Status)
	}
	if !reflect.DeepEqual(plot.CharacterIDs, []string{"id-1", "id-2"}) {
		t.Errorf("character ids = %v", plot.CharacterIDs)
	}
	if plot.LocationIDs != nil {
		t.Errorf("location ids = %v, want nil for an empty value", plot.LocationIDs)
	}
	if !reflect.DeepEqual(plot.ElementIDs, []string{"id-3"}) {
		t.Errorf("element ids = %v", plot.ElementIDs)
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"a", []string{"a"}},
		{"a, b ,c", []string{"a", "b", "c"}},
		{"a,,b", []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := splitList(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitList(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
