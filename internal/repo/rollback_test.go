package repo

import (
	"context"
	"fmt"
	"strings"
	"syscall"
	"testing"

	"github.com/storykeep/storykeep/internal/entity"
)

func TestUndoRestoresDelete(t *testing.T) {
	ctx := context.Background()
	r, st := newTestRepo(t)
	cast := seedCast(t, r)

	if err := r.Remove(ctx, entity.KindCharacter, cast.bob.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	desc, err := r.Undo(ctx)
	if err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if want := `delete character "Bob"`; desc != want {
		t.Errorf("Undo() description = %q, want %q", desc, want)
	}

	bob, err := r.Get(entity.KindCharacter, cast.bob.ID)
	if err != nil {
		t.Fatalf("character not restored: %v", err)
	}
	if bob.Meta().Name != "Bob" {
		t.Errorf("restored name = %q, want %q", bob.Meta().Name, "Bob")
	}
	if got := r.Referencing(cast.bob.ID); len(got) != 3 {
		t.Errorf("Referencing(bob) after undo = %d records, want 3", len(got))
	}

	// The restore is persisted, not just in memory.
	r2, err := Open(ctx, st)
	if err != nil {
		t.Fatalf("Open() after undo error = %v", err)
	}
	if _, err := r2.Get(entity.KindCharacter, cast.bob.ID); err != nil {
		t.Errorf("restored character missing from store: %v", err)
	}
	if got := r2.Referencing(cast.bob.ID); len(got) != 3 {
		t.Errorf("stored references after undo = %d records, want 3", len(got))
	}
}

func TestUndoRestoresUpdate(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRepo(t)

	c := entity.NewCharacter("Mira")
	c.Role = "protagonist"
	if err := r.Add(ctx, c); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	edited, err := r.Get(entity.KindCharacter, c.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	edited.(*entity.Character).Role = "villain"
	if err := r.Update(ctx, edited); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if _, err := r.Undo(ctx); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	after, err := r.Get(entity.KindCharacter, c.ID)
	if err != nil {
		t.Fatalf("Get() after undo error = %v", err)
	}
	if got := after.(*entity.Character).Role; got != "protagonist" {
		t.Errorf("Role after undo = %q, want %q", got, "protagonist")
	}
}

func TestUndoWithNoHistory(t *testing.T) {
	r, _ := newTestRepo(t)

	if r.CanUndo() {
		t.Error("CanUndo() = true on a fresh repository")
	}
	if _, err := r.Undo(context.Background()); err == nil {
		t.Error("Undo() with no history succeeded, want error")
	}
}

func TestSnapshotHistoryBounded(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRepo(t)

	for i := 0; i < 13; i++ {
		name := fmt.Sprintf("Chapter %02d", i)
		if err := r.Add(ctx, entity.NewPlot(name)); err != nil {
			t.Fatalf("Add(%q) error = %v", name, err)
		}
	}

	history := r.History()
	if len(history) != 10 {
		t.Fatalf("History() has %d entries, want bound of 10", len(history))
	}
	if !strings.Contains(history[0], "Chapter 12") {
		t.Errorf("History()[0] = %q, want newest mutation first", history[0])
	}
	if !strings.Contains(history[len(history)-1], "Chapter 03") {
		t.Errorf("History() tail = %q, want oldest surviving mutation", history[len(history)-1])
	}
}

func TestUndoConsumesSnapshots(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRepo(t)

	if err := r.Add(ctx, entity.NewLocation("Harbor")); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := r.Add(ctx, entity.NewLocation("Forest")); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := r.Undo(ctx); err != nil {
			t.Fatalf("Undo() #%d error = %v", i+1, err)
		}
	}
	if r.CanUndo() {
		t.Error("CanUndo() = true after exhausting history")
	}
	if got := len(r.List(entity.KindLocation)); got != 0 {
		t.Errorf("%d locations after undoing both adds, want 0", got)
	}
}

func TestUndoFailureKeepsSnapshot(t *testing.T) {
	ctx := context.Background()
	r, st := newTestRepo(t)
	cast := seedCast(t, r)

	if err := r.Remove(ctx, entity.KindCharacter, cast.bob.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	st.FailSet(metaKey, syscall.ENOSPC)
	if _, err := r.Undo(ctx); err == nil {
		t.Fatal("Undo() with failing store succeeded, want error")
	}
	if !r.CanUndo() {
		t.Error("failed Undo() consumed the snapshot")
	}
	if _, err := r.Get(entity.KindCharacter, cast.bob.ID); !IsNotFound(err) {
		t.Errorf("failed Undo() half-restored memory, Get(bob) err = %v", err)
	}

	st.ClearFailures()
	if _, err := r.Undo(ctx); err != nil {
		t.Fatalf("Undo() after recovery error = %v", err)
	}
	if _, err := r.Get(entity.KindCharacter, cast.bob.ID); err != nil {
		t.Errorf("character not restored after recovered undo: %v", err)
	}
}

func TestReloadClearsHistory(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRepo(t)

	if err := r.Add(ctx, entity.NewLocation("Harbor")); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if !r.CanUndo() {
		t.Fatal("CanUndo() = false after a mutation")
	}

	if err := r.Reload(ctx); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if r.CanUndo() {
		t.Error("CanUndo() = true after Reload, history should be cleared")
	}
}
