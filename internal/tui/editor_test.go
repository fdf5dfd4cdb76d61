package tui

import (
	"testing"

	"github.com/storykeep/storykeep/internal/component"
	"github.com/storykeep/storykeep/internal/entity"
)

func newDirtyEditor(t *testing.T) EditorModel {
	t.Helper()
	r := newTestRepo(t)
	m, err := NewEditorModel(r, entity.KindCharacter, "")
	if err != nil {
		t.Fatalf("NewEditorModel() error = %v", err)
	}
	m.dirty = true
	return m
}

func TestEditorCancelDestroysUnsavedModal(t *testing.T) {
	m := newDirtyEditor(t)

	m, _ = m.confirmDiscard()
	modal := m.unsavedModal
	if modal == nil {
		t.Fatal("confirmDiscard() did not open the modal")
	}

	m, _ = m.Update(component.ClickMsg{ID: "editor-unsaved-cancel"})
	if m.unsavedModal != nil {
		t.Error("cancel should drop the modal reference")
	}
	if !modal.Destroyed() {
		t.Error("cancel should destroy the modal, not just drop it")
	}
}

func TestEditorDiscardDestroysUnsavedModal(t *testing.T) {
	m := newDirtyEditor(t)

	m, _ = m.confirmDiscard()
	modal := m.unsavedModal
	if modal == nil {
		t.Fatal("confirmDiscard() did not open the modal")
	}

	m, _ = m.Update(component.ClickMsg{ID: "editor-unsaved-confirm"})
	if !modal.Destroyed() {
		t.Error("confirming discard should destroy the modal")
	}
	if len(m.form.Fields()) != 0 {
		t.Error("confirming discard should tear down the form fields")
	}
}
