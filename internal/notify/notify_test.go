package notify

import (
	"strings"
	"testing"
	"time"
)

func TestSeverityTTL(t *testing.T) {
	tests := []struct {
		severity Severity
		want     time.Duration
	}{
		{Info, 3 * time.Second},
		{Success, 3 * time.Second},
		{Warning, 5 * time.Second},
		{Error, 8 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.severity.String(), func(t *testing.T) {
			if got := tt.severity.TTL(); got != tt.want {
				t.Errorf("TTL() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPushAssignsUniqueIDs(t *testing.T) {
	m := NewManager()
	m.Infof("one")
	m.Infof("two")

	visible := m.Visible()
	if len(visible) != 2 {
		t.Fatalf("Len() = %d, want 2", len(visible))
	}
	if visible[0].ID == "" || visible[0].ID == visible[1].ID {
		t.Error("each toast should carry its own non-empty id")
	}
}

func TestStackEvictsOldestFIFO(t *testing.T) {
	m := NewManager()
	m.Infof("first")
	m.Infof("second")
	m.Infof("third")
	m.Errorf("fourth")

	visible := m.Visible()
	if len(visible) != 3 {
		t.Fatalf("Len() = %d, want 3", len(visible))
	}
	got := []string{visible[0].Message, visible[1].Message, visible[2].Message}
	want := []string{"second", "third", "fourth"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("stack[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExpireRemovesOnlyItsToast(t *testing.T) {
	m := NewManager()
	m.Infof("keep")
	m.Warnf("expire me")

	id := m.Visible()[1].ID
	m.Update(ExpireMsg{ID: id})

	if m.Len() != 1 || m.Visible()[0].Message != "keep" {
		t.Errorf("expiry should remove exactly the matching toast, got %+v", m.Visible())
	}
}

func TestExpireStaleIDIsNoOp(t *testing.T) {
	m := NewManager()
	m.Infof("a")
	m.Infof("b")
	m.Infof("c")
	evicted := m.Visible()[0].ID
	m.Infof("d") // evicts a

	// The evicted toast's timer will still fire; it must not disturb the rest.
	m.Update(ExpireMsg{ID: evicted})
	if m.Len() != 3 {
		t.Errorf("stale expiry changed the stack, Len() = %d, want 3", m.Len())
	}
}

func TestPushReturnsExpiryCommand(t *testing.T) {
	m := NewManager()
	cmd := m.Successf("saved")
	if cmd == nil {
		t.Fatal("Push should return the expiry tick command")
	}
}

func TestViewRendersSeverityGlyphs(t *testing.T) {
	m := NewManager()
	if m.View() != "" {
		t.Error("an empty stack should render nothing")
	}

	m.Successf("Character saved")
	m.Errorf("Library unreachable")

	view := m.View()
	if !strings.Contains(view, "Character saved") || !strings.Contains(view, "Library unreachable") {
		t.Errorf("View() missing messages: %q", view)
	}
	if !strings.Contains(view, "✓") || !strings.Contains(view, "✗") {
		t.Error("View() should mark toasts with severity glyphs")
	}
}
