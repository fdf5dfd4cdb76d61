package preview

import (
	"testing"
)

func TestHubRegisterAndUnregister(t *testing.T) {
	h := NewHub()
	if h.Len() != 0 {
		t.Fatal("a new hub should be empty")
	}

	a := h.Register(nil, "10.0.0.2:1111")
	b := h.Register(nil, "10.0.0.3:2222")
	if h.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", h.Len())
	}

	h.Unregister(a)
	if h.Len() != 1 {
		t.Errorf("Len() after unregister = %d, want 1", h.Len())
	}
	h.Unregister(a) // double unregister is safe
	h.Unregister(b)

	// The send channel is closed so the writer loop exits.
	if _, open := <-b.Send(); open {
		t.Error("Unregister should close the client's send channel")
	}
}

func TestHubBroadcastReachesAllClients(t *testing.T) {
	h := NewHub()
	a := h.Register(nil, "a")
	b := h.Register(nil, "b")

	h.Broadcast([]byte("library_changed"))

	for _, c := range []*Client{a, b} {
		select {
		case msg := <-c.Send():
			if string(msg) != "library_changed" {
				t.Errorf("received %q, want library_changed", msg)
			}
		default:
			t.Error("client did not receive the broadcast")
		}
	}
}

func TestHubDropsFramesForSlowClient(t *testing.T) {
	h := NewHub()
	slow := h.Register(nil, "slow")
	fast := h.Register(nil, "fast")

	// Fill the slow client's buffer without draining it.
	for i := 0; i <= sendBuffer; i++ {
		h.Broadcast([]byte("x"))
		// Keep the fast client drained so only the slow one backs up.
		<-fast.Send()
	}

	if h.Dropped() != 1 {
		t.Errorf("Dropped() = %d, want 1", h.Dropped())
	}
	if len(slow.send) != sendBuffer {
		t.Errorf("slow client buffer = %d, want full at %d", len(slow.send), sendBuffer)
	}

	// The slow client still works once it drains.
	<-slow.Send()
	h.Broadcast([]byte("y"))
	if h.Dropped() != 1 {
		t.Error("a drained client should receive again without drops")
	}
}

func TestHubCloseAll(t *testing.T) {
	h := NewHub()
	a := h.Register(nil, "a")
	b := h.Register(nil, "b")

	h.CloseAll()
	if h.Len() != 0 {
		t.Errorf("Len() after CloseAll = %d, want 0", h.Len())
	}
	for _, c := range []*Client{a, b} {
		if _, open := <-c.Send(); open {
			t.Error("CloseAll should close every send channel")
		}
	}
}
