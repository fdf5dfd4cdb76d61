package ready

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestGateSignalSuccess(t *testing.T) {
	g := NewGate()

	if g.Signalled() {
		t.Error("new gate should not be signalled")
	}

	g.Signal(nil)

	if !g.Signalled() {
		t.Error("gate should be signalled after Signal()")
	}
	if g.Err() != nil {
		t.Errorf("Err() = %v, want nil", g.Err())
	}
}

func TestGateSignalOnce(t *testing.T) {
	g := NewGate()

	first := errors.New("first")
	g.Signal(first)
	g.Signal(errors.New("second"))

	if g.Err() != first {
		t.Errorf("Err() = %v, only the first Signal should win", g.Err())
	}
}

func TestAwaitReady(t *testing.T) {
	g := NewGate()

	go func() {
		time.Sleep(10 * time.Millisecond)
		g.Signal(nil)
	}()

	if err := Await(context.Background(), "test", g, time.Second); err != nil {
		t.Errorf("Await() error = %v, want nil", err)
	}
}

func TestAwaitGateError(t *testing.T) {
	g := NewGate()
	boom := errors.New("boom")
	g.Signal(boom)

	if err := Await(context.Background(), "test", g, time.Second); err != boom {
		t.Errorf("Await() error = %v, want the gate error", err)
	}
}

func TestAwaitTimeout(t *testing.T) {
	g := NewGate()

	err := Await(context.Background(), "slow-dependency", g, 10*time.Millisecond)
	if err == nil {
		t.Fatal("Await() should time out on an unsignalled gate")
	}
	if !IsTimeout(err) {
		t.Errorf("IsTimeout(%v) = false, want true", err)
	}

	var te *TimeoutError
	if !errors.As(err, &te) || te.Name != "slow-dependency" {
		t.Errorf("timeout error should carry the gate name, got %v", err)
	}
}

func TestAwaitContextCancelled(t *testing.T) {
	g := NewGate()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Await(ctx, "test", g, time.Second)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Await() error = %v, want context.Canceled", err)
	}
	if IsTimeout(err) {
		t.Error("cancellation should not be classified as a timeout")
	}
}
