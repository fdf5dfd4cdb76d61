package store

import (
	"context"
	"errors"
	"syscall"
	"testing"
)

func TestMemStoreBasicOperations(t *testing.T) {
	m := NewMemStore()
	ctx := context.Background()

	if _, err := m.Get(ctx, "missing"); !IsNotFound(err) {
		t.Errorf("Get() on missing key error = %v, want NotFound", err)
	}

	if err := m.Set(ctx, "records/characters", []byte("data")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := m.Get(ctx, "records/characters")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "data" {
		t.Errorf("Get() = %q, want %q", got, "data")
	}

	if err := m.Delete(ctx, "records/characters"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := m.Get(ctx, "records/characters"); !IsNotFound(err) {
		t.Errorf("Get() after delete error = %v, want NotFound", err)
	}
}

func TestMemStoreReturnsCopies(t *testing.T) {
	m := NewMemStore()
	ctx := context.Background()

	if err := m.Set(ctx, "meta", []byte("original")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := m.Get(ctx, "meta")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	got[0] = 'X'

	again, err := m.Get(ctx, "meta")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(again) != "original" {
		t.Errorf("stored value mutated through returned slice: %q", again)
	}
}

func TestMemStoreKeysSorted(t *testing.T) {
	m := NewMemStore()
	ctx := context.Background()

	for _, k := range []string{"c", "a", "b"} {
		if err := m.Set(ctx, k, []byte("x")); err != nil {
			t.Fatalf("Set(%q) error = %v", k, err)
		}
	}

	keys, err := m.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	want := []string{"a", "b", "c"}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestMemStoreFailSet(t *testing.T) {
	m := NewMemStore()
	ctx := context.Background()

	m.FailSet("records/plots", syscall.ENOSPC)

	err := m.Set(ctx, "records/plots", []byte("x"))
	if err == nil {
		t.Fatal("Set() with injected failure should error")
	}
	if !IsFull(err) {
		t.Errorf("Set() error = %v, want classified Full", err)
	}

	m.ClearFailures()
	if err := m.Set(ctx, "records/plots", []byte("x")); err != nil {
		t.Errorf("Set() after ClearFailures() error = %v", err)
	}
}

func TestMemStoreUpdateAtomic(t *testing.T) {
	m := NewMemStore()
	ctx := context.Background()

	if err := m.Set(ctx, "records/characters", []byte("before")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	// A batch that fails midway must leave no trace
	m.FailSet("records/plots", errors.New("write refused"))
	err := m.Update(ctx, func(tx Tx) error {
		if err := tx.Set("records/characters", []byte("after")); err != nil {
			return err
		}
		return tx.Set("records/plots", []byte("new"))
	})
	if err == nil {
		t.Fatal("Update() with injected failure should error")
	}

	got, err := m.Get(ctx, "records/characters")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "before" {
		t.Errorf("Get() after failed batch = %q, want %q", got, "before")
	}
	if _, err := m.Get(ctx, "records/plots"); !IsNotFound(err) {
		t.Errorf("records/plots should not exist after failed batch, err = %v", err)
	}

	// The same batch succeeds once the failure is cleared
	m.ClearFailures()
	err = m.Update(ctx, func(tx Tx) error {
		if err := tx.Set("records/characters", []byte("after")); err != nil {
			return err
		}
		return tx.Set("records/plots", []byte("new"))
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, _ = m.Get(ctx, "records/characters")
	if string(got) != "after" {
		t.Errorf("Get() after committed batch = %q, want %q", got, "after")
	}
}

func TestMemStoreTxDeleteVisibleOnCommitOnly(t *testing.T) {
	m := NewMemStore()
	ctx := context.Background()

	if err := m.Set(ctx, "meta", []byte("x")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	err := m.Update(ctx, func(tx Tx) error {
		if err := tx.Delete("meta"); err != nil {
			return err
		}
		return errors.New("abort")
	})
	if err == nil {
		t.Fatal("Update() should propagate the abort error")
	}

	if _, err := m.Get(ctx, "meta"); err != nil {
		t.Errorf("meta should survive an aborted batch, err = %v", err)
	}
}
