package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"syscall"
	"testing"
)

func TestClassify(t *testing.T) {
	jsonErr := json.Unmarshal([]byte("{not json"), &struct{}{})
	if jsonErr == nil {
		t.Fatal("expected a json syntax error for the fixture")
	}

	tests := []struct {
		name      string
		err       error
		wantType  ErrorType
		retryable bool
	}{
		{"no rows", sql.ErrNoRows, ErrTypeNotFound, false},
		{"file missing", os.ErrNotExist, ErrTypeNotFound, false},
		{"disk full errno", syscall.ENOSPC, ErrTypeFull, false},
		{"sqlite locked", errors.New("database is locked (5) (SQLITE_BUSY)"), ErrTypeLocked, true},
		{"sqlite table locked", errors.New("table is locked"), ErrTypeLocked, true},
		{"sqlite full", errors.New("database or disk is full (13)"), ErrTypeFull, false},
		{"not a database", errors.New("file is not a database (26)"), ErrTypeCorruption, false},
		{"malformed image", errors.New("database disk image is malformed (11)"), ErrTypeCorruption, false},
		{"bad blob", jsonErr, ErrTypeCorruption, false},
		{"generic", errors.New("read boundary crossed"), ErrTypeIO, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se := Classify("get", "records/plots", tt.err)
			if se == nil {
				t.Fatal("Classify() returned nil for non-nil error")
			}
			if se.Type != tt.wantType {
				t.Errorf("Classify() type = %v, want %v", se.Type, tt.wantType)
			}
			if se.Retryable != tt.retryable {
				t.Errorf("Classify() retryable = %v, want %v", se.Retryable, tt.retryable)
			}
			if !errors.Is(se, tt.err) {
				t.Error("Classify() should preserve the error chain")
			}
		})
	}
}

func TestClassifyNilError(t *testing.T) {
	if se := Classify("get", "k", nil); se != nil {
		t.Errorf("Classify(nil) = %v, want nil", se)
	}
}

func TestClassifyKeepsExistingClassification(t *testing.T) {
	original := NewNotFoundError("records/characters")
	wrapped := fmt.Errorf("load characters: %w", original)

	se := Classify("update", "", wrapped)
	if se != original {
		t.Errorf("Classify() should surface the already classified error, got %v", se)
	}
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("outer context: %w", NewNotFoundError("meta"))

	if !IsNotFound(err) {
		t.Error("IsNotFound() should match a wrapped StoreError")
	}
	if IsLocked(err) {
		t.Error("IsLocked() should not match a not-found error")
	}
	if IsRetryable(err) {
		t.Error("IsRetryable() should be false for not-found")
	}
}

func TestErrorString(t *testing.T) {
	se := &StoreError{
		Type:    ErrTypeLocked,
		Op:      "set",
		Key:     "records/plots",
		Message: "the library is locked by another process",
		Err:     errors.New("database is locked"),
	}

	got := se.Error()
	for _, want := range []string{"Library Locked", "set", "records/plots", "database is locked"} {
		if !containsStr(got, want) {
			t.Errorf("Error() = %q, should contain %q", got, want)
		}
	}
}

func TestHintsCoverAllTypes(t *testing.T) {
	for _, typ := range []ErrorType{
		ErrTypeNotFound, ErrTypeCorruption, ErrTypeFull, ErrTypeLocked, ErrTypeIO,
	} {
		se := &StoreError{Type: typ, Op: "set", Message: "m"}
		if TroubleshootingHint(se) == "" {
			t.Errorf("TroubleshootingHint() empty for %v", typ)
		}
		if ShortMessage(se) == "" {
			t.Errorf("ShortMessage() empty for %v", typ)
		}
	}
}

func TestShortMessageForPlainError(t *testing.T) {
	err := errors.New("something else entirely")
	if ShortMessage(err) != err.Error() {
		t.Errorf("ShortMessage() for plain error = %q, want %q", ShortMessage(err), err.Error())
	}
}

func containsStr(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
