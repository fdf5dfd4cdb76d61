package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
)

// Error types for library storage operations

// ErrorType represents the category of storage error that occurred
type ErrorType int

const (
	// ErrTypeNotFound indicates the requested key has never been written
	ErrTypeNotFound ErrorType = iota
	// ErrTypeCorruption indicates the library file or a stored blob is damaged
	ErrTypeCorruption
	// ErrTypeFull indicates the disk or quota is exhausted
	ErrTypeFull
	// ErrTypeLocked indicates another process holds the library
	ErrTypeLocked
	// ErrTypeIO indicates a filesystem or driver level failure
	ErrTypeIO
	// ErrTypeUnknown indicates an unknown or unexpected error
	ErrTypeUnknown
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNotFound:
		return "Not Found"
	case ErrTypeCorruption:
		return "Corruption"
	case ErrTypeFull:
		return "Storage Full"
	case ErrTypeLocked:
		return "Library Locked"
	case ErrTypeIO:
		return "I/O Error"
	case ErrTypeUnknown:
		return "Unknown Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// StoreError represents an error that occurred while touching the library store
type StoreError struct {
	Type      ErrorType // Category of error
	Op        string    // Operation that failed ("get", "set", "update", "open", ...)
	Key       string    // Affected key, empty when the failure is not key-scoped
	Message   string    // Human-readable error message
	Err       error     // Underlying error (if any)
	Retryable bool      // Whether retrying later could succeed
}

// Error implements the error interface
func (e *StoreError) Error() string {
	scope := e.Op
	if e.Key != "" {
		scope = fmt.Sprintf("%s %q", e.Op, e.Key)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s (caused by: %v)", e.Type, scope, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Type, scope, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Classify analyzes an error from a storage operation and wraps it in a
// StoreError with the most specific category it can determine.
func Classify(op, key string, err error) *StoreError {
	if err == nil {
		return nil
	}

	// Already classified; keep the original category
	var se *StoreError
	if errors.As(err, &se) {
		return se
	}

	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, os.ErrNotExist) {
		return &StoreError{
			Type:    ErrTypeNotFound,
			Op:      op,
			Key:     key,
			Message: "key has never been written",
			Err:     err,
		}
	}

	if errors.Is(err, syscall.ENOSPC) {
		return &StoreError{
			Type:    ErrTypeFull,
			Op:      op,
			Key:     key,
			Message: "no space left for the library",
			Err:     err,
		}
	}

	// Blob decode failures surface as corruption
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &StoreError{
			Type:    ErrTypeCorruption,
			Op:      op,
			Key:     key,
			Message: "stored data does not decode",
			Err:     err,
		}
	}

	// SQLite reports lock and damage conditions through error text; the
	// driver exposes no stable sentinel values for them.
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "database is locked"),
		strings.Contains(msg, "table is locked"),
		strings.Contains(msg, "sqlite_busy"):
		return &StoreError{
			Type:      ErrTypeLocked,
			Op:        op,
			Key:       key,
			Message:   "the library is locked by another process",
			Err:       err,
			Retryable: true,
		}
	case strings.Contains(msg, "database or disk is full"),
		strings.Contains(msg, "disk is full"):
		return &StoreError{
			Type:    ErrTypeFull,
			Op:      op,
			Key:     key,
			Message: "no space left for the library",
			Err:     err,
		}
	case strings.Contains(msg, "file is not a database"),
		strings.Contains(msg, "disk image is malformed"):
		return &StoreError{
			Type:    ErrTypeCorruption,
			Op:      op,
			Key:     key,
			Message: "the library file is damaged",
			Err:     err,
		}
	}

	return &StoreError{
		Type:    ErrTypeIO,
		Op:      op,
		Key:     key,
		Message: "storage operation failed",
		Err:     err,
	}
}

// NewNotFoundError creates a not-found error for a key
func NewNotFoundError(key string) *StoreError {
	return &StoreError{
		Type:    ErrTypeNotFound,
		Op:      "get",
		Key:     key,
		Message: "key has never been written",
	}
}

// NewCorruptionError creates a corruption error
func NewCorruptionError(op, key string, err error) *StoreError {
	return &StoreError{
		Type:    ErrTypeCorruption,
		Op:      op,
		Key:     key,
		Message: "stored data does not decode",
		Err:     err,
	}
}

// IsNotFound checks if an error indicates a missing key
func IsNotFound(err error) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Type == ErrTypeNotFound
}

// IsCorruption checks if an error indicates a damaged library or blob
func IsCorruption(err error) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Type == ErrTypeCorruption
}

// IsFull checks if an error indicates an exhausted disk or quota
func IsFull(err error) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Type == ErrTypeFull
}

// IsLocked checks if an error indicates the library is held elsewhere
func IsLocked(err error) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Type == ErrTypeLocked
}

// IsRetryable checks if retrying the operation later could succeed
func IsRetryable(err error) bool {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Retryable
	}
	return false
}

// TroubleshootingHint returns user-friendly troubleshooting advice for an error
func TroubleshootingHint(err error) string {
	var se *StoreError
	if !errors.As(err, &se) {
		return "An unexpected error occurred. Please try again."
	}

	switch se.Type {
	case ErrTypeLocked:
		return strings.Join([]string{
			"The library is locked by another process.",
			"Troubleshooting:",
			"  • Close other StoryKeep windows using the same library",
			"  • A backup or sync tool may be holding the file - wait a moment",
			"  • Check for stale processes still holding the database",
		}, "\n")

	case ErrTypeFull:
		return strings.Join([]string{
			"There is no space left to save the library.",
			"Troubleshooting:",
			"  • Free up disk space and save again",
			"  • Move the library to a drive with free space",
		}, "\n")

	case ErrTypeCorruption:
		return strings.Join([]string{
			"The library file is damaged or unreadable.",
			"Troubleshooting:",
			"  • Restore the library from a backup",
			"  • If the file was edited or synced externally, recover the previous version",
			"  • Start a new library and keep the damaged file for inspection",
		}, "\n")

	case ErrTypeIO:
		return strings.Join([]string{
			"The library could not be read or written.",
			"Troubleshooting:",
			"  • Check permissions on the library file and its directory",
			"  • Verify the drive is mounted and healthy",
			"  • Check the configured library path",
		}, "\n")

	case ErrTypeNotFound:
		return "The requested data does not exist yet."

	default:
		return "An error occurred. Please check the error message for details."
	}
}

// ShortMessage returns a concise, user-friendly error message
func ShortMessage(err error) string {
	var se *StoreError
	if !errors.As(err, &se) {
		return err.Error()
	}

	switch se.Type {
	case ErrTypeLocked:
		return "Library locked by another process"
	case ErrTypeFull:
		return "No space left to save the library"
	case ErrTypeCorruption:
		return "Library file is damaged"
	case ErrTypeIO:
		return "Could not read or write the library"
	case ErrTypeNotFound:
		return "Data not found"
	default:
		return se.Message
	}
}
