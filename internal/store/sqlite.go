package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/storykeep/storykeep/internal/logging"
)

// SQLiteStore persists the library in a single-table SQLite database.
// The schema is one row per key:
//
//	blobs(key TEXT PRIMARY KEY, value BLOB NOT NULL, updated_at TEXT NOT NULL)
//
// A single connection is kept so writers serialize inside the driver, which
// together with WAL mode keeps concurrent readers (the preview server opens
// the same file read-only) working without lock errors.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if necessary) the library database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	return openSQLite(path, false)
}

// OpenSQLiteReadOnly opens an existing library database without write access.
// Used by the preview server so it can never interfere with the main app.
func OpenSQLiteReadOnly(path string) (*SQLiteStore, error) {
	return openSQLite(path, true)
}

func openSQLite(path string, readOnly bool) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, Classify("open", "", fmt.Errorf("create library directory: %w", err))
	}

	dsn := path
	if readOnly {
		dsn = "file:" + path + "?mode=ro"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, Classify("open", "", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			logging.Debug("Pragma failed", zap.String("pragma", pragma), zap.Error(err))
		}
	}

	s := &SQLiteStore{db: db, path: path}
	if !readOnly {
		if err := s.initSchema(); err != nil {
			db.Close()
			return nil, err
		}
	}
	logging.Debug("Library store opened", zap.String("path", path), zap.Bool("read_only", readOnly))
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS blobs (
    key        TEXT PRIMARY KEY,
    value      BLOB NOT NULL,
    updated_at TEXT NOT NULL
)`
	if _, err := s.db.Exec(schema); err != nil {
		return Classify("open", "", err)
	}
	return nil
}

// Path returns the filesystem path of the database file.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Get returns the value stored under key.
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM blobs WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, NewNotFoundError(key)
	}
	if err != nil {
		return nil, Classify("get", key, err)
	}
	return value, nil
}

// Set writes value under key, replacing any previous value.
func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO blobs (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return Classify("set", key, err)
	}
	return nil
}

// Delete removes key. Absent keys delete cleanly.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM blobs WHERE key = ?", key); err != nil {
		return Classify("delete", key, err)
	}
	return nil
}

// Keys returns all stored keys in lexical order.
func (s *SQLiteStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key FROM blobs ORDER BY key")
	if err != nil {
		return nil, Classify("keys", "", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, Classify("keys", "", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, Classify("keys", "", err)
	}
	return keys, nil
}

// Update runs fn inside a single transaction. All writes land or none do.
func (s *SQLiteStore) Update(ctx context.Context, fn func(Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Classify("update", "", err)
	}

	if err := fn(&sqliteTx{ctx: ctx, tx: tx}); err != nil {
		_ = tx.Rollback()
		return Classify("update", "", err)
	}

	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return Classify("update", "", err)
	}
	return nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// sqliteTx adapts a database/sql transaction to the Tx interface.
type sqliteTx struct {
	ctx context.Context
	tx  *sql.Tx
}

func (t *sqliteTx) Get(key string) ([]byte, error) {
	var value []byte
	err := t.tx.QueryRowContext(t.ctx,
		"SELECT value FROM blobs WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, NewNotFoundError(key)
	}
	if err != nil {
		return nil, Classify("get", key, err)
	}
	return value, nil
}

func (t *sqliteTx) Set(key string, value []byte) error {
	_, err := t.tx.ExecContext(t.ctx,
		`INSERT INTO blobs (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return Classify("set", key, err)
	}
	return nil
}

func (t *sqliteTx) Delete(key string) error {
	if _, err := t.tx.ExecContext(t.ctx, "DELETE FROM blobs WHERE key = ?", key); err != nil {
		return Classify("delete", key, err)
	}
	return nil
}
