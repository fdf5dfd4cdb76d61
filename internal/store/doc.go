// Package store provides the persistence boundary for the StoryKeep library.
//
// The library is stored as an opaque key → blob mapping: callers marshal
// whatever they persist (in practice JSON arrays of records) and the store
// only promises "store bytes, retrieve bytes, tolerate failure". Two
// implementations are provided: a SQLite-backed store for real libraries and
// a memory-backed store for tests and throwaway sessions.
//
// # The Store Interface
//
// All operations take a context and return explicit errors:
//
//	st, err := store.OpenSQLite("/path/to/library.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer st.Close()
//
//	if err := st.Set(ctx, "records/characters", data); err != nil {
//	    log.Fatal(err)
//	}
//
// # Atomic Batches
//
// Update runs a function against a transactional view. Either every write in
// the batch lands, or none do:
//
//	err := st.Update(ctx, func(tx store.Tx) error {
//	    if err := tx.Set("records/characters", chars); err != nil {
//	        return err
//	    }
//	    return tx.Set("records/plots", plots)
//	})
//
// The repository layer relies on this for the referential-cleanup sweep on
// delete: every kind's array and the generation marker commit together.
//
// # Error Classification
//
// Failures are classified into a small taxonomy (StoreError) so callers can
// react to categories instead of driver strings:
//   - NotFound: the key has never been written
//   - Corruption: the file is damaged or a blob does not decode
//   - Full: the disk or quota is exhausted
//   - Locked: another process holds the library
//   - IO: everything else the filesystem can do wrong
//
// TroubleshootingHint and ShortMessage turn a classified error into text fit
// for a toast or an error screen.
//
// # Thread Safety
//
// Both implementations are safe for concurrent use. The SQLite store keeps a
// single connection so writers serialize in the driver; the memory store uses
// an internal mutex.
package store
