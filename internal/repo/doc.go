// Package repo provides the record repository: the single injected access
// path to the library's characters, locations, plots, and world elements.
//
// The repository keeps every kind's records in memory and mirrors each
// mutation to the store before the in-memory state is swapped, so the
// durability boundary and the mutation boundary are the same lock. Nothing
// else in the application holds record arrays.
//
// # Usage Example
//
//	st, _ := store.OpenSQLite(path)
//	r, err := repo.Open(ctx, st)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	c := entity.NewCharacter("Mira")
//	c.Role = "protagonist"
//	if err := r.Add(ctx, c); err != nil {
//	    log.Fatal(err)
//	}
//
// # Referential Cleanup On Delete
//
// Remove deletes a record and strips its id from every other record's
// relationship arrays, across all kinds, in one store transaction. Either
// the record is gone everywhere or the library is untouched; there is no
// partially-swept state to repair.
//
// # Snapshots And Undo
//
// Before every mutation the repository saves a bounded in-memory snapshot
// of the library (last 10). Undo restores the most recent snapshot,
// persisting all kinds atomically:
//
//	if desc, err := r.Undo(ctx); err == nil {
//	    fmt.Println("undid:", desc)
//	}
//
// # Generation
//
// Every committed mutation rewrites a generation marker next to the
// records. External readers (the preview server) compare generations to
// detect real changes without parsing record blobs.
//
// # Thread Safety
//
// All methods are safe for concurrent use. Reads return copies or clones;
// callers never share mutable state with the repository.
package repo
