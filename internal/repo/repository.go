package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storykeep/storykeep/internal/entity"
	"github.com/storykeep/storykeep/internal/logging"
	"github.com/storykeep/storykeep/internal/store"
)

// metaKey holds the library metadata blob (schema version + generation).
const metaKey = "meta"

// schemaVersion is bumped when the stored record layout changes.
const schemaVersion = 1

// StorageKey returns the store key holding a kind's record array.
func StorageKey(kind entity.Kind) string {
	return "records/" + kind.Plural()
}

// Meta is the library metadata stored beside the record arrays.
type Meta struct {
	SchemaVersion int    `json:"schema_version"`
	Generation    string `json:"generation"`
}

// NotFoundError reports a record lookup that matched nothing.
type NotFoundError struct {
	Kind entity.Kind
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// IsNotFound checks whether an error is a record-not-found error.
func IsNotFound(err error) bool {
	_, ok := err.(*NotFoundError)
	return ok
}

// Repository owns the in-memory record arrays and mirrors every mutation to
// the store before it becomes visible.
type Repository struct {
	mu         sync.RWMutex
	st         store.Store
	records    map[entity.Kind][]entity.Record
	generation string

	// Bounded snapshot history for Undo; see rollback.go
	snapshots    []*LibrarySnapshot
	maxSnapshots int
}

// Open loads the library from the store. Kinds that have never been written
// start empty; a blob that does not decode surfaces as a corruption error.
func Open(ctx context.Context, st store.Store) (*Repository, error) {
	r := &Repository{
		st:           st,
		records:      make(map[entity.Kind][]entity.Record, len(entity.Kinds())),
		maxSnapshots: 10,
	}
	if err := r.loadLocked(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Repository) loadLocked(ctx context.Context) error {
	for _, kind := range entity.Kinds() {
		key := StorageKey(kind)
		data, err := r.st.Get(ctx, key)
		if store.IsNotFound(err) {
			r.records[kind] = nil
			continue
		}
		if err != nil {
			return err
		}
		list, err := entity.DecodeList(kind, data)
		if err != nil {
			return store.NewCorruptionError("get", key, err)
		}
		r.records[kind] = list
	}

	data, err := r.st.Get(ctx, metaKey)
	switch {
	case store.IsNotFound(err):
		r.generation = ""
	case err != nil:
		return err
	default:
		var m Meta
		if err := json.Unmarshal(data, &m); err != nil {
			return store.NewCorruptionError("get", metaKey, err)
		}
		r.generation = m.Generation
	}
	return nil
}

// Reload discards the in-memory state and re-reads the library from the
// store. Snapshot history is cleared because it describes discarded state.
func (r *Repository) Reload(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	fresh := &Repository{
		st:      r.st,
		records: make(map[entity.Kind][]entity.Record, len(entity.Kinds())),
	}
	if err := fresh.loadLocked(ctx); err != nil {
		return err
	}

	r.records = fresh.records
	r.generation = fresh.generation
	r.snapshots = nil
	logging.Debug("Library reloaded", zap.String("generation", r.generation))
	return nil
}

// Generation returns the marker of the last committed mutation. Empty for a
// library that has never been written.
func (r *Repository) Generation() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.generation
}

// List returns a kind's records sorted by name. The returned slice is the
// caller's, but the records themselves are shared - clone before editing.
func (r *Repository) List(kind entity.Kind) []entity.Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.Record, len(r.records[kind]))
	copy(out, r.records[kind])
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Meta().Name) < strings.ToLower(out[j].Meta().Name)
	})
	return out
}

// ListByUpdated returns a kind's records, most recently updated first.
func (r *Repository) ListByUpdated(kind entity.Kind) []entity.Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.Record, len(r.records[kind]))
	copy(out, r.records[kind])
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Meta().UpdatedAt.After(out[j].Meta().UpdatedAt)
	})
	return out
}

// Get returns a deep copy of a record, safe for the caller to edit.
func (r *Repository) Get(kind entity.Kind, id string) (entity.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.records[kind] {
		if rec.Meta().ID == id {
			return rec.Clone(), nil
		}
	}
	return nil, &NotFoundError{Kind: kind, ID: id}
}

// Lookup finds a record by id across all kinds.
func (r *Repository) Lookup(id string) (entity.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, kind := range entity.Kinds() {
		for _, rec := range r.records[kind] {
			if rec.Meta().ID == id {
				return rec.Clone(), nil
			}
		}
	}
	return nil, &NotFoundError{ID: id}
}

// Counts returns the number of records per kind.
func (r *Repository) Counts() map[entity.Kind]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[entity.Kind]int, len(entity.Kinds()))
	for _, kind := range entity.Kinds() {
		out[kind] = len(r.records[kind])
	}
	return out
}

// Recent returns the n most recently updated records across all kinds.
func (r *Repository) Recent(n int) []entity.Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []entity.Record
	for _, kind := range entity.Kinds() {
		all = append(all, r.records[kind]...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Meta().UpdatedAt.After(all[j].Meta().UpdatedAt)
	})
	if len(all) > n {
		all = all[:n]
	}
	out := make([]entity.Record, len(all))
	copy(out, all)
	return out
}

// Referencing returns every record whose relationship arrays contain id.
func (r *Repository) Referencing(id string) []entity.Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []entity.Record
	for _, kind := range entity.Kinds() {
		for _, rec := range r.records[kind] {
			for _, ref := range rec.RefIDs() {
				if ref == id {
					out = append(out, rec)
					break
				}
			}
		}
	}
	return out
}

// Add stores a new record. The repository keeps its own clone; an empty id
// is assigned, timestamps are touched.
func (r *Repository) Add(ctx context.Context, rec entity.Record) error {
	if strings.TrimSpace(rec.Meta().Name) == "" {
		return fmt.Errorf("%s name must not be empty", rec.Kind())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	kind := rec.Kind()
	clone := rec.Clone()
	if clone.Meta().ID == "" {
		clone.Meta().ID = uuid.NewString()
	}
	for _, existing := range r.records[kind] {
		if existing.Meta().ID == clone.Meta().ID {
			return fmt.Errorf("%s %q already exists", kind, clone.Meta().ID)
		}
	}
	clone.Meta().Touch(time.Now())

	next := make([]entity.Record, len(r.records[kind]), len(r.records[kind])+1)
	copy(next, r.records[kind])
	next = append(next, clone)

	r.saveSnapshotLocked(fmt.Sprintf("add %s %q", kind, clone.Meta().Name))
	if err := r.persistLocked(ctx, map[entity.Kind][]entity.Record{kind: next}); err != nil {
		r.dropSnapshotLocked()
		return err
	}

	r.records[kind] = next
	logging.LogRecordChange(string(kind), clone.Meta().ID, "add")
	return nil
}

// Update replaces a stored record with the caller's edited copy.
func (r *Repository) Update(ctx context.Context, rec entity.Record) error {
	if strings.TrimSpace(rec.Meta().Name) == "" {
		return fmt.Errorf("%s name must not be empty", rec.Kind())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	kind := rec.Kind()
	id := rec.Meta().ID
	idx := -1
	for i, existing := range r.records[kind] {
		if existing.Meta().ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return &NotFoundError{Kind: kind, ID: id}
	}

	clone := rec.Clone()
	clone.Meta().CreatedAt = r.records[kind][idx].Meta().CreatedAt
	clone.Meta().Touch(time.Now())

	next := make([]entity.Record, len(r.records[kind]))
	copy(next, r.records[kind])
	next[idx] = clone

	r.saveSnapshotLocked(fmt.Sprintf("update %s %q", kind, clone.Meta().Name))
	if err := r.persistLocked(ctx, map[entity.Kind][]entity.Record{kind: next}); err != nil {
		r.dropSnapshotLocked()
		return err
	}

	r.records[kind] = next
	logging.LogRecordChange(string(kind), id, "update")
	return nil
}

// Remove deletes a record and strips its id from every other record's
// relationship arrays. All changed kinds commit in one store transaction;
// on failure neither memory nor disk changes.
func (r *Repository) Remove(ctx context.Context, kind entity.Kind, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := false
	for _, rec := range r.records[kind] {
		if rec.Meta().ID == id {
			found = true
			break
		}
	}
	if !found {
		return &NotFoundError{Kind: kind, ID: id}
	}

	name := id
	changed := make(map[entity.Kind][]entity.Record)
	for _, k := range entity.Kinds() {
		kindChanged := false
		next := make([]entity.Record, 0, len(r.records[k]))
		for _, rec := range r.records[k] {
			if k == kind && rec.Meta().ID == id {
				name = rec.Meta().Name
				kindChanged = true
				continue
			}
			cleaned := rec.Clone()
			if cleaned.RemoveRef(id) {
				cleaned.Meta().Touch(time.Now())
				next = append(next, cleaned)
				kindChanged = true
				continue
			}
			next = append(next, rec)
		}
		if kindChanged {
			changed[k] = next
		}
	}

	r.saveSnapshotLocked(fmt.Sprintf("delete %s %q", kind, name))
	if err := r.persistLocked(ctx, changed); err != nil {
		r.dropSnapshotLocked()
		return err
	}

	for k, next := range changed {
		r.records[k] = next
	}
	logging.LogRecordChange(string(kind), id, "delete")
	return nil
}

// persistLocked writes the given kind arrays and a fresh generation marker
// in one transaction. Callers hold the write lock. On success the
// repository's generation is advanced.
func (r *Repository) persistLocked(ctx context.Context, changed map[entity.Kind][]entity.Record) error {
	gen := uuid.NewString()

	err := r.st.Update(ctx, func(tx store.Tx) error {
		for kind, list := range changed {
			data, err := entity.EncodeList(list)
			if err != nil {
				return err
			}
			if err := tx.Set(StorageKey(kind), data); err != nil {
				return err
			}
		}
		meta, err := json.Marshal(Meta{SchemaVersion: schemaVersion, Generation: gen})
		if err != nil {
			return err
		}
		return tx.Set(metaKey, meta)
	})
	if err != nil {
		logging.LogStoreOp("update", "records", err)
		return err
	}

	r.generation = gen
	return nil
}

// ReadGeneration reads the generation marker straight from a store without
// loading records. Used by external readers to detect changes cheaply.
func ReadGeneration(ctx context.Context, st store.Store) (string, error) {
	data, err := st.Get(ctx, metaKey)
	if store.IsNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	var m Meta
	if err := json.Unmarshal(data, &m); err != nil {
		return "", store.NewCorruptionError("get", metaKey, err)
	}
	return m.Generation, nil
}
