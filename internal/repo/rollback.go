package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/storykeep/storykeep/internal/entity"
)

// LibrarySnapshot is a deep copy of the whole library taken before a
// mutation, kept so the mutation can be undone.
type LibrarySnapshot struct {
	// Records maps each kind to its cloned array at snapshot time
	Records map[entity.Kind][]entity.Record

	// Timestamp when this snapshot was created
	Timestamp time.Time

	// Description of the mutation this snapshot was taken before
	Description string
}

// saveSnapshotLocked captures the current library state. Callers hold the
// write lock. History is bounded; the oldest snapshot falls off.
func (r *Repository) saveSnapshotLocked(description string) {
	snap := &LibrarySnapshot{
		Records:     make(map[entity.Kind][]entity.Record, len(entity.Kinds())),
		Timestamp:   time.Now(),
		Description: description,
	}
	for _, kind := range entity.Kinds() {
		list := make([]entity.Record, 0, len(r.records[kind]))
		for _, rec := range r.records[kind] {
			list = append(list, rec.Clone())
		}
		snap.Records[kind] = list
	}

	r.snapshots = append(r.snapshots, snap)
	if len(r.snapshots) > r.maxSnapshots {
		r.snapshots = r.snapshots[1:]
	}
}

// dropSnapshotLocked discards the newest snapshot. Used when the mutation
// it was taken for never landed.
func (r *Repository) dropSnapshotLocked() {
	if len(r.snapshots) > 0 {
		r.snapshots = r.snapshots[:len(r.snapshots)-1]
	}
}

// CanUndo reports whether a snapshot is available to restore.
func (r *Repository) CanUndo() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.snapshots) > 0
}

// History returns the descriptions of undoable mutations, newest first.
func (r *Repository) History() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.snapshots))
	for i := len(r.snapshots) - 1; i >= 0; i-- {
		out = append(out, r.snapshots[i].Description)
	}
	return out
}

// Undo restores the library to the most recent snapshot, persisting every
// kind atomically. It returns the description of the mutation that was
// undone. The snapshot is consumed only if the restore commits.
func (r *Repository) Undo(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.snapshots) == 0 {
		return "", fmt.Errorf("nothing to undo")
	}
	snap := r.snapshots[len(r.snapshots)-1]

	restore := make(map[entity.Kind][]entity.Record, len(snap.Records))
	for kind, list := range snap.Records {
		cloned := make([]entity.Record, 0, len(list))
		for _, rec := range list {
			cloned = append(cloned, rec.Clone())
		}
		restore[kind] = cloned
	}

	if err := r.persistLocked(ctx, restore); err != nil {
		return "", fmt.Errorf("undo %s: %w", snap.Description, err)
	}

	for kind, list := range restore {
		r.records[kind] = list
	}
	r.snapshots = r.snapshots[:len(r.snapshots)-1]
	return snap.Description, nil
}
