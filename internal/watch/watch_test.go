package watch

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDedupeReportsFirstSight(t *testing.T) {
	d := newDedupe()

	hash, changed := d.changed("/lib/library.db", []byte("v1"))
	if !changed || hash == 0 {
		t.Error("first sight of a path should count as changed")
	}
}

func TestDedupeSuppressesIdenticalContent(t *testing.T) {
	d := newDedupe()
	d.changed("/cfg/registry.yaml", []byte("version: 1"))

	if _, changed := d.changed("/cfg/registry.yaml", []byte("version: 1")); changed {
		t.Error("identical content should be suppressed")
	}
	if _, changed := d.changed("/cfg/registry.yaml", []byte("version: 1\n")); !changed {
		t.Error("different content should be reported")
	}
	// Back to the old content is still a change against the latest hash.
	if _, changed := d.changed("/cfg/registry.yaml", []byte("version: 1")); !changed {
		t.Error("reverting content should be reported")
	}
}

func TestDedupeTracksPathsIndependently(t *testing.T) {
	d := newDedupe()
	d.changed("/a", []byte("same"))

	if _, changed := d.changed("/b", []byte("same")); !changed {
		t.Error("a hash seen on one path must not suppress another path")
	}
}

func TestDedupeForget(t *testing.T) {
	d := newDedupe()
	d.changed("/a", []byte("x"))
	d.forget("/a")

	if _, changed := d.changed("/a", []byte("x")); !changed {
		t.Error("forget should make the next identical write count as a change")
	}
}

func TestDedupePrimeSuppressesStartupState(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.yaml")
	if err := os.WriteFile(path, []byte("version: 1"), 0o644); err != nil {
		t.Fatal(err)
	}

	d := newDedupe()
	d.prime(path)

	if _, changed := d.changed(path, []byte("version: 1")); changed {
		t.Error("content present at startup should not fire")
	}
}

func TestDedupePrimeMissingFileIsNoOp(t *testing.T) {
	d := newDedupe()
	d.prime(filepath.Join(t.TempDir(), "absent.yaml"))

	if _, changed := d.changed("absent.yaml", []byte("x")); !changed {
		t.Error("priming a missing file must not suppress the first write")
	}
}

func TestNewWatcherRequiresExistingParentDir(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing", "file.db"))
	if err == nil {
		t.Error("NewWatcher should fail when the parent directory does not exist")
	}
}

func TestNewWatcherAcceptsAbsentFile(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(filepath.Join(dir, "library.db"))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if err := w.fsw.Close(); err != nil {
		t.Errorf("closing watcher: %v", err)
	}
}
