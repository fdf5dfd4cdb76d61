package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/storykeep/storykeep/internal/logging"
)

// Change reports that a watched file's content actually changed.
type Change struct {
	Path string
	Hash uint64
}

// dedupe suppresses changes whose content hash matches the last seen hash
// for that path. A missing file clears the recorded hash so the next write
// is always reported.
type dedupe struct {
	mu   sync.Mutex
	last map[string]uint64
}

func newDedupe() *dedupe {
	return &dedupe{last: make(map[string]uint64)}
}

// changed records data's hash for path and reports whether it differs from
// the previous one.
func (d *dedupe) changed(path string, data []byte) (uint64, bool) {
	h := xxhash.Sum64(data)

	d.mu.Lock()
	defer d.mu.Unlock()
	if prev, ok := d.last[path]; ok && prev == h {
		return h, false
	}
	d.last[path] = h
	return h, true
}

// forget drops the recorded hash for path.
func (d *dedupe) forget(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.last, path)
}

// prime records the current hash for path without reporting a change, so
// the state present at startup does not fire.
func (d *dedupe) prime(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.last[path] = xxhash.Sum64(data)
}

const (
	debounceWindow = 500 * time.Millisecond
	sweepInterval  = 100 * time.Millisecond
)

// Watcher watches a fixed set of files. It watches each file's parent
// directory rather than the file itself, because atomic saves replace the
// inode and a direct file watch goes stale after the first rename.
type Watcher struct {
	fsw     *fsnotify.Watcher
	files   map[string]bool // absolute paths of watched files
	dedupe  *dedupe
	changes chan Change

	mu      sync.Mutex
	pending map[string]time.Time

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewWatcher builds a watcher for the given files. The files need not exist
// yet, but their parent directories must.
func NewWatcher(paths ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:     fsw,
		files:   make(map[string]bool, len(paths)),
		dedupe:  newDedupe(),
		changes: make(chan Change, 8),
		pending: make(map[string]time.Time),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, err
		}
		w.files[abs] = true
		w.dedupe.prime(abs)
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Changes returns the channel change notifications arrive on. It is closed
// when the watcher stops.
func (w *Watcher) Changes() <-chan Change { return w.changes }

// Start runs the event loop until the context is cancelled or Stop is
// called. Non-blocking.
func (w *Watcher) Start(ctx context.Context) {
	go w.run(ctx)
}

// Stop shuts the watcher down and waits for the loop to exit.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	<-w.doneCh
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	defer close(w.changes)
	defer w.fsw.Close()

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logging.Warn("File watcher error", zap.Error(err))

		case <-ticker.C:
			w.flushSettled(ctx)
		}
	}
}

// handleEvent records an event for a watched file; everything else in the
// directory is ignored.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	abs, err := filepath.Abs(event.Name)
	if err != nil || !w.files[abs] {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}

	logging.Debug("File event",
		zap.String("path", abs),
		zap.String("op", event.Op.String()),
	)

	w.mu.Lock()
	w.pending[abs] = time.Now()
	w.mu.Unlock()
}

// flushSettled reports files whose events have settled past the debounce
// window and whose content actually changed.
func (w *Watcher) flushSettled(ctx context.Context) {
	now := time.Now()

	w.mu.Lock()
	var settled []string
	for path, at := range w.pending {
		if now.Sub(at) >= debounceWindow {
			settled = append(settled, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range settled {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				w.dedupe.forget(path)
				continue
			}
			logging.Warn("Watched file unreadable", zap.String("path", path), zap.Error(err))
			continue
		}

		hash, changed := w.dedupe.changed(path, data)
		if !changed {
			logging.Debug("File content unchanged, suppressing", zap.String("path", path))
			continue
		}

		select {
		case w.changes <- Change{Path: path, Hash: hash}:
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		}
	}
}
