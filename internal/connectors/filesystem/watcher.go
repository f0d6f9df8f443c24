package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/throughnateseyes/playbook/internal/core/domain"
	"github.com/throughnateseyes/playbook/internal/logger"
	"github.com/throughnateseyes/playbook/internal/surface"
)

// DefaultDebounce is how long the watcher waits for a burst of events on
// the same files to settle.
const DefaultDebounce = 250 * time.Millisecond

// Importer receives SOPs decoded from changed files.
type Importer interface {
	Import(ctx context.Context, sops []domain.SOP) (int, error)
}

// Watcher reports changes to SOP files below the loader's root.
// Events are batched per path and files whose content hash is unchanged
// are not reported.
type Watcher struct {
	loader   *Loader
	debounce time.Duration

	mu     sync.Mutex
	closed bool
	hashes map[string]uint64
	fsw    *fsnotify.Watcher
}

// NewWatcher creates a watcher for the loader's root.
func NewWatcher(loader *Loader, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		loader:   loader,
		debounce: debounce,
		hashes:   make(map[string]uint64),
	}
}

// Watch starts watching and returns a channel of changes. The channel is
// closed when ctx is done or the watcher is closed.
func (w *Watcher) Watch(ctx context.Context) (<-chan domain.RawDocumentChange, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, errors.New("watcher closed")
	}
	if w.fsw != nil {
		return nil, errors.New("watcher already running")
	}

	root := w.loader.Root()
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path error: %s is not a directory", root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := addTree(fsw, root); err != nil {
		fsw.Close()
		return nil, err
	}

	// Baseline hashes so touching a file without changing it is silent.
	if paths, err := w.loader.Files(); err == nil {
		for _, path := range paths {
			if raw, err := w.loader.Read(path); err == nil {
				w.hashes[path] = raw.Hash
			}
		}
	}

	w.fsw = fsw
	out := make(chan domain.RawDocumentChange)
	go w.loop(ctx, fsw, out)

	logger.Debug("Watching %s (%d files)", root, len(w.hashes))
	return out, nil
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	if w.fsw != nil {
		return w.fsw.Close()
	}
	return nil
}

// Sync imports every changed file until ctx is done or the watcher is
// closed. Deletions are
// logged only: SOPs that came from a removed file stay in the collection.
func (w *Watcher) Sync(ctx context.Context, importer Importer) error {
	changes, err := w.Watch(ctx)
	if err != nil {
		return err
	}

	for change := range changes {
		path := ResolvePath(change.Document.URI)
		if change.Type == domain.ChangeDeleted {
			logger.Info("%s removed; its SOPs are kept", path)
			continue
		}

		sops, err := w.loader.Decode(ctx, &change.Document)
		if err != nil {
			logger.Warn("Skipping %s: %v", path, err)
			continue
		}
		n, err := importer.Import(ctx, sops)
		if err != nil {
			logger.Warn("Importing %s failed: %v", path, err)
			continue
		}
		logger.Info("Imported %d SOPs from %s (%s)", n, path, change.Type)
	}

	return nil
}

// loop batches raw events and flushes them once the burst settles.
func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, out chan<- domain.RawDocumentChange) {
	defer close(out)
	defer w.Close()

	pending := make(map[string]domain.ChangeType)
	settle := make(chan struct{}, 1)
	debouncer := surface.NewDebouncer(w.debounce)
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addTree(fsw, event.Name); err != nil {
						logger.Warn("Watching new directory %s: %v", event.Name, err)
					}
					continue
				}
			}
			if !w.loader.Matches(event.Name) {
				continue
			}
			pending[event.Name] = mergeChange(pending, event)

			debouncer.Trigger(func() {
				select {
				case settle <- struct{}{}:
				default:
				}
			})

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("Watcher error: %v", err)

		case <-settle:
			batch := pending
			pending = make(map[string]domain.ChangeType)
			if !w.flush(ctx, batch, out) {
				return
			}
		}
	}
}

// flush emits the settled changes in path order. Returns false if ctx
// ended while sending.
func (w *Watcher) flush(ctx context.Context, batch map[string]domain.ChangeType, out chan<- domain.RawDocumentChange) bool {
	paths := make([]string, 0, len(batch))
	for path := range batch {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	logger.Debug("Processing %d debounced file events", len(paths))

	for _, path := range paths {
		change, emit := w.resolve(path, batch[path])
		if !emit {
			continue
		}
		select {
		case out <- change:
		case <-ctx.Done():
			return false
		}
	}
	return true
}

// resolve reads the file behind a pending event and decides whether the
// change is worth reporting.
func (w *Watcher) resolve(path string, kind domain.ChangeType) (domain.RawDocumentChange, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if kind != domain.ChangeDeleted {
		raw, err := w.loader.Read(path)
		if err == nil {
			if prev, known := w.hashes[path]; known && prev == raw.Hash {
				return domain.RawDocumentChange{}, false
			}
			_, known := w.hashes[path]
			w.hashes[path] = raw.Hash
			if known {
				kind = domain.ChangeUpdated
			} else {
				kind = domain.ChangeCreated
			}
			return domain.RawDocumentChange{Type: kind, Document: *raw}, true
		}
		// Gone before we could read it.
		kind = domain.ChangeDeleted
	}

	if _, known := w.hashes[path]; !known {
		return domain.RawDocumentChange{}, false
	}
	delete(w.hashes, path)
	return domain.RawDocumentChange{
		Type:     domain.ChangeDeleted,
		Document: domain.RawDocument{URI: FileURI(path), MIMEType: jsonMIMEType},
	}, true
}

// mergeChange folds a new event into the pending kind for its path.
func mergeChange(pending map[string]domain.ChangeType, event fsnotify.Event) domain.ChangeType {
	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return domain.ChangeDeleted
	case event.Has(fsnotify.Create):
		return domain.ChangeCreated
	}
	if prev, ok := pending[event.Name]; ok && prev != domain.ChangeDeleted {
		return prev
	}
	return domain.ChangeUpdated
}

// addTree watches dir and every directory below it.
func addTree(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}
