package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/structdb/internal/core/domain"
	"github.com/custodia-labs/structdb/internal/logger"
)

// errClosed is returned by Watch after Close.
var errClosed = errors.New("watcher closed")

// Event reports a structure file that appeared or changed.
type Event struct {
	ID     string
	Path   string
	Format domain.Format
}

// Watcher reports structure files created or written under a set of directories.
type Watcher struct {
	roots []string
	log   *logger.Logger

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	closed  bool
}

// NewWatcher creates a watcher over the given directories. Inputs that are
// plain files are watched through their parent directory.
func NewWatcher(roots []string, log *logger.Logger) *Watcher {
	return &Watcher{roots: roots, log: log}
}

// Watch starts watching and returns a channel of structure events.
// The channel is closed when ctx is cancelled or the watcher is closed.
func (w *Watcher) Watch(ctx context.Context) (<-chan Event, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, errClosed
	}
	if w.watcher != nil {
		return nil, fmt.Errorf("watch already started")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	for _, root := range w.roots {
		if err := addTree(fw, root); err != nil {
			fw.Close()
			return nil, fmt.Errorf("root path error: %w", err)
		}
	}
	w.watcher = fw

	events := make(chan Event)
	go w.loop(ctx, fw, events)
	return events, nil
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher, out chan<- Event) {
	defer close(out)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() && !isHidden(filepath.Base(ev.Name)) {
					if err := addTree(fw, ev.Name); err != nil {
						w.log.Warn("Cannot watch %s: %v", ev.Name, err)
					}
					continue
				}
			}
			e, ok := w.handleFsEvent(ev)
			if !ok {
				continue
			}
			select {
			case out <- e:
			case <-ctx.Done():
				return
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.log.Warn("Watch error: %v", err)
		}
	}
}

// handleFsEvent converts a create or write of a visible structure file into an Event.
func (w *Watcher) handleFsEvent(ev fsnotify.Event) (Event, bool) {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return Event{}, false
	}
	if isHidden(filepath.Base(ev.Name)) {
		return Event{}, false
	}
	info, err := os.Stat(ev.Name)
	if err != nil || !info.Mode().IsRegular() {
		return Event{}, false
	}
	id, format, _, err := domain.DetectFormat(ev.Name)
	if err != nil {
		return Event{}, false
	}
	return Event{ID: id, Path: ev.Name, Format: format}, true
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.closed = true
	if w.watcher == nil {
		return nil
	}
	err := w.watcher.Close()
	w.watcher = nil
	return err
}

// addTree watches root and every visible directory below it.
func addTree(fw *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fw.Add(filepath.Dir(root))
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		return fw.Add(path)
	})
}
