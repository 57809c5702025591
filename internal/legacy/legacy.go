// Package legacy reads the pre-upgrade deleted-artists export.
//
// Older installations kept a single comma-separated list of author names
// whose works the user had hidden. The list is consulted as a read-only
// fallback: an author present in it counts as rated bad unless a real
// rating exists. Nothing here ever writes to the file.
package legacy

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/kuwavkdb/am2vkdb/internal/domain"
	"github.com/kuwavkdb/am2vkdb/internal/normalize"
)

// List is the in-memory view of the deleted-artists export.
// Lookups are pure; the set only changes when the file on disk changes.
type List struct {
	mu    sync.RWMutex
	names map[string]struct{} // normalized

	path    string
	logger  *slog.Logger
	watcher *fsnotify.Watcher

	closeOnce sync.Once
	done      chan struct{}
}

// Load reads the export at path and starts watching it for changes.
// A missing file yields an empty list, not an error; the export is
// optional. An empty path disables the legacy fallback entirely.
func Load(path string, logger *slog.Logger) (*List, error) {
	l := &List{
		names:  make(map[string]struct{}),
		path:   path,
		logger: logger,
		done:   make(chan struct{}),
	}

	if path == "" {
		return l, nil
	}

	if err := l.Reload(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		// The list still works without hot-reload.
		l.logger.Warn("legacy list watcher unavailable", "error", err)
		return l, nil
	}

	// Watch the directory so atomic replaces (write to temp, rename) are
	// still observed.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		l.logger.Warn("legacy list watch failed", "path", path, "error", err)
		_ = watcher.Close()
		return l, nil
	}

	l.watcher = watcher
	go l.watch()

	return l, nil
}

// Rating returns the fallback rating for an author display name.
// Membership in the export means bad; anything else is unset.
// The lookup never mutates the underlying data.
func (l *List) Rating(name string) domain.Rating {
	if l.Contains(name) {
		return domain.RatingBad
	}
	return domain.RatingUnset
}

// Contains reports whether the normalized name is in the export.
func (l *List) Contains(name string) bool {
	key := normalize.Name(name)
	if key == "" {
		return false
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.names[key]
	return ok
}

// Len returns the number of names in the export.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.names)
}

// Reload re-reads the export from disk, replacing the in-memory set.
func (l *List) Reload() error {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.mu.Lock()
			l.names = make(map[string]struct{})
			l.mu.Unlock()
			return nil
		}
		return err
	}

	names := make(map[string]struct{})
	for entry := range strings.SplitSeq(string(data), ",") {
		key := normalize.Name(entry)
		if key == "" {
			continue
		}
		names[key] = struct{}{}
	}

	l.mu.Lock()
	l.names = names
	l.mu.Unlock()

	if l.logger != nil {
		l.logger.Debug("legacy deleted-artists list loaded", "path", l.path, "entries", len(names))
	}
	return nil
}

// Close stops the file watcher.
func (l *List) Close() error {
	var err error
	l.closeOnce.Do(func() {
		close(l.done)
		if l.watcher != nil {
			err = l.watcher.Close()
		}
	})
	return err
}

// watch reloads the list whenever the export file changes.
func (l *List) watch() {
	for {
		select {
		case event, ok := <-l.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(l.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if err := l.Reload(); err != nil {
				l.logger.Warn("legacy list reload failed", "path", l.path, "error", err)
			}

		case err, ok := <-l.watcher.Errors:
			if !ok {
				return
			}
			l.logger.Warn("legacy list watcher error", "error", err)

		case <-l.done:
			return
		}
	}
}
