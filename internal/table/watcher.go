package table

import (
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes to a mapping file. It watches the containing
// directory so that atomic saves (write to temp file, rename over) and files
// created after startup are both seen.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onChange func()
	logger   *slog.Logger
	done     chan struct{}
}

// NewWatcher creates a watcher for the mapping file at path. onChange is
// called from the watcher goroutine and must not block.
func NewWatcher(path string, onChange func(), logger *slog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, err
	}

	return &Watcher{
		path:     abs,
		watcher:  w,
		onChange: onChange,
		logger:   logger.With("table", abs),
		done:     make(chan struct{}),
	}, nil
}

// Start starts watching for changes
func (w *Watcher) Start() {
	go w.watch()
}

// Stop stops the watcher
func (w *Watcher) Stop() {
	close(w.done)
	w.watcher.Close()
}

func (w *Watcher) watch() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.logger.Debug("mapping table changed", "op", event.Op.String())
				w.onChange()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("table watcher error", "err", err)
		}
	}
}
