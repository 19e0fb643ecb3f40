package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher turns filesystem activity under the download root into wake
// signals for the pipeline. Signals are coalesced; the periodic rescan
// remains the source of truth, the watcher only shortens its latency.
type Watcher struct {
	root string
	log  *slog.Logger
}

func NewWatcher(root string, log *slog.Logger) *Watcher {
	if log == nil {
		log = slog.Default()
	}
	return &Watcher{root: root, log: log}
}

// Run watches the root and its subdirectories until ctx is cancelled,
// sending on wake whenever anything changes. New directories are added
// to the watch as they appear.
func (w *Watcher) Run(ctx context.Context, wake chan<- struct{}) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := w.addRecursive(fsw, w.root); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				// New directories need their own watch before files
				// land inside them.
				if err := w.addRecursive(fsw, event.Name); err != nil {
					w.log.Debug("watch add failed", "path", event.Name, "error", err)
				}
			}
			select {
			case wake <- struct{}{}:
			default:
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "error", err)
		}
	}
}

// addRecursive watches path and any directories below it. Non-directory
// paths are ignored.
func (w *Watcher) addRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := fsw.Add(path); err != nil {
			w.log.Debug("watch add failed", "path", path, "error", err)
		}
		return nil
	})
}
