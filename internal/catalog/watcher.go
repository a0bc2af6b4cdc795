package catalog

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventCallback is called for each watcher-observed document change.
// kind is "changed" or "removed"; path is library-relative.
type EventCallback func(kind string, path string)

// debounce is how long the watcher waits after the last relevant event
// before invalidating the catalog, so editor save bursts and bulk copies
// trigger a single rebuild.
const debounce = 200 * time.Millisecond

// Watch starts an fsnotify watcher on the library root and processes
// file change events until ctx is cancelled. Any event touching a
// recognized document (or a directory) schedules a debounced
// Invalidate on cat; queries themselves never stat storage, so the
// rebuild happens on the next query. cb (if non-nil) is called per
// document event.
//
// New directories created at runtime are added to the watch list along
// with any documents they already contain.
func Watch(ctx context.Context, cat *Catalog, root, ext string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	if err := addDirsRecursive(w, absRoot); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", absRoot))

	var invalidateTimer *time.Timer
	var invalidateCh <-chan time.Time

	scheduleInvalidate := func() {
		if invalidateTimer == nil {
			invalidateTimer = time.NewTimer(debounce)
			invalidateCh = invalidateTimer.C
		} else {
			invalidateTimer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if invalidateTimer != nil {
				invalidateTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-invalidateCh:
			cat.Invalidate()
			logger.Debug("watcher: catalog invalidated")

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			absPath := ev.Name

			// New directories join the watch list; anything already
			// inside them counts as a change.
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, absPath); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", absPath),
							slog.String("error", addErr.Error()))
					}
					notifyDirContents(absRoot, absPath, ext, cb)
					scheduleInvalidate()
					continue
				}
			}

			// A removed or renamed directory can no longer be stat'ed,
			// so paths without the document extension have to be treated
			// as possible directories (dir names may carry dots too).
			if !strings.HasSuffix(absPath, ext) {
				if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
					scheduleInvalidate()
				}
				continue
			}

			rel, relErr := filepath.Rel(absRoot, absPath)
			if relErr != nil {
				continue
			}
			rel = filepath.ToSlash(rel)

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				logger.Debug("watcher: document changed", slog.String("path", rel))
				if cb != nil {
					cb("changed", rel)
				}
				scheduleInvalidate()

			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				// fsnotify fires Rename on the old path; if the new
				// path lands inside a watched directory it arrives as
				// a separate Create event.
				logger.Debug("watcher: document removed", slog.String("path", rel))
				if cb != nil {
					cb("removed", rel)
				}
				scheduleInvalidate()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// notifyDirContents reports every recognized document already present in
// a newly created directory.
func notifyDirContents(root, dir, ext string, cb EventCallback) {
	if cb == nil {
		return
	}
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(d.Name(), ext) {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		cb("changed", filepath.ToSlash(rel))
		return nil
	})
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
