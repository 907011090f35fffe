package pubcollection

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/eringen/pubcollection/collection"
)

const watchDebounce = 300 * time.Millisecond

// Watch resyncs the collection whenever a document under the content
// directory changes. Bursts of events are coalesced. It blocks until ctx is
// cancelled.
func (a *App) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("pubcollection: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := addDirs(watcher, a.Config.ContentDir); err != nil {
		return fmt.Errorf("pubcollection: watch %s: %w", a.Config.ContentDir, err)
	}

	var debounce *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				if err := addDirs(watcher, event.Name); err != nil {
					a.log.Warn().Err(err).Str("dir", event.Name).Msg("watch new directory")
				}
			}
			if !relevant(event) {
				continue
			}
			a.log.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("content changed")
			if debounce == nil {
				debounce = time.NewTimer(watchDebounce)
			} else {
				debounce.Reset(watchDebounce)
			}
			fire = debounce.C

		case <-fire:
			fire = nil
			if _, err := a.Sync(ctx); err != nil {
				a.log.Error().Err(err).Msg("resync after change")
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.log.Warn().Err(err).Msg("watcher error")
		}
	}
}

// relevant reports whether event touches a document or a directory that
// may contain documents.
func relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	if collection.IsDocument(event.Name) {
		return true
	}
	// Removed or renamed directories no longer stat; treat extensionless
	// paths as possible directories.
	return filepath.Ext(event.Name) == "" || isDir(event.Name)
}

func addDirs(w *fsnotify.Watcher, root string) error {
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

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
