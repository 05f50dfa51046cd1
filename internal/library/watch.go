package library

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/corbett/minibar/internal/logging"
)

// Watch monitors root for media files appearing, changing or
// disappearing, invoking fn once per relevant event. It blocks until
// ctx is cancelled.
func Watch(ctx context.Context, root string, fn func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// fsnotify does not recurse; register each subdirectory.
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op.Has(fsnotify.Create) {
				// New directories need their own watch.
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = watcher.Add(ev.Name)
				}
			}
			if _, playable := KindForPath(ev.Name); playable {
				fn()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warnf("library watch: %v", err)
		}
	}
}
