// Package library scans a directory for playable media and hands the
// results to the CLI as ready-made media items.
package library

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/corbett/minibar/internal/core"
)

var audioExts = []string{".mp3", ".wav", ".flac", ".ogg", ".oga"}
var videoExts = []string{".mp4", ".mkv", ".webm", ".mov"}

// KindForPath classifies a file by extension. The second return is
// false for anything the player cannot handle.
func KindForPath(path string) (core.Kind, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if lo.Contains(audioExts, ext) {
		return core.KindAudio, true
	}
	if lo.Contains(videoExts, ext) {
		return core.KindVideo, true
	}
	return "", false
}

// Entry is one playable file found in the library.
type Entry struct {
	Item      core.MediaItem
	SizeBytes int64
}

// Scan walks root and returns every playable file, sorted by path.
// IDs are assigned in sort order and are stable for a given tree.
func Scan(root string) ([]Entry, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := KindForPath(path); ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	return lo.Map(paths, func(path string, i int) Entry {
		kind, _ := KindForPath(path)
		var size int64
		if info, err := os.Stat(path); err == nil {
			size = info.Size()
		}
		return Entry{
			Item: core.MediaItem{
				ID:    int64(i + 1),
				URL:   path,
				Kind:  kind,
				Title: titleFor(path),
			},
			SizeBytes: size,
		}
	}), nil
}

// ItemsFor builds media items directly from explicit paths, in the
// order given. Unplayable paths are skipped.
func ItemsFor(paths []string) []core.MediaItem {
	playable := lo.Filter(paths, func(path string, _ int) bool {
		_, ok := KindForPath(path)
		return ok
	})
	return lo.Map(playable, func(path string, i int) core.MediaItem {
		kind, _ := KindForPath(path)
		return core.MediaItem{
			ID:    int64(i + 1),
			URL:   path,
			Kind:  kind,
			Title: titleFor(path),
		}
	})
}

func titleFor(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
