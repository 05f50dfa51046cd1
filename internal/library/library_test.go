package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/corbett/minibar/internal/core"
)

func TestKindForPath(t *testing.T) {
	tests := []struct {
		path string
		kind core.Kind
		ok   bool
	}{
		{"song.mp3", core.KindAudio, true},
		{"loop.WAV", core.KindAudio, true},
		{"album/track.flac", core.KindAudio, true},
		{"clip.mp4", core.KindVideo, true},
		{"clip.MKV", core.KindVideo, true},
		{"notes.txt", "", false},
		{"cover.jpg", "", false},
		{"noext", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			kind, ok := KindForPath(tt.path)
			if kind != tt.kind || ok != tt.ok {
				t.Errorf("KindForPath(%q) = %v/%t, want %v/%t", tt.path, kind, ok, tt.kind, tt.ok)
			}
		})
	}
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	write := func(rel string) {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("b.mp3")
	write("a.mp3")
	write("sub/clip.mp4")
	write("sub/readme.txt")
	write(".hidden/skip.mp3")

	entries, err := Scan(root)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Scan() found %d entries, want 3: %+v", len(entries), entries)
	}

	// Sorted by path, IDs assigned in order.
	wantTitles := []string{"a", "b", "clip"}
	for i, e := range entries {
		if e.Item.Title != wantTitles[i] {
			t.Errorf("entry %d title = %q, want %q", i, e.Item.Title, wantTitles[i])
		}
		if e.Item.ID != int64(i+1) {
			t.Errorf("entry %d id = %d, want %d", i, e.Item.ID, i+1)
		}
		if e.SizeBytes != 1 {
			t.Errorf("entry %d size = %d, want 1", i, e.SizeBytes)
		}
	}
	if entries[2].Item.Kind != core.KindVideo {
		t.Errorf("clip kind = %v, want video", entries[2].Item.Kind)
	}
}

func TestItemsFor(t *testing.T) {
	items := ItemsFor([]string{"one.mp3", "skip.txt", "two.mkv"})
	if len(items) != 2 {
		t.Fatalf("ItemsFor() = %d items, want 2", len(items))
	}
	if items[0].Kind != core.KindAudio || items[1].Kind != core.KindVideo {
		t.Errorf("kinds = %v/%v, want audio/video", items[0].Kind, items[1].Kind)
	}
	if items[0].Title != "one" || items[1].Title != "two" {
		t.Errorf("titles = %q/%q", items[0].Title, items[1].Title)
	}
}
