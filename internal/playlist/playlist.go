// Package playlist supplies the playlist semantics the session itself
// deliberately lacks. It owns the "what plays next" decision and wires
// itself into the session's next/prev hooks.
package playlist

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/corbett/minibar/internal/core"
	"github.com/corbett/minibar/internal/session"
)

// Playlist is an ordered list of media items with a cursor. Next and
// Prev wrap around the ends; shuffle picks uniformly among the other
// items.
type Playlist struct {
	mu    sync.Mutex
	items []core.MediaItem
	idx   int
	rng   *rand.Rand
}

// Option configures a Playlist.
type Option func(*Playlist)

// WithRand seeds the shuffle source, for deterministic tests.
func WithRand(rng *rand.Rand) Option {
	return func(p *Playlist) { p.rng = rng }
}

// New creates a playlist positioned on the first item.
func New(items []core.MediaItem, opts ...Option) *Playlist {
	p := &Playlist{
		items: append([]core.MediaItem(nil), items...),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Len returns the number of items.
func (p *Playlist) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}

// Current returns the item under the cursor.
func (p *Playlist) Current() (core.MediaItem, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.items) == 0 {
		return core.MediaItem{}, false
	}
	return p.items[p.idx], true
}

// Next advances the cursor and returns the new item. With shuffle, the
// cursor jumps to a random other item; otherwise it wraps past the
// last item to the first.
func (p *Playlist) Next(shuffled bool) (core.MediaItem, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.items) == 0 {
		return core.MediaItem{}, false
	}
	p.idx = p.pickLocked(shuffled, +1)
	return p.items[p.idx], true
}

// Prev moves the cursor back and returns the new item, wrapping from
// the first item to the last. Shuffle picks a random other item, same
// as Next: there is no shuffle history.
func (p *Playlist) Prev(shuffled bool) (core.MediaItem, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.items) == 0 {
		return core.MediaItem{}, false
	}
	p.idx = p.pickLocked(shuffled, -1)
	return p.items[p.idx], true
}

func (p *Playlist) pickLocked(shuffled bool, step int) int {
	n := len(p.items)
	if n == 1 {
		return 0
	}
	if shuffled {
		next := p.rng.Intn(n - 1)
		if next >= p.idx {
			next++ // never re-pick the current item
		}
		return next
	}
	return ((p.idx+step)%n + n) % n
}

// Attach installs the playlist as the session's advance policy: the
// session's end-of-media and next/prev gestures pull items from here.
// The shuffle decision comes from the session's flag at the moment of
// each advance.
func (p *Playlist) Attach(ctx context.Context, s *session.Session) {
	s.SetHooks(session.Hooks{
		OnNext: func() {
			if item, ok := p.Next(s.Snapshot().Shuffled); ok {
				s.Show(ctx, item)
			}
		},
		OnPrev: func() {
			if item, ok := p.Prev(s.Snapshot().Shuffled); ok {
				s.Show(ctx, item)
			}
		},
	})
}
