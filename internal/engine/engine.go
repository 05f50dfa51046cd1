// Package engine defines the contract between the playback session and
// the underlying media runtimes. An Engine owns exactly one playable
// element for one media item; the session attaches a new engine per
// item and detaches it before attaching the next.
package engine

import (
	"context"
	"errors"

	"github.com/corbett/minibar/internal/core"
)

// ErrNoEngine is returned by a Factory when no engine implementation
// can play the given media kind.
var ErrNoEngine = errors.New("no engine for media kind")

// Event is a playback event emitted by an engine. The set is closed:
// sessions consume events with an exhaustive type switch.
type Event interface {
	isEvent()
}

// TimeUpdated reports the current playback position.
type TimeUpdated struct {
	Seconds float64
}

// DurationKnown reports the media duration once the engine has it.
type DurationKnown struct {
	Seconds float64
}

// Ended reports that playback reached the end of the media.
type Ended struct{}

// StartFailed reports that an attempt to start playback failed
// asynchronously (resource unavailable, decode error). The session
// reverts its optimistic playing flag when it sees this.
type StartFailed struct {
	Err error
}

func (TimeUpdated) isEvent()   {}
func (DurationKnown) isEvent() {}
func (Ended) isEvent()         {}
func (StartFailed) isEvent()   {}

// Sink receives events from an engine. Engines deliver events from
// their own goroutines only, never synchronously from inside a Factory
// or Engine method call; the sink may take locks that the caller of
// those methods already holds.
type Sink func(Event)

// Engine is an attached playback element for a single media item.
//
// Detach is idempotent and must silence the engine completely: after it
// returns, no further events are delivered to the sink and no audio or
// video output is produced.
type Engine interface {
	Play() error
	Pause() error
	SeekSeconds(sec float64) error
	SetVolume(v float64) error
	SetMuted(muted bool) error
	Detach() error
}

// Factory constructs an engine bound to a media item. Construction
// begins loading the resource. Events flow to sink until Detach.
type Factory interface {
	New(ctx context.Context, media core.MediaItem, sink Sink) (Engine, error)
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func(ctx context.Context, media core.MediaItem, sink Sink) (Engine, error)

// New calls f.
func (f FactoryFunc) New(ctx context.Context, media core.MediaItem, sink Sink) (Engine, error) {
	return f(ctx, media, sink)
}

// Dispatch routes engines by media kind, one factory per kind.
type Dispatch struct {
	Audio Factory
	Video Factory
}

// New selects the factory matching media.Kind.
func (d Dispatch) New(ctx context.Context, media core.MediaItem, sink Sink) (Engine, error) {
	switch media.Kind {
	case core.KindAudio:
		if d.Audio != nil {
			return d.Audio.New(ctx, media, sink)
		}
	case core.KindVideo:
		if d.Video != nil {
			return d.Video.New(ctx, media, sink)
		}
	}
	return nil, ErrNoEngine
}
