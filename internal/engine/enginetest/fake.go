// Package enginetest provides a scripted in-memory engine for testing
// session behavior without real audio or video output.
package enginetest

import (
	"context"
	"fmt"
	"sync"

	"github.com/corbett/minibar/internal/core"
	"github.com/corbett/minibar/internal/engine"
)

// Fake is a recording engine. Tests drive playback events through Emit
// and inspect the recorded method calls.
type Fake struct {
	mu       sync.Mutex
	media    core.MediaItem
	sink     engine.Sink
	calls    []string
	detached bool

	// PlayErr, if set, is returned by Play.
	PlayErr error
}

// Media returns the item this engine was attached with.
func (f *Fake) Media() core.MediaItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.media
}

// Calls returns the recorded method calls in order.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// Detached reports whether Detach has been called.
func (f *Fake) Detached() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.detached
}

// Emit delivers an event to the session, mimicking an engine-internal
// goroutine. Events after Detach are swallowed, as the contract
// requires.
func (f *Fake) Emit(ev engine.Event) {
	f.mu.Lock()
	sink := f.sink
	dead := f.detached
	f.mu.Unlock()
	if dead || sink == nil {
		return
	}
	sink(ev)
}

// EmitStale delivers an event even after Detach, simulating a runtime
// that fires a late callback. The session's generation guard must drop
// it.
func (f *Fake) EmitStale(ev engine.Event) {
	f.mu.Lock()
	sink := f.sink
	f.mu.Unlock()
	if sink != nil {
		sink(ev)
	}
}

func (f *Fake) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *Fake) Play() error {
	f.record("play")
	return f.PlayErr
}

func (f *Fake) Pause() error {
	f.record("pause")
	return nil
}

func (f *Fake) SeekSeconds(sec float64) error {
	f.record(fmt.Sprintf("seek:%g", sec))
	return nil
}

func (f *Fake) SetVolume(v float64) error {
	f.record(fmt.Sprintf("volume:%g", v))
	return nil
}

func (f *Fake) SetMuted(m bool) error {
	f.record(fmt.Sprintf("muted:%t", m))
	return nil
}

func (f *Fake) Detach() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.detached {
		return nil
	}
	f.detached = true
	f.calls = append(f.calls, "detach")
	return nil
}

// Factory builds Fakes and records the attach/detach interleaving so
// tests can assert that at most one engine is live at a time.
type Factory struct {
	mu         sync.Mutex
	engines    []*Fake
	violations []string

	// NewErr, if set, makes New fail.
	NewErr error
	// NextPlayErr seeds PlayErr on the next engine built.
	NextPlayErr error
}

// New implements engine.Factory. Attaching while a previous engine is
// still live records a violation of the single-active-adapter rule.
func (f *Factory) New(_ context.Context, media core.MediaItem, sink engine.Sink) (engine.Engine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.NewErr != nil {
		return nil, f.NewErr
	}
	for _, e := range f.engines {
		if !e.Detached() {
			f.violations = append(f.violations,
				fmt.Sprintf("attach %q while %q still live", media.URL, e.Media().URL))
		}
	}
	fake := &Fake{media: media, sink: sink, PlayErr: f.NextPlayErr}
	f.NextPlayErr = nil
	f.engines = append(f.engines, fake)
	return fake, nil
}

// Violations returns every recorded overlap of two live engines.
func (f *Factory) Violations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.violations))
	copy(out, f.violations)
	return out
}

// Engines returns every engine built so far, in attach order.
func (f *Factory) Engines() []*Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*Fake, len(f.engines))
	copy(out, f.engines)
	return out
}

// Last returns the most recently attached engine, or nil.
func (f *Factory) Last() *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.engines) == 0 {
		return nil
	}
	return f.engines[len(f.engines)-1]
}

// LiveCount returns how many engines are attached and not detached.
func (f *Factory) LiveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.engines {
		if !e.Detached() {
			n++
		}
	}
	return n
}
