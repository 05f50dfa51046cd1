// Package session implements the mini-player coordinator: one media
// item at a time, one live engine at a time, and the policy for what
// happens when playback ends.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/corbett/minibar/internal/core"
	"github.com/corbett/minibar/internal/engine"
	"github.com/corbett/minibar/internal/logging"
)

// DefaultGracePeriod is how long a hidden player keeps its media before
// dropping to idle, so the exit animation can finish.
const DefaultGracePeriod = 300 * time.Millisecond

// Hooks are the caller-supplied playlist callbacks. The session holds
// no playlist of its own: "next" and "previous" only mean something to
// the screen that opened the player.
type Hooks struct {
	OnNext func()
	OnPrev func()
}

// Session is the process-wide playback coordinator. All methods are
// safe for concurrent use; engine callbacks, the grace timer and UI
// goroutines serialize on one mutex.
type Session struct {
	mu sync.Mutex

	factory engine.Factory
	hooks   Hooks
	grace   time.Duration

	media     *core.MediaItem
	phase     core.Phase
	progress  float64 // percent, 0-100
	duration  float64 // seconds
	volume    float64 // 0-1
	muted     bool
	shuffled  bool
	repeating bool

	eng        engine.Engine
	generation uint64 // bumped on every attach; stale events carry an old value
	hideTimer  *time.Timer

	onChange []func(core.PlaybackState)
}

// Option configures a Session at construction.
type Option func(*Session)

// WithGracePeriod overrides the hide grace period.
func WithGracePeriod(d time.Duration) Option {
	return func(s *Session) { s.grace = d }
}

// WithHooks installs the playlist callbacks.
func WithHooks(h Hooks) Option {
	return func(s *Session) { s.hooks = h }
}

// WithVolume sets the initial volume, clamped to [0,1].
func WithVolume(v float64) Option {
	return func(s *Session) { s.volume = clamp01(v) }
}

// WithShuffle sets the initial shuffle flag.
func WithShuffle(on bool) Option {
	return func(s *Session) { s.shuffled = on }
}

// WithRepeat sets the initial repeat flag.
func WithRepeat(on bool) Option {
	return func(s *Session) { s.repeating = on }
}

// New creates an idle session that builds engines with the given
// factory. The caller owns the session for the life of the app and
// injects it wherever playback control is needed.
func New(factory engine.Factory, opts ...Option) *Session {
	s := &Session{
		factory: factory,
		grace:   DefaultGracePeriod,
		phase:   core.PhaseIdle,
		volume:  1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetHooks replaces the playlist callbacks. The owning screen calls
// this when it takes over the player.
func (s *Session) SetHooks(h Hooks) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = h
}

// OnChange registers a callback invoked with a fresh snapshot after
// every state change. Callbacks run while no session lock is held.
func (s *Session) OnChange(fn func(core.PlaybackState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

// Show loads the media item and starts playing it, replacing whatever
// was active. Unsupported kinds are ignored: upstream callers pass a
// larger media taxonomy than the player supports, and expect no player
// to appear rather than an error.
func (s *Session) Show(ctx context.Context, media core.MediaItem) {
	if !media.Kind.Supported() {
		logging.WithField("kind", string(media.Kind)).Warnf("show: unsupported media kind, ignoring")
		return
	}

	s.mu.Lock()
	s.cancelHideLocked()
	s.detachLocked()

	m := media
	s.media = &m
	s.phase = core.PhasePlaying
	s.progress = 0
	s.duration = 0

	eng, err := s.factory.New(ctx, media, s.newSinkLocked())
	if err != nil {
		logging.Errorf("show: attach engine: %v", err)
		s.phase = core.PhasePaused
		s.notifyLocked()
		return
	}
	s.eng = eng

	s.applyVolumeLocked()
	if err := eng.Play(); err != nil {
		logging.Errorf("show: play: %v", err)
		s.phase = core.PhasePaused
	}
	s.notifyLocked()
}

// Hide dismisses the player. Playback pauses immediately; the media
// reference survives for the grace period so the exit animation has
// something to render, then the session drops to idle. Calling Hide
// again while hiding is a no-op.
func (s *Session) Hide() {
	s.mu.Lock()
	switch s.phase {
	case core.PhaseIdle, core.PhaseHiding:
		s.mu.Unlock()
		return
	}

	if s.eng != nil {
		if err := s.eng.Pause(); err != nil {
			logging.Warnf("hide: pause: %v", err)
		}
	}
	s.phase = core.PhaseHiding
	s.hideTimer = time.AfterFunc(s.grace, s.finishHide)
	s.notifyLocked()
}

// finishHide completes the Hiding -> Idle transition when the grace
// timer fires. A Show in the meantime cancels the timer, but the timer
// may already be in flight, so re-check the phase under the lock.
func (s *Session) finishHide() {
	s.mu.Lock()
	if s.phase != core.PhaseHiding {
		s.mu.Unlock()
		return
	}
	s.detachLocked()
	s.media = nil
	s.phase = core.PhaseIdle
	s.progress = 0
	s.duration = 0
	s.hideTimer = nil
	s.notifyLocked()
}

// TogglePlay flips between playing and paused. No-op when idle or
// hiding.
func (s *Session) TogglePlay() {
	s.mu.Lock()
	switch s.phase {
	case core.PhasePlaying:
		if s.eng != nil {
			if err := s.eng.Pause(); err != nil {
				logging.Warnf("toggle: pause: %v", err)
			}
		}
		s.phase = core.PhasePaused
	case core.PhasePaused:
		// Optimistic: flip to playing on user intent, revert if the
		// engine reports StartFailed.
		s.phase = core.PhasePlaying
		if s.eng != nil {
			if err := s.eng.Play(); err != nil {
				logging.Warnf("toggle: play: %v", err)
				s.phase = core.PhasePaused
			}
		}
	default:
		s.mu.Unlock()
		return
	}
	s.notifyLocked()
}

// SetProgress scrubs to the given percent of the duration. The stored
// progress updates immediately so the UI tracks the user's finger;
// the engine seek is skipped while the duration is unknown.
func (s *Session) SetProgress(pct float64) {
	s.mu.Lock()
	if s.media == nil {
		s.mu.Unlock()
		return
	}
	pct = clampPct(pct)
	s.progress = pct
	if s.eng != nil && s.duration > 0 {
		if err := s.eng.SeekSeconds(pct / 100 * s.duration); err != nil {
			logging.Warnf("seek: %v", err)
		}
	}
	s.notifyLocked()
}

// SetVolume stores the volume and forwards it to the engine. Muted is
// recomputed from the new value: setting volume to zero mutes, setting
// it to anything else unmutes.
func (s *Session) SetVolume(v float64) {
	s.mu.Lock()
	s.volume = clamp01(v)
	s.muted = s.volume == 0
	s.applyVolumeLocked()
	s.notifyLocked()
}

// ToggleMute flips the mute flag without touching the stored volume.
// Unmuting with a stored volume of zero stays silent until the volume
// is raised.
func (s *Session) ToggleMute() {
	s.mu.Lock()
	s.muted = !s.muted
	s.applyVolumeLocked()
	s.notifyLocked()
}

// ToggleShuffle flips the shuffle flag. Consulted only by the caller's
// advance logic at end of media.
func (s *Session) ToggleShuffle() {
	s.mu.Lock()
	s.shuffled = !s.shuffled
	s.notifyLocked()
}

// ToggleRepeat flips the repeat flag, consulted at end of media.
func (s *Session) ToggleRepeat() {
	s.mu.Lock()
	s.repeating = !s.repeating
	s.notifyLocked()
}

// Next invokes the caller-supplied next hook, if any.
func (s *Session) Next() {
	s.mu.Lock()
	fn := s.hooks.OnNext
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Prev invokes the caller-supplied previous hook, if any.
func (s *Session) Prev() {
	s.mu.Lock()
	fn := s.hooks.OnPrev
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Snapshot returns the current state for rendering.
func (s *Session) Snapshot() core.PlaybackState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Close tears the session down: detach the engine, cancel any pending
// hide, drop to idle. Safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	s.cancelHideLocked()
	s.detachLocked()
	s.media = nil
	s.phase = core.PhaseIdle
	s.progress = 0
	s.duration = 0
	s.notifyLocked()
}

// newSinkLocked bumps the attach generation and returns a sink bound
// to it. Events delivered after the next attach carry a stale
// generation and are dropped, so a superseded engine can never mutate
// the session even if its runtime fires a late callback.
func (s *Session) newSinkLocked() engine.Sink {
	s.generation++
	gen := s.generation
	return func(ev engine.Event) {
		s.handleEvent(gen, ev)
	}
}

func (s *Session) handleEvent(gen uint64, ev engine.Event) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}

	switch ev := ev.(type) {
	case engine.TimeUpdated:
		// Progress is frozen at its last value while the duration is
		// unknown; a normalized position would be meaningless.
		if s.duration > 0 {
			s.progress = clampPct(ev.Seconds / s.duration * 100)
		}
	case engine.DurationKnown:
		if ev.Seconds > 0 {
			s.duration = ev.Seconds
		}
	case engine.Ended:
		s.handleEndedLocked()
		return // handleEndedLocked notifies and unlocks
	case engine.StartFailed:
		logging.Errorf("playback start failed: %v", ev.Err)
		if s.phase == core.PhasePlaying {
			s.phase = core.PhasePaused
		}
	}
	s.notifyLocked()
}

// handleEndedLocked applies the end-of-media policy: repeat loops the
// current item in place, otherwise the caller's next hook decides.
func (s *Session) handleEndedLocked() {
	if s.repeating {
		s.progress = 0
		if s.eng != nil {
			if err := s.eng.SeekSeconds(0); err != nil {
				logging.Warnf("repeat: seek: %v", err)
			}
			s.phase = core.PhasePlaying
			if err := s.eng.Play(); err != nil {
				logging.Warnf("repeat: play: %v", err)
				s.phase = core.PhasePaused
			}
		}
		s.notifyLocked()
		return
	}

	s.phase = core.PhasePaused
	s.progress = 100
	fn := s.hooks.OnNext
	s.notifyLocked()
	if fn != nil {
		fn()
	}
}

// detachLocked tears down the live engine, if any. Bumping the
// generation first guarantees no event from the dying engine lands
// after we let go of it.
func (s *Session) detachLocked() {
	if s.eng == nil {
		return
	}
	s.generation++
	if err := s.eng.Detach(); err != nil {
		logging.Warnf("detach: %v", err)
	}
	s.eng = nil
}

func (s *Session) cancelHideLocked() {
	if s.hideTimer != nil {
		s.hideTimer.Stop()
		s.hideTimer = nil
	}
}

func (s *Session) applyVolumeLocked() {
	if s.eng == nil {
		return
	}
	if err := s.eng.SetVolume(s.volume); err != nil {
		logging.Warnf("set volume: %v", err)
	}
	if err := s.eng.SetMuted(s.muted); err != nil {
		logging.Warnf("set muted: %v", err)
	}
}

func (s *Session) snapshotLocked() core.PlaybackState {
	st := core.PlaybackState{
		Phase:           s.phase,
		ProgressPercent: s.progress,
		DurationSeconds: s.duration,
		Volume:          s.volume,
		Muted:           s.muted,
		Shuffled:        s.shuffled,
		Repeating:       s.repeating,
	}
	if s.media != nil {
		m := *s.media
		st.Media = &m
	}
	return st
}

// notifyLocked snapshots under the lock, releases it, then invokes the
// change callbacks. Callers must hold the lock and must not use it
// after the call returns.
func (s *Session) notifyLocked() {
	st := s.snapshotLocked()
	cbs := s.onChange
	s.mu.Unlock()
	for _, cb := range cbs {
		cb(st)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
