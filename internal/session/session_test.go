package session

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/corbett/minibar/internal/core"
	"github.com/corbett/minibar/internal/engine"
	"github.com/corbett/minibar/internal/engine/enginetest"
	"github.com/corbett/minibar/internal/logging"
)

func TestMain(m *testing.M) {
	logging.Silence()
	os.Exit(m.Run())
}

const testGrace = 20 * time.Millisecond

func audioItem(id int64, url string) core.MediaItem {
	return core.MediaItem{ID: id, URL: url, Kind: core.KindAudio}
}

func videoItem(id int64, url string) core.MediaItem {
	return core.MediaItem{ID: id, URL: url, Kind: core.KindVideo}
}

func newTestSession(opts ...Option) (*Session, *enginetest.Factory) {
	f := &enginetest.Factory{}
	opts = append([]Option{WithGracePeriod(testGrace)}, opts...)
	return New(f, opts...), f
}

// waitFor polls until cond holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not reached before deadline")
}

func TestShowStartsPlayback(t *testing.T) {
	s, f := newTestSession()
	s.Show(context.Background(), audioItem(1, "a.mp3"))

	st := s.Snapshot()
	if !st.IsActive() || !st.IsPlaying() {
		t.Errorf("after Show: phase = %v, want playing", st.Phase)
	}
	if st.Media == nil || st.Media.ID != 1 {
		t.Errorf("after Show: media = %+v, want id 1", st.Media)
	}
	if st.ProgressPercent != 0 || st.DurationSeconds != 0 {
		t.Errorf("after Show: progress/duration = %v/%v, want 0/0", st.ProgressPercent, st.DurationSeconds)
	}
	eng := f.Last()
	if eng == nil {
		t.Fatal("no engine attached")
	}
	calls := eng.Calls()
	if len(calls) == 0 || calls[len(calls)-1] != "play" {
		t.Errorf("engine calls = %v, want play last", calls)
	}
}

func TestUnsupportedKindIgnored(t *testing.T) {
	s, f := newTestSession()
	s.Show(context.Background(), core.MediaItem{ID: 9, URL: "x.gif", Kind: "image"})

	if st := s.Snapshot(); st.Phase != core.PhaseIdle || st.Media != nil {
		t.Errorf("unsupported kind mutated session: %+v", st)
	}
	if len(f.Engines()) != 0 {
		t.Errorf("engine attached for unsupported kind")
	}
}

func TestSingleActiveEngine(t *testing.T) {
	s, f := newTestSession()
	ctx := context.Background()

	s.Show(ctx, audioItem(1, "a.mp3"))
	s.Show(ctx, audioItem(2, "b.mp3"))
	s.Show(ctx, videoItem(3, "c.mp4"))

	if v := f.Violations(); len(v) != 0 {
		t.Errorf("overlapping live engines: %v", v)
	}
	if n := f.LiveCount(); n != 1 {
		t.Errorf("live engines = %d, want 1", n)
	}
	engines := f.Engines()
	if len(engines) != 3 {
		t.Fatalf("engines attached = %d, want 3", len(engines))
	}
	for i, e := range engines[:2] {
		if !e.Detached() {
			t.Errorf("engine %d not detached after being superseded", i)
		}
	}
	if got := engines[2].Media().ID; got != 3 {
		t.Errorf("live engine media = %d, want 3", got)
	}
}

func TestProgressStaysInBounds(t *testing.T) {
	s, f := newTestSession()
	s.Show(context.Background(), audioItem(1, "a.mp3"))
	eng := f.Last()

	check := func(label string) {
		t.Helper()
		if p := s.Snapshot().ProgressPercent; p < 0 || p > 100 {
			t.Errorf("%s: progress = %v, out of [0,100]", label, p)
		}
	}

	// Time events before the duration is known must not move progress.
	eng.Emit(engine.TimeUpdated{Seconds: 42})
	if p := s.Snapshot().ProgressPercent; p != 0 {
		t.Errorf("progress moved without duration: %v", p)
	}

	eng.Emit(engine.DurationKnown{Seconds: 100})
	eng.Emit(engine.TimeUpdated{Seconds: 250})
	check("time beyond duration")

	eng.Emit(engine.TimeUpdated{Seconds: -1})
	check("negative time")

	s.SetProgress(150)
	check("scrub past end")
	s.SetProgress(-5)
	check("scrub before start")
}

func TestHideIsIdempotent(t *testing.T) {
	s, f := newTestSession()
	s.Show(context.Background(), audioItem(1, "a.mp3"))

	s.Hide()
	s.Hide()

	st := s.Snapshot()
	if st.IsActive() {
		t.Error("still active immediately after Hide")
	}
	calls := f.Last().Calls()
	pauses := 0
	for _, c := range calls {
		if c == "pause" {
			pauses++
		}
	}
	if pauses != 1 {
		t.Errorf("pause called %d times for double Hide, want 1", pauses)
	}

	waitFor(t, func() bool { return s.Snapshot().Phase == core.PhaseIdle })
	if st := s.Snapshot(); st.Media != nil {
		t.Errorf("media retained after grace period: %+v", st.Media)
	}
	if !f.Last().Detached() {
		t.Error("engine not detached after grace period")
	}
}

func TestMuteVolumeInteraction(t *testing.T) {
	s, _ := newTestSession()
	s.Show(context.Background(), audioItem(1, "a.mp3"))

	s.SetVolume(0)
	if st := s.Snapshot(); !st.Muted || st.Volume != 0 {
		t.Errorf("SetVolume(0): muted=%t volume=%v, want muted at 0", st.Muted, st.Volume)
	}

	// An explicit volume recomputes mute; a mute toggle never touches
	// the stored volume.
	s.ToggleMute()
	s.SetVolume(0.5)
	if st := s.Snapshot(); st.Muted || st.Volume != 0.5 {
		t.Errorf("SetVolume(0.5) after ToggleMute: muted=%t volume=%v, want unmuted at 0.5", st.Muted, st.Volume)
	}

	s.ToggleMute()
	if st := s.Snapshot(); !st.Muted || st.Volume != 0.5 {
		t.Errorf("ToggleMute: muted=%t volume=%v, want muted with volume retained", st.Muted, st.Volume)
	}
}

func TestRepeatLoopsCurrentMedia(t *testing.T) {
	s, f := newTestSession(WithRepeat(true))
	s.Show(context.Background(), audioItem(1, "a.mp3"))
	eng := f.Last()
	eng.Emit(engine.DurationKnown{Seconds: 100})
	eng.Emit(engine.TimeUpdated{Seconds: 100})

	eng.Emit(engine.Ended{})

	st := s.Snapshot()
	if st.Media == nil || st.Media.ID != 1 {
		t.Errorf("repeat changed media: %+v", st.Media)
	}
	if st.ProgressPercent != 0 {
		t.Errorf("repeat: progress = %v, want 0", st.ProgressPercent)
	}
	if !st.IsPlaying() {
		t.Errorf("repeat: phase = %v, want playing", st.Phase)
	}
	if eng.Detached() {
		t.Error("repeat detached the engine")
	}
	var seeks int
	for _, c := range eng.Calls() {
		if c == "seek:0" {
			seeks++
		}
	}
	if seeks != 1 {
		t.Errorf("repeat: seek to 0 called %d times, want 1", seeks)
	}
}

func TestEndedInvokesNextExactlyOnce(t *testing.T) {
	var next atomic.Int32
	s, f := newTestSession(WithHooks(Hooks{OnNext: func() { next.Add(1) }}))
	s.Show(context.Background(), audioItem(1, "a.mp3"))

	f.Last().Emit(engine.Ended{})

	if got := next.Load(); got != 1 {
		t.Errorf("OnNext called %d times, want 1", got)
	}
	if st := s.Snapshot(); st.IsPlaying() {
		t.Error("still playing after Ended without repeat")
	}
}

func TestDefaultHooksAreInert(t *testing.T) {
	s, f := newTestSession()
	s.Show(context.Background(), audioItem(1, "a.mp3"))
	f.Last().Emit(engine.Ended{})
	s.Next()
	s.Prev()
	// Reaching here without a panic is the assertion.
	if st := s.Snapshot(); st.Media == nil {
		t.Error("media dropped by inert hooks")
	}
}

// The scripted walkthrough: show, toggle, scrub, hide.
func TestShowToggleScrubHide(t *testing.T) {
	s, f := newTestSession()
	s.Show(context.Background(), audioItem(1, "a.mp3"))

	s.TogglePlay()
	if st := s.Snapshot(); st.IsPlaying() {
		t.Fatalf("phase after toggle = %v, want paused", st.Phase)
	}

	eng := f.Last()
	eng.Emit(engine.DurationKnown{Seconds: 200})
	s.SetProgress(50)

	if st := s.Snapshot(); st.ProgressPercent != 50 {
		t.Errorf("progress = %v, want 50 (optimistic)", st.ProgressPercent)
	}
	var sawSeek bool
	for _, c := range eng.Calls() {
		if c == "seek:100" {
			sawSeek = true
		}
	}
	if !sawSeek {
		t.Errorf("engine calls = %v, want seek:100", eng.Calls())
	}

	s.Hide()
	if st := s.Snapshot(); st.IsActive() {
		t.Error("active immediately after Hide")
	}
	waitFor(t, func() bool { return s.Snapshot().Media == nil })
}

func TestScrubBeforeDurationSkipsSeek(t *testing.T) {
	s, f := newTestSession()
	s.Show(context.Background(), audioItem(1, "a.mp3"))

	s.SetProgress(50)

	for _, c := range f.Last().Calls() {
		if strings.HasPrefix(c, "seek:") {
			t.Errorf("seek issued before duration known: %v", f.Last().Calls())
		}
	}
	if p := s.Snapshot().ProgressPercent; p != 50 {
		t.Errorf("progress = %v, want optimistic 50", p)
	}
}

func TestShowCancelsPendingHide(t *testing.T) {
	s, f := newTestSession()
	ctx := context.Background()
	s.Show(ctx, audioItem(1, "a.mp3"))
	s.Hide()
	s.Show(ctx, audioItem(2, "b.mp3"))

	time.Sleep(3 * testGrace)

	st := s.Snapshot()
	if st.Media == nil || st.Media.ID != 2 {
		t.Fatalf("media = %+v, want id 2 to survive the stale grace timer", st.Media)
	}
	if !st.IsPlaying() {
		t.Errorf("phase = %v, want playing", st.Phase)
	}
	if n := f.LiveCount(); n != 1 {
		t.Errorf("live engines = %d, want 1", n)
	}
}

func TestStaleEventsAreDropped(t *testing.T) {
	s, f := newTestSession()
	ctx := context.Background()
	s.Show(ctx, audioItem(1, "a.mp3"))
	old := f.Last()
	old.Emit(engine.DurationKnown{Seconds: 100})

	s.Show(ctx, audioItem(2, "b.mp3"))
	cur := f.Last()
	cur.Emit(engine.DurationKnown{Seconds: 50})

	// A late callback from the superseded engine must not move state.
	old.EmitStale(engine.TimeUpdated{Seconds: 90})
	old.EmitStale(engine.Ended{})

	st := s.Snapshot()
	if st.ProgressPercent != 0 {
		t.Errorf("stale time event applied: progress = %v", st.ProgressPercent)
	}
	if st.DurationSeconds != 50 {
		t.Errorf("duration = %v, want 50", st.DurationSeconds)
	}
	if !st.IsPlaying() {
		t.Errorf("stale Ended applied: phase = %v", st.Phase)
	}
}

func TestPlayFailureRevertsPlaying(t *testing.T) {
	t.Run("synchronous", func(t *testing.T) {
		f := &enginetest.Factory{NextPlayErr: errors.New("autoplay blocked")}
		s := New(f, WithGracePeriod(testGrace))
		s.Show(context.Background(), audioItem(1, "a.mp3"))
		if st := s.Snapshot(); st.IsPlaying() {
			t.Errorf("phase = %v after failed play, want paused", st.Phase)
		}
	})

	t.Run("asynchronous", func(t *testing.T) {
		s, f := newTestSession()
		s.Show(context.Background(), audioItem(1, "a.mp3"))
		f.Last().Emit(engine.StartFailed{Err: errors.New("decode error")})
		if st := s.Snapshot(); st.IsPlaying() {
			t.Errorf("phase = %v after StartFailed, want paused", st.Phase)
		}
	})
}

func TestTogglePlayIdleIsNoop(t *testing.T) {
	s, f := newTestSession()
	s.TogglePlay()
	if st := s.Snapshot(); st.Phase != core.PhaseIdle {
		t.Errorf("phase = %v, want idle", st.Phase)
	}
	if len(f.Engines()) != 0 {
		t.Error("engine attached by TogglePlay on idle session")
	}
}

func TestOnChangeDeliversSnapshots(t *testing.T) {
	s, _ := newTestSession()
	var got atomic.Int32
	s.OnChange(func(st core.PlaybackState) {
		got.Add(1)
		if st.ProgressPercent < 0 || st.ProgressPercent > 100 {
			t.Errorf("callback snapshot out of bounds: %v", st.ProgressPercent)
		}
	})

	s.Show(context.Background(), audioItem(1, "a.mp3"))
	s.ToggleShuffle()
	s.ToggleRepeat()

	if got.Load() < 3 {
		t.Errorf("OnChange fired %d times, want >= 3", got.Load())
	}
	st := s.Snapshot()
	if !st.Shuffled || !st.Repeating {
		t.Errorf("flags = shuffle:%t repeat:%t, want both set", st.Shuffled, st.Repeating)
	}
}

func TestCloseDetachesAndResets(t *testing.T) {
	s, f := newTestSession()
	s.Show(context.Background(), audioItem(1, "a.mp3"))
	s.Close()
	s.Close()

	if st := s.Snapshot(); st.Phase != core.PhaseIdle || st.Media != nil {
		t.Errorf("after Close: %+v", st)
	}
	if n := f.LiveCount(); n != 0 {
		t.Errorf("live engines after Close = %d, want 0", n)
	}
}
