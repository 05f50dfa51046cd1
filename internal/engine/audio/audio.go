// Package audio plays audio media through the system speaker using
// beep. One engine owns the speaker at a time; the session guarantees
// the previous engine is detached before the next attach.
package audio

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"

	"github.com/corbett/minibar/internal/core"
	"github.com/corbett/minibar/internal/engine"
)

const (
	defaultSampleRate = 44100
	defaultBufferMs   = 100
	pollInterval      = 250 * time.Millisecond
)

var speakerInit sync.Once

// Factory builds audio engines. The zero value uses a 44.1kHz speaker
// with a 100ms buffer.
type Factory struct {
	SampleRate int
	BufferMs   int
}

// New implements engine.Factory. It opens and decodes the resource,
// initializes the speaker on first use, and queues the stream paused.
func (f *Factory) New(ctx context.Context, media core.MediaItem, sink engine.Sink) (engine.Engine, error) {
	rate := beep.SampleRate(f.SampleRate)
	if rate <= 0 {
		rate = defaultSampleRate
	}
	bufMs := f.BufferMs
	if bufMs <= 0 {
		bufMs = defaultBufferMs
	}

	src, cleanup, err := open(ctx, media.URL)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", media.URL, err)
	}

	streamer, format, err := decode(media.URL, src)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("decode %q: %w", media.URL, err)
	}

	var initErr error
	speakerInit.Do(func() {
		initErr = speaker.Init(rate, rate.N(time.Duration(bufMs)*time.Millisecond))
	})
	if initErr != nil {
		streamer.Close()
		cleanup()
		return nil, fmt.Errorf("init speaker: %w", initErr)
	}

	vol := &effects.Volume{
		Streamer: beep.Resample(4, format.SampleRate, rate, streamer),
		Base:     2,
	}
	e := &Engine{
		sink:     sink,
		streamer: streamer,
		format:   format,
		vol:      vol,
		ctrl:     &beep.Ctrl{Streamer: vol, Paused: true},
		cleanup:  cleanup,
		stop:     make(chan struct{}),
	}

	e.enqueue()
	go e.pollPosition()
	return e, nil
}

// Engine is one attached audio stream.
type Engine struct {
	mu       sync.Mutex
	sink     engine.Sink
	streamer beep.StreamSeekCloser
	format   beep.Format
	vol      *effects.Volume
	ctrl     *beep.Ctrl
	cleanup  func()

	volume   float64 // linear 0-1, last value stored
	muted    bool
	drained  bool // stream ran to the end and left the speaker
	detached bool
	stop     chan struct{}
	detachOnce sync.Once
}

// enqueue hands the stream to the speaker, paused, with an end-of-
// stream callback. Called at attach and again when restarting a
// drained stream.
func (e *Engine) enqueue() {
	e.ctrl.Paused = true
	speaker.Play(beep.Seq(e.ctrl, beep.Callback(func() {
		// The callback runs inside the speaker mixer with its lock
		// held; emitting from here would deadlock any handler that
		// touches the speaker.
		go e.onDrained()
	})))
}

func (e *Engine) onDrained() {
	e.mu.Lock()
	if e.detached {
		e.mu.Unlock()
		return
	}
	e.drained = true
	sink := e.sink
	e.mu.Unlock()
	sink(engine.Ended{})
}

// Play unpauses the stream, re-queueing it first if it had drained.
func (e *Engine) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.detached {
		return nil
	}
	speaker.Lock()
	if e.drained {
		e.drained = false
		speaker.Unlock()
		e.enqueue()
		speaker.Lock()
	}
	e.ctrl.Paused = false
	speaker.Unlock()
	return nil
}

// Pause halts output without releasing the stream.
func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.detached {
		return nil
	}
	speaker.Lock()
	e.ctrl.Paused = true
	speaker.Unlock()
	return nil
}

// SeekSeconds moves the stream to an absolute position.
func (e *Engine) SeekSeconds(sec float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.detached {
		return nil
	}
	if sec < 0 {
		sec = 0
	}
	n := e.format.SampleRate.N(time.Duration(sec * float64(time.Second)))
	if limit := e.streamer.Len(); n > limit {
		n = limit
	}
	speaker.Lock()
	err := e.streamer.Seek(n)
	speaker.Unlock()
	return err
}

// SetVolume stores the linear volume and applies it unless muted.
func (e *Engine) SetVolume(v float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.volume = v
	e.applyGainLocked()
	return nil
}

// SetMuted suppresses output without altering the stored volume.
func (e *Engine) SetMuted(muted bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.muted = muted
	e.applyGainLocked()
	return nil
}

func (e *Engine) applyGainLocked() {
	if e.detached {
		return
	}
	speaker.Lock()
	e.vol.Silent = e.muted || e.volume <= 0
	e.vol.Volume = linearToGain(e.volume)
	speaker.Unlock()
}

// Detach silences and releases the stream. Idempotent; no events are
// delivered after it returns.
func (e *Engine) Detach() error {
	e.detachOnce.Do(func() {
		e.mu.Lock()
		e.detached = true
		close(e.stop)
		e.mu.Unlock()

		speaker.Clear()
		e.streamer.Close()
		e.cleanup()
	})
	return nil
}

// pollPosition reports the duration once and the position every tick,
// mirroring how UI runtimes deliver loadedmetadata and timeupdate.
func (e *Engine) pollPosition() {
	e.mu.Lock()
	sink := e.sink
	e.mu.Unlock()

	if d := e.durationSeconds(); d > 0 {
		sink(engine.DurationKnown{Seconds: d})
	}

	tick := time.NewTicker(pollInterval)
	defer tick.Stop()
	for {
		select {
		case <-e.stop:
			return
		case <-tick.C:
			e.mu.Lock()
			dead := e.detached
			e.mu.Unlock()
			if dead {
				return
			}
			speaker.Lock()
			pos := e.streamer.Position()
			speaker.Unlock()
			sink(engine.TimeUpdated{Seconds: float64(pos) / float64(e.format.SampleRate)})
		}
	}
}

func (e *Engine) durationSeconds() float64 {
	speaker.Lock()
	n := e.streamer.Len()
	speaker.Unlock()
	if n <= 0 {
		return 0
	}
	return float64(n) / float64(e.format.SampleRate)
}

// linearToGain maps a linear 0-1 volume onto the Volume effect's log2
// gain scale. Zero maps to silence via the Silent flag, not gain.
func linearToGain(v float64) float64 {
	if v <= 0 {
		return 0
	}
	if v > 1 {
		v = 1
	}
	return math.Log2(v)
}

// open resolves the media URL to a local seekable file. Remote http(s)
// resources are fetched to a temp file first: the decoders need seek,
// and response bodies do not have it.
func open(ctx context.Context, url string) (*os.File, func(), error) {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return fetch(ctx, url)
	}

	f, err := os.Open(strings.TrimPrefix(url, "file://"))
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

func fetch(ctx context.Context, url string) (*os.File, func(), error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", "minibar-*"+filepath.Ext(url))
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}
	if _, err := tmp.ReadFrom(resp.Body); err != nil {
		cleanup()
		return nil, nil, err
	}
	if _, err := tmp.Seek(0, 0); err != nil {
		cleanup()
		return nil, nil, err
	}
	return tmp, cleanup, nil
}

// decode picks a decoder from the file extension.
func decode(url string, src *os.File) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(stripQuery(url)), ".")) {
	case "mp3":
		return mp3.Decode(src)
	case "wav":
		return wav.Decode(src)
	case "flac":
		return flac.Decode(src)
	case "ogg", "oga":
		return vorbis.Decode(src)
	default:
		return nil, beep.Format{}, fmt.Errorf("unsupported audio format: %s", url)
	}
}

func stripQuery(url string) string {
	if i := strings.IndexByte(url, '?'); i >= 0 {
		return url[:i]
	}
	return url
}
