// Package video plays video media in an mpv window controlled over its
// JSON IPC socket.
package video

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/corbett/minibar/internal/core"
	"github.com/corbett/minibar/internal/engine"
	"github.com/corbett/minibar/internal/logging"
)

const (
	defaultMPVPath = "mpv"
	dialAttempts   = 20
	dialBackoff    = 200 * time.Millisecond
)

var socketSeq atomic.Uint64

// Factory builds mpv-backed video engines. The zero value finds mpv on
// PATH and puts sockets in the system temp directory.
type Factory struct {
	MPVPath   string
	SocketDir string
}

// New implements engine.Factory. It launches an mpv instance paused on
// the media URL and connects to its IPC socket.
func (f *Factory) New(ctx context.Context, media core.MediaItem, sink engine.Sink) (engine.Engine, error) {
	path := f.MPVPath
	if path == "" {
		path = defaultMPVPath
	}
	dir := f.SocketDir
	if dir == "" {
		dir = os.TempDir()
	}
	sock := filepath.Join(dir, fmt.Sprintf("minibar-mpv-%d-%d.sock", os.Getpid(), socketSeq.Add(1)))

	cmd := exec.Command(path,
		"--no-terminal",
		"--keep-open=no",
		"--pause",
		"--input-ipc-server="+sock,
		media.URL,
	)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("launch mpv: %w", err)
	}

	conn, err := dialSocket(ctx, sock)
	if err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return nil, fmt.Errorf("connect to mpv: %w", err)
	}

	e := &Engine{
		sink: sink,
		cmd:  cmd,
		conn: conn,
		sock: sock,
	}

	// Observed properties drive TimeUpdated and DurationKnown.
	if err := e.send("observe_property", observeTimePos, "time-pos"); err != nil {
		e.Detach()
		return nil, err
	}
	if err := e.send("observe_property", observeDuration, "duration"); err != nil {
		e.Detach()
		return nil, err
	}

	go e.readLoop()
	return e, nil
}

// dialSocket connects to the IPC socket, retrying while mpv starts up.
func dialSocket(ctx context.Context, sock string) (net.Conn, error) {
	var err error
	for i := 0; i < dialAttempts; i++ {
		var conn net.Conn
		conn, err = net.Dial("unix", sock)
		if err == nil {
			return conn, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(dialBackoff):
		}
	}
	return nil, err
}

// Engine is one attached mpv instance.
type Engine struct {
	mu   sync.Mutex
	sink engine.Sink
	cmd  *exec.Cmd
	conn net.Conn
	sock string

	detached   bool
	detachOnce sync.Once
}

func (e *Engine) send(args ...any) error {
	b, err := encodeCommand(args...)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.detached {
		return nil
	}
	_, err = e.conn.Write(b)
	return err
}

// Play unpauses mpv.
func (e *Engine) Play() error {
	return e.send("set_property", "pause", false)
}

// Pause pauses mpv.
func (e *Engine) Pause() error {
	return e.send("set_property", "pause", true)
}

// SeekSeconds seeks to an absolute position.
func (e *Engine) SeekSeconds(sec float64) error {
	if sec < 0 {
		sec = 0
	}
	return e.send("seek", sec, "absolute")
}

// SetVolume maps the session's linear 0-1 volume onto mpv's 0-100.
func (e *Engine) SetVolume(v float64) error {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return e.send("set_property", "volume", v*100)
}

// SetMuted toggles mpv's mute property.
func (e *Engine) SetMuted(muted bool) error {
	return e.send("set_property", "mute", muted)
}

// Detach quits mpv and tears the connection down. Idempotent; no
// events are delivered after it returns.
func (e *Engine) Detach() error {
	e.detachOnce.Do(func() {
		e.mu.Lock()
		e.detached = true
		if b, err := encodeCommand("quit"); err == nil {
			_, _ = e.conn.Write(b)
		}
		_ = e.conn.Close()
		e.mu.Unlock()

		done := make(chan struct{})
		go func() {
			_ = e.cmd.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			_ = e.cmd.Process.Kill()
			<-done
		}
		_ = os.Remove(e.sock)
	})
	return nil
}

// readLoop translates IPC traffic into engine events until detach. A
// broken pipe with the engine still attached means mpv died under us;
// that surfaces as a start failure so the session lands on paused
// rather than a stuck playing state.
func (e *Engine) readLoop() {
	scanner := bufio.NewScanner(e.conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		m, err := parseMessage(scanner.Bytes())
		if err != nil {
			logging.Debugf("mpv: %v", err)
			continue
		}
		ev := translate(m)
		if ev == nil {
			continue
		}
		e.mu.Lock()
		dead := e.detached
		sink := e.sink
		e.mu.Unlock()
		if dead {
			return
		}
		sink(ev)
	}

	e.mu.Lock()
	dead := e.detached
	sink := e.sink
	e.mu.Unlock()
	if !dead {
		err := scanner.Err()
		if err == nil {
			err = fmt.Errorf("mpv: connection closed")
		}
		sink(engine.StartFailed{Err: err})
	}
}
