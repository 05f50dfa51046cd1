package video

import (
	"encoding/json"
	"fmt"

	"github.com/corbett/minibar/internal/engine"
)

// Property observation IDs registered at attach.
const (
	observeTimePos  = 1
	observeDuration = 2
)

// request is one mpv JSON IPC command line.
type request struct {
	Command []any `json:"command"`
}

// encodeCommand marshals an mpv command as a newline-terminated JSON
// line, the framing the IPC socket expects.
func encodeCommand(args ...any) ([]byte, error) {
	b, err := json.Marshal(request{Command: args})
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// message is one line read from the IPC socket. mpv multiplexes
// command replies and events on the same stream; replies carry Error,
// events carry Event.
type message struct {
	Event  string `json:"event"`
	Name   string `json:"name"`
	Data   any    `json:"data"`
	Reason string `json:"reason"`
	Error  string `json:"error"`
}

func parseMessage(line []byte) (message, error) {
	var m message
	if err := json.Unmarshal(line, &m); err != nil {
		return message{}, fmt.Errorf("parse mpv message %q: %w", line, err)
	}
	return m, nil
}

// translate maps an mpv event onto the engine event union. Messages
// with no session-relevant meaning (command replies, other events)
// translate to nil.
func translate(m message) engine.Event {
	switch m.Event {
	case "property-change":
		sec, ok := asSeconds(m.Data)
		if !ok {
			return nil
		}
		switch m.Name {
		case "time-pos":
			return engine.TimeUpdated{Seconds: sec}
		case "duration":
			return engine.DurationKnown{Seconds: sec}
		}
	case "end-file":
		if m.Reason == "error" {
			return engine.StartFailed{Err: fmt.Errorf("mpv: playback error")}
		}
		if m.Reason == "" || m.Reason == "eof" {
			return engine.Ended{}
		}
		// "stop" and "quit" are engine-initiated; the session already
		// knows.
	}
	return nil
}

func asSeconds(data any) (float64, bool) {
	switch v := data.(type) {
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
