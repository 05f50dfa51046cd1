package video

import (
	"testing"

	"github.com/corbett/minibar/internal/engine"
)

func TestEncodeCommand(t *testing.T) {
	tests := []struct {
		name string
		args []any
		want string
	}{
		{"pause", []any{"set_property", "pause", true}, `{"command":["set_property","pause",true]}` + "\n"},
		{"seek", []any{"seek", 12.5, "absolute"}, `{"command":["seek",12.5,"absolute"]}` + "\n"},
		{"quit", []any{"quit"}, `{"command":["quit"]}` + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := encodeCommand(tt.args...)
			if err != nil {
				t.Fatalf("encodeCommand() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("encodeCommand() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		line string
		want engine.Event
	}{
		{
			"time position",
			`{"event":"property-change","id":1,"name":"time-pos","data":42.25}`,
			engine.TimeUpdated{Seconds: 42.25},
		},
		{
			"duration",
			`{"event":"property-change","id":2,"name":"duration","data":180.5}`,
			engine.DurationKnown{Seconds: 180.5},
		},
		{
			"time position without data",
			`{"event":"property-change","id":1,"name":"time-pos","data":null}`,
			nil,
		},
		{
			"end of file",
			`{"event":"end-file","reason":"eof"}`,
			engine.Ended{},
		},
		{
			"stop is engine-initiated",
			`{"event":"end-file","reason":"stop"}`,
			nil,
		},
		{
			"command reply",
			`{"error":"success","data":null}`,
			nil,
		},
		{
			"unrelated event",
			`{"event":"file-loaded"}`,
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := parseMessage([]byte(tt.line))
			if err != nil {
				t.Fatalf("parseMessage() error = %v", err)
			}
			got := translate(m)
			if got != tt.want {
				t.Errorf("translate(%s) = %#v, want %#v", tt.line, got, tt.want)
			}
		})
	}
}

func TestTranslatePlaybackError(t *testing.T) {
	m, err := parseMessage([]byte(`{"event":"end-file","reason":"error"}`))
	if err != nil {
		t.Fatalf("parseMessage() error = %v", err)
	}
	ev, ok := translate(m).(engine.StartFailed)
	if !ok {
		t.Fatalf("translate() = %#v, want StartFailed", translate(m))
	}
	if ev.Err == nil {
		t.Error("StartFailed carries no error")
	}
}

func TestParseMessageRejectsGarbage(t *testing.T) {
	if _, err := parseMessage([]byte("not json")); err == nil {
		t.Error("parseMessage accepted garbage")
	}
}
