package audio

import (
	"math"
	"testing"
)

func TestLinearToGain(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"full", 1, 0},
		{"half", 0.5, -1},
		{"quarter", 0.25, -2},
		{"zero", 0, 0},
		{"negative", -3, 0},
		{"overdrive clamps", 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := linearToGain(tt.in); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("linearToGain(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestStripQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"song.mp3", "song.mp3"},
		{"https://cdn.example.com/a.mp3?token=abc", "https://cdn.example.com/a.mp3"},
		{"a.ogg?x=1?y=2", "a.ogg"},
	}

	for _, tt := range tests {
		if got := stripQuery(tt.in); got != tt.want {
			t.Errorf("stripQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
