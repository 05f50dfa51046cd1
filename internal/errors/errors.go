package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrUnsupportedKind = errors.New("unsupported media kind")
	ErrNoMedia         = errors.New("no media loaded")
	ErrPlaybackStart   = errors.New("playback failed to start")
	ErrSeekUnavailable = errors.New("seek unavailable before duration is known")
	ErrMediaNotFound   = errors.New("media file not found")
	ErrEngineGone      = errors.New("engine already detached")
	ErrConfigNotFound  = errors.New("config file not found")
	ErrInvalidConfig   = errors.New("invalid configuration")
)

// PlayerError wraps an error with a user-friendly suggestion.
type PlayerError struct {
	Err        error
	Suggestion string
}

func (e *PlayerError) Error() string {
	return e.Err.Error()
}

func (e *PlayerError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &PlayerError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var pErr *PlayerError
	if errors.As(err, &pErr) && pErr.Suggestion != "" {
		return pErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	if errors.Is(err, ErrMediaNotFound) || strings.Contains(errStr, "no such file") {
		return "Check the path, or run 'minibar ls' to see the library"
	}

	if errors.Is(err, ErrUnsupportedKind) || strings.Contains(errStr, "unsupported media") {
		return "Only audio (mp3/wav/flac/ogg) and video (mp4/mkv/webm/mov) files are supported"
	}

	if errors.Is(err, ErrPlaybackStart) || strings.Contains(errStr, "decode") {
		return "The file may be corrupt or in an unsupported codec. Try another file"
	}

	if strings.Contains(errStr, "mpv") || strings.Contains(errStr, "connection refused") {
		return "Video playback needs mpv installed and on PATH"
	}

	if errors.Is(err, ErrConfigNotFound) || errors.Is(err, ErrInvalidConfig) ||
		strings.Contains(errStr, "config") {
		return "Check ~/.minibarrc or ~/.config/minibar/config.toml"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}
