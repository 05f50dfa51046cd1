package core

// Phase is the lifecycle phase of the playback session.
type Phase int

const (
	// PhaseIdle: no media loaded, player hidden.
	PhaseIdle Phase = iota
	// PhasePaused: media loaded and visible, not playing.
	PhasePaused
	// PhasePlaying: media loaded, visible, and playing.
	PhasePlaying
	// PhaseHiding: player dismissed, media retained until the grace
	// period elapses so the exit animation can finish.
	PhaseHiding
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePaused:
		return "paused"
	case PhasePlaying:
		return "playing"
	case PhaseHiding:
		return "hiding"
	default:
		return "unknown"
	}
}

// PlaybackState is a point-in-time snapshot of the session, the only
// thing views render from.
type PlaybackState struct {
	Media           *MediaItem `json:"media"`
	Phase           Phase      `json:"phase"`
	ProgressPercent float64    `json:"progress_percent"`
	DurationSeconds float64    `json:"duration_seconds"`
	Volume          float64    `json:"volume"`
	Muted           bool       `json:"muted"`
	Shuffled        bool       `json:"shuffled"`
	Repeating       bool       `json:"repeating"`
}

// HasMedia returns true if there is a loaded media item.
func (s *PlaybackState) HasMedia() bool {
	return s != nil && s.Media != nil
}

// IsActive returns true if the mini-player UI should be visible.
func (s *PlaybackState) IsActive() bool {
	return s != nil && (s.Phase == PhasePaused || s.Phase == PhasePlaying)
}

// IsPlaying returns true if playback is running.
func (s *PlaybackState) IsPlaying() bool {
	return s != nil && s.Phase == PhasePlaying
}

// PositionSeconds returns the absolute playback position implied by the
// normalized progress, or 0 while the duration is unknown.
func (s *PlaybackState) PositionSeconds() float64 {
	if s == nil || s.DurationSeconds <= 0 {
		return 0
	}
	return s.ProgressPercent / 100 * s.DurationSeconds
}
