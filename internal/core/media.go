package core

// Kind indicates the playable type of a media item.
type Kind string

const (
	KindAudio Kind = "audio"
	KindVideo Kind = "video"
)

// Placeholder metadata used when the caller supplies none.
const (
	UnknownTitle     = "Untitled"
	UnknownArtist    = "Unknown artist"
	DefaultThumbnail = "assets/thumb-default.png"
)

// Supported returns true if the kind is one the mini-player can play.
// Callers enumerate a larger media taxonomy than the player supports;
// anything else is rejected upstream.
func (k Kind) Supported() bool {
	return k == KindAudio || k == KindVideo
}

// MediaItem describes one playable unit. It is immutable once handed to
// the session; switching tracks replaces the whole value.
type MediaItem struct {
	ID        int64  `json:"id"`
	URL       string `json:"url"`
	Kind      Kind   `json:"kind"`
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	Thumbnail string `json:"thumbnail"`
}

// DisplayTitle returns the title, or a placeholder when absent.
func (m MediaItem) DisplayTitle() string {
	if m.Title == "" {
		return UnknownTitle
	}
	return m.Title
}

// DisplayArtist returns the artist, or a placeholder when absent.
func (m MediaItem) DisplayArtist() string {
	if m.Artist == "" {
		return UnknownArtist
	}
	return m.Artist
}

// DisplayThumbnail returns the thumbnail, or the default art when absent.
func (m MediaItem) DisplayThumbnail() string {
	if m.Thumbnail == "" {
		return DefaultThumbnail
	}
	return m.Thumbnail
}
