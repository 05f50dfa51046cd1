package config

// Config is the root configuration structure.
type Config struct {
	Player  PlayerConfig  `toml:"player"`
	Engine  EngineConfig  `toml:"engine"`
	Library LibraryConfig `toml:"library"`
	TUI     TUIConfig     `toml:"tui"`
	Log     LogConfig     `toml:"log"`
}

// PlayerConfig holds default playback settings.
type PlayerConfig struct {
	Volume  float64 `toml:"volume"`
	Shuffle bool    `toml:"shuffle"`
	Repeat  bool    `toml:"repeat"`
	GraceMs int     `toml:"grace_ms"`
}

// EngineConfig holds playback engine settings.
type EngineConfig struct {
	SampleRate   int    `toml:"sample_rate"`
	BufferMs     int    `toml:"buffer_ms"`
	MPVPath      string `toml:"mpv_path"`
	MPVSocketDir string `toml:"mpv_socket_dir"`
}

// LibraryConfig holds media library settings.
type LibraryConfig struct {
	Path  string `toml:"path"`
	Watch bool   `toml:"watch"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme           string `toml:"theme"`
	RefreshInterval int    `toml:"refresh_interval"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}
