package config

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Player: PlayerConfig{
			Volume:  0.8,
			Shuffle: false,
			Repeat:  false,
			GraceMs: 300,
		},
		Engine: EngineConfig{
			SampleRate: 44100,
			BufferMs:   100,
			MPVPath:    "mpv",
		},
		TUI: TUIConfig{
			Theme:           "auto",
			RefreshInterval: 250,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Player
	if c.Player.Volume == 0 {
		c.Player.Volume = d.Player.Volume
	}
	if c.Player.GraceMs == 0 {
		c.Player.GraceMs = d.Player.GraceMs
	}

	// Engine
	if c.Engine.SampleRate == 0 {
		c.Engine.SampleRate = d.Engine.SampleRate
	}
	if c.Engine.BufferMs == 0 {
		c.Engine.BufferMs = d.Engine.BufferMs
	}
	if c.Engine.MPVPath == "" {
		c.Engine.MPVPath = d.Engine.MPVPath
	}

	// TUI
	if c.TUI.Theme == "" {
		c.TUI.Theme = d.TUI.Theme
	}
	if c.TUI.RefreshInterval == 0 {
		c.TUI.RefreshInterval = d.TUI.RefreshInterval
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}
