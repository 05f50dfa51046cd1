package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	if cfg.Player.Volume != 0.8 {
		t.Errorf("Player.Volume = %v, want 0.8", cfg.Player.Volume)
	}
	if cfg.Player.GraceMs != 300 {
		t.Errorf("Player.GraceMs = %d, want 300", cfg.Player.GraceMs)
	}
	if cfg.Engine.SampleRate != 44100 {
		t.Errorf("Engine.SampleRate = %d, want 44100", cfg.Engine.SampleRate)
	}
	if cfg.Engine.MPVPath != "mpv" {
		t.Errorf("Engine.MPVPath = %q, want mpv", cfg.Engine.MPVPath)
	}
	if cfg.TUI.RefreshInterval != 250 {
		t.Errorf("TUI.RefreshInterval = %d, want 250", cfg.TUI.RefreshInterval)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Player.Volume = 0.25
	cfg.Engine.MPVPath = "/opt/mpv/bin/mpv"
	cfg.ApplyDefaults()

	if cfg.Player.Volume != 0.25 {
		t.Errorf("Player.Volume = %v, want 0.25", cfg.Player.Volume)
	}
	if cfg.Engine.MPVPath != "/opt/mpv/bin/mpv" {
		t.Errorf("Engine.MPVPath = %q, want explicit path", cfg.Engine.MPVPath)
	}
}

func TestLoadFrom(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	data := `
[player]
volume = 0.5
repeat = true

[tui]
theme = "mocha"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Player.Volume != 0.5 {
		t.Errorf("Player.Volume = %v, want 0.5", cfg.Player.Volume)
	}
	if !cfg.Player.Repeat {
		t.Error("Player.Repeat = false, want true")
	}
	if cfg.TUI.Theme != "mocha" {
		t.Errorf("TUI.Theme = %q, want mocha", cfg.TUI.Theme)
	}
	// Unset sections still get defaults.
	if cfg.Engine.SampleRate != 44100 {
		t.Errorf("Engine.SampleRate = %d, want default 44100", cfg.Engine.SampleRate)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MINIBAR_VOLUME", "0.33")
	t.Setenv("MINIBAR_LOG_LEVEL", "debug")
	t.Setenv("MINIBAR_MPV_PATH", "/usr/local/bin/mpv")

	cfg := &Config{}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	if cfg.Player.Volume != 0.33 {
		t.Errorf("Player.Volume = %v, want 0.33", cfg.Player.Volume)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Engine.MPVPath != "/usr/local/bin/mpv" {
		t.Errorf("Engine.MPVPath = %q, want env value", cfg.Engine.MPVPath)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"volume too high", func(c *Config) { c.Player.Volume = 1.5 }, true},
		{"negative grace", func(c *Config) { c.Player.GraceMs = -1 }, true},
		{"bad theme", func(c *Config) { c.TUI.Theme = "dracula" }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, true},
		{"missing library dir", func(c *Config) { c.Library.Path = "/does/not/exist" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %t", err, tt.wantErr)
			}
		})
	}
}
