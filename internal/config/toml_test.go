package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected missing file to be ignored, got %v", err)
	}
	if cfg.Roster.PageSize != nil || cfg.Log.Level != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[roster]
page-size = 25
debounce-ms = 150
sort = "last"
desc = true

[stats]
curve-window = 7

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Roster.PageSize == nil || *cfg.Roster.PageSize != 25 {
		t.Fatalf("unexpected page size: %v", cfg.Roster.PageSize)
	}
	if cfg.Roster.DebounceMs == nil || *cfg.Roster.DebounceMs != 150 {
		t.Fatalf("unexpected debounce: %v", cfg.Roster.DebounceMs)
	}
	if cfg.Roster.Sort == nil || *cfg.Roster.Sort != "last" || cfg.Roster.Desc == nil || !*cfg.Roster.Desc {
		t.Fatalf("unexpected sort settings: %+v", cfg.Roster)
	}
	if cfg.Stats.CurveWindow == nil || *cfg.Stats.CurveWindow != 7 {
		t.Fatalf("unexpected curve window: %v", cfg.Stats.CurveWindow)
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != "debug" || cfg.Log.File != nil {
		t.Fatalf("unexpected log settings: %+v", cfg.Log)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[roster]\npagesize = 3\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	if got := DefaultConfigPath(); got != filepath.Join("/tmp/cfg", "classboard", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/tmp/data", "classboard", "classboard.db") {
		t.Fatalf("unexpected db path %q", got)
	}
	if got := DefaultLogPath(); got != filepath.Join("/tmp/state", "classboard", "classboard.log") {
		t.Fatalf("unexpected log path %q", got)
	}
}
