// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Roster RosterConfig `toml:"roster"`
	Stats  StatsConfig  `toml:"stats"`
	Log    LogConfig    `toml:"log"`
}

// RosterConfig maps table screen settings.
type RosterConfig struct {
	PageSize   *int    `toml:"page-size"`
	DebounceMs *int    `toml:"debounce-ms"`
	Sort       *string `toml:"sort"`
	Desc       *bool   `toml:"desc"`
	Locale     *string `toml:"locale"`
}

// StatsConfig maps analytics settings.
type StatsConfig struct {
	CurveWindow *int `toml:"curve-window"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
