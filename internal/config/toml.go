// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Quotes   QuotesConfig   `toml:"quotes"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Mode           *string `toml:"mode"`
	Time           *int    `toml:"time"`
	Words          *int    `toml:"words"`
	Difficulty     *string `toml:"difficulty"`
	Source         *string `toml:"source"`
	WordList       *string `toml:"wordlist"`
	CustomTextFile *string `toml:"custom-text-file"`
}

// QuotesConfig maps the quotes text source settings.
type QuotesConfig struct {
	URL     *string  `toml:"url"`
	Count   *int     `toml:"count"`
	Rate    *float64 `toml:"rate"`
	Timeout *int     `toml:"timeout"`
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
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
