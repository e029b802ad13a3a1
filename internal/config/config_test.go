package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Practice.Mode != nil || cfg.Quotes.URL != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[practice]
mode = "words"
words = 50
difficulty = "advanced"
source = "quotes"

[quotes]
count = 5
rate = 0.5
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Practice.Mode == nil || *cfg.Practice.Mode != "words" {
		t.Fatalf("unexpected mode: %v", cfg.Practice.Mode)
	}
	if cfg.Practice.Words == nil || *cfg.Practice.Words != 50 {
		t.Fatalf("unexpected words: %v", cfg.Practice.Words)
	}
	if cfg.Practice.Time != nil {
		t.Fatalf("expected unset time, got %d", *cfg.Practice.Time)
	}
	if cfg.Quotes.Count == nil || *cfg.Quotes.Count != 5 {
		t.Fatalf("unexpected quote count: %v", cfg.Quotes.Count)
	}
	if cfg.Quotes.Rate == nil || *cfg.Quotes.Rate != 0.5 {
		t.Fatalf("unexpected rate: %v", cfg.Quotes.Rate)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[practice]\nlang = \"en\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestTemplateIsValidTOML(t *testing.T) {
	var cfg FileConfig
	if _, err := toml.Decode(Template(), &cfg); err != nil {
		t.Fatalf("template does not decode: %v", err)
	}
}

func TestPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "speedforce", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", "speedforce", "speedforce.db") {
		t.Fatalf("unexpected db path %q", got)
	}
	if got := DefaultLogPath(); got != filepath.Join("/data", "speedforce", "speedforce.log") {
		t.Fatalf("unexpected log path %q", got)
	}
}

func TestLoadEnvDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "cfg"))
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWD) })
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("SF_TEST_A=local\nSF_TEST_B=local\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("SF_TEST_B", "preset")

	loaded, err := LoadEnv()
	if err != nil {
		t.Fatalf("load env: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("expected one env file, got %v", loaded)
	}
	if got := os.Getenv("SF_TEST_A"); got != "local" {
		t.Fatalf("expected SF_TEST_A from file, got %q", got)
	}
	if got := os.Getenv("SF_TEST_B"); got != "preset" {
		t.Fatalf("expected preset SF_TEST_B, got %q", got)
	}
	_ = os.Unsetenv("SF_TEST_A")
}
