package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/verte-zerg/speedforce/internal/model"
)

func resetPracticeFlags(t *testing.T) {
	t.Helper()
	practiceMode = "time"
	practiceTime = 30
	practiceWords = 25
	practiceDifficulty = "medium"
	practiceSource = "words"
	practiceWordList = ""
	practiceCustomTextFile = ""
}

func TestConfigFileDoesNotOverrideFlags(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.Flags().Set("words", "50"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	fileWords := 10
	fileTime := 60
	applyConfig(cmd, "words", &practiceWords, &fileWords)
	applyConfig(cmd, "time", &practiceTime, &fileTime)
	applyConfig(cmd, "mode", &practiceMode, nil)
	if practiceWords != 50 {
		t.Fatalf("expected flag value 50, got %d", practiceWords)
	}
	if practiceTime != 60 {
		t.Fatalf("expected config value 60, got %d", practiceTime)
	}
	if practiceMode != "time" {
		t.Fatalf("expected default mode, got %q", practiceMode)
	}
}

func TestBuildConfigValidates(t *testing.T) {
	resetPracticeFlags(t)
	cfg, err := buildConfig()
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	if cfg.Mode != model.ModeTime || cfg.TimeLimit != 30 || cfg.Difficulty != model.DifficultyMedium {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	cases := []func(){
		func() { practiceMode = "zen" },
		func() { practiceDifficulty = "insane" },
		func() { practiceTime = 0 },
		func() { practiceWords = -1 },
		func() { practiceSource = "books" },
		func() { practiceMode = "custom" },
	}
	for i, mutate := range cases {
		resetPracticeFlags(t)
		mutate()
		if _, err := buildConfig(); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}

func TestBuildConfigReadsCustomText(t *testing.T) {
	resetPracticeFlags(t)
	path := filepath.Join(t.TempDir(), "text.txt")
	if err := os.WriteFile(path, []byte("the quick\n  brown fox\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	practiceMode = "custom"
	practiceCustomTextFile = path
	cfg, err := buildConfig()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if cfg.CustomText != "the quick brown fox" {
		t.Fatalf("unexpected custom text %q", cfg.CustomText)
	}
}

func TestBuildStatsConfig(t *testing.T) {
	statsMode, statsSince, statsLast, statsWindow = "words", "2024-02-03", 5, 3
	cfg, err := buildStatsConfig()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if cfg.Mode != model.ModeWords || cfg.Last != 5 || cfg.CurveWindow != 3 {
		t.Fatalf("unexpected stats config: %+v", cfg)
	}
	if cfg.Since == nil || cfg.Since.Day() != 3 {
		t.Fatalf("unexpected since: %v", cfg.Since)
	}

	statsSince = "yesterday"
	if _, err := buildStatsConfig(); err == nil {
		t.Fatalf("expected since parse error")
	}
	statsSince, statsWindow = "", 0
	if _, err := buildStatsConfig(); err == nil {
		t.Fatalf("expected window error")
	}
}
