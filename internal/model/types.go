// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a typing session.
type Status string

// Session statuses.
const (
	StatusLoading  Status = "loading"
	StatusIdle     Status = "idle"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

// Mode selects how a session ends.
type Mode string

// Practice modes.
const (
	ModeTime   Mode = "time"
	ModeWords  Mode = "words"
	ModeCustom Mode = "custom"
)

// Difficulty selects the vocabulary used for generated text.
type Difficulty string

// Difficulty levels.
const (
	DifficultySimple   Difficulty = "simple"
	DifficultyMedium   Difficulty = "medium"
	DifficultyAdvanced Difficulty = "advanced"
)

// Modes lists the modes in cycling order.
var Modes = []Mode{ModeTime, ModeWords, ModeCustom}

// Difficulties lists the difficulties in cycling order.
var Difficulties = []Difficulty{DifficultySimple, DifficultyMedium, DifficultyAdvanced}

// ParseMode parses a mode name case-insensitively.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unknown mode %q (expected time, words or custom)", s)
	}
	return m, nil
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeTime, ModeWords, ModeCustom:
		return true
	}
	return false
}

// ParseDifficulty parses a difficulty name case-insensitively.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("unknown difficulty %q (expected simple, medium or advanced)", s)
	}
	return d, nil
}

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultySimple, DifficultyMedium, DifficultyAdvanced:
		return true
	}
	return false
}

// Config defines practice settings.
type Config struct {
	Mode       Mode
	TimeLimit  int
	WordCount  int
	Difficulty Difficulty
	CustomText string
}

// Stats is a snapshot of typing performance.
type Stats struct {
	WPM            int
	RawWPM         int
	Accuracy       int
	CorrectChars   int
	IncorrectChars int
	TimeElapsed    float64
	TotalChars     int
}

// ZeroStats returns the stats of an untouched session.
func ZeroStats() Stats {
	return Stats{Accuracy: 100}
}

// ResetRequest carries optional changes for a session reset.
// Zero values mean "not provided".
type ResetRequest struct {
	NewMode       Mode
	NewTime       int
	NewWordCount  int
	NewDifficulty Difficulty
	CustomText    string
	KeepText      bool
}

// Result describes a finished session.
type Result struct {
	StartedAt time.Time
	EndedAt   time.Time
	Config    Config
	Stats     Stats
	TextChars int
}

// Duration returns the wall-clock length of the attempt.
func (r Result) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.EndedAt.Before(r.StartedAt) {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}

// Record converts a finished session into its persisted form.
func (r Result) Record() SessionRecord {
	return SessionRecord{
		StartedAt:      r.StartedAt,
		EndedAt:        r.EndedAt,
		Mode:           r.Config.Mode,
		TimeLimit:      r.Config.TimeLimit,
		WordCount:      r.Config.WordCount,
		Difficulty:     r.Config.Difficulty,
		WPM:            r.Stats.WPM,
		RawWPM:         r.Stats.RawWPM,
		Accuracy:       r.Stats.Accuracy,
		CorrectChars:   r.Stats.CorrectChars,
		IncorrectChars: r.Stats.IncorrectChars,
		DurationMs:     r.Duration().Milliseconds(),
	}
}

// SessionRecord is a persisted finished session.
type SessionRecord struct {
	ID             int64
	UUID           string
	StartedAt      time.Time
	EndedAt        time.Time
	Mode           Mode
	TimeLimit      int
	WordCount      int
	Difficulty     Difficulty
	WPM            int
	RawWPM         int
	Accuracy       int
	CorrectChars   int
	IncorrectChars int
	DurationMs     int64
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Mode        Mode
	Since       *time.Time
	Last        int
	CurveWindow int
}
