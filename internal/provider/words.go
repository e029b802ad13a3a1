// Package provider implements the text sources used by the engine.
package provider

import (
	"context"
	"errors"
	"strings"

	"github.com/verte-zerg/speedforce/internal/engine"
	"github.com/verte-zerg/speedforce/internal/generator"
	"github.com/verte-zerg/speedforce/internal/model"
	"github.com/verte-zerg/speedforce/internal/wordlist"
)

// ErrEmptyText is returned when a source produced no words.
var ErrEmptyText = errors.New("no text received")

const punctSet = ".,!?;:'\"()-"

type difficultyRules struct {
	capsPct  float64
	punctPct float64
}

var rulesByDifficulty = map[model.Difficulty]difficultyRules{
	model.DifficultySimple:   {},
	model.DifficultyMedium:   {capsPct: 0.15, punctPct: 0.1},
	model.DifficultyAdvanced: {capsPct: 0.5, punctPct: 0.5},
}

// Words generates practice text from word lists.
type Words struct {
	gen      *generator.Generator
	custom   []string
	punctSet []rune
}

var _ engine.TextProvider = (*Words)(nil)

// NewWords returns a provider drawing from custom when it is non-empty and
// from the embedded per-difficulty lists otherwise.
func NewWords(gen *generator.Generator, custom []string) *Words {
	if gen == nil {
		gen = generator.New()
	}
	return &Words{gen: gen, custom: custom, punctSet: []rune(punctSet)}
}

// Fetch implements engine.TextProvider.
func (w *Words) Fetch(ctx context.Context, req engine.TextRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	difficulty := req.Difficulty
	if !difficulty.Valid() {
		difficulty = model.DifficultyMedium
	}
	vocab, err := w.vocabulary(difficulty)
	if err != nil {
		return "", err
	}
	rules := rulesByDifficulty[difficulty]
	words := w.gen.Generate(vocab, req.Words, rules.capsPct, rules.punctPct, w.punctSet)
	if len(words) == 0 {
		return "", ErrEmptyText
	}
	return strings.Join(words, " "), nil
}

func (w *Words) vocabulary(d model.Difficulty) ([]string, error) {
	if len(w.custom) > 0 {
		return wordlist.Apply(w.custom, wordlist.FilterForDifficulty(d)), nil
	}
	return wordlist.Embedded(d)
}
