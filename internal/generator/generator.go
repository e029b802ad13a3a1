// Package generator builds typing text sequences.
package generator

import (
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/samber/lo"
)

// fallbackVocabulary is used when no text source is available.
var fallbackVocabulary = []string{
	"the", "be", "to", "of", "and", "a", "in", "that", "have", "it",
	"for", "not", "on", "with", "he", "as", "you", "do", "at", "this",
	"but", "his", "by", "from", "they", "we", "say", "her", "she", "or",
	"an", "will", "my", "one", "all", "would", "there", "what", "so", "up",
	"out", "if", "about", "who", "get", "which", "go", "me", "when", "make",
}

// Generator produces randomized typing text. It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator whose output is fixed by seed.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Generate selects words uniformly and applies caps/punctuation rules.
func (g *Generator) Generate(words []string, count int, capsPct, punctPct float64, punctSet []rune) []string {
	if len(words) == 0 || count <= 0 {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return lo.Times(count, func(_ int) string {
		word := words[g.rnd.Intn(len(words))]
		word = applyCaps(g.rnd, word, capsPct)
		return applyPunct(g.rnd, word, punctPct, punctSet)
	})
}

// Fallback builds a sentence of exactly count words from a fixed vocabulary:
// single spaces, first word capitalized, terminated with a period.
func (g *Generator) Fallback(count int) string {
	if count < 1 {
		count = 1
	}
	words := g.Generate(fallbackVocabulary, count, 0, 0, nil)
	words[0] = capitalize(words[0])
	return strings.Join(words, " ") + "."
}

// FallbackVocabulary returns a copy of the fallback word set.
func FallbackVocabulary() []string {
	out := make([]string, len(fallbackVocabulary))
	copy(out, fallbackVocabulary)
	return out
}

func capitalize(word string) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func applyCaps(rnd *rand.Rand, word string, capsPct float64) string {
	if capsPct <= 0 {
		return word
	}
	if rnd.Float64() > capsPct {
		return word
	}
	return capitalize(word)
}

func applyPunct(rnd *rand.Rand, word string, punctPct float64, punctSet []rune) string {
	if punctPct <= 0 || len(punctSet) == 0 {
		return word
	}
	if rnd.Float64() > punctPct {
		return word
	}
	punct := punctSet[rnd.Intn(len(punctSet))]
	return word + string(punct)
}
