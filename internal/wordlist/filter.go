package wordlist

import (
	"strings"
	"unicode"

	"github.com/samber/lo"

	"github.com/verte-zerg/speedforce/internal/model"
)

// simpleMaxLen caps word length for the simple difficulty.
const simpleMaxLen = 5

// FilterFunc returns true when a word should be kept.
type FilterFunc func(string) bool

// FilterForDifficulty returns the filter applied to user word lists.
func FilterForDifficulty(d model.Difficulty) FilterFunc {
	switch d {
	case model.DifficultySimple:
		return func(word string) bool {
			return len(word) <= simpleMaxLen && filterEnglishASCII(word)
		}
	case model.DifficultyMedium:
		return filterEnglishASCII
	default:
		return filterPrintable
	}
}

// Apply keeps the words accepted by filter. When nothing survives the
// original list is returned.
func Apply(words []string, filter FilterFunc) []string {
	kept := lo.Filter(words, func(word string, _ int) bool {
		return filter(word)
	})
	if len(kept) == 0 {
		return words
	}
	return kept
}

func filterEnglishASCII(word string) bool {
	if word == "" {
		return false
	}
	for i := 0; i < len(word); i++ {
		ch := word[i]
		if ch < 'a' || ch > 'z' {
			return false
		}
	}
	return true
}

func filterPrintable(word string) bool {
	if word == "" {
		return false
	}
	return !strings.ContainsFunc(word, func(r rune) bool {
		return unicode.IsSpace(r) || !unicode.IsPrint(r)
	})
}
