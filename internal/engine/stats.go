package engine

import (
	"math"

	"github.com/verte-zerg/speedforce/internal/model"
)

// charsPerWord is the standard word unit for WPM.
const charsPerWord = 5.0

// Compute measures input against target after elapsedSeconds.
// It is pure: the same arguments always produce the same Stats.
func Compute(target, input string, elapsedSeconds float64) model.Stats {
	targetRunes := []rune(target)
	inputRunes := []rune(input)

	var correct, incorrect int
	for i, r := range inputRunes {
		if i < len(targetRunes) && r == targetRunes[i] {
			correct++
			continue
		}
		incorrect++
	}

	stats := model.Stats{
		Accuracy:       100,
		CorrectChars:   correct,
		IncorrectChars: incorrect,
		TimeElapsed:    elapsedSeconds,
		TotalChars:     len(inputRunes),
	}
	minutes := elapsedSeconds / 60
	if minutes > 0 {
		stats.WPM = roundHalfUp((float64(correct) / charsPerWord) / minutes)
		stats.RawWPM = roundHalfUp((float64(len(inputRunes)) / charsPerWord) / minutes)
	}
	if len(inputRunes) > 0 {
		stats.Accuracy = roundHalfUp(float64(correct) / float64(len(inputRunes)) * 100)
	}
	return stats
}

// roundHalfUp rounds .5 toward positive infinity.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
