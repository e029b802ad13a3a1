// Package stats contains session history summaries and best-score tracking.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/samber/lo"

	"github.com/verte-zerg/speedforce/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summary aggregates a set of sessions.
type Summary struct {
	Sessions    int
	BestWPM     int
	AvgWPM      float64
	AvgRawWPM   float64
	AvgAccuracy float64
	TotalTime   float64
}

// Summarize aggregates sessions. An empty slice yields a zero Summary.
func Summarize(sessions []model.SessionRecord) Summary {
	if len(sessions) == 0 {
		return Summary{}
	}
	count := float64(len(sessions))
	return Summary{
		Sessions: len(sessions),
		BestWPM:  lo.MaxBy(sessions, func(a, b model.SessionRecord) bool { return a.WPM > b.WPM }).WPM,
		AvgWPM: lo.SumBy(sessions, func(s model.SessionRecord) float64 {
			return float64(s.WPM)
		}) / count,
		AvgRawWPM: lo.SumBy(sessions, func(s model.SessionRecord) float64 {
			return float64(s.RawWPM)
		}) / count,
		AvgAccuracy: lo.SumBy(sessions, func(s model.SessionRecord) float64 {
			return float64(s.Accuracy)
		}) / count,
		TotalTime: lo.SumBy(sessions, func(s model.SessionRecord) float64 {
			return float64(s.DurationMs) / 1000
		}),
	}
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := lo.Min(values), lo.Max(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints aggregate numbers for sessions. best is the stored
// best score, which can outlive the session history.
func RenderSummary(w io.Writer, sessions []model.SessionRecord, best int) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	sum := Summarize(sessions)
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", sum.Sessions),
		fmt.Sprintf("Practice time: %s", formatSeconds(sum.TotalTime)),
		fmt.Sprintf("Best WPM: %d (all time %d)", sum.BestWPM, max(best, sum.BestWPM)),
		fmt.Sprintf("Avg WPM: %.2f", sum.AvgWPM),
		fmt.Sprintf("Avg Raw WPM: %.2f", sum.AvgRawWPM),
		fmt.Sprintf("Avg Accuracy: %.2f%%", sum.AvgAccuracy),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func formatSeconds(total float64) string {
	secs := int(math.Round(total))
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	if secs < 3600 {
		return fmt.Sprintf("%dm%02ds", secs/60, secs%60)
	}
	return fmt.Sprintf("%dh%02dm", secs/3600, (secs%3600)/60)
}
