package stats

import (
	"fmt"
	"io"
	"os"

	"github.com/samber/lo"
	"golang.org/x/term"

	"github.com/verte-zerg/speedforce/internal/model"
)

const (
	curveLabelWidth     = 10
	minCurveWidth       = 10
	terminalWidthBackup = 80
)

// RenderCurves prints WPM and accuracy sparklines smoothed over window
// sessions. A non-positive totalWidth uses the terminal width.
func RenderCurves(w io.Writer, sessions []model.SessionRecord, window, totalWidth int) error {
	if len(sessions) == 0 {
		return nil
	}
	if totalWidth <= 0 {
		totalWidth = TerminalWidth()
	}
	width := CurveWidthFor(totalWidth)

	wpms := lo.Map(sessions, func(s model.SessionRecord, _ int) float64 { return float64(s.WPM) })
	accs := lo.Map(sessions, func(s model.SessionRecord, _ int) float64 { return float64(s.Accuracy) })
	series := []struct {
		name   string
		values []float64
	}{
		{name: "WPM", values: fitWidth(MovingAverage(wpms, window), width)},
		{name: "Accuracy", values: fitWidth(MovingAverage(accs, window), width)},
	}

	if _, err := fmt.Fprintf(w, "Learning Curves (window %d)\n", max(window, 1)); err != nil {
		return err
	}
	for _, s := range series {
		if _, err := fmt.Fprintf(w, "%-*s%s\n", curveLabelWidth, s.name, Sparkline(s.values)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%-*smin=%.1f max=%.1f\n", curveLabelWidth, "", lo.Min(s.values), lo.Max(s.values)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// CurveWidthFor computes the sparkline width that fits beside the labels.
func CurveWidthFor(totalWidth int) int {
	return max(totalWidth-curveLabelWidth, minCurveWidth)
}

// TerminalWidth reports the stdout width, falling back to 80 columns.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// fitWidth averages adjacent buckets so the series is at most width long.
// Shorter series are returned unchanged.
func fitWidth(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		start := i * len(values) / width
		end := max((i+1)*len(values)/width, start+1)
		end = min(end, len(values))
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}
