package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/speedforce/internal/model"
)

// RenderRecent prints the last n sessions, newest first.
func RenderRecent(w io.Writer, sessions []model.SessionRecord, n int) error {
	if len(sessions) == 0 || n <= 0 {
		return nil
	}
	if len(sessions) > n {
		sessions = sessions[len(sessions)-n:]
	}
	if _, err := fmt.Fprintln(w, "Recent Sessions"); err != nil {
		return err
	}
	headers := []string{"When", "Mode", "Difficulty", "WPM", "Raw", "Accuracy", "Time"}
	rows := make([][]string, 0, len(sessions))
	for i := len(sessions) - 1; i >= 0; i-- {
		s := sessions[i]
		rows = append(rows, []string{
			s.EndedAt.Local().Format("2006-01-02 15:04"),
			modeLabel(s),
			string(s.Difficulty),
			fmt.Sprintf("%d", s.WPM),
			fmt.Sprintf("%d", s.RawWPM),
			fmt.Sprintf("%d%%", s.Accuracy),
			fmt.Sprintf("%.1fs", float64(s.DurationMs)/1000),
		})
	}
	rightAlign := map[int]bool{3: true, 4: true, 5: true, 6: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func modeLabel(s model.SessionRecord) string {
	switch s.Mode {
	case model.ModeTime:
		return fmt.Sprintf("time %d", s.TimeLimit)
	case model.ModeWords:
		return fmt.Sprintf("words %d", s.WordCount)
	default:
		return string(s.Mode)
	}
}

func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	colCount := len(headers)
	for _, row := range rows {
		colCount = max(colCount, len(row))
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = runewidth.StringWidth(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, rightAlignCols))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlignCols))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	cells := make([]string, len(widths))
	for i := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		cells[i] = padCell(cell, widths[i], rightAlignCols[i])
	}
	return strings.TrimRight(strings.Join(cells, " "), " ")
}

func padCell(value string, width int, rightAlign bool) string {
	if rightAlign {
		return runewidth.FillLeft(value, width)
	}
	return runewidth.FillRight(value, width)
}
