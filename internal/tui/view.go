package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/speedforce/internal/model"
	"github.com/verte-zerg/speedforce/internal/stats"
)

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	activeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	valueStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardStyle        = lipgloss.NewStyle().
				Padding(1, 3).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// contentWidth is the text column width for a terminal width.
func contentWidth(total int) int {
	return max(1, int(float64(total)*0.70))
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch {
	case m.editing:
		body = m.renderEditor()
	case m.snap.Status == model.StatusLoading:
		body = m.spinner.View() + labelStyle.Render(" loading text...")
	case m.snap.Status == model.StatusFinished:
		body = m.renderResult()
	default:
		body = m.renderText()
	}

	sections := []string{m.renderConfigBar(), body}
	if m.errMsg != "" {
		sections = append(sections, errorStyle.Render(m.errMsg))
	}
	content := lipgloss.JoinVertical(lipgloss.Center, interleave(sections, "")...)

	var helpView string
	if m.editing {
		helpView = m.help.View(editorKeyMap{keys: m.keys})
	} else {
		helpView = m.help.View(m.keys)
	}
	if m.width == 0 || m.height < 3 {
		return content + "\n\n" + helpView
	}
	body = lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	return body + "\n" + lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, helpView)
}

func (m *Model) renderConfigBar() string {
	cfg := m.snap.Config
	modes := make([]string, 0, len(model.Modes))
	for _, mode := range model.Modes {
		modes = append(modes, highlight(string(mode), mode == cfg.Mode))
	}
	segments := []string{strings.Join(modes, " ")}
	switch cfg.Mode {
	case model.ModeTime:
		segments = append(segments, presetRow(TimePresets, cfg.TimeLimit, "s"))
	case model.ModeWords:
		segments = append(segments, presetRow(WordPresets, cfg.WordCount, ""))
	}
	if cfg.Mode != model.ModeCustom {
		diffs := make([]string, 0, len(model.Difficulties))
		for _, d := range model.Difficulties {
			diffs = append(diffs, highlight(string(d), d == cfg.Difficulty))
		}
		segments = append(segments, strings.Join(diffs, " "))
	}
	return strings.Join(segments, footerStyle.Render("  |  "))
}

func presetRow(values []int, cur int, suffix string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, highlight(fmt.Sprintf("%d%s", v, suffix), v == cur))
	}
	return strings.Join(parts, " ")
}

func highlight(s string, on bool) string {
	if on {
		return activeStyle.Render(s)
	}
	return footerStyle.Render(s)
}

func (m *Model) renderText() string {
	target := []rune(m.snap.Text)
	if len(target) == 0 {
		return ""
	}
	glyphs := buildGlyphs(target, []rune(m.snap.Input))
	text := renderGlyphs(glyphs)
	if m.width > 0 {
		width := contentWidth(m.width)
		text = lipgloss.NewStyle().Width(width).Render(wrapGlyphs(glyphs, width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderStatus(), "", text)
}

// renderStatus shows the live counter and stats above the text.
func (m *Model) renderStatus() string {
	s := m.snap
	var counter string
	if s.Config.Mode == model.ModeTime {
		counter = fmt.Sprintf("%ds", s.TimeLeft)
	} else {
		counter = fmt.Sprintf("%d/%d", utf8.RuneCountInString(s.Input), utf8.RuneCountInString(s.Text))
	}
	if s.Status != model.StatusPlaying {
		return activeStyle.Render(counter) + footerStyle.Render("  start typing")
	}
	return strings.Join([]string{
		activeStyle.Render(counter),
		footerStyle.Render(fmt.Sprintf("%d wpm", s.Stats.WPM)),
		footerStyle.Render(fmt.Sprintf("%d%% acc", s.Stats.Accuracy)),
	}, "  ")
}

func (m *Model) renderResult() string {
	res := m.result
	st := m.snap.Stats
	if res != nil {
		st = res.Stats
	}
	rows := [][2]string{
		{"wpm", fmt.Sprintf("%d", st.WPM)},
		{"raw", fmt.Sprintf("%d", st.RawWPM)},
		{"accuracy", fmt.Sprintf("%d%%", st.Accuracy)},
		{"characters", fmt.Sprintf("%d/%d", st.CorrectChars, st.IncorrectChars)},
		{"time", fmt.Sprintf("%.1fs", st.TimeElapsed)},
		{"level", string(stats.SpeedLevel(st.WPM))},
	}
	if m.resultOK {
		rows = append(rows, [2]string{"best", fmt.Sprintf("%d", m.best)})
	}
	lines := make([]string, 0, len(rows)+1)
	for _, row := range rows {
		lines = append(lines, labelStyle.Width(12).Render(row[0])+valueStyle.Render(row[1]))
	}
	if m.resultOK && m.newBest {
		lines = append(lines, "", activeStyle.Render("new best!"))
	}
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) renderEditor() string {
	title := activeStyle.Render("Custom text")
	return modalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", m.editor.View()))
}

func interleave(items []string, sep string) []string {
	if len(items) == 0 {
		return nil
	}
	out := make([]string, 0, len(items)*2-1)
	for i, item := range items {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, item)
	}
	return out
}
