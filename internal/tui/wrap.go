package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// missedSpace marks a space that was typed as something else.
const missedSpace = '•'

type charState int

const (
	statePending charState = iota
	stateCurrentWord
	stateCorrect
	stateIncorrect
	stateMissedSpace
)

type glyph struct {
	s       string
	width   int
	isSpace bool
}

// classify decides how each target rune is drawn given the typed input.
func classify(targetRunes, inputRunes []rune) []charState {
	cursor := len(inputRunes)
	current, hasCurrent := wordAt(targetRunes, cursor)

	states := make([]charState, len(targetRunes))
	for i, target := range targetRunes {
		switch {
		case i < len(inputRunes) && inputRunes[i] == target:
			states[i] = stateCorrect
		case i < len(inputRunes) && target == ' ':
			states[i] = stateMissedSpace
		case i < len(inputRunes):
			states[i] = stateIncorrect
		case hasCurrent && target != ' ' && i >= current.start && i < current.end:
			states[i] = stateCurrentWord
		default:
			states[i] = statePending
		}
	}
	return states
}

func buildGlyphs(targetRunes, inputRunes []rune) []glyph {
	states := classify(targetRunes, inputRunes)
	cursor := len(inputRunes)

	out := make([]glyph, 0, len(targetRunes))
	for i, target := range targetRunes {
		displayed := target
		style := pendingStyle
		switch states[i] {
		case stateCorrect:
			style = correctStyle
		case stateIncorrect:
			style = incorrectStyle
		case stateMissedSpace:
			displayed = missedSpace
			style = incorrectStyle
		case stateCurrentWord:
			style = currentWordStyle
		}
		if i == cursor {
			style = style.Underline(true)
		}
		out = append(out, glyph{
			s:       style.Render(string(displayed)),
			width:   runewidth.RuneWidth(displayed),
			isSpace: target == ' ',
		})
	}
	return out
}

type wordRange struct {
	start int
	end   int
}

// wordAt returns the word containing idx, or the next word when idx sits on
// a space. The last word is returned once idx runs past the text.
func wordAt(runes []rune, idx int) (wordRange, bool) {
	var last wordRange
	found := false
	start := -1
	for i := 0; i <= len(runes); i++ {
		if i < len(runes) && runes[i] != ' ' {
			if start == -1 {
				start = i
			}
			continue
		}
		if start == -1 {
			continue
		}
		last = wordRange{start: start, end: i}
		found = true
		if idx < i {
			return last, true
		}
		start = -1
	}
	return last, found
}

func renderGlyphs(glyphs []glyph) string {
	var b strings.Builder
	for _, g := range glyphs {
		b.WriteString(g.s)
	}
	return b.String()
}

// wrapGlyphs breaks lines at the last space that fits in width. Words longer
// than width are split.
func wrapGlyphs(glyphs []glyph, width int) string {
	if width <= 0 {
		return renderGlyphs(glyphs)
	}
	var lines []string
	line := make([]glyph, 0, width)
	lineWidth := 0
	lastSpace := -1

	for i := 0; i < len(glyphs); {
		g := glyphs[i]
		if lineWidth+g.width > width && len(line) > 0 {
			if lastSpace >= 0 {
				lines = append(lines, renderGlyphs(line[:lastSpace+1]))
				line = append([]glyph{}, line[lastSpace+1:]...)
			} else {
				lines = append(lines, renderGlyphs(line))
				line = line[:0]
			}
			lineWidth, lastSpace = measure(line)
			continue
		}
		line = append(line, g)
		lineWidth += g.width
		if g.isSpace {
			lastSpace = len(line) - 1
		}
		i++
	}
	lines = append(lines, renderGlyphs(line))
	return strings.Join(lines, "\n")
}

func measure(line []glyph) (width, lastSpace int) {
	lastSpace = -1
	for i, g := range line {
		width += g.width
		if g.isSpace {
			lastSpace = i
		}
	}
	return width, lastSpace
}
