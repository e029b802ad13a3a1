// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/speedforce/internal/engine"
	"github.com/verte-zerg/speedforce/internal/model"
	"github.com/verte-zerg/speedforce/internal/stats"
)

// Preset values cycled by the config shortcuts.
var (
	TimePresets = []int{15, 30, 60, 120}
	WordPresets = []int{10, 25, 50, 100}
)

// Recorder persists finished sessions and the best score.
type Recorder interface {
	InsertSession(ctx context.Context, rec model.SessionRecord) (int64, error)
	stats.ScoreStore
}

type eventMsg engine.Event

type bestLoadedMsg struct {
	best int
	err  error
}

type resultSavedMsg struct {
	best  int
	isNew bool
	err   error
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	ctx     context.Context
	machine *engine.Machine
	rec     Recorder
	log     *logrus.Entry

	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	editor   textarea.Model
	editing  bool
	errMsg   string
	width    int
	height   int
	snap     engine.Snapshot
	result   *model.Result
	best     int
	newBest  bool
	resultOK bool
}

// NewModel constructs a typing TUI model around machine. rec may be nil, in
// which case results are not persisted.
func NewModel(ctx context.Context, machine *engine.Machine, rec Recorder, log *logrus.Entry) *Model {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = currentWordStyle

	editor := textarea.New()
	editor.Placeholder = "Paste or type the text you want to practice..."
	editor.ShowLineNumbers = false
	editor.CharLimit = 0

	return &Model{
		ctx:     ctx,
		machine: machine,
		rec:     rec,
		log:     log.WithField("component", "tui"),
		keys:    newKeyMap(),
		help:    help.New(),
		spinner: sp,
		editor:  editor,
		snap:    machine.Snapshot(),
	}
}

// Run starts the typing UI and blocks until the user quits.
func Run(ctx context.Context, machine *engine.Machine, rec Recorder, log *logrus.Entry) error {
	m := NewModel(ctx, machine, rec, log)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	// Events may be emitted from inside Update, so delivery must not block
	// the program loop.
	machine.SetObserver(func(ev engine.Event) {
		go program.Send(eventMsg(ev))
	})
	defer machine.SetObserver(nil)
	defer machine.Close()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadBest(), m.begin())
}

func (m *Model) begin() tea.Cmd {
	return func() tea.Msg {
		m.machine.Begin(m.ctx)
		return nil
	}
}

func (m *Model) loadBest() tea.Cmd {
	rec := m.rec
	ctx := m.ctx
	return func() tea.Msg {
		if rec == nil {
			return bestLoadedMsg{}
		}
		best, err := rec.GetBest(ctx)
		return bestLoadedMsg{best: best, err: err}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.editor.SetWidth(max(20, contentWidth(msg.Width)-4))
		m.editor.SetHeight(max(3, msg.Height/3))
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case eventMsg:
		return m, m.handleEvent(engine.Event(msg))
	case bestLoadedMsg:
		if msg.err != nil {
			m.log.WithError(msg.err).Error("failed to load best score")
			return m, nil
		}
		m.best = msg.best
		return m, nil
	case resultSavedMsg:
		if msg.err != nil {
			m.log.WithError(msg.err).Error("failed to save session")
			m.errMsg = "could not save this result"
			return m, nil
		}
		m.best = msg.best
		m.newBest = msg.isNew
		m.resultOK = true
		return m, nil
	case tea.KeyMsg:
		if m.editing {
			return m.updateEditor(msg)
		}
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleEvent(ev engine.Event) tea.Cmd {
	m.snap = m.machine.Snapshot()
	if ev.Result == nil {
		return nil
	}
	m.result = ev.Result
	m.newBest = false
	m.resultOK = false
	return m.saveResult(*ev.Result)
}

func (m *Model) saveResult(res model.Result) tea.Cmd {
	rec := m.rec
	ctx := m.ctx
	best := m.best
	return func() tea.Msg {
		if rec == nil {
			return resultSavedMsg{best: max(best, res.Stats.WPM), isNew: res.Stats.WPM >= best && res.Stats.WPM > 0}
		}
		if _, err := rec.InsertSession(ctx, res.Record()); err != nil {
			return resultSavedMsg{err: err}
		}
		best, isNew, err := stats.UpdateBest(ctx, rec, res.Stats.WPM)
		return resultSavedMsg{best: best, isNew: isNew, err: err}
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Next):
		m.apply(m.machine.RestartWithNewText(m.ctx))
	case key.Matches(msg, m.keys.Retry):
		m.apply(m.machine.ResetSameText(m.ctx))
	case key.Matches(msg, m.keys.Mode):
		next := cycle(model.Modes, m.snap.Config.Mode)
		if next == model.ModeCustom {
			return m.openEditor()
		}
		m.apply(m.machine.SetMode(m.ctx, next))
	case key.Matches(msg, m.keys.Time):
		m.apply(m.machine.SetTimeLimit(m.ctx, cycle(TimePresets, m.snap.Config.TimeLimit)))
	case key.Matches(msg, m.keys.Words):
		m.apply(m.machine.SetWordCount(m.ctx, cycle(WordPresets, m.snap.Config.WordCount)))
	case key.Matches(msg, m.keys.Difficulty):
		m.apply(m.machine.SetDifficulty(m.ctx, cycle(model.Difficulties, m.snap.Config.Difficulty)))
	default:
		m.handleTyping(msg)
	}
	return nil
}

func (m *Model) apply(d engine.Decision) {
	m.errMsg = ""
	m.result = nil
	m.newBest = false
	m.resultOK = false
	if len(d.Rejected) > 0 {
		m.errMsg = strings.Join(d.Rejected, "; ")
	}
	m.snap = m.machine.Snapshot()
}

func (m *Model) handleTyping(msg tea.KeyMsg) {
	if msg.Paste {
		m.errMsg = "paste is disabled"
		return
	}
	switch msg.Type {
	case tea.KeyBackspace:
		input := m.machine.Snapshot().Input
		if input == "" {
			return
		}
		_, size := utf8.DecodeLastRuneInString(input)
		m.machine.HandleInput(input[:len(input)-size])
	case tea.KeySpace:
		m.typeRunes([]rune{' '})
	case tea.KeyRunes:
		m.typeRunes(msg.Runes)
	default:
		return
	}
	m.snap = m.machine.Snapshot()
}

func (m *Model) typeRunes(runes []rune) {
	m.errMsg = ""
	input := m.machine.Snapshot().Input
	for _, r := range runes {
		next := input + string(r)
		if !m.machine.HandleInput(next) {
			return
		}
		input = next
	}
}

func (m *Model) openEditor() tea.Cmd {
	m.editing = true
	m.errMsg = ""
	m.editor.SetValue(m.snap.Config.CustomText)
	return m.editor.Focus()
}

func (m *Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		m.editing = false
		m.editor.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		text := normalizeCustomText(m.editor.Value())
		if text == "" {
			m.errMsg = "custom text is empty"
			return m, nil
		}
		m.editing = false
		m.editor.Blur()
		m.apply(m.machine.SetCustomText(m.ctx, text))
		return m, nil
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

// normalizeCustomText collapses every whitespace run, newlines included, to
// a single space so the text can be typed with the space bar alone.
func normalizeCustomText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// cycle returns the value after cur in values, wrapping around. Unknown
// values restart at the first entry.
func cycle[T comparable](values []T, cur T) T {
	idx := slices.Index(values, cur)
	return values[(idx+1)%len(values)]
}
