package engine

import (
	"context"
	"errors"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/looplab/fsm"
	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/speedforce/internal/generator"
	"github.com/verte-zerg/speedforce/internal/model"
)

const (
	evLoaded = "loaded"
	evStart  = "start"
	evFinish = "finish"
	evLoad   = "load"
	evIdle   = "idle"
)

var allStatuses = []string{
	string(model.StatusLoading),
	string(model.StatusIdle),
	string(model.StatusPlaying),
	string(model.StatusFinished),
}

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// EventKind classifies machine notifications.
type EventKind int

// Event kinds.
const (
	// EventStatus is sent after every status transition.
	EventStatus EventKind = iota
	// EventTick is sent after each countdown second.
	EventTick
)

// Event notifies an observer about a change in the session.
type Event struct {
	Kind     EventKind
	Status   model.Status
	TimeLeft int
	// Result is set only on the transition into Finished.
	Result *model.Result
}

// Snapshot is a copy of the live session.
type Snapshot struct {
	Status    model.Status
	Config    model.Config
	Text      string
	Input     string
	Stats     model.Stats
	StartTime time.Time
	TimeLeft  int
}

type session struct {
	text      string
	input     string
	startTime time.Time
	stats     model.Stats
}

// Option configures a Machine.
type Option func(*Machine)

// WithClock overrides the wall clock.
func WithClock(c Clock) Option {
	return func(m *Machine) { m.clock = c }
}

// WithScheduler overrides the countdown scheduler.
func WithScheduler(s Scheduler) Option {
	return func(m *Machine) { m.timer = NewTimer(s) }
}

// WithLogger sets the logger.
func WithLogger(log *logrus.Entry) Option {
	return func(m *Machine) { m.log = log }
}

// WithFallbackSeed makes the local fallback text reproducible.
func WithFallbackSeed(seed int64) Option {
	return func(m *Machine) { m.fallback = generator.NewSeeded(seed) }
}

// WithObserver registers fn to receive events.
func WithObserver(fn func(Event)) Option {
	return func(m *Machine) { m.observer = fn }
}

// Machine is the session state machine.
type Machine struct {
	mu       sync.Mutex
	fsm      *fsm.FSM
	cfg      model.Config
	session  session
	timeLeft int

	timer    *Timer
	timerGen uint64

	provider    TextProvider
	fallback    *generator.Generator
	textGen     uint64
	cancelFetch context.CancelFunc

	clock    Clock
	log      *logrus.Entry
	observer func(Event)
}

// New returns a Machine in the Loading status. Call Begin to load the first
// text.
func New(cfg model.Config, provider TextProvider, opts ...Option) *Machine {
	m := &Machine{
		cfg:      cfg,
		session:  session{stats: model.ZeroStats()},
		timeLeft: cfg.TimeLimit,
		provider: provider,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.clock == nil {
		m.clock = ClockFunc(time.Now)
	}
	if m.timer == nil {
		m.timer = NewTimer(nil)
	}
	if m.fallback == nil {
		m.fallback = generator.New()
	}
	if m.log == nil {
		m.log = logrus.NewEntry(logrus.StandardLogger())
	}
	m.fsm = fsm.NewFSM(
		string(model.StatusLoading),
		fsm.Events{
			{Name: evLoaded, Src: []string{string(model.StatusLoading)}, Dst: string(model.StatusIdle)},
			{Name: evStart, Src: []string{string(model.StatusIdle)}, Dst: string(model.StatusPlaying)},
			{Name: evFinish, Src: []string{string(model.StatusPlaying)}, Dst: string(model.StatusFinished)},
			{Name: evLoad, Src: allStatuses, Dst: string(model.StatusLoading)},
			{Name: evIdle, Src: allStatuses, Dst: string(model.StatusIdle)},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				m.log.WithFields(logrus.Fields{"event": e.Event, "from": e.Src, "to": e.Dst}).Debug("status changed")
			},
		},
	)
	return m
}

// SetObserver replaces the event observer.
func (m *Machine) SetObserver(fn func(Event)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observer = fn
}

// Status returns the current status.
func (m *Machine) Status() model.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statusLocked()
}

// Snapshot returns a copy of the live session.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		Status:    m.statusLocked(),
		Config:    m.cfg,
		Text:      m.session.text,
		Input:     m.session.input,
		Stats:     m.session.stats,
		StartTime: m.session.startTime,
		TimeLeft:  m.timeLeft,
	}
}

// HandleInput replaces the typed input with value. It reports whether the
// input was accepted; input is rejected while Loading or Finished and when
// value is longer than the text.
func (m *Machine) HandleInput(value string) bool {
	m.mu.Lock()
	status := m.statusLocked()
	textLen := utf8.RuneCountInString(m.session.text)
	valueLen := utf8.RuneCountInString(value)
	if status == model.StatusFinished || status == model.StatusLoading || textLen == 0 || valueLen > textLen {
		m.mu.Unlock()
		return false
	}

	var events []Event
	now := m.clock.Now()
	if status == model.StatusIdle {
		m.transitionLocked(evStart)
		m.session.startTime = now
		if m.cfg.Mode == model.ModeTime {
			m.startTimerLocked()
		}
		events = append(events, m.statusEventLocked())
	}

	m.session.input = value
	elapsed := 0.0
	if !m.session.startTime.IsZero() {
		elapsed = now.Sub(m.session.startTime).Seconds()
	}
	m.session.stats = Compute(m.session.text, value, elapsed)

	if valueLen == textLen {
		events = append(events, m.finishLocked(now))
	}
	m.mu.Unlock()

	m.emit(events...)
	return true
}

// Reset applies req and starts a new attempt. When the decision needs fresh
// text the fetch runs in the background and the status stays Loading until it
// lands.
func (m *Machine) Reset(ctx context.Context, req model.ResetRequest) Decision {
	m.mu.Lock()
	d := Resolve(m.cfg, m.session.text, req)
	if len(d.Rejected) > 0 {
		m.log.WithField("rejected", d.Rejected).Warn("ignoring invalid reset options")
	}

	m.stopTimerLocked()
	m.textGen++
	if m.cancelFetch != nil {
		m.cancelFetch()
		m.cancelFetch = nil
	}

	m.cfg = d.Config
	m.session = session{stats: model.ZeroStats()}
	m.timeLeft = m.cfg.TimeLimit

	switch d.Action {
	case ActionFetch:
		m.transitionLocked(evLoad)
		fetchCtx, cancel := context.WithCancel(ctx)
		m.cancelFetch = cancel
		go m.load(fetchCtx, m.textGen, TextRequest{Words: d.FetchWords, Difficulty: m.cfg.Difficulty})
	default:
		m.session.text = d.Text
		m.transitionLocked(evIdle)
	}
	ev := m.statusEventLocked()
	m.mu.Unlock()

	m.emit(ev)
	return d
}

// Begin loads the first text for the configured mode.
func (m *Machine) Begin(ctx context.Context) Decision {
	m.mu.Lock()
	cfg := m.cfg
	m.mu.Unlock()
	if cfg.Mode == model.ModeCustom {
		return m.Reset(ctx, model.ResetRequest{CustomText: cfg.CustomText})
	}
	return m.Reset(ctx, model.ResetRequest{})
}

// RestartWithNewText resets the session with a freshly requested text.
func (m *Machine) RestartWithNewText(ctx context.Context) Decision {
	return m.Reset(ctx, model.ResetRequest{})
}

// ResetSameText resets the session to Idle keeping the current text.
func (m *Machine) ResetSameText(ctx context.Context) Decision {
	return m.Reset(ctx, model.ResetRequest{KeepText: true})
}

// SetMode switches the practice mode.
func (m *Machine) SetMode(ctx context.Context, mode model.Mode) Decision {
	return m.Reset(ctx, model.ResetRequest{NewMode: mode})
}

// SetTimeLimit changes the Time mode limit in seconds.
func (m *Machine) SetTimeLimit(ctx context.Context, seconds int) Decision {
	return m.Reset(ctx, model.ResetRequest{NewTime: seconds})
}

// SetWordCount changes the Words mode length.
func (m *Machine) SetWordCount(ctx context.Context, words int) Decision {
	return m.Reset(ctx, model.ResetRequest{NewWordCount: words})
}

// SetDifficulty changes the text difficulty.
func (m *Machine) SetDifficulty(ctx context.Context, d model.Difficulty) Decision {
	return m.Reset(ctx, model.ResetRequest{NewDifficulty: d})
}

// SetCustomText installs text as the target in Custom mode.
func (m *Machine) SetCustomText(ctx context.Context, text string) Decision {
	return m.Reset(ctx, model.ResetRequest{CustomText: text, NewMode: model.ModeCustom})
}

// Close stops the timer and abandons any pending fetch.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopTimerLocked()
	m.textGen++
	if m.cancelFetch != nil {
		m.cancelFetch()
		m.cancelFetch = nil
	}
}

func (m *Machine) load(ctx context.Context, gen uint64, req TextRequest) {
	text := m.fetchText(ctx, req)

	m.mu.Lock()
	if gen != m.textGen {
		m.mu.Unlock()
		m.log.WithField("generation", gen).Debug("discarding stale text")
		return
	}
	if m.cancelFetch != nil {
		m.cancelFetch()
		m.cancelFetch = nil
	}
	m.session.text = text
	m.transitionLocked(evLoaded)
	ev := m.statusEventLocked()
	m.mu.Unlock()

	m.emit(ev)
}

func (m *Machine) startTimerLocked() {
	m.timerGen++
	gen := m.timerGen
	m.timer.Start(m.cfg.TimeLimit,
		func(remaining int) { m.onTick(gen, remaining) },
		func() { m.onExpire(gen) },
	)
}

func (m *Machine) stopTimerLocked() {
	m.timer.Cancel()
	m.timerGen++
}

func (m *Machine) onTick(gen uint64, remaining int) {
	m.mu.Lock()
	if gen != m.timerGen || m.statusLocked() != model.StatusPlaying {
		m.mu.Unlock()
		return
	}
	m.timeLeft = remaining
	ev := Event{Kind: EventTick, Status: model.StatusPlaying, TimeLeft: remaining}
	m.mu.Unlock()

	m.emit(ev)
}

func (m *Machine) onExpire(gen uint64) {
	m.mu.Lock()
	if gen != m.timerGen || m.statusLocked() != model.StatusPlaying {
		m.mu.Unlock()
		return
	}
	m.timeLeft = 0
	ev := m.finishLocked(m.clock.Now())
	m.mu.Unlock()

	m.emit(ev)
}

// finishLocked performs Playing -> Finished and returns the status event
// carrying the result.
func (m *Machine) finishLocked(now time.Time) Event {
	m.stopTimerLocked()
	result := &model.Result{
		StartedAt: m.session.startTime,
		EndedAt:   now,
		Config:    m.cfg,
		Stats:     m.session.stats,
		TextChars: utf8.RuneCountInString(m.session.text),
	}
	m.transitionLocked(evFinish)
	m.session.startTime = time.Time{}
	ev := m.statusEventLocked()
	ev.Result = result
	return ev
}

func (m *Machine) transitionLocked(event string) {
	err := m.fsm.Event(context.Background(), event)
	var noTransition fsm.NoTransitionError
	if err != nil && !errors.As(err, &noTransition) {
		// Every caller checks the source status first.
		m.log.WithError(err).WithField("event", event).Error("invalid status transition")
	}
}

func (m *Machine) statusLocked() model.Status {
	return model.Status(m.fsm.Current())
}

func (m *Machine) statusEventLocked() Event {
	return Event{Kind: EventStatus, Status: m.statusLocked(), TimeLeft: m.timeLeft}
}

func (m *Machine) emit(events ...Event) {
	m.mu.Lock()
	fn := m.observer
	m.mu.Unlock()
	if fn == nil {
		return
	}
	for _, ev := range events {
		fn(ev)
	}
}
