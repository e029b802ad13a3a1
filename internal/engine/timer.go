package engine

import (
	"sync"
	"time"
)

// tickInterval is the countdown granularity.
const tickInterval = time.Second

// Task is a scheduled callback that can be stopped.
type Task interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Task
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Task {
	return time.AfterFunc(d, f)
}

// Timer is a cancellable one-second countdown. At most one countdown is
// active at a time; starting a new one cancels the previous.
type Timer struct {
	mu        sync.Mutex
	sched     Scheduler
	task      Task
	gen       uint64
	remaining int
	active    bool
}

// NewTimer returns a Timer driven by sched, or by real time when sched is nil.
func NewTimer(sched Scheduler) *Timer {
	if sched == nil {
		sched = realScheduler{}
	}
	return &Timer{sched: sched}
}

// Start cancels any running countdown and begins a new one from limitSeconds.
// onTick receives the remaining seconds after every tick that does not expire
// the countdown; onExpire fires once when it reaches zero. Callbacks run
// without the timer lock held.
func (t *Timer) Start(limitSeconds int, onTick func(remaining int), onExpire func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	if limitSeconds <= 0 {
		return
	}
	t.gen++
	t.remaining = limitSeconds
	t.active = true
	t.scheduleLocked(t.gen, onTick, onExpire)
}

// Cancel stops the countdown. Safe to call when nothing is running.
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

// Active reports whether a countdown is running.
func (t *Timer) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Remaining returns the seconds left on the current countdown.
func (t *Timer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

func (t *Timer) stopLocked() {
	if t.task != nil {
		t.task.Stop()
		t.task = nil
	}
	// Bumping the generation turns any in-flight callback into a no-op.
	t.gen++
	t.active = false
}

func (t *Timer) scheduleLocked(gen uint64, onTick func(int), onExpire func()) {
	t.task = t.sched.AfterFunc(tickInterval, func() {
		t.fire(gen, onTick, onExpire)
	})
}

func (t *Timer) fire(gen uint64, onTick func(int), onExpire func()) {
	t.mu.Lock()
	if gen != t.gen || !t.active {
		t.mu.Unlock()
		return
	}
	t.remaining--
	expired := t.remaining <= 0
	if expired {
		t.remaining = 0
		t.active = false
		t.task = nil
		t.gen++
	} else {
		t.scheduleLocked(gen, onTick, onExpire)
	}
	remaining := t.remaining
	t.mu.Unlock()

	if expired {
		if onExpire != nil {
			onExpire()
		}
		return
	}
	if onTick != nil {
		onTick(remaining)
	}
}
