package engine

import (
	"sync"
	"time"
)

type fakeTask struct {
	sched   *fakeScheduler
	f       func()
	stopped bool
}

func (t *fakeTask) Stop() bool {
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()
	was := !t.stopped
	t.stopped = true
	return was
}

// fakeScheduler queues callbacks until the test calls Tick.
type fakeScheduler struct {
	mu    sync.Mutex
	tasks []*fakeTask
}

func (s *fakeScheduler) AfterFunc(_ time.Duration, f func()) Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTask{sched: s, f: f}
	s.tasks = append(s.tasks, t)
	return t
}

// Tick fires every pending, unstopped callback once.
func (s *fakeScheduler) Tick() {
	s.mu.Lock()
	pending := s.tasks
	s.tasks = nil
	s.mu.Unlock()
	for _, t := range pending {
		s.mu.Lock()
		stopped := t.stopped
		s.mu.Unlock()
		if !stopped {
			t.f()
		}
	}
}

// Pending counts callbacks that would fire on the next Tick.
func (s *fakeScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if !t.stopped {
			n++
		}
	}
	return n
}

// Last returns the most recently scheduled task, stopped or not.
func (s *fakeScheduler) Last() *fakeTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.tasks) == 0 {
		return nil
	}
	return s.tasks[len(s.tasks)-1]
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
