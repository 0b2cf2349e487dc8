// Package scheduler abstracts delayed callbacks so the transfer simulation can
// run against the wall clock in production and a manual clock in tests.
package scheduler

import (
	"sort"
	"sync"
	"time"
)

// Timer is a pending callback that can be cancelled.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped the timer; false means it already fired or was stopped.
	Stop() bool
}

// Scheduler runs callbacks after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
	Now() time.Time
}

// Real schedules on the wall clock using time.AfterFunc. Callbacks run on
// their own goroutine; callers serialize shared state themselves.
type Real struct{}

// NewReal returns the wall-clock scheduler.
func NewReal() Real { return Real{} }

// AfterFunc schedules fn after d.
func (Real) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// Now returns time.Now().
func (Real) Now() time.Time { return time.Now() }

// Manual is a virtual clock. Time only moves when Advance or Step is called,
// and due callbacks run synchronously on the caller's goroutine in due order.
type Manual struct {
	mu      sync.Mutex
	now     time.Time
	seq     uint64
	pending []*manualTimer
}

type manualTimer struct {
	m       *Manual
	due     time.Time
	seq     uint64
	fn      func()
	stopped bool
}

// NewManual creates a manual clock starting at start. A zero start uses a
// fixed epoch so test output is reproducible.
func NewManual(start time.Time) *Manual {
	if start.IsZero() {
		start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return &Manual{now: start}
}

// AfterFunc registers fn to run once the clock reaches now+d.
func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTimer{m: m, due: m.now.Add(d), seq: m.seq, fn: fn}
	m.pending = append(m.pending, t)
	return t
}

// Now returns the virtual time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending returns the number of callbacks waiting to fire.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Advance moves the clock forward by d, firing every callback that becomes
// due, including ones scheduled by callbacks during the advance. It returns
// the number of callbacks run.
func (m *Manual) Advance(d time.Duration) int {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	fired := 0
	for {
		t := m.popDue(target)
		if t == nil {
			break
		}
		t.fn()
		fired++
	}

	m.mu.Lock()
	if target.After(m.now) {
		m.now = target
	}
	m.mu.Unlock()
	return fired
}

// Step jumps to the next pending callback and runs it. It reports false when
// nothing is pending.
func (m *Manual) Step() bool {
	t := m.popDue(time.Time{})
	if t == nil {
		return false
	}
	t.fn()
	return true
}

// RunUntilIdle steps until no callbacks remain or limit callbacks have run.
// It returns the number run.
func (m *Manual) RunUntilIdle(limit int) int {
	n := 0
	for n < limit && m.Step() {
		n++
	}
	return n
}

// popDue removes and returns the earliest timer due at or before target.
// A zero target accepts any timer.
func (m *Manual) popDue(target time.Time) *manualTimer {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.pending) == 0 {
		return nil
	}
	sort.SliceStable(m.pending, func(i, j int) bool {
		a, b := m.pending[i], m.pending[j]
		if a.due.Equal(b.due) {
			return a.seq < b.seq
		}
		return a.due.Before(b.due)
	})
	next := m.pending[0]
	if !target.IsZero() && next.due.After(target) {
		return nil
	}
	m.pending = m.pending[1:]
	next.stopped = true
	if next.due.After(m.now) {
		m.now = next.due
	}
	return next
}

// Stop cancels the timer if it has not fired.
func (t *manualTimer) Stop() bool {
	m := t.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.stopped {
		return false
	}
	t.stopped = true
	for i, p := range m.pending {
		if p == t {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			break
		}
	}
	return true
}
