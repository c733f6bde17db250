// Package sched provides a cooperative timer queue driven by a virtual clock.
//
// Nothing in this package runs on its own goroutine. The owner advances the
// clock once per tick and due callbacks run inline, in due-time order, on the
// caller's goroutine.
package sched

import (
	"container/heap"
	"time"
)

// Scheduler holds pending timers against a virtual clock. It is not safe for
// concurrent use.
type Scheduler struct {
	now    time.Duration
	seq    uint64
	timers timerHeap
}

// NewScheduler returns a scheduler whose clock starts at zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the current virtual time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Pending returns the number of timers that have not fired or been cancelled.
func (s *Scheduler) Pending() int {
	return len(s.timers)
}

// After schedules fn to run once the clock has advanced by d. A non-positive d
// fires on the next call to Advance.
func (s *Scheduler) After(d time.Duration, fn func()) *Timer {
	if d < 0 {
		d = 0
	}
	s.seq++
	t := &Timer{
		owner: s,
		due:   s.now + d,
		seq:   s.seq,
		fn:    fn,
		index: -1,
	}
	heap.Push(&s.timers, t)
	return t
}

// Advance moves the clock forward by dt and runs every timer that is due,
// including timers scheduled by callbacks during this call. While a callback
// runs, Now reports that timer's due time.
func (s *Scheduler) Advance(dt time.Duration) {
	target := s.now
	if dt > 0 {
		target += dt
	}

	for len(s.timers) > 0 {
		next := s.timers[0]
		if next.due > target {
			break
		}
		heap.Pop(&s.timers)
		if next.due > s.now {
			s.now = next.due
		}
		next.fired = true
		next.fn()
	}
	s.now = target
}

// Timer is a handle to a scheduled callback.
type Timer struct {
	owner *Scheduler
	due   time.Duration
	seq   uint64
	fn    func()
	index int

	fired     bool
	cancelled bool
}

// Due returns the virtual time the timer fires at.
func (t *Timer) Due() time.Duration {
	return t.due
}

// Active reports whether the timer is still waiting to fire.
func (t *Timer) Active() bool {
	return t != nil && !t.fired && !t.cancelled
}

// Cancel removes the timer from its scheduler. It returns false when the timer
// already fired or was cancelled. Safe on a nil timer.
func (t *Timer) Cancel() bool {
	if !t.Active() {
		return false
	}
	t.cancelled = true
	if t.index >= 0 {
		heap.Remove(&t.owner.timers, t.index)
	}
	return true
}

type timerHeap []*Timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].due == h[j].due {
		return h[i].seq < h[j].seq
	}
	return h[i].due < h[j].due
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*Timer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}
