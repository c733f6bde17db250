package seating

import "container/list"

// Queue is a FIFO of waiters that also supports removal from the middle. A
// waiter is held at most once.
type Queue struct {
	entries *list.List
	index   map[Waiter]*list.Element
}

func NewQueue() *Queue {
	return &Queue{
		entries: list.New(),
		index:   make(map[Waiter]*list.Element),
	}
}

// Push appends w to the back. It returns false if w is already queued.
func (q *Queue) Push(w Waiter) bool {
	if w == nil {
		return false
	}
	if _, ok := q.index[w]; ok {
		return false
	}
	q.index[w] = q.entries.PushBack(w)
	return true
}

// Pop removes and returns the front waiter.
func (q *Queue) Pop() (Waiter, bool) {
	front := q.entries.Front()
	if front == nil {
		return nil, false
	}
	w := q.entries.Remove(front).(Waiter)
	delete(q.index, w)
	return w, true
}

// Remove drops w wherever it sits. It returns false if w was not queued.
func (q *Queue) Remove(w Waiter) bool {
	e, ok := q.index[w]
	if !ok {
		return false
	}
	q.entries.Remove(e)
	delete(q.index, w)
	return true
}

func (q *Queue) Contains(w Waiter) bool {
	_, ok := q.index[w]
	return ok
}

func (q *Queue) Len() int {
	return q.entries.Len()
}

// Waiters returns the queued waiters front to back.
func (q *Queue) Waiters() []Waiter {
	out := make([]Waiter, 0, q.entries.Len())
	for e := q.entries.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(Waiter))
	}
	return out
}
