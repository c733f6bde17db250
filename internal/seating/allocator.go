package seating

import (
	"log/slog"
)

// Allocator is the single authority over seat occupancy and the wait queue.
// It is not safe for concurrent use; callers drive it from one goroutine.
type Allocator struct {
	registry *Registry
	queue    *Queue
	selector Selector
	holders  map[*Seat]Waiter
}

type AllocatorOpt func(*Allocator)

// WithSelector replaces the default uniform random seat choice.
func WithSelector(s Selector) AllocatorOpt {
	return func(a *Allocator) {
		a.selector = s
	}
}

func NewAllocator(opts ...AllocatorOpt) *Allocator {
	a := &Allocator{
		registry: NewRegistry(),
		queue:    NewQueue(),
		selector: NewRandomSelector(nil),
		holders:  make(map[*Seat]Waiter),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Register adds a seat to the registry and points it back at this allocator.
func (a *Allocator) Register(s *Seat) {
	if a.registry.Register(s) {
		s.alloc = a
	}
}

// Unregister removes a seat. Removing an occupied seat leaves its holder
// believing it still has the seat; that is a configuration error.
func (a *Allocator) Unregister(s *Seat) {
	if s == nil || !a.registry.Contains(s) {
		return
	}
	if s.occupied {
		slog.Warn("unregistering occupied seat", "seat", s.Id)
	}
	a.registry.Unregister(s)
	delete(a.holders, s)
	s.alloc = nil
}

// RequestSeat grants w a free seat, or queues w and returns nil when every
// seat is taken. A waiter that is already queued keeps its place.
func (a *Allocator) RequestSeat(w Waiter) *Seat {
	free := a.registry.Free()
	if len(free) > 0 {
		s := a.selector.Select(free)
		s.occupied = true
		a.holders[s] = w
		a.queue.Remove(w)
		return s
	}

	a.queue.Push(w)
	return nil
}

// FreeSeat marks s unoccupied and wakes the first live waiter, if any.
// Waiters that are no longer waiting are dropped on the way.
func (a *Allocator) FreeSeat(s *Seat) {
	if s == nil || !a.registry.Contains(s) {
		slog.Warn("freeing unknown seat", "seat", seatId(s))
		return
	}
	s.occupied = false
	delete(a.holders, s)

	for {
		w, ok := a.queue.Pop()
		if !ok {
			return
		}
		if !w.Waiting() {
			continue
		}
		w.OnSeatAvailable()
		return
	}
}

// RemoveFromQueue drops w from the wait queue if present.
func (a *Allocator) RemoveFromQueue(w Waiter) {
	a.queue.Remove(w)
}

// FreeSeatCount returns the number of unoccupied seats.
func (a *Allocator) FreeSeatCount() int {
	return a.registry.FreeCount()
}

// Queued reports whether w is in the wait queue.
func (a *Allocator) Queued(w Waiter) bool {
	return a.queue.Contains(w)
}

func (a *Allocator) QueueLen() int {
	return a.queue.Len()
}

// Waiters returns the wait queue front to back.
func (a *Allocator) Waiters() []Waiter {
	return a.queue.Waiters()
}

// Seats returns every registered seat in registration order.
func (a *Allocator) Seats() []*Seat {
	return a.registry.All()
}

// Holder returns the waiter that was granted s, or nil if s is free.
func (a *Allocator) Holder(s *Seat) Waiter {
	return a.holders[s]
}

func seatId(s *Seat) string {
	if s == nil {
		return "<nil>"
	}
	return s.Id
}
