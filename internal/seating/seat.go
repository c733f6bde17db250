// Package seating owns the café's seats and the queue of customers waiting
// for one. The Allocator is the only type allowed to change a seat's
// occupancy or the contents of the queue.
package seating

import "github.com/pixil98/go-cafe/internal/nav"

// Seat is a placeable resource that holds at most one customer.
type Seat struct {
	Id       string
	Table    string
	Position nav.Point

	occupied bool
	alloc    *Allocator
}

func NewSeat(id, table string, pos nav.Point) *Seat {
	return &Seat{Id: id, Table: table, Position: pos}
}

// Occupied reports whether a customer currently holds the seat.
func (s *Seat) Occupied() bool {
	return s.occupied
}

// Allocator returns the allocator the seat is registered with, or nil.
func (s *Seat) Allocator() *Allocator {
	return s.alloc
}

// Waiter is a customer that can sit in the wait queue.
type Waiter interface {
	// OnSeatAvailable is called when a seat frees up and the waiter is next
	// in line. The waiter is already out of the queue and should retry
	// RequestSeat.
	OnSeatAvailable()

	// Waiting reports whether the waiter is still live and waiting. Entries
	// that report false are skipped and dropped when a seat frees.
	Waiting() bool
}
