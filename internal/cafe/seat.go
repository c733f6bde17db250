// Package cafe holds the asset specs that describe a café floor: where the
// seats are and what kinds of patrons walk in.
package cafe

import (
	"fmt"

	"github.com/pixil98/go-cafe/internal/nav"
	"github.com/pixil98/go-cafe/internal/seating"
	"github.com/pixil98/go-cafe/internal/storage"
	"github.com/pixil98/go-errors"
)

type Seat struct {
	Table string  `json:"table"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

func (s *Seat) Validate() error {
	el := errors.NewErrorList()

	if s.Table == "" {
		el.Add(fmt.Errorf("table is required"))
	}
	if s.X < 0 || s.Y < 0 {
		el.Add(fmt.Errorf("position %s must not be negative", s.Point()))
	}

	return el.Err()
}

func (s *Seat) Point() nav.Point {
	return nav.Point{X: s.X, Y: s.Y}
}

// RegisterSeats registers every seat in the store with the allocator, in id
// order, and returns how many were registered.
func RegisterSeats(a *seating.Allocator, st storage.Storer[*Seat]) int {
	n := 0
	for _, id := range st.Ids() {
		spec := st.Get(id)
		a.Register(seating.NewSeat(id, spec.Table, spec.Point()))
		n++
	}
	return n
}
