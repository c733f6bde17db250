package seating

import (
	"fmt"
	"math/rand/v2"
)

const (
	SelectRandom    = "random"
	SelectFirstFree = "first_free"
)

// Selector picks which free seat a customer is granted. free is never empty.
type Selector interface {
	Select(free []*Seat) *Seat
}

// RandomSelector picks uniformly among the free seats.
type RandomSelector struct {
	rng *rand.Rand
}

// NewRandomSelector uses rng, or the global source when rng is nil.
func NewRandomSelector(rng *rand.Rand) *RandomSelector {
	return &RandomSelector{rng: rng}
}

func (s *RandomSelector) Select(free []*Seat) *Seat {
	if s.rng == nil {
		return free[rand.IntN(len(free))]
	}
	return free[s.rng.IntN(len(free))]
}

// FirstFreeSelector picks the earliest registered free seat.
type FirstFreeSelector struct{}

func (FirstFreeSelector) Select(free []*Seat) *Seat {
	return free[0]
}

// NewSelector builds a selector by its config name.
func NewSelector(name string, rng *rand.Rand) (Selector, error) {
	switch name {
	case SelectRandom, "":
		return NewRandomSelector(rng), nil
	case SelectFirstFree:
		return FirstFreeSelector{}, nil
	default:
		return nil, fmt.Errorf("unknown seat selection %q (must be %s or %s)", name, SelectRandom, SelectFirstFree)
	}
}
