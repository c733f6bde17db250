package seating

// Registry tracks the set of known seats in registration order.
type Registry struct {
	seats []*Seat
	index map[*Seat]int
}

func NewRegistry() *Registry {
	return &Registry{index: make(map[*Seat]int)}
}

// Register adds a seat, unoccupied. Registering a known seat does nothing and
// returns false.
func (r *Registry) Register(s *Seat) bool {
	if s == nil {
		return false
	}
	if _, ok := r.index[s]; ok {
		return false
	}
	s.occupied = false
	r.index[s] = len(r.seats)
	r.seats = append(r.seats, s)
	return true
}

// Unregister removes a seat. It does not touch whichever customer may still
// believe it holds the seat.
func (r *Registry) Unregister(s *Seat) bool {
	i, ok := r.index[s]
	if !ok {
		return false
	}
	delete(r.index, s)
	last := len(r.seats) - 1
	copy(r.seats[i:], r.seats[i+1:])
	r.seats[last] = nil
	r.seats = r.seats[:last]
	for j := i; j < len(r.seats); j++ {
		r.index[r.seats[j]] = j
	}
	return true
}

func (r *Registry) Contains(s *Seat) bool {
	_, ok := r.index[s]
	return ok
}

func (r *Registry) Len() int {
	return len(r.seats)
}

// FreeCount returns the number of unoccupied seats.
func (r *Registry) FreeCount() int {
	n := 0
	for _, s := range r.seats {
		if !s.occupied {
			n++
		}
	}
	return n
}

// Free returns the unoccupied seats in registration order.
func (r *Registry) Free() []*Seat {
	var free []*Seat
	for _, s := range r.seats {
		if !s.occupied {
			free = append(free, s)
		}
	}
	return free
}

// All returns every registered seat in registration order.
func (r *Registry) All() []*Seat {
	out := make([]*Seat, len(r.seats))
	copy(out, r.seats)
	return out
}
