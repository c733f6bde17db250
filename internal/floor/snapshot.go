package floor

import "github.com/pixil98/go-cafe/internal/customer"

// Snapshot is a read-only copy of the floor taken at the end of a tick.
type Snapshot struct {
	Clock     float64        `json:"clock"`
	Seats     []SeatView     `json:"seats"`
	Queue     []string       `json:"queue"`
	Customers []CustomerView `json:"customers"`
	Stats     Stats          `json:"stats"`
}

type SeatView struct {
	Id       string  `json:"id"`
	Table    string  `json:"table"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Occupied bool    `json:"occupied"`
	Customer string  `json:"customer,omitempty"`
}

type CustomerView struct {
	Id     string         `json:"id"`
	Patron string         `json:"patron,omitempty"`
	State  customer.State `json:"state"`
	Seat   string         `json:"seat,omitempty"`
	X      float64        `json:"x"`
	Y      float64        `json:"y"`
	Order  string         `json:"order,omitempty"`
	Waited float64        `json:"waited"`
}

// FreeSeats counts the seats nobody holds.
func (s Snapshot) FreeSeats() int {
	n := 0
	for _, seat := range s.Seats {
		if !seat.Occupied {
			n++
		}
	}
	return n
}

// Customer finds a customer by id.
func (s Snapshot) Customer(id string) (CustomerView, bool) {
	for _, c := range s.Customers {
		if c.Id == id {
			return c, true
		}
	}
	return CustomerView{}, false
}

func (f *Floor) snapshot() Snapshot {
	snap := Snapshot{
		Clock: f.sched.Now().Seconds(),
		Stats: f.stats,
		Queue: []string{},
	}

	for _, s := range f.alloc.Seats() {
		sv := SeatView{
			Id:       s.Id,
			Table:    s.Table,
			X:        s.Position.X,
			Y:        s.Position.Y,
			Occupied: s.Occupied(),
		}
		if l, ok := f.alloc.Holder(s).(*customer.Lifecycle); ok {
			sv.Customer = l.Id()
		}
		snap.Seats = append(snap.Seats, sv)
	}

	for _, w := range f.alloc.Waiters() {
		if l, ok := w.(*customer.Lifecycle); ok {
			snap.Queue = append(snap.Queue, l.Id())
		}
	}

	snap.Customers = make([]CustomerView, 0, f.pool.ActiveCount())
	for _, l := range f.pool.Active() {
		snap.Customers = append(snap.Customers, f.viewCustomer(l))
	}

	return snap
}

func (f *Floor) viewCustomer(l *customer.Lifecycle) CustomerView {
	pos := l.Position()
	cv := CustomerView{
		Id:     l.Id(),
		Patron: l.Profile().Patron,
		State:  l.State(),
		X:      pos.X,
		Y:      pos.Y,
		Order:  l.Order(),
		Waited: l.Waited().Seconds(),
	}
	if s := l.Seat(); s != nil {
		cv.Seat = s.Id
	}
	return cv
}
