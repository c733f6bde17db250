package seating

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/pixil98/go-cafe/internal/nav"
	"github.com/pixil98/go-testutil"
)

// fakeWaiter records wake-ups and optionally retries on wake.
type fakeWaiter struct {
	name    string
	waiting bool
	woken   int

	alloc *Allocator
	retry bool
	seat  *Seat
}

func (w *fakeWaiter) OnSeatAvailable() {
	w.woken++
	if w.retry && w.alloc != nil {
		w.seat = w.alloc.RequestSeat(w)
		if w.seat != nil {
			w.waiting = false
		}
	}
}

func (w *fakeWaiter) Waiting() bool { return w.waiting }

func newWaiter(name string) *fakeWaiter {
	return &fakeWaiter{name: name, waiting: true}
}

func newAllocatorWithSeats(n int, opts ...AllocatorOpt) (*Allocator, []*Seat) {
	a := NewAllocator(opts...)
	seats := make([]*Seat, n)
	for i := range n {
		seats[i] = NewSeat(fmt.Sprintf("seat-%d", i), "table-1", nav.Point{X: float64(i)})
		a.Register(seats[i])
	}
	return a, seats
}

func TestAllocator_RequestSeat(t *testing.T) {
	tests := map[string]struct {
		seats       int
		requests    int
		expGranted  int
		expQueueLen int
		expFree     int
	}{
		"no seats": {
			seats:       0,
			requests:    2,
			expGranted:  0,
			expQueueLen: 2,
			expFree:     0,
		},
		"enough seats": {
			seats:       3,
			requests:    2,
			expGranted:  2,
			expQueueLen: 0,
			expFree:     1,
		},
		"overflow queues the rest": {
			seats:       2,
			requests:    5,
			expGranted:  2,
			expQueueLen: 3,
			expFree:     0,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			a, _ := newAllocatorWithSeats(tt.seats)

			granted := 0
			for i := range tt.requests {
				if a.RequestSeat(newWaiter(fmt.Sprintf("w%d", i))) != nil {
					granted++
				}
			}

			testutil.AssertEqual(t, "granted", granted, tt.expGranted)
			testutil.AssertEqual(t, "queue length", a.QueueLen(), tt.expQueueLen)
			testutil.AssertEqual(t, "free seats", a.FreeSeatCount(), tt.expFree)
		})
	}
}

func TestAllocator_AtMostOneOccupant(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	a, seats := newAllocatorWithSeats(4, WithSelector(NewRandomSelector(rng)))

	holders := map[*Seat]*fakeWaiter{}
	var live []*fakeWaiter

	for i := range 500 {
		if rng.IntN(2) == 0 || len(live) == 0 {
			w := newWaiter(fmt.Sprintf("w%d", i))
			w.alloc = a
			w.retry = true
			if s := a.RequestSeat(w); s != nil {
				if prev, ok := holders[s]; ok {
					t.Fatalf("seat %s granted to %s while held by %s", s.Id, w.name, prev.name)
				}
				w.seat = s
				w.waiting = false
				holders[s] = w
				live = append(live, w)
			}
			continue
		}

		// Release a random holder and account for whoever got woken.
		idx := rng.IntN(len(live))
		w := live[idx]
		live = append(live[:idx], live[idx+1:]...)
		delete(holders, w.seat)
		a.FreeSeat(w.seat)
		w.seat = nil

		for _, q := range seats {
			if !q.Occupied() {
				continue
			}
			if _, ok := holders[q]; ok {
				continue
			}
			h := a.Holder(q).(*fakeWaiter)
			holders[q] = h
			live = append(live, h)
		}
	}

	occupied := 0
	for _, s := range seats {
		if s.Occupied() {
			occupied++
		}
	}
	testutil.AssertEqual(t, "occupied matches holders", occupied, len(holders))
}

func TestAllocator_FreeSeatWakesFIFOAndSkipsStale(t *testing.T) {
	a, seats := newAllocatorWithSeats(1)
	holder := newWaiter("holder")
	seat := a.RequestSeat(holder)
	if seat == nil {
		t.Fatal("expected the only seat to be granted")
	}

	wa, wb, wc := newWaiter("a"), newWaiter("b"), newWaiter("c")
	for _, w := range []*fakeWaiter{wa, wb, wc} {
		if a.RequestSeat(w) != nil {
			t.Fatalf("%s should have been queued", w.name)
		}
	}
	testutil.AssertEqual(t, "queue length", a.QueueLen(), 3)

	// b despawns while waiting.
	wb.waiting = false

	a.FreeSeat(seats[0])
	testutil.AssertEqual(t, "a woken", wa.woken, 1)
	testutil.AssertEqual(t, "b woken", wb.woken, 0)
	testutil.AssertEqual(t, "c woken", wc.woken, 0)

	a.FreeSeat(seats[0])
	testutil.AssertEqual(t, "a woken once", wa.woken, 1)
	testutil.AssertEqual(t, "b still skipped", wb.woken, 0)
	testutil.AssertEqual(t, "c woken", wc.woken, 1)
	testutil.AssertEqual(t, "queue drained", a.QueueLen(), 0)
}

func TestAllocator_FreeSeatWakesOnlyOne(t *testing.T) {
	a, seats := newAllocatorWithSeats(2)
	a.RequestSeat(newWaiter("x"))
	a.RequestSeat(newWaiter("y"))

	w1, w2 := newWaiter("w1"), newWaiter("w2")
	a.RequestSeat(w1)
	a.RequestSeat(w2)

	// Free both seats without anyone retrying; each free wakes one waiter.
	a.FreeSeat(seats[0])
	testutil.AssertEqual(t, "w1 woken", w1.woken, 1)
	testutil.AssertEqual(t, "w2 woken", w2.woken, 0)

	a.FreeSeat(seats[1])
	testutil.AssertEqual(t, "w2 woken", w2.woken, 1)
}

func TestAllocator_NoDuplicateEnqueue(t *testing.T) {
	a, _ := newAllocatorWithSeats(0)
	w := newWaiter("w")

	testutil.AssertEqual(t, "first request", a.RequestSeat(w) == nil, true)
	testutil.AssertEqual(t, "second request", a.RequestSeat(w) == nil, true)
	testutil.AssertEqual(t, "queue length", a.QueueLen(), 1)
	testutil.AssertEqual(t, "queued", a.Queued(w), true)
}

func TestAllocator_GrantRemovesQueuedWaiter(t *testing.T) {
	a, seats := newAllocatorWithSeats(1)
	holder := newWaiter("holder")
	a.RequestSeat(holder)

	w := newWaiter("w")
	a.RequestSeat(w)

	// Seat frees but the waiter is marked not-waiting so no one is woken.
	w.waiting = false
	a.FreeSeat(seats[0])
	w.waiting = true

	a.RequestSeat(w)
	testutil.AssertEqual(t, "queued after grant", a.Queued(w), false)
	testutil.AssertEqual(t, "holder", a.Holder(seats[0]) == Waiter(w), true)
}

func TestAllocator_RemoveFromQueue(t *testing.T) {
	a, _ := newAllocatorWithSeats(0)
	w1, w2 := newWaiter("w1"), newWaiter("w2")
	a.RequestSeat(w1)
	a.RequestSeat(w2)

	a.RemoveFromQueue(w1)
	a.RemoveFromQueue(w1)
	a.RemoveFromQueue(newWaiter("stranger"))

	testutil.AssertEqual(t, "queue length", a.QueueLen(), 1)
	testutil.AssertEqual(t, "w2 queued", a.Queued(w2), true)
}

func TestAllocator_FreeUnknownSeat(t *testing.T) {
	a, seats := newAllocatorWithSeats(1)
	a.RequestSeat(newWaiter("holder"))
	w := newWaiter("w")
	a.RequestSeat(w)

	a.FreeSeat(NewSeat("elsewhere", "", nav.Point{}))
	a.FreeSeat(nil)

	testutil.AssertEqual(t, "seat still occupied", seats[0].Occupied(), true)
	testutil.AssertEqual(t, "nobody woken", w.woken, 0)
	testutil.AssertEqual(t, "queue length", a.QueueLen(), 1)
}

func TestAllocator_RandomSelectionCoversAllSeats(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	a, seats := newAllocatorWithSeats(3, WithSelector(NewRandomSelector(rng)))

	counts := map[*Seat]int{}
	for range 300 {
		s := a.RequestSeat(newWaiter("w"))
		if s == nil {
			t.Fatal("expected a seat")
		}
		counts[s]++
		a.FreeSeat(s)
	}

	for _, s := range seats {
		if counts[s] == 0 {
			t.Errorf("seat %s was never chosen", s.Id)
		}
	}
}

func TestAllocator_FirstFreeSelector(t *testing.T) {
	a, seats := newAllocatorWithSeats(3, WithSelector(FirstFreeSelector{}))

	testutil.AssertEqual(t, "first grant", a.RequestSeat(newWaiter("a")).Id, seats[0].Id)
	testutil.AssertEqual(t, "second grant", a.RequestSeat(newWaiter("b")).Id, seats[1].Id)
	a.FreeSeat(seats[0])
	testutil.AssertEqual(t, "reuses first", a.RequestSeat(newWaiter("c")).Id, seats[0].Id)
}

func TestAllocator_RegisterSetsBackReference(t *testing.T) {
	a := NewAllocator()
	s := NewSeat("s", "t", nav.Point{})

	a.Register(s)
	a.Register(s)
	testutil.AssertEqual(t, "back reference", s.Allocator() == a, true)
	testutil.AssertEqual(t, "seat count", len(a.Seats()), 1)

	a.Unregister(s)
	testutil.AssertEqual(t, "cleared back reference", s.Allocator() == nil, true)
	testutil.AssertEqual(t, "free count", a.FreeSeatCount(), 0)
}

func TestNewSelector(t *testing.T) {
	tests := map[string]struct {
		name   string
		expErr string
	}{
		"random":      {name: SelectRandom},
		"default":     {name: ""},
		"first free":  {name: SelectFirstFree},
		"unsupported": {name: "closest", expErr: "unknown seat selection"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewSelector(tt.name, nil)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
