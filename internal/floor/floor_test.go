package floor

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pixil98/go-cafe/internal/cafe"
	"github.com/pixil98/go-cafe/internal/customer"
	"github.com/pixil98/go-cafe/internal/seating"
	"github.com/pixil98/go-cafe/internal/spawn"
	"github.com/pixil98/go-testutil"
)

const tick = 100 * time.Millisecond

type memStore[T any] map[string]T

func (m memStore[T]) Get(id string) T { return m[id] }

func (m memStore[T]) GetAll() map[string]T { return m }

func (m memStore[T]) Ids() []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

var testPatrons = memStore[*cafe.Patron]{
	"regular": {
		Name:     "Regular",
		Weight:   1,
		Patience: cafe.Range{Min: "15s", Max: "15s"},
		Dwell:    cafe.Range{Min: "2s", Max: "2s"},
		Speed:    4,
		Menu:     []string{"latte"},
	},
}

func newTestFloor(t *testing.T, seats memStore[*cafe.Seat], opts ...FloorOpt) *Floor {
	t.Helper()

	opts = append([]FloorOpt{
		WithSeed(42),
		WithAutoSpawn(false),
		WithSelector(seating.FirstFreeSelector{}),
		WithSettle(100 * time.Millisecond),
	}, opts...)

	f, err := NewFloor(seats, testPatrons, opts...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return f
}

// await runs fn on another goroutine and ticks the floor until it returns.
func await[T any](t *testing.T, f *Floor, fn func(context.Context) (T, error)) (T, error) {
	t.Helper()

	type result struct {
		val T
		err error
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ch := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		ch <- result{val: v, err: err}
	}()

	for {
		select {
		case r := <-ch:
			return r.val, r.err
		case <-ctx.Done():
			t.Fatal("timed out waiting for the floor")
		default:
		}
		if err := f.Tick(ctx, tick); err != nil {
			t.Fatalf("unexpected tick error: %v", err)
		}
		time.Sleep(time.Millisecond)
	}
}

// arrive spawns on the test goroutine, which stands in for the driver.
func arrive(t *testing.T, f *Floor, patron string) CustomerView {
	t.Helper()
	cv, err := f.spawn(patron)
	if err != nil {
		t.Fatalf("unexpected spawn error: %v", err)
	}
	f.publish()
	return cv
}

func run(t *testing.T, f *Floor, d time.Duration) {
	t.Helper()
	for elapsed := time.Duration(0); elapsed < d; elapsed += tick {
		if err := f.Tick(context.Background(), tick); err != nil {
			t.Fatalf("unexpected tick error: %v", err)
		}
	}
}

func TestNewFloor_NoSeats(t *testing.T) {
	_, err := NewFloor(memStore[*cafe.Seat]{}, testPatrons)
	testutil.AssertErrorContains(t, err, "no seats defined")
}

func TestNewFloor_InitialSnapshot(t *testing.T) {
	f := newTestFloor(t, memStore[*cafe.Seat]{
		"bar-1": {Table: "bar", X: 1, Y: 0},
		"bar-2": {Table: "bar", X: 2, Y: 0},
	}, WithPrewarm(4))

	snap := f.Snapshot()
	testutil.AssertEqual(t, "seats", len(snap.Seats), 2)
	testutil.AssertEqual(t, "free", snap.FreeSeats(), 2)
	testutil.AssertEqual(t, "queue", len(snap.Queue), 0)
	testutil.AssertEqual(t, "customers", len(snap.Customers), 0)
	testutil.AssertEqual(t, "prewarmed", f.pool.IdleCount(), 4)
}

func TestFloor_QueuedCustomerTakesFreedSeat(t *testing.T) {
	f := newTestFloor(t, memStore[*cafe.Seat]{
		"bar-1": {Table: "bar", X: 2, Y: 0},
	})

	a := arrive(t, f, "regular")
	b := arrive(t, f, "regular")

	testutil.AssertEqual(t, "a heading to seat", a.State.String(), customer.StateMovingToSeat.String())
	testutil.AssertEqual(t, "b waiting", b.State.String(), customer.StateWaiting.String())

	snap := f.Snapshot()
	testutil.AssertEqual(t, "queue length", len(snap.Queue), 1)
	testutil.AssertEqual(t, "queued id", snap.Queue[0], b.Id)
	testutil.AssertEqual(t, "seat holder", snap.Seats[0].Customer, a.Id)

	run(t, f, 4*time.Second)

	snap = f.Snapshot()
	bv, ok := snap.Customer(b.Id)
	testutil.AssertEqual(t, "b still here", ok, true)
	testutil.AssertEqual(t, "b seat", bv.Seat, "bar-1")
	testutil.AssertEqual(t, "queue drained", len(snap.Queue), 0)
	testutil.AssertEqual(t, "arrived", snap.Stats.Arrived, 2)
	testutil.AssertEqual(t, "completed", snap.Stats.Completed, 1)
	testutil.AssertEqual(t, "seat occupied", snap.Seats[0].Occupied, true)
	testutil.AssertEqual(t, "seat holder", snap.Seats[0].Customer, b.Id)
}

func TestFloor_Serve(t *testing.T) {
	f := newTestFloor(t, memStore[*cafe.Seat]{
		"bar-1": {Table: "bar", X: 1, Y: 0},
	})
	a := arrive(t, f, "regular")
	b := arrive(t, f, "regular")
	run(t, f, time.Second)

	tests := map[string]struct {
		id     string
		item   string
		expErr error
	}{
		"unknown customer": {id: "nobody", item: "latte", expErr: ErrCustomerNotFound},
		"waiting customer": {id: b.Id, item: "latte", expErr: customer.ErrNotSeated},
		"seated customer":  {id: a.Id, item: "latte"},
	}

	for _, name := range []string{"unknown customer", "waiting customer", "seated customer"} {
		tt := tests[name]
		t.Run(name, func(t *testing.T) {
			err := f.serve(tt.id, tt.item)
			if tt.expErr != nil {
				testutil.AssertEqual(t, "error", errors.Is(err, tt.expErr), true)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}

	f.publish()
	testutil.AssertEqual(t, "served right", f.Snapshot().Stats.ServedRight, 1)
}

func TestFloor_SubmitRoundTrip(t *testing.T) {
	f := newTestFloor(t, memStore[*cafe.Seat]{
		"bar-1": {Table: "bar", X: 1, Y: 0},
	})

	cv, err := await(t, f, func(ctx context.Context) (CustomerView, error) {
		return f.Spawn(ctx, "regular")
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "patron", cv.Patron, "regular")

	_, err = await(t, f, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, f.Dismiss(ctx, cv.Id)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = await(t, f, func(ctx context.Context) (CustomerView, error) {
		return f.Spawn(ctx, "ghost")
	})
	testutil.AssertEqual(t, "unknown patron", errors.Is(err, spawn.ErrUnknownPatron), true)
}

func TestFloor_SubmitHonoursContext(t *testing.T) {
	f := newTestFloor(t, memStore[*cafe.Seat]{
		"bar-1": {Table: "bar", X: 1, Y: 0},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Spawn(ctx, "regular")
	testutil.AssertEqual(t, "cancelled", errors.Is(err, context.Canceled), true)
}

func TestFloor_DismissQueuedCustomer(t *testing.T) {
	f := newTestFloor(t, memStore[*cafe.Seat]{
		"bar-1": {Table: "bar", X: 1, Y: 0},
	})
	arrive(t, f, "regular")
	b := arrive(t, f, "regular")

	err := f.dismiss(b.Id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.publish()

	snap := f.Snapshot()
	testutil.AssertEqual(t, "dismiss again", errors.Is(f.dismiss(b.Id), ErrCustomerNotFound), true)
	testutil.AssertEqual(t, "queue", len(snap.Queue), 0)
	testutil.AssertEqual(t, "customers", len(snap.Customers), 1)
	testutil.AssertEqual(t, "reclaimed", snap.Stats.Reclaimed, 1)
}

func TestFloor_AutoSpawn(t *testing.T) {
	f := newTestFloor(t, memStore[*cafe.Seat]{
		"bar-1": {Table: "bar", X: 1, Y: 0},
		"bar-2": {Table: "bar", X: 2, Y: 0},
	},
		WithAutoSpawn(true),
		WithSpawnerOpts(spawn.WithInterval(500*time.Millisecond, time.Second)),
	)

	run(t, f, 3*time.Second)
	if f.Snapshot().Stats.Arrived == 0 {
		t.Fatal("expected automatic arrivals")
	}

	_, err := await(t, f, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, f.SetAutoSpawn(ctx, false)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	run(t, f, tick)
	arrived := f.Snapshot().Stats.Arrived

	run(t, f, 5*time.Second)
	testutil.AssertEqual(t, "no more arrivals", f.Snapshot().Stats.Arrived, arrived)
}

func TestFloor_StopReclaimsEveryone(t *testing.T) {
	f := newTestFloor(t, memStore[*cafe.Seat]{
		"bar-1": {Table: "bar", X: 1, Y: 0},
	})
	arrive(t, f, "regular")
	arrive(t, f, "regular")

	f.Stop()

	snap := f.Snapshot()
	testutil.AssertEqual(t, "customers", len(snap.Customers), 0)
	testutil.AssertEqual(t, "queue", len(snap.Queue), 0)
	testutil.AssertEqual(t, "free", snap.FreeSeats(), 1)
	testutil.AssertEqual(t, "reclaimed", snap.Stats.Reclaimed, 2)
	testutil.AssertEqual(t, "feedback", snap.Stats.Feedback, 2)
}

func TestFloor_CustomerIdsAreUnique(t *testing.T) {
	f := newTestFloor(t, memStore[*cafe.Seat]{
		"bar-1": {Table: "bar", X: 1, Y: 0},
	})

	seen := map[string]bool{}
	for range 5 {
		cv := arrive(t, f, "regular")
		if _, err := uuid.Parse(cv.Id); err != nil {
			t.Fatalf("customer id %q is not a uuid: %v", cv.Id, err)
		}
		testutil.AssertEqual(t, "duplicate id "+cv.Id, seen[cv.Id], false)
		seen[cv.Id] = true
		testutil.AssertEqual(t, "found "+cv.Id, f.find(cv.Id) != nil, true)
	}
	testutil.AssertEqual(t, "customers", len(f.Snapshot().Customers), 5)
}

func TestStats_OnEvent(t *testing.T) {
	var s Stats
	events := []customer.Event{
		{Kind: customer.EventTransition, From: customer.StateIdle, To: customer.StateWaiting},
		{Kind: customer.EventTransition, From: customer.StateWaiting, To: customer.StateMovingToSeat},
		{Kind: customer.EventTransition, From: customer.StateMovingToSeat, To: customer.StateSeated},
		{Kind: customer.EventOrderServed, Correct: false},
		{Kind: customer.EventFeedback, Satisfaction: 0.5},
		{Kind: customer.EventFeedback, Satisfaction: 1.0},
		{Kind: customer.EventDespawned, Reason: customer.ReasonCompleted},
		{Kind: customer.EventDespawned, Reason: customer.ReasonAbandoned},
		{Kind: customer.EventDespawned, Reason: customer.ReasonReclaimed},
	}
	for _, e := range events {
		s.OnEvent(e)
	}

	testutil.AssertEqual(t, "arrived", s.Arrived, 1)
	testutil.AssertEqual(t, "seated", s.Seated, 1)
	testutil.AssertEqual(t, "served wrong", s.ServedWrong, 1)
	testutil.AssertEqual(t, "feedback", s.Feedback, 2)
	testutil.AssertEqual(t, "satisfaction", s.Satisfaction, 0.75)
	testutil.AssertEqual(t, "completed", s.Completed, 1)
	testutil.AssertEqual(t, "abandoned", s.Abandoned, 1)
	testutil.AssertEqual(t, "reclaimed", s.Reclaimed, 1)
}
