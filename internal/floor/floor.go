// Package floor runs the café: it owns the seats, the wait queue and every
// customer, and advances them once per driver tick.
//
// All simulation state lives on the driver goroutine. Other goroutines talk
// to the floor through Submit and read it through Snapshot.
package floor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pixil98/go-cafe/internal/cafe"
	"github.com/pixil98/go-cafe/internal/customer"
	"github.com/pixil98/go-cafe/internal/nav"
	"github.com/pixil98/go-cafe/internal/pool"
	"github.com/pixil98/go-cafe/internal/sched"
	"github.com/pixil98/go-cafe/internal/seating"
	"github.com/pixil98/go-cafe/internal/spawn"
	"github.com/pixil98/go-cafe/internal/storage"
)

const DefaultCommandBuffer = 64

var ErrCustomerNotFound = errors.New("customer not found")

type Floor struct {
	sched   *sched.Scheduler
	alloc   *seating.Allocator
	pool    *pool.Pool[*customer.Lifecycle]
	spawner *spawn.Spawner
	stats   Stats

	area      nav.Area
	rng       *rand.Rand
	selector  seating.Selector
	settle    time.Duration
	prewarm   int
	autoSpawn bool
	spawnOpts []spawn.SpawnerOpt
	observers []customer.Observer

	cmds chan func()

	mu   sync.RWMutex
	snap Snapshot
}

// NewFloor registers every seat and prepares the customer pool. Automatic
// arrivals begin on the first tick when enabled.
func NewFloor(seats storage.Storer[*cafe.Seat], patrons storage.Storer[*cafe.Patron], opts ...FloorOpt) (*Floor, error) {
	f := &Floor{
		sched:     sched.NewScheduler(),
		settle:    customer.DefaultSettle,
		autoSpawn: true,
		cmds:      make(chan func(), DefaultCommandBuffer),
	}
	for _, opt := range opts {
		opt(f)
	}

	var allocOpts []seating.AllocatorOpt
	if f.selector != nil {
		allocOpts = append(allocOpts, seating.WithSelector(f.selector))
	}
	f.alloc = seating.NewAllocator(allocOpts...)

	n := cafe.RegisterSeats(f.alloc, seats)
	if n == 0 {
		return nil, fmt.Errorf("no seats defined")
	}
	for _, s := range f.alloc.Seats() {
		if !f.area.Contains(s.Position) {
			slog.Warn("seat is outside the walkable area, customers will be placed on it directly", "seat", s.Id, "position", s.Position)
		}
	}

	f.pool = pool.New(f.newCustomer)
	f.pool.Prewarm(f.prewarm)

	spawnOpts := append([]spawn.SpawnerOpt{spawn.WithRand(f.rng)}, f.spawnOpts...)
	f.spawner = spawn.NewSpawner(f.sched, f.pool, patrons, spawnOpts...)

	f.publish()
	slog.Info("floor ready", "seats", n, "prewarmed", f.pool.IdleCount(), "auto_spawn", f.autoSpawn)
	return f, nil
}

func (f *Floor) newCustomer() *customer.Lifecycle {
	agent := nav.NewAgent(f.area)

	var l *customer.Lifecycle
	l = customer.NewLifecycle(uuid.NewString(), f.alloc, f.sched, agent,
		customer.WithRand(f.rng),
		customer.WithSettle(f.settle),
		customer.WithObserver(customer.ObserverFunc(f.dispatch)),
		customer.WithRelease(func(*customer.Lifecycle) { f.pool.Return(l) }),
	)
	return l
}

func (f *Floor) dispatch(e customer.Event) {
	f.stats.OnEvent(e)
	for _, o := range f.observers {
		o.OnEvent(e)
	}
}

// Tick runs queued commands, advances simulated time by dt and moves every
// active customer.
func (f *Floor) Tick(ctx context.Context, dt time.Duration) error {
	if f.autoSpawn && !f.spawner.Running() {
		f.spawner.Start()
	}

	f.drain()
	f.sched.Advance(dt)
	f.pool.ForEachActive(func(l *customer.Lifecycle) {
		l.Update(dt)
	})
	f.publish()

	return nil
}

func (f *Floor) drain() {
	for {
		select {
		case fn := <-f.cmds:
			fn()
		default:
			return
		}
	}
}

// Submit queues fn to run on the simulation goroutine at the start of the
// next tick.
func (f *Floor) Submit(ctx context.Context, fn func()) error {
	select {
	case f.cmds <- fn:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// call runs fn on the simulation goroutine and waits for its result.
func call[T any](ctx context.Context, f *Floor, fn func() (T, error)) (T, error) {
	type result struct {
		val T
		err error
	}
	ch := make(chan result, 1)

	var zero T
	err := f.Submit(ctx, func() {
		v, err := fn()
		ch <- result{val: v, err: err}
	})
	if err != nil {
		return zero, err
	}

	select {
	case r := <-ch:
		return r.val, r.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Spawn brings a customer in now. An empty patron is picked by weight.
func (f *Floor) Spawn(ctx context.Context, patron string) (CustomerView, error) {
	return call(ctx, f, func() (CustomerView, error) {
		return f.spawn(patron)
	})
}

func (f *Floor) spawn(patron string) (CustomerView, error) {
	l, err := f.spawner.Spawn(patron)
	if err != nil {
		return CustomerView{}, err
	}
	return f.viewCustomer(l), nil
}

// Serve hands item to the seated customer with the given id.
func (f *Floor) Serve(ctx context.Context, customerID, item string) error {
	_, err := call(ctx, f, func() (struct{}, error) {
		return struct{}{}, f.serve(customerID, item)
	})
	return err
}

func (f *Floor) serve(customerID, item string) error {
	l := f.find(customerID)
	if l == nil {
		return fmt.Errorf("%w: %s", ErrCustomerNotFound, customerID)
	}
	return l.Serve(item)
}

// Dismiss ends a customer's visit immediately.
func (f *Floor) Dismiss(ctx context.Context, customerID string) error {
	_, err := call(ctx, f, func() (struct{}, error) {
		return struct{}{}, f.dismiss(customerID)
	})
	return err
}

func (f *Floor) dismiss(customerID string) error {
	l := f.find(customerID)
	if l == nil {
		return fmt.Errorf("%w: %s", ErrCustomerNotFound, customerID)
	}
	f.pool.Return(l)
	return nil
}

// SetAutoSpawn turns automatic arrivals on or off.
func (f *Floor) SetAutoSpawn(ctx context.Context, on bool) error {
	return f.Submit(ctx, func() {
		f.autoSpawn = on
		if !on {
			f.spawner.Stop()
		}
	})
}

// Stop ends every visit in progress. The driver calls it after its last tick.
func (f *Floor) Stop() {
	f.spawner.Stop()
	n := f.pool.Drain()
	f.publish()
	slog.Info("floor closed", "customers_reclaimed", n)
}

func (f *Floor) find(id string) *customer.Lifecycle {
	for _, l := range f.pool.Active() {
		if l.Id() == id {
			return l
		}
	}
	return nil
}

// Snapshot returns the state published at the end of the last tick.
func (f *Floor) Snapshot() Snapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.snap
}

func (f *Floor) publish() {
	snap := f.snapshot()

	f.mu.Lock()
	f.snap = snap
	f.mu.Unlock()
}
