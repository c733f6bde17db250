// Package spawn brings new customers onto the floor at random intervals.
package spawn

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/pixil98/go-cafe/internal/cafe"
	"github.com/pixil98/go-cafe/internal/customer"
	"github.com/pixil98/go-cafe/internal/nav"
	"github.com/pixil98/go-cafe/internal/pool"
	"github.com/pixil98/go-cafe/internal/sched"
	"github.com/pixil98/go-cafe/internal/storage"
)

const (
	DefaultIntervalMin  = 3 * time.Second
	DefaultIntervalMax  = 8 * time.Second
	DefaultMaxCustomers = 12
)

var (
	ErrFull          = errors.New("café is at capacity")
	ErrUnknownPatron = errors.New("unknown patron")
)

// Spawner rents customers from the pool and starts their visits. It runs on
// the scheduler's goroutine.
type Spawner struct {
	sched   *sched.Scheduler
	pool    *pool.Pool[*customer.Lifecycle]
	patrons storage.Storer[*cafe.Patron]

	rng          *rand.Rand
	entrances    []nav.Point
	intervalMin  time.Duration
	intervalMax  time.Duration
	maxCustomers int

	timer *sched.Timer
}

type SpawnerOpt func(*Spawner)

func WithRand(rng *rand.Rand) SpawnerOpt {
	return func(s *Spawner) {
		s.rng = rng
	}
}

// WithInterval sets the inclusive range the delay between arrivals is drawn
// from.
func WithInterval(lo, hi time.Duration) SpawnerOpt {
	return func(s *Spawner) {
		s.intervalMin = lo
		s.intervalMax = hi
	}
}

// WithMaxCustomers caps how many customers may be on the floor at once.
func WithMaxCustomers(n int) SpawnerOpt {
	return func(s *Spawner) {
		s.maxCustomers = n
	}
}

// WithEntrances sets the points customers enter at. One is picked at random
// per arrival; with none configured customers enter at the origin.
func WithEntrances(pts ...nav.Point) SpawnerOpt {
	return func(s *Spawner) {
		s.entrances = append(s.entrances, pts...)
	}
}

func NewSpawner(s *sched.Scheduler, p *pool.Pool[*customer.Lifecycle], patrons storage.Storer[*cafe.Patron], opts ...SpawnerOpt) *Spawner {
	sp := &Spawner{
		sched:        s,
		pool:         p,
		patrons:      patrons,
		intervalMin:  DefaultIntervalMin,
		intervalMax:  DefaultIntervalMax,
		maxCustomers: DefaultMaxCustomers,
	}
	for _, opt := range opts {
		opt(sp)
	}
	return sp
}

// Start schedules the first automatic arrival. Calling it again while running
// does nothing.
func (s *Spawner) Start() {
	if s.timer.Active() {
		return
	}
	s.scheduleNext()
}

// Stop cancels the pending automatic arrival.
func (s *Spawner) Stop() {
	s.timer.Cancel()
	s.timer = nil
}

// Running reports whether an automatic arrival is pending.
func (s *Spawner) Running() bool {
	return s.timer.Active()
}

// Spawn starts a visit for the named patron. An empty id picks a patron by
// weight.
func (s *Spawner) Spawn(patronID string) (*customer.Lifecycle, error) {
	if s.maxCustomers > 0 && s.pool.ActiveCount() >= s.maxCustomers {
		return nil, ErrFull
	}

	profile, err := s.profile(patronID)
	if err != nil {
		return nil, err
	}

	l := s.pool.Rent()
	l.Configure(profile)
	l.SetSpawnAnchor(s.entrance())
	l.Activate()

	slog.Debug("customer arrived", "customer", l.Id(), "patron", profile.Patron, "state", l.State())
	return l, nil
}

func (s *Spawner) scheduleNext() {
	s.timer = s.sched.After(max(s.interval(), time.Millisecond), func() {
		s.timer = nil
		_, err := s.Spawn("")
		if err != nil && !errors.Is(err, ErrFull) {
			slog.Warn("spawning customer", "error", err)
		}
		s.scheduleNext()
	})
}

func (s *Spawner) profile(patronID string) (customer.Profile, error) {
	if patronID == "" {
		patronID = s.pickPatron()
		if patronID == "" {
			return customer.DefaultProfile(), nil
		}
	}

	if s.patrons == nil {
		return customer.Profile{}, fmt.Errorf("%w: %s", ErrUnknownPatron, patronID)
	}
	p := s.patrons.Get(patronID)
	if p == nil {
		return customer.Profile{}, fmt.Errorf("%w: %s", ErrUnknownPatron, patronID)
	}
	return p.Profile(patronID), nil
}

// pickPatron draws a patron id with probability proportional to its weight.
// Patrons with zero weight only arrive when asked for by name.
func (s *Spawner) pickPatron() string {
	if s.patrons == nil {
		return ""
	}

	ids := s.patrons.Ids()
	total := 0
	for _, id := range ids {
		total += s.patrons.Get(id).Weight
	}
	if total == 0 {
		return ""
	}

	n := s.intN(total)
	for _, id := range ids {
		n -= s.patrons.Get(id).Weight
		if n < 0 {
			return id
		}
	}
	return ""
}

func (s *Spawner) entrance() nav.Point {
	if len(s.entrances) == 0 {
		return nav.Point{}
	}
	return s.entrances[s.intN(len(s.entrances))]
}

func (s *Spawner) interval() time.Duration {
	if s.intervalMax <= s.intervalMin {
		return s.intervalMin
	}
	span := int64(s.intervalMax-s.intervalMin) + 1
	if s.rng == nil {
		return s.intervalMin + time.Duration(rand.Int64N(span))
	}
	return s.intervalMin + time.Duration(s.rng.Int64N(span))
}

func (s *Spawner) intN(n int) int {
	if s.rng == nil {
		return rand.IntN(n)
	}
	return s.rng.IntN(n)
}
