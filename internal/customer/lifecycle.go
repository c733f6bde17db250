// Package customer drives a single customer's visit: queueing for a seat,
// walking to it, staying a while and walking back out.
package customer

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/pixil98/go-cafe/internal/nav"
	"github.com/pixil98/go-cafe/internal/sched"
	"github.com/pixil98/go-cafe/internal/seating"
)

// Allocator is the part of the seat allocator a customer talks to.
type Allocator interface {
	RequestSeat(seating.Waiter) *seating.Seat
	FreeSeat(*seating.Seat)
	RemoveFromQueue(seating.Waiter)
}

// Lifecycle is the state machine for one pooled customer. Every method must be
// called from the goroutine that advances the scheduler.
//
// Each suspension (patience, dwell, settle) is a scheduler timer. Teardown
// cancels the pending timer and bumps the generation, so a callback that was
// already dequeued for this instance can never act on a later visit.
type Lifecycle struct {
	id        string
	alloc     Allocator
	sched     *sched.Scheduler
	agent     nav.Navigator
	rng       *rand.Rand
	settle    time.Duration
	release   func(*Lifecycle)
	observers []Observer

	active  bool
	gen     uint64
	state   State
	profile Profile

	seat      *seating.Seat
	anchor    nav.Point
	hasAnchor bool
	target    nav.Point
	snapped   bool
	timer     *sched.Timer

	waitStart time.Duration
	waited    time.Duration
	patience  time.Duration
	wasSeated bool

	order         string
	served        bool
	servedCorrect bool
	feedbackSent  bool
	reason        string
}

type LifecycleOpt func(*Lifecycle)

// WithRand sets the random source for patience, dwell and order draws.
func WithRand(rng *rand.Rand) LifecycleOpt {
	return func(l *Lifecycle) {
		l.rng = rng
	}
}

// WithSettle sets how long a customer lingers at the exit before despawning.
func WithSettle(d time.Duration) LifecycleOpt {
	return func(l *Lifecycle) {
		l.settle = d
	}
}

// WithRelease sets the hook that hands the customer back to its pool when a
// visit ends.
func WithRelease(fn func(*Lifecycle)) LifecycleOpt {
	return func(l *Lifecycle) {
		l.release = fn
	}
}

// WithObserver adds an observer of state transitions and visit events.
func WithObserver(o Observer) LifecycleOpt {
	return func(l *Lifecycle) {
		l.observers = append(l.observers, o)
	}
}

func NewLifecycle(id string, alloc Allocator, s *sched.Scheduler, agent nav.Navigator, opts ...LifecycleOpt) *Lifecycle {
	l := &Lifecycle{
		id:      id,
		alloc:   alloc,
		sched:   s,
		agent:   agent,
		settle:  DefaultSettle,
		profile: DefaultProfile(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Lifecycle) Id() string { return l.id }
func (l *Lifecycle) State() State { return l.state }
func (l *Lifecycle) Active() bool { return l.active }
func (l *Lifecycle) Seat() *seating.Seat { return l.seat }
func (l *Lifecycle) Profile() Profile { return l.profile }
func (l *Lifecycle) Order() string { return l.order }
func (l *Lifecycle) Position() nav.Point { return l.agent.Position() }
func (l *Lifecycle) SpawnAnchor() nav.Point { return l.anchor }

// Waited returns how long the customer waited for a seat this visit, or how
// long it has been waiting so far.
func (l *Lifecycle) Waited() time.Duration {
	if l.state == StateWaiting {
		return l.sched.Now() - l.waitStart
	}
	return l.waited
}

// Reset reinitialises every per-visit field. The pool calls it on rent.
func (l *Lifecycle) Reset() {
	if l.active {
		l.Teardown()
	}
	l.gen++
	l.state = StateIdle
	l.profile = DefaultProfile()
	l.seat = nil
	l.anchor = nav.Point{}
	l.hasAnchor = false
	l.target = nav.Point{}
	l.snapped = false
	l.timer = nil
	l.waitStart = 0
	l.waited = 0
	l.patience = 0
	l.wasSeated = false
	l.order = ""
	l.served = false
	l.servedCorrect = false
	l.feedbackSent = false
	l.reason = ""
	if a, ok := l.agent.(interface{ SetSpeed(float64) }); ok {
		a.SetSpeed(nav.DefaultSpeed)
	}
}

// Configure sets the tuning for the next visit. It has no effect once the
// visit has started.
func (l *Lifecycle) Configure(p Profile) {
	if l.active {
		return
	}
	l.profile = p
	if a, ok := l.agent.(interface{ SetSpeed(float64) }); ok && p.Speed > 0 {
		a.SetSpeed(p.Speed)
	}
}

// SetSpawnAnchor overrides the point the customer enters at and returns to.
func (l *Lifecycle) SetSpawnAnchor(p nav.Point) {
	l.anchor = p
	l.hasAnchor = true
}

// Activate starts a visit: the customer either gets a seat straight away or
// joins the wait queue.
func (l *Lifecycle) Activate() {
	if l.active {
		slog.Warn("activating customer that is already active", "customer", l.id)
		return
	}
	l.active = true

	if l.hasAnchor {
		l.agent.WarpTo(l.anchor)
	} else {
		l.anchor = l.agent.Position()
		l.hasAnchor = true
	}

	if s := l.alloc.RequestSeat(l); s != nil {
		l.approachSeat(s)
		return
	}
	l.enterWaiting()
}

// OnSeatAvailable is the allocator's wake-up call. The customer retries its
// seat request; a customer that is not waiting ignores it.
func (l *Lifecycle) OnSeatAvailable() {
	if !l.Waiting() || l.seat != nil {
		return
	}
	s := l.alloc.RequestSeat(l)
	if s == nil {
		return
	}
	l.cancelTimer()
	l.approachSeat(s)
}

// Waiting reports whether the customer is live and queued for a seat.
func (l *Lifecycle) Waiting() bool {
	return l.active && l.state == StateWaiting
}

// Update advances movement by dt and handles arrival.
func (l *Lifecycle) Update(dt time.Duration) {
	if !l.active {
		return
	}
	if l.state != StateMovingToSeat && l.state != StateMovingToExit {
		return
	}
	// Settling at the exit; the customer has already arrived.
	if l.timer.Active() {
		return
	}

	if l.snapped {
		l.snapped = false
		l.arrive()
		return
	}

	l.agent.Step(dt)
	switch l.agent.Status() {
	case nav.StatusArrived:
		l.arrive()
	case nav.StatusFailed, nav.StatusIdle:
		slog.Debug("customer lost its route, placing directly", "customer", l.id, "target", l.target)
		l.agent.WarpTo(l.target)
		l.arrive()
	}
}

// Serve hands the seated customer an item. The result only affects feedback.
func (l *Lifecycle) Serve(item string) error {
	if !l.active || l.state != StateSeated {
		return ErrNotSeated
	}
	if l.order == "" {
		return ErrNoOrder
	}
	if l.served {
		return ErrAlreadyServed
	}
	l.served = true
	l.servedCorrect = item == l.order
	l.emit(Event{Kind: EventOrderServed, Item: item, Correct: l.servedCorrect, Seat: l.seat.Id})
	return nil
}

// Teardown ends the visit unconditionally: pending timers and movement are
// cancelled, a queued customer leaves the queue and a held seat is freed.
// Calling it on an inactive customer does nothing.
func (l *Lifecycle) Teardown() {
	if !l.active {
		return
	}
	if l.state == StateWaiting {
		l.waited = l.sched.Now() - l.waitStart
	}
	l.active = false
	l.gen++
	l.cancelTimer()
	l.agent.Stop()
	l.snapped = false

	l.alloc.RemoveFromQueue(l)
	if l.seat != nil {
		s := l.seat
		l.seat = nil
		l.withdrawOrder(s)
		l.alloc.FreeSeat(s)
	}

	reason := l.reason
	if reason == "" {
		reason = ReasonReclaimed
	}
	l.sendFeedback(reason)
	l.setState(StateDespawning)
	l.emit(Event{Kind: EventDespawned, Reason: reason})
	l.state = StateIdle
}

func (l *Lifecycle) enterWaiting() {
	l.setState(StateWaiting)
	l.waitStart = l.sched.Now()
	l.patience = between(l.rng, l.profile.PatienceMin, l.profile.PatienceMax)
	l.timer = l.after(l.patience, l.patienceExpired)
}

func (l *Lifecycle) patienceExpired() {
	if l.state != StateWaiting {
		return
	}
	// One last try in case a wake-up was missed.
	if s := l.alloc.RequestSeat(l); s != nil {
		l.approachSeat(s)
		return
	}
	l.alloc.RemoveFromQueue(l)
	l.waited = l.sched.Now() - l.waitStart
	l.leave(ReasonAbandoned)
}

func (l *Lifecycle) approachSeat(s *seating.Seat) {
	l.seat = s
	if l.state == StateWaiting {
		l.waited = l.sched.Now() - l.waitStart
	}
	if l.patience == 0 {
		l.patience = l.profile.PatienceMax
	}
	l.setState(StateMovingToSeat)
	l.moveTo(s.Position)
}

func (l *Lifecycle) moveTo(target nav.Point) {
	l.target = target
	err := l.agent.NavigateTo(target)
	if err == nil && l.agent.OnNavigableSurface() {
		return
	}
	slog.Debug("customer cannot navigate, placing directly", "customer", l.id, "target", target, "error", err)
	l.agent.WarpTo(target)
	l.snapped = true
}

func (l *Lifecycle) arrive() {
	switch l.state {
	case StateMovingToSeat:
		l.wasSeated = true
		l.setState(StateSeated)
		l.placeOrder()
		l.timer = l.after(between(l.rng, l.profile.DwellMin, l.profile.DwellMax), l.dwellExpired)
	case StateMovingToExit:
		l.cancelTimer()
		l.timer = l.after(l.settle, func() { l.leave(ReasonCompleted) })
	}
}

func (l *Lifecycle) dwellExpired() {
	if l.state != StateSeated || l.seat == nil {
		return
	}
	s := l.seat
	l.seat = nil
	l.withdrawOrder(s)
	l.setStateWithSeat(StateMovingToExit, s.Id)
	l.alloc.FreeSeat(s)
	l.moveTo(l.anchor)
}

func (l *Lifecycle) placeOrder() {
	l.order = pick(l.rng, l.profile.Menu)
	if l.order == "" {
		return
	}
	l.emit(Event{Kind: EventOrderPlaced, Item: l.order, Seat: l.seat.Id})
}

func (l *Lifecycle) withdrawOrder(s *seating.Seat) {
	if l.order == "" || l.served {
		return
	}
	l.emit(Event{Kind: EventOrderWithdrawn, Item: l.order, Seat: s.Id})
}

// leave finishes the visit and hands the customer back to its pool.
func (l *Lifecycle) leave(reason string) {
	l.reason = reason
	if l.release != nil {
		l.release(l)
	}
	l.Teardown()
}

// sendFeedback rates the visit once, however it ended.
func (l *Lifecycle) sendFeedback(reason string) {
	if l.feedbackSent {
		return
	}
	l.feedbackSent = true
	score := Score(l.wasSeated, l.waited, l.patience, l.served, l.servedCorrect)
	l.emit(Event{
		Kind:         EventFeedback,
		Reason:       reason,
		Waited:       l.waited,
		Satisfaction: score,
		Mood:         Mood(score),
		Correct:      l.servedCorrect,
	})
}

// after schedules fn guarded against teardown and reuse of this instance.
func (l *Lifecycle) after(d time.Duration, fn func()) *sched.Timer {
	gen := l.gen
	return l.sched.After(d, func() {
		if !l.active || l.gen != gen {
			return
		}
		l.timer = nil
		fn()
	})
}

func (l *Lifecycle) cancelTimer() {
	l.timer.Cancel()
	l.timer = nil
}

func (l *Lifecycle) setState(to State) {
	seat := ""
	if l.seat != nil {
		seat = l.seat.Id
	}
	l.setStateWithSeat(to, seat)
}

func (l *Lifecycle) setStateWithSeat(to State, seat string) {
	from := l.state
	l.state = to
	l.emit(Event{Kind: EventTransition, From: from, To: to, Seat: seat})
}

func (l *Lifecycle) emit(e Event) {
	e.Customer = l.id
	e.Patron = l.profile.Patron
	e.At = l.sched.Now()
	for _, o := range l.observers {
		o.OnEvent(e)
	}
}

var _ seating.Waiter = (*Lifecycle)(nil)
