package nav

import "time"

const (
	DefaultSpeed = 2.0 // floor units per second

	// arrivalRadius absorbs float drift when the last step lands on the target.
	arrivalRadius = 0.01
)

// Agent walks in a straight line toward its target at a fixed speed. A
// target outside the walkable area is refused, and an agent standing off the
// area fails any move it is asked to make.
type Agent struct {
	area   Area
	speed  float64
	pos    Point
	target Point
	status Status
}

type AgentOpt func(*Agent)

// WithSpeed sets the walking speed in floor units per second.
func WithSpeed(speed float64) AgentOpt {
	return func(a *Agent) {
		if speed > 0 {
			a.speed = speed
		}
	}
}

func NewAgent(area Area, opts ...AgentOpt) *Agent {
	a := &Agent{
		area:  area,
		speed: DefaultSpeed,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SetSpeed changes the walking speed of later steps.
func (a *Agent) SetSpeed(speed float64) {
	if speed > 0 {
		a.speed = speed
	}
}

func (a *Agent) NavigateTo(target Point) error {
	if !a.area.Contains(target) {
		a.status = StatusFailed
		return ErrUnreachable
	}
	a.target = target
	a.status = StatusMoving
	return nil
}

func (a *Agent) Status() Status {
	return a.status
}

// Step advances the agent toward its target by speed*dt.
func (a *Agent) Step(dt time.Duration) {
	if a.status != StatusMoving {
		return
	}
	if !a.OnNavigableSurface() {
		a.status = StatusFailed
		return
	}

	remaining := a.pos.Dist(a.target)
	travel := a.speed * dt.Seconds()
	if travel >= remaining || remaining <= arrivalRadius {
		a.pos = a.target
		a.status = StatusArrived
		return
	}

	ratio := travel / remaining
	a.pos = Point{
		X: a.pos.X + (a.target.X-a.pos.X)*ratio,
		Y: a.pos.Y + (a.target.Y-a.pos.Y)*ratio,
	}
}

func (a *Agent) Stop() {
	a.status = StatusIdle
}

// WarpTo places the agent instantly and clears any pending move.
func (a *Agent) WarpTo(p Point) {
	a.pos = p
	a.status = StatusIdle
}

func (a *Agent) Position() Point {
	return a.pos
}

func (a *Agent) OnNavigableSurface() bool {
	return a.area.Contains(a.pos)
}

var _ Navigator = (*Agent)(nil)
