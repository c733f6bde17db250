package customer

import "time"

type EventKind string

const (
	EventTransition     EventKind = "transition"
	EventOrderPlaced    EventKind = "order_placed"
	EventOrderServed    EventKind = "order_served"
	EventOrderWithdrawn EventKind = "order_withdrawn"
	EventFeedback       EventKind = "feedback"
	EventDespawned      EventKind = "despawned"
)

// Reasons a visit ended, carried on EventDespawned and EventFeedback.
const (
	ReasonCompleted = "completed"
	ReasonAbandoned = "abandoned"
	ReasonReclaimed = "reclaimed"
)

// Event describes something observable that happened to a customer.
// Only the fields relevant to Kind are set.
type Event struct {
	Kind     EventKind     `json:"kind"`
	Customer string        `json:"customer"`
	Patron   string        `json:"patron,omitempty"`
	At       time.Duration `json:"at"`

	From State  `json:"from,omitempty"`
	To   State  `json:"to,omitempty"`
	Seat string `json:"seat,omitempty"`

	Item    string `json:"item,omitempty"`
	Correct bool   `json:"correct,omitempty"`

	Waited       time.Duration `json:"waited,omitempty"`
	Satisfaction float64       `json:"satisfaction,omitempty"`
	Mood         string        `json:"mood,omitempty"`

	Reason string `json:"reason,omitempty"`
}

// Observer receives customer events on the simulation goroutine. It must not
// block.
type Observer interface {
	OnEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) OnEvent(e Event) {
	f(e)
}
