package messaging

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/pixil98/go-cafe/internal/customer"
)

// SubjectPrefix roots every customer event subject:
// cafe.customer.<customer id>.<event kind>.
const SubjectPrefix = "cafe.customer"

// Publisher sends raw messages on a subject.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Subscriber delivers raw messages for a subject pattern.
type Subscriber interface {
	Subscribe(subject string, handler func(subject string, data []byte)) (func(), error)
}

// EventSubject is the subject an event for customerID of the given kind is
// published on. An empty customerID or kind matches any.
func EventSubject(customerID string, kind customer.EventKind) string {
	id, k := customerID, string(kind)
	if id == "" {
		id = "*"
	}
	if k == "" {
		k = "*"
	}
	return strings.Join([]string{SubjectPrefix, id, k}, ".")
}

// EventPublisher publishes every customer event it observes as JSON.
type EventPublisher struct {
	pub Publisher
}

func NewEventPublisher(pub Publisher) *EventPublisher {
	return &EventPublisher{pub: pub}
}

// OnEvent never blocks the simulation; failures are logged and the event is
// dropped.
func (p *EventPublisher) OnEvent(e customer.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		slog.Warn("encoding customer event", "customer", e.Customer, "kind", e.Kind, "error", err)
		return
	}

	err = p.pub.Publish(EventSubject(e.Customer, e.Kind), data)
	if err != nil {
		slog.Debug("publishing customer event", "customer", e.Customer, "kind", e.Kind, "error", err)
	}
}

// SubscribeEvents decodes events for customerID (or every customer when
// empty) and hands them to fn.
func SubscribeEvents(sub Subscriber, customerID string, fn func(customer.Event)) (func(), error) {
	subject := EventSubject(customerID, "")
	return sub.Subscribe(subject, func(subj string, data []byte) {
		var e customer.Event
		err := json.Unmarshal(data, &e)
		if err != nil {
			slog.Warn("decoding customer event", "subject", subj, "error", err)
			return
		}
		fn(e)
	})
}

var _ customer.Observer = (*EventPublisher)(nil)
