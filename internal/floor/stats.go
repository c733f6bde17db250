package floor

import (
	"github.com/pixil98/go-cafe/internal/customer"
)

// Stats are running totals for the current process.
type Stats struct {
	Arrived      int     `json:"arrived"`
	Seated       int     `json:"seated"`
	Completed    int     `json:"completed"`
	Abandoned    int     `json:"abandoned"`
	Reclaimed    int     `json:"reclaimed"`
	ServedRight  int     `json:"served_right"`
	ServedWrong  int     `json:"served_wrong"`
	Feedback     int     `json:"feedback"`
	Satisfaction float64 `json:"satisfaction"`

	satisfactionSum float64
}

// OnEvent folds a customer event into the totals.
func (s *Stats) OnEvent(e customer.Event) {
	switch e.Kind {
	case customer.EventTransition:
		if e.From == customer.StateIdle {
			s.Arrived++
		}
		if e.To == customer.StateSeated {
			s.Seated++
		}
	case customer.EventOrderServed:
		if e.Correct {
			s.ServedRight++
		} else {
			s.ServedWrong++
		}
	case customer.EventFeedback:
		s.Feedback++
		s.satisfactionSum += e.Satisfaction
		s.Satisfaction = s.satisfactionSum / float64(s.Feedback)
	case customer.EventDespawned:
		switch e.Reason {
		case customer.ReasonCompleted:
			s.Completed++
		case customer.ReasonAbandoned:
			s.Abandoned++
		default:
			s.Reclaimed++
		}
	}
}
