package customer

import "fmt"

// State is a step of a customer's visit.
type State int

const (
	StateIdle State = iota
	StateWaiting
	StateMovingToSeat
	StateSeated
	StateMovingToExit
	StateDespawning
)

var stateNames = map[State]string{
	StateIdle:         "idle",
	StateWaiting:      "waiting",
	StateMovingToSeat: "moving_to_seat",
	StateSeated:       "seated",
	StateMovingToExit: "moving_to_exit",
	StateDespawning:   "despawning",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for st, name := range stateNames {
		if name == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown customer state: %s", text)
}
