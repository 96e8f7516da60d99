package progress

import "fmt"

// State is the lifecycle of one file's simulated upload
type State int

const (
	StatePending    State = iota // selected, no tick yet
	StateTicking                 // timer running
	StateDone                    // counter reached the size, timer cancelled
	StateSuperseded              // replaced by a newer selection before finishing
)

var stateNames = map[State]string{
	StatePending:    "pending",
	StateTicking:    "ticking",
	StateDone:       "done",
	StateSuperseded: "superseded",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Finished reports whether the timer for the file is cancelled
func (s State) Finished() bool {
	return s == StateDone || s == StateSuperseded
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for state, name := range stateNames {
		if name == string(text) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", string(text))
}
