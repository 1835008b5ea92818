package tunnel

// State of a Supervisor.
type State int

// Supervisor states.
const (
	StateNotStarted State = iota
	StateProbing
	StateStable
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "NotStarted"
	case StateProbing:
		return "Probing"
	case StateStable:
		return "Stable"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}
