package mutate

// State tracks a mutable relation through the optimistic write lifecycle.
type State int

const (
	// StateIdle: no write in flight.
	StateIdle State = iota
	// StatePending: the local edit is applied and the write is in flight.
	StatePending
	// StateConfirmed: the store accepted the write; the next snapshot for
	// the path supersedes the local edit.
	StateConfirmed
	// StateRolledBack: the store rejected the write and the local edit was
	// reverted.
	StateRolledBack
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateConfirmed:
		return "confirmed"
	case StateRolledBack:
		return "rolled back"
	default:
		return "unknown"
	}
}
