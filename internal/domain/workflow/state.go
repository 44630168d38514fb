package workflow

// State represents a state in the expense approval lifecycle
type State string

const (
	StatePending  State = "PENDING"
	StateApproved State = "APPROVED"
	StateRejected State = "REJECTED"
	StatePaid     State = "PAID"
)

var validStates = map[State]bool{
	StatePending:  true,
	StateApproved: true,
	StateRejected: true,
	StatePaid:     true,
}

var terminalStates = map[State]bool{
	StateRejected: true,
	StatePaid:     true,
}

// IsTerminal returns true if the state is a terminal state (no further transitions allowed)
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state is a valid lifecycle state
func (s State) IsValid() bool {
	return validStates[s]
}
