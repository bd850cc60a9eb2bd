package model

// State represents the current State of a transaction
type State string

const (
	StatePending   State = "pending"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// IsTerminal reports whether no further state change can happen.
func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateFailed
}
