package core

// AgentState enumerates the states of an agent's finite-state machine. Every
// agent starts in StateDiscovery; StateFinished is always terminal. Agent kinds
// use the subset they need.
type AgentState int

const (
	// StateDiscovery is the initial state of every agent.
	StateDiscovery AgentState = iota
	// StateWorking is used by agents that refine an artifact over several passes.
	StateWorking
	// StateUnitTesting validates what the previous states produced.
	StateUnitTesting
	// StateFinished is terminal.
	StateFinished
)

// String returns the string representation of the state.
func (s AgentState) String() string {
	switch s {
	case StateDiscovery:
		return "discovery"
	case StateWorking:
		return "working"
	case StateUnitTesting:
		return "unit_testing"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether the state ends an agent's execute loop.
func (s AgentState) IsTerminal() bool { return s == StateFinished }
