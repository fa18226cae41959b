package core

// BasicAgent carries the attributes every agent kind shares: what it is for,
// the role name it reports under, its current state and the messages it has
// exchanged with the model. A BasicAgent is owned by exactly one agent and is
// never shared.
//
// Memory accumulates request/answer pairs for later inspection. It is not
// replayed to the model; every request is single-shot.
type BasicAgent struct {
	Objective string     `json:"objective"`
	Position  string     `json:"position"`
	State     AgentState `json:"state"`
	Memory    []Message  `json:"memory,omitempty"`
}

// NewBasicAgent returns a BasicAgent in StateDiscovery with empty memory.
func NewBasicAgent(objective, position string) BasicAgent {
	return BasicAgent{
		Objective: objective,
		Position:  position,
		State:     StateDiscovery,
	}
}

// UpdateState moves the agent to the given state.
func (b *BasicAgent) UpdateState(s AgentState) { b.State = s }

// Remember appends messages to the agent's memory.
func (b *BasicAgent) Remember(msgs ...Message) { b.Memory = append(b.Memory, msgs...) }

// IsFinished reports whether the agent reached its terminal state.
func (b *BasicAgent) IsFinished() bool { return b.State.IsTerminal() }
